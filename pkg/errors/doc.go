// Package errors provides structured error types for better observability
// and programmatic error handling across autodoc.
//
// Only persistence and configuration failures are ever returned from a
// documentation pass; describer failures, timeouts and dangling references are
// recorded and logged with their code instead.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodePersistence,
//	    "failed to append snapshot",
//	    cause,
//	    map[string]any{
//	        "path": "autodoc.log",
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodePersistence) {
//	    // pass failed
//	}
package errors

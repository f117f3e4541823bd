// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "no cause",
			err:  New(ErrCodeInvalidRequest, "unknown output format \"xml\""),
			want: `[INVALID_REQUEST] unknown output format "xml"`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeConfiguration, "reading autodoc.yaml", fs.ErrNotExist),
			want: "[CONFIGURATION] reading autodoc.yaml: file does not exist",
		},
		{
			name: "context is not rendered",
			err: NewWithContext(ErrCodeDanglingReference, "relation target missing",
				map[string]any{"from": "app", "to": "c1"}),
			want: "[DANGLING_REFERENCE] relation target missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapWithContext_KeepsFields(t *testing.T) {
	err := WrapWithContext(ErrCodeDescriberFailure, "describer failed", context.DeadlineExceeded,
		map[string]any{"describer": "container"})

	assert.Equal(t, ErrCodeDescriberFailure, err.Code)
	assert.Equal(t, "container", err.Context["describer"])
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// A describer timeout reported by the engine and then folded into a failed
// snapshot write stays visible under both codes.
func TestIsCode_ThroughChain(t *testing.T) {
	timeout := Wrap(ErrCodeTimeout, "describer \"host\" timed out", context.DeadlineExceeded)
	persist := Wrap(ErrCodePersistence, "writing snapshot", fmt.Errorf("run %s: %w", "r-1", timeout))
	outer := fmt.Errorf("autodoc run: %w", persist)

	assert.True(t, IsCode(outer, ErrCodePersistence))
	assert.True(t, IsCode(outer, ErrCodeTimeout))
	assert.False(t, IsCode(outer, ErrCodeConfiguration))
	assert.ErrorIs(t, outer, context.DeadlineExceeded)

	var se *StructuredError
	require.ErrorAs(t, outer, &se)
	assert.Equal(t, ErrCodePersistence, se.Code)
}

func TestIsCode_NoStructuredError(t *testing.T) {
	assert.False(t, IsCode(nil, ErrCodeInternal))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeInternal))
	assert.False(t, IsCode(fmt.Errorf("wrapped: %w", fs.ErrPermission), ErrCodePersistence))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		def  ErrorCode
		want ErrorCode
	}{
		{"nil uses default", nil, ErrCodeInternal, ErrCodeInternal},
		{"plain error uses default", stderrors.New("boom"), ErrCodeDescriberFailure, ErrCodeDescriberFailure},
		{"direct", New(ErrCodeTimeout, "slow"), ErrCodeInternal, ErrCodeTimeout},
		{"outermost wins", Wrap(ErrCodePersistence, "save", New(ErrCodeTimeout, "slow")), ErrCodeInternal, ErrCodePersistence},
		{"behind fmt wrap", fmt.Errorf("ctx: %w", New(ErrCodeConfiguration, "bad")), ErrCodeInternal, ErrCodeConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err, tt.def))
		})
	}
}

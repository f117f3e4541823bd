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

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
)

// Format is the record encoding of the file store.
type Format string

const (
	// FormatJSON writes one single line JSON object per snapshot.
	FormatJSON Format = "json"
	// FormatYAML writes one YAML document per snapshot, each starting with "---".
	FormatYAML Format = "yaml"
)

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

const yamlDocumentStart = "---\n"

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFormat sets the record format. Unknown formats fall back to JSON.
func WithFormat(f Format) FileOption {
	return func(s *FileStore) {
		s.format = f
	}
}

// FileStore appends snapshots to a local file, one record per snapshot.
// Existing records are never rewritten.
type FileStore struct {
	path   string
	format Format
	mu     sync.Mutex
}

// NewFileStore creates a file store for path. An empty path uses the default
// snapshot log.
func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if path == "" {
		path = defaults.FilePath
	}
	s := &FileStore{path: path, format: FormatJSON}
	for _, opt := range opts {
		opt(s)
	}
	if s.format == "" || s.format.IsUnknown() {
		slog.Warn("unknown file format, defaulting to JSON", "format", s.format)
		s.format = FormatJSON
	}
	return s, nil
}

// Name implements Store.
func (s *FileStore) Name() string { return "file" }

// Path returns the target file.
func (s *FileStore) Path() string { return s.path }

// Write appends one record. The file is created with mode 0644 when absent.
func (s *FileStore) Write(ctx context.Context, snap *graph.Snapshot) error {
	if snap == nil {
		return aderrors.New(aderrors.ErrCodeInvalidRequest, "snapshot is nil")
	}
	if err := ctx.Err(); err != nil {
		return persistenceError(s.Name(), "write canceled", err)
	}

	record, err := s.encode(snap)
	if err != nil {
		return persistenceError(s.Name(), "failed to encode snapshot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return persistenceError(s.Name(), fmt.Sprintf("failed to open %s", s.path), err)
	}

	if _, err := f.Write(record); err != nil {
		_ = f.Close()
		return persistenceError(s.Name(), fmt.Sprintf("failed to append to %s", s.path), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return persistenceError(s.Name(), fmt.Sprintf("failed to sync %s", s.path), err)
	}
	if err := f.Close(); err != nil {
		return persistenceError(s.Name(), fmt.Sprintf("failed to close %s", s.path), err)
	}

	slog.Debug("snapshot appended", "path", s.path, "format", s.format, "bytes", len(record))
	return nil
}

func (s *FileStore) encode(snap *graph.Snapshot) ([]byte, error) {
	switch s.format {
	case FormatYAML:
		var buf bytes.Buffer
		buf.WriteString(yamlDocumentStart)
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return nil, fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		b, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return append(b, '\n'), nil
	}
}

// ReadRecords parses every record of a snapshot file written in either
// format. The format is detected from the first non-blank byte.
func ReadRecords(path string) ([]*graph.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		return decodeRecords(json.NewDecoder(bytes.NewReader(trimmed)))
	}
	return decodeRecords(yaml.NewDecoder(bytes.NewReader(trimmed)))
}

type decoder interface {
	Decode(v any) error
}

func decodeRecords(dec decoder) ([]*graph.Snapshot, error) {
	var res []*graph.Snapshot
	for {
		snap := &graph.Snapshot{}
		err := dec.Decode(snap)
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("failed to decode record %d: %w", len(res)+1, err)
		}
		if !snap.Kind.IsValid() {
			return res, fmt.Errorf("record %d is not a snapshot: kind %q", len(res)+1, snap.Kind)
		}
		res = append(res, snap)
	}
}

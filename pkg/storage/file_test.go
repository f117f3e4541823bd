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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
	"github.com/NVIDIA/autodoc/pkg/header"
)

func TestFileStore_AppendsRecords(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "autodoc.log")
			st, err := NewFileStore(path, WithFormat(format))
			require.NoError(t, err)

			first := testSnapshot(t, "first")
			second := testSnapshot(t, "second")
			require.NoError(t, st.Write(context.Background(), first))
			require.NoError(t, st.Write(context.Background(), second))

			records, err := ReadRecords(path)
			require.NoError(t, err)
			require.Len(t, records, 2)

			assert.Equal(t, "first", records[0].Metadata[header.MetaID])
			assert.Equal(t, "second", records[1].Metadata[header.MetaID])
			assert.Equal(t, header.KindSnapshot, records[0].Kind)
			assert.Equal(t, graph.APIVersion, records[0].APIVersion)
			assert.Equal(t, first.Items, records[0].Items)
			assert.Equal(t, first.Relations, records[0].Relations)
		})
	}
}

func TestFileStore_JSONSingleLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autodoc.log")
	st, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, st.Write(context.Background(), testSnapshot(t, "a")))
	require.NoError(t, st.Write(context.Background(), testSnapshot(t, "b")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestFileStore_YAMLDocumentStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autodoc.yaml")
	st, err := NewFileStore(path, WithFormat(FormatYAML))
	require.NoError(t, err)

	require.NoError(t, st.Write(context.Background(), testSnapshot(t, "a")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("---\n")))
	assert.Contains(t, string(data), "kind: Snapshot")
}

func TestFileStore_KeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autodoc.log")
	st, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, st.Write(context.Background(), testSnapshot(t, "a")))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, st.Write(context.Background(), testSnapshot(t, "b")))
	after, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(after, before))
}

func TestFileStore_Defaults(t *testing.T) {
	st, err := NewFileStore("", WithFormat("xml"))
	require.NoError(t, err)
	assert.Equal(t, "autodoc.log", st.Path())
	assert.Equal(t, FormatJSON, st.format)
	assert.Equal(t, "file", st.Name())
}

func TestFileStore_WriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "autodoc.log")
	st, err := NewFileStore(path)
	require.NoError(t, err)

	err = st.Write(context.Background(), testSnapshot(t, "a"))
	require.Error(t, err)
	assert.True(t, aderrors.IsCode(err, aderrors.ErrCodePersistence))
}

func TestFileStore_Canceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autodoc.log")
	st, err := NewFileStore(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = st.Write(ctx, testSnapshot(t, "a"))
	require.Error(t, err)
	assert.True(t, aderrors.IsCode(err, aderrors.ErrCodePersistence))
	assert.NoFileExists(t, path)
}

func TestReadRecords(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.log")
	require.NoError(t, os.WriteFile(empty, []byte("\n  \n"), 0o600))
	records, err := ReadRecords(empty)
	require.NoError(t, err)
	assert.Empty(t, records)

	broken := filepath.Join(dir, "broken.log")
	require.NoError(t, os.WriteFile(broken, []byte("{\"kind\":\"Snapshot\"}\n{\"kind\":"), 0o600))
	records, err = ReadRecords(broken)
	require.Error(t, err)
	assert.Len(t, records, 1)

	foreign := filepath.Join(dir, "foreign.log")
	require.NoError(t, os.WriteFile(foreign, []byte("{\"kind\":\"Recipe\"}\n"), 0o600))
	_, err = ReadRecords(foreign)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a snapshot")

	_, err = ReadRecords(filepath.Join(dir, "missing.log"))
	assert.Error(t, err)
}

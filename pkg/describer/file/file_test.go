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

package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

func TestNewParser_Defaults(t *testing.T) {
	p := NewParser()
	assert.Equal(t, "/", p.root)
	assert.Empty(t, p.vTrimChars)
}

func TestParser_Path(t *testing.T) {
	assert.Equal(t, "/proc/self/cgroup", NewParser().Path("/proc/self/cgroup"))
	assert.Equal(t, filepath.Join("/tmp/x", "proc/self/cgroup"), NewParser(WithRoot("/tmp/x")).Path("/proc/self/cgroup"))
}

func TestParser_GetLines(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/proc/self/cgroup", "# header\n0::/docker/abc\n\n  1:cpu:/  \n")

	got, err := NewParser(WithRoot(root)).GetLines("/proc/self/cgroup")
	require.NoError(t, err)
	assert.Equal(t, []string{"0::/docker/abc", "1:cpu:/"}, got)
}

func TestParser_GetLines_Errors(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "big", strings.Repeat("x", maxSize+1))
	writeFixture(t, root, "binary", string([]byte{0xff, 0xfe, 0xfd}))

	p := NewParser(WithRoot(root))

	_, err := p.GetLines("")
	assert.Error(t, err)

	_, err = p.GetLines("missing")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))

	_, err = p.GetLines("big")
	assert.ErrorContains(t, err, "exceeds maximum size")

	_, err = p.GetLines("binary")
	assert.ErrorContains(t, err, "not valid UTF-8")
}

func TestParser_GetMap(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/etc/os-release", "NAME=\"Ubuntu\"\nVERSION_ID='24.04'\nNOVALUE\n# comment=1\n")

	got, err := NewParser(WithRoot(root), WithVTrimChars("\"'")).GetMap("/etc/os-release")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"NAME": "Ubuntu", "VERSION_ID": "24.04"}, got)
}

func TestParser_Exists(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "/.dockerenv", "")

	p := NewParser(WithRoot(root))
	assert.True(t, p.Exists("/.dockerenv"))
	assert.False(t, p.Exists("/nope"))
}

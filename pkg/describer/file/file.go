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
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// maxSize is the largest file, in bytes, the parser accepts.
	maxSize = 1 << 20

	kvDelimiter = "="
)

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small line oriented system files such as /proc/self/cgroup or
// /etc/os-release. Blank lines and lines starting with '#' are dropped. All paths are resolved under a root directory, which is
// "/" unless overridden.
type Parser struct {
	root       string
	vTrimChars string
}

// WithRoot resolves every path under dir. Used to read a mounted host
// filesystem or a test fixture tree.
func WithRoot(dir string) Option {
	return func(p *Parser) {
		p.root = dir
	}
}

// WithVTrimChars sets characters trimmed from both ends of GetMap values.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// NewParser creates a parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{root: "/"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns path resolved under the parser root.
func (p *Parser) Path(path string) string {
	if p.root == "" || p.root == "/" {
		return path
	}
	return filepath.Join(p.root, path)
}

// Exists reports whether path exists under the parser root.
func (p *Parser) Exists(path string) bool {
	_, err := os.Stat(p.Path(path))
	return err == nil
}

// GetLines reads path and returns its non-empty, trimmed entries.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	full := p.Path(path)
	b, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", full, err)
	}

	if len(b) > maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", full, maxSize)
	}

	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", full)
	}

	parts := strings.Split(string(b), "\n")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}

	return result, nil
}

// GetMap reads path and splits each entry on "=".
// Entries without a delimiter are skipped.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, kvDelimiter)
		if !ok {
			slog.Debug("skipping line without value", "line", line, "delimiter", kvDelimiter)
			continue
		}
		value = strings.TrimSpace(value)
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		result[strings.TrimSpace(key)] = value
	}

	return result, nil
}

// IsNotExist reports whether err was caused by a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

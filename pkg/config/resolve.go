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

package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Entry is one flattened configuration value and the leaf source that supplied it.
type Entry struct {
	Key    string
	Value  string
	Origin string
}

// Flat is the result of resolving a source tree: one value per key, last
// writer wins in traversal order.
type Flat struct {
	entries   map[string]Entry
	defaulted bool
}

func newFlat() *Flat {
	return &Flat{entries: make(map[string]Entry)}
}

// Resolve flattens the source tree rooted at root depth-first, preserving
// child order. A composite reached a second time, through sharing or a cycle,
// is skipped. On key collision the value met later in traversal wins.
func Resolve(root Source) *Flat {
	flat := newFlat()
	if root == nil {
		return flat
	}
	flat.dive(root, make(map[*CompositeSource]struct{}))
	return flat
}

func (f *Flat) dive(src Source, visited map[*CompositeSource]struct{}) {
	switch s := src.(type) {
	case *MapSource:
		if s == nil {
			return
		}
		flattenInto(f.entries, s.values, "", s.name)
	case *CompositeSource:
		if s == nil {
			return
		}
		if _, seen := visited[s]; seen {
			slog.Debug("skipping already visited configuration source", "source", s.name)
			return
		}
		visited[s] = struct{}{}
		for _, child := range s.children {
			f.dive(child, visited)
		}
	}
}

// flattenInto converts nested maps and lists into dot-notation entries.
// Lists use an index suffix, e.g. servers[0].host. Keys are visited in
// sorted order, so when a leaf spells the same path both as a dotted key
// and as nested maps the dotted key wins.
func flattenInto(out map[string]Entry, values map[string]any, prefix, origin string) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		flattenValue(out, joinKey(prefix, key), values[key], origin)
	}
}

func flattenValue(out map[string]Entry, key string, value any, origin string) {
	switch v := value.(type) {
	case map[string]any:
		flattenInto(out, v, key, origin)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, nested := range v {
			converted[fmt.Sprint(k)] = nested
		}
		flattenInto(out, converted, key, origin)
	case []any:
		for i, nested := range v {
			flattenValue(out, fmt.Sprintf("%s[%d]", key, i), nested, origin)
		}
	case nil:
		out[key] = Entry{Key: key, Value: "", Origin: origin}
	default:
		out[key] = Entry{Key: key, Value: fmt.Sprint(v), Origin: origin}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}

// Scope keeps only keys under "prefix." and strips that prefix. The returned
// Flat is independent of f.
func (f *Flat) Scope(prefix string) *Flat {
	scoped := newFlat()
	p := strings.TrimSuffix(prefix, ".") + "."
	for key, e := range f.entries {
		if !strings.HasPrefix(key, p) || len(key) == len(p) {
			continue
		}
		e.Key = strings.TrimPrefix(key, p)
		scoped.entries[e.Key] = e
	}
	return scoped
}

// Get returns the value for key.
func (f *Flat) Get(key string) (string, bool) {
	e, ok := f.entries[key]
	return e.Value, ok
}

// GetOr returns the value for key, or def when the key is absent or empty.
func (f *Flat) GetOr(key, def string) string {
	if v, ok := f.Get(key); ok && v != "" {
		return v
	}
	return def
}

// Entry returns the full entry for key.
func (f *Flat) Entry(key string) (Entry, bool) {
	e, ok := f.entries[key]
	return e, ok
}

// Entries returns all entries sorted by key.
func (f *Flat) Entries() []Entry {
	res := make([]Entry, 0, len(f.entries))
	for _, e := range f.entries {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res
}

// Map returns a plain key to value copy.
func (f *Flat) Map() map[string]string {
	res := make(map[string]string, len(f.entries))
	for k, e := range f.entries {
		res[k] = e.Value
	}
	return res
}

// Len returns the number of keys.
func (f *Flat) Len() int {
	return len(f.entries)
}

// IsEmpty reports whether no key was resolved.
func (f *Flat) IsEmpty() bool {
	return len(f.entries) == 0
}

// Defaulted reports whether the values come from the built-in defaults
// because the scoped configuration was empty.
func (f *Flat) Defaulted() bool {
	return f.defaulted
}

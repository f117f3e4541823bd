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
	_ "embed"
	"log/slog"
	"sync"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	defaultsOnce sync.Once
	defaultsFlat *Flat
)

// Defaults returns the built-in configuration. The embedded document is
// parsed once; callers receive an independent copy.
func Defaults() *Flat {
	defaultsOnce.Do(func() {
		src, err := FromYAML("defaults.yaml", defaultsYAML)
		if err != nil {
			// embedded at build time, only reachable with a broken binary
			panic(err)
		}
		defaultsFlat = Resolve(src)
	})
	res := newFlat()
	for k, e := range defaultsFlat.entries {
		res.entries[k] = e
	}
	res.defaulted = true
	return res
}

// Load resolves root and scopes it to prefix. When no key is found under the
// prefix, the built-in defaults are returned instead. An empty configuration
// is not an error.
func Load(root Source, prefix string) *Flat {
	scoped := Resolve(root).Scope(prefix)
	if !scoped.IsEmpty() {
		slog.Debug("configuration resolved", "prefix", prefix, "keys", scoped.Len())
		return scoped
	}
	slog.Info("no configuration found, using built-in defaults", "prefix", prefix)
	return Defaults()
}

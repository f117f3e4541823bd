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
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
)

// FromYAML parses a YAML document into a leaf source. Nested mappings are
// kept as-is and flattened on resolve.
func FromYAML(name string, data []byte) (*MapSource, error) {
	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, aderrors.WrapWithContext(aderrors.ErrCodeConfiguration,
			"failed to parse YAML configuration", err, map[string]any{"source": name})
	}
	return NewMapSource(name, values), nil
}

// FromYAMLFile reads and parses a YAML file into a leaf source named after the path.
func FromYAMLFile(path string) (*MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, aderrors.WrapWithContext(aderrors.ErrCodeConfiguration,
			"failed to read configuration file", err, map[string]any{"path": path})
	}
	return FromYAML(path, data)
}

// FromEnv builds a leaf source from environment entries ("KEY=value") whose
// key starts with prefix followed by an underscore. Keys are lower-cased,
// single underscores become dots and double underscores become dashes:
//
//	AUTODOC_STORAGE_TYPE=index          -> autodoc.storage.type=index
//	AUTODOC_STORAGE_OCI_PLAIN__HTTP=1   -> autodoc.storage.oci.plain-http=1
func FromEnv(prefix string, environ []string) *MapSource {
	values := make(map[string]any)
	want := strings.ToUpper(prefix) + "_"
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(strings.ToUpper(key), want) {
			continue
		}
		values[envKey(key)] = value
	}
	return NewMapSource("env", values)
}

func envKey(key string) string {
	k := strings.ToLower(key)
	k = strings.ReplaceAll(k, "__", "\x00")
	k = strings.ReplaceAll(k, "_", ".")
	return strings.ReplaceAll(k, "\x00", "-")
}

// FromPairs builds a leaf source from "key=value" pairs, as given on a
// command line. Keys are used verbatim.
func FromPairs(name string, pairs []string) (*MapSource, error) {
	values := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, aderrors.New(aderrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid key=value pair: %q", p))
		}
		values[key] = strings.TrimSpace(value)
	}
	return NewMapSource(name, values), nil
}

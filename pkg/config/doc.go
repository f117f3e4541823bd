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

// Package config resolves a layered configuration source tree into a flat,
// namespace scoped key/value view.
//
// A tree is built from leaf sources (maps, YAML documents, environment
// variables, command line pairs) grouped into ordered composites. Composites
// may be shared and may even reference an ancestor:
//
//	overlay := config.NewCompositeSource("overlay", fileSrc)
//	root := config.NewCompositeSource("root", defaultsSrc, overlay)
//	overlay.Add(root) // cycle, resolved once
//
//	flat := config.Load(root, "autodoc")
//	settings, err := config.NewSettings(flat)
//
// Resolution is depth-first in child order and last writer wins. When nothing
// is found under the namespace, Load returns the embedded defaults.
package config

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

// Package file reads line oriented system files for describers.
//
// Parse /etc/os-release into a map:
//
//	p := file.NewParser(file.WithVTrimChars(`"`))
//	release, err := p.GetMap("/etc/os-release")
//
// Read /proc/self/cgroup line by line:
//
//	lines, err := file.NewParser().GetLines("/proc/self/cgroup")
//
// Paths are resolved under a root directory (WithRoot), which lets callers
// point the parser at a fixture tree or a mounted host filesystem.
package file

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

// Package describer provides the environment describers that populate the
// documentation graph: the host, the Docker container (when present) and the
// application itself.
//
// Describers are created by a Factory and returned in a fixed order by Default:
//
//	for _, d := range describer.Default(settings) {
//	    items, err := d.Describe(ctx)
//	    ...
//	}
//
// A describer returns zero or more items and an error only when it could not
// produce its primary item. Optional attributes that cannot be determined are
// omitted. Callers are expected to bound each call with a deadline.
package describer

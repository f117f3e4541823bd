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

// Package graph holds the documentation graph assembled during one pass.
//
// Items are environment entities (host, container, application) identified by
// ID; putting an item with a known ID merges its attributes into the existing
// node rather than creating a second one. Relations are directed, labeled
// edges whose endpoints must already be registered:
//
//	s := graph.NewStore()
//	_ = s.Put(graph.NewItem("app", graph.TypeApplication))
//	_ = s.Put(graph.NewItem("host", graph.TypeHost))
//	if err := s.Link("app", "host", graph.LabelDeployedOn); err != nil {
//	    var dangling *graph.DanglingReferenceError
//	    // errors.As(err, &dangling)
//	}
//
// Lookups by type return nodes in insertion order and an empty result when no
// node of that type exists; absence is never an error.
package graph

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

// Package engine runs autodoc documentation passes.
//
// A pass resolves configuration, runs every describer with a per-describer
// timeout, links the discovered items into a host/container/application
// topology and writes the resulting snapshot to the configured store.
//
// States move forward only:
//
//	Idle -> Configuring -> Collecting -> Linking -> Persisted
//	                 \                                  /
//	                  +-------------> Failed <----------+
//
// Describer failures, panics and timeouts are recorded as skip entries in
// the snapshot and never fail the pass. Configuration errors and storage
// errors do.
//
// Usage:
//
//	res, err := engine.New(
//	    engine.WithSource(src),
//	    engine.WithVersion(version),
//	).Run(ctx)
//
// Host programs that only want best-effort documentation at startup use
// RunOnce, which logs failures instead of returning them.
package engine

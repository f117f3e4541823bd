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

package engine

// State is the lifecycle position of a documentation pass.
type State int32

const (
	StateIdle State = iota
	StateConfiguring
	StateCollecting
	StateLinking
	StatePersisted
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "Idle",
	StateConfiguring: "Configuring",
	StateCollecting:  "Collecting",
	StateLinking:     "Linking",
	StatePersisted:   "Persisted",
	StateFailed:      "Failed",
}

// String returns the state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition can happen.
func (s State) IsTerminal() bool {
	return s == StatePersisted || s == StateFailed
}

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

// Package header provides the common header carried by autodoc snapshots.
//
// The Header follows Kubernetes-style conventions:
//
//	{
//	  "kind": "Snapshot",
//	  "apiVersion": "autodoc.nvidia.com/v1",
//	  "metadata": {
//	    "timestamp": "2025-12-30T10:30:00Z",
//	    "version": "v0.1.0",
//	    "id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
//	    "source-host": "web-01"
//	  }
//	}
//
// Timestamps use RFC3339 in UTC. Consumers should check APIVersion before parsing.
package header

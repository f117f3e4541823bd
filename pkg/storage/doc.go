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

// Package storage persists documentation snapshots.
//
// Four stores implement Store:
//
//   - FileStore appends one record per snapshot to a local file, as a single
//     line JSON object or a YAML document. ReadRecords parses them back.
//   - IndexStore posts one JSON document per snapshot to {endpoint}/{index}/_doc.
//   - ConfigMapStore applies the latest snapshot to a Kubernetes ConfigMap.
//   - OCIStore pushes the snapshot as a single layer OCI artifact.
//
// New selects the store from settings:
//
//	st, err := storage.New(settings)
//	if err != nil {
//	    return err
//	}
//	if err := st.Write(ctx, snap); err != nil {
//	    // errors.IsCode(err, errors.ErrCodePersistence)
//	}
//
// Stores never retry. Write failures carry ErrCodePersistence.
package storage

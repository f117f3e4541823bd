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

package defaults

// Configuration defaults.
const (
	// Namespace is the configuration key prefix that scopes autodoc settings.
	Namespace = "autodoc"

	// StorageType is the storage backend used when storage.type is unset or unknown.
	StorageType = "file"

	// FilePath is the snapshot log written by the file store.
	FilePath = "autodoc.log"

	// IndexName is the search index the index store submits documents to.
	IndexName = "autodoc"

	// ConfigMapNamespace is the namespace used by the ConfigMap store.
	ConfigMapNamespace = "default"

	// ConfigMapName is the ConfigMap the ConfigMap store applies.
	ConfigMapName = "autodoc-snapshot"

	// ApplicationName is reported when no application name is configured.
	ApplicationName = "application"
)

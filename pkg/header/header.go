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

package header

import (
	"maps"
	"time"
)

// Kind represents the type of autodoc resource.
type Kind string

// Valid Kind constants.
const (
	KindSnapshot Kind = "Snapshot"
)

// Metadata keys written by Init and the documentation engine.
const (
	MetaTimestamp  = "timestamp"
	MetaVersion    = "version"
	MetaID         = "id"
	MetaSourceHost = "source-host"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindSnapshot:
		return true
	default:
		return false
	}
}

// Header contains metadata and versioning information for autodoc resources.
// It follows Kubernetes-style resource conventions with Kind, APIVersion, and Metadata fields.
type Header struct {
	// Kind is the type of the object.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the object.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs describing when and by whom the object was produced.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets kind and apiVersion and resets Metadata to the creation timestamp
// plus the producing version, when known.
func (h *Header) Init(kind Kind, apiVersion string, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = make(map[string]string)

	h.Metadata[MetaTimestamp] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata[MetaVersion] = version
	}
}

// Clone returns a copy of the header with its own Metadata map.
func (h Header) Clone() Header {
	return Header{
		Kind:       h.Kind,
		APIVersion: h.APIVersion,
		Metadata:   maps.Clone(h.Metadata),
	}
}

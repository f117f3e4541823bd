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

package config

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
)

// StorageType selects the snapshot store.
type StorageType string

const (
	StorageFile      StorageType = "file"
	StorageIndex     StorageType = "index"
	StorageConfigMap StorageType = "configmap"
	StorageOCI       StorageType = "oci"
)

// Supported file record formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Configuration keys, relative to the autodoc namespace.
const (
	KeyStorageType         = "storage.type"
	KeyStorageTimeout      = "storage.timeout"
	KeyFilePath            = "storage.file.path"
	KeyFileFormat          = "storage.file.format"
	KeyIndexEndpoint       = "storage.index.endpoint"
	KeyIndexName           = "storage.index.name"
	KeyConfigMapNamespace  = "storage.configmap.namespace"
	KeyConfigMapName       = "storage.configmap.name"
	KeyConfigMapKubeconfig = "storage.configmap.kubeconfig"
	KeyOCIReference        = "storage.oci.reference"
	KeyOCIPlainHTTP        = "storage.oci.plain-http"
	KeyApplicationName     = "application.name"
	KeyApplicationVersion  = "application.version"
	KeyDescriberTimeout    = "describer.timeout"
	KeyDockerEnabled       = "describers.docker.enabled"
)

// Settings is the typed view of a scoped configuration.
type Settings struct {
	Storage          StorageSettings
	Application      ApplicationSettings
	DescriberTimeout time.Duration
	DockerEnabled    bool
}

// StorageSettings configures snapshot persistence.
type StorageSettings struct {
	Type      StorageType
	Timeout   time.Duration
	File      FileSettings
	Index     IndexSettings
	ConfigMap ConfigMapSettings
	OCI       OCISettings
}

type FileSettings struct {
	Path   string
	Format string
}

type IndexSettings struct {
	Endpoint string
	Name     string
}

type ConfigMapSettings struct {
	Namespace  string
	Name       string
	Kubeconfig string
}

type OCISettings struct {
	Reference string
	PlainHTTP bool
}

// ApplicationSettings identifies the host application.
type ApplicationSettings struct {
	Name    string
	Version string
}

// NewSettings builds Settings from a scoped configuration, applying defaults
// for absent keys. Malformed durations and booleans are configuration errors.
// An unknown storage type falls back to file.
func NewSettings(f *Flat) (Settings, error) {
	if f == nil {
		f = newFlat()
	}

	s := Settings{
		Storage: StorageSettings{
			Type: parseStorageType(f.GetOr(KeyStorageType, defaults.StorageType)),
			File: FileSettings{
				Path:   f.GetOr(KeyFilePath, defaults.FilePath),
				Format: strings.ToLower(f.GetOr(KeyFileFormat, FormatJSON)),
			},
			Index: IndexSettings{
				Endpoint: strings.TrimSuffix(f.GetOr(KeyIndexEndpoint, ""), "/"),
				Name:     f.GetOr(KeyIndexName, defaults.IndexName),
			},
			ConfigMap: ConfigMapSettings{
				Namespace:  f.GetOr(KeyConfigMapNamespace, defaults.ConfigMapNamespace),
				Name:       f.GetOr(KeyConfigMapName, defaults.ConfigMapName),
				Kubeconfig: f.GetOr(KeyConfigMapKubeconfig, ""),
			},
			OCI: OCISettings{
				Reference: f.GetOr(KeyOCIReference, ""),
			},
		},
		Application: ApplicationSettings{
			Name:    f.GetOr(KeyApplicationName, defaults.ApplicationName),
			Version: f.GetOr(KeyApplicationVersion, ""),
		},
	}

	if s.Storage.File.Format != FormatJSON && s.Storage.File.Format != FormatYAML {
		return s, aderrors.NewWithContext(aderrors.ErrCodeConfiguration,
			"unsupported file format", map[string]any{"key": KeyFileFormat, "value": s.Storage.File.Format})
	}

	var err error
	if s.Storage.Timeout, err = durationOr(f, KeyStorageTimeout, defaults.StorageWriteTimeout); err != nil {
		return s, err
	}
	if s.DescriberTimeout, err = durationOr(f, KeyDescriberTimeout, defaults.DescriberTimeout); err != nil {
		return s, err
	}
	if s.Storage.OCI.PlainHTTP, err = boolOr(f, KeyOCIPlainHTTP, false); err != nil {
		return s, err
	}
	if s.DockerEnabled, err = boolOr(f, KeyDockerEnabled, true); err != nil {
		return s, err
	}

	return s, nil
}

func parseStorageType(v string) StorageType {
	t := StorageType(strings.ToLower(strings.TrimSpace(v)))
	switch t {
	case StorageFile, StorageIndex, StorageConfigMap, StorageOCI:
		return t
	default:
		slog.Warn("unknown storage type, falling back to file", "type", v)
		return StorageFile
	}
}

func durationOr(f *Flat, key string, def time.Duration) (time.Duration, error) {
	v, ok := f.Get(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, aderrors.WrapWithContext(aderrors.ErrCodeConfiguration,
			"invalid duration", err, map[string]any{"key": key, "value": v})
	}
	if d <= 0 {
		return 0, aderrors.NewWithContext(aderrors.ErrCodeConfiguration,
			"duration must be positive", map[string]any{"key": key, "value": v})
	}
	return d, nil
}

func boolOr(f *Flat, key string, def bool) (bool, error) {
	v, ok := f.Get(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, aderrors.WrapWithContext(aderrors.ErrCodeConfiguration,
			"invalid boolean", err, map[string]any{"key": key, "value": v})
	}
	return b, nil
}

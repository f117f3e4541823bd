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

package storage

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/autodoc/pkg/config"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
)

// Store persists snapshots. Write is called once per documentation pass and
// must not modify the snapshot.
type Store interface {
	Write(ctx context.Context, snap *graph.Snapshot) error
	Name() string
}

// Closer is implemented by stores holding resources.
type Closer interface {
	Close() error
}

// New selects the store configured by settings. Unknown or unset storage
// types use the file store.
func New(settings config.Settings) (Store, error) {
	s := settings.Storage
	switch s.Type {
	case config.StorageIndex:
		if s.Index.Endpoint == "" {
			return nil, aderrors.NewWithContext(aderrors.ErrCodeConfiguration,
				"index storage requires an endpoint", map[string]any{"key": config.KeyIndexEndpoint})
		}
		return NewIndexStore(s.Index.Endpoint, s.Index.Name)
	case config.StorageConfigMap:
		return NewConfigMapStore(s.ConfigMap.Namespace, s.ConfigMap.Name,
			WithKubeconfig(s.ConfigMap.Kubeconfig))
	case config.StorageOCI:
		return NewOCIStore(s.OCI.Reference, WithPlainHTTP(s.OCI.PlainHTTP))
	case config.StorageFile:
		return NewFileStore(s.File.Path, WithFormat(Format(s.File.Format)))
	default:
		slog.Warn("unknown storage type, using file store", "type", s.Type)
		return NewFileStore(s.File.Path, WithFormat(Format(s.File.Format)))
	}
}

// persistenceError wraps a write failure of the named store.
func persistenceError(store, msg string, err error) error {
	return aderrors.WrapWithContext(aderrors.ErrCodePersistence, msg, err, map[string]any{"store": store})
}

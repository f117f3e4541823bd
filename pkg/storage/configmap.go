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
	"encoding/json"
	"log/slog"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
	"github.com/NVIDIA/autodoc/pkg/header"
	"github.com/NVIDIA/autodoc/pkg/k8s/client"
)

const (
	// ConfigMapFieldManager owns the fields written by server-side apply.
	ConfigMapFieldManager = "autodoc"

	ConfigMapDataKey      = "snapshot.json"
	ConfigMapTimestampKey = "timestamp"
	ConfigMapFormatKey    = "format"
)

// ConfigMapOption configures a ConfigMapStore.
type ConfigMapOption func(*ConfigMapStore)

// WithClient injects the Kubernetes client, e.g. a fake clientset.
func WithClient(c client.Interface) ConfigMapOption {
	return func(s *ConfigMapStore) {
		s.client = c
	}
}

// WithKubeconfig builds a dedicated client from the given kubeconfig instead
// of the shared one. Empty keeps the shared client.
func WithKubeconfig(path string) ConfigMapOption {
	return func(s *ConfigMapStore) {
		s.kubeconfig = path
	}
}

// ConfigMapStore applies each snapshot to one ConfigMap with server-side
// apply. The ConfigMap always holds the latest snapshot.
type ConfigMapStore struct {
	namespace  string
	name       string
	kubeconfig string
	client     client.Interface
}

// NewConfigMapStore creates a store writing to namespace/name. The client is
// resolved on first write unless injected.
func NewConfigMapStore(namespace, name string, opts ...ConfigMapOption) (*ConfigMapStore, error) {
	if namespace == "" {
		namespace = defaults.ConfigMapNamespace
	}
	if name == "" {
		name = defaults.ConfigMapName
	}
	s := &ConfigMapStore{namespace: namespace, name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements Store.
func (s *ConfigMapStore) Name() string { return "configmap" }

func (s *ConfigMapStore) getClient() (client.Interface, error) {
	if s.client != nil {
		return s.client, nil
	}

	if s.kubeconfig != "" {
		cs, cfg, err := client.BuildKubeClient(s.kubeconfig)
		if err != nil {
			return nil, err
		}
		slog.Info("kubernetes client created", "kubeconfig", s.kubeconfig, "auth_method", client.AuthMethod(cfg))
		s.client = cs
		return s.client, nil
	}

	cs, cfg, err := client.GetKubeClient()
	if err != nil {
		return nil, err
	}
	slog.Info("kubernetes client created", "auth_method", client.AuthMethod(cfg))
	s.client = cs
	return s.client, nil
}

// Write applies the snapshot JSON together with its timestamp and format.
func (s *ConfigMapStore) Write(ctx context.Context, snap *graph.Snapshot) error {
	if snap == nil {
		return aderrors.New(aderrors.ErrCodeInvalidRequest, "snapshot is nil")
	}

	cs, err := s.getClient()
	if err != nil {
		return persistenceError(s.Name(), "failed to get kubernetes client", err)
	}

	content, err := json.Marshal(snap)
	if err != nil {
		return persistenceError(s.Name(), "failed to encode snapshot", err)
	}

	timestamp := snap.Metadata[header.MetaTimestamp]
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	ver := snap.Metadata[header.MetaVersion]
	if ver == "" {
		ver = "unknown"
	}

	cm := accorev1.ConfigMap(s.name, s.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":       "autodoc",
			"app.kubernetes.io/component":  snap.Kind.String(),
			"app.kubernetes.io/version":    ver,
			"app.kubernetes.io/managed-by": ConfigMapFieldManager,
		}).
		WithData(map[string]string{
			ConfigMapDataKey:      string(content),
			ConfigMapTimestampKey: timestamp,
			ConfigMapFormatKey:    string(FormatJSON),
		})

	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	slog.Info("applying snapshot configmap", "namespace", s.namespace, "name", s.name)

	if _, err := cs.CoreV1().ConfigMaps(s.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: ConfigMapFieldManager,
		Force:        true,
	}); err != nil {
		return persistenceError(s.Name(), "failed to apply configmap", err)
	}

	return nil
}

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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
	"github.com/NVIDIA/autodoc/pkg/header"
)

const (
	// ArtifactType is the OCI artifact type of pushed snapshots.
	ArtifactType = "application/vnd.nvidia.autodoc.snapshot"

	// MediaTypeSnapshot is the media type of the single snapshot layer.
	MediaTypeSnapshot = "application/vnd.nvidia.autodoc.snapshot.v1+json"

	defaultTag = "latest"
)

// OCIOption configures an OCIStore.
type OCIOption func(*OCIStore)

// WithPlainHTTP talks to the registry over HTTP instead of HTTPS.
func WithPlainHTTP(plain bool) OCIOption {
	return func(s *OCIStore) {
		s.plainHTTP = plain
	}
}

// WithTarget copies artifacts to target instead of the remote repository
// named by the reference.
func WithTarget(target oras.Target) OCIOption {
	return func(s *OCIStore) {
		s.target = target
	}
}

// OCIStore pushes each snapshot as a single layer OCI 1.1 artifact and tags
// it with the tag of the configured reference.
type OCIStore struct {
	repository string
	tag        string
	plainHTTP  bool
	target     oras.Target
}

// NewOCIStore creates a store for ref, e.g. "ghcr.io/acme/autodoc:orders".
// A reference without a tag uses "latest".
func NewOCIStore(ref string, opts ...OCIOption) (*OCIStore, error) {
	if ref == "" {
		return nil, aderrors.New(aderrors.ErrCodeConfiguration, "oci storage requires a reference")
	}

	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return nil, aderrors.WrapWithContext(aderrors.ErrCodeConfiguration,
			"invalid oci reference", err, map[string]any{"reference": ref})
	}
	if _, ok := named.(reference.Digested); ok {
		return nil, aderrors.NewWithContext(aderrors.ErrCodeConfiguration,
			"oci reference must not contain a digest", map[string]any{"reference": ref})
	}

	s := &OCIStore{
		repository: reference.Domain(named) + "/" + reference.Path(named),
		tag:        defaultTag,
	}
	if tagged, ok := named.(reference.Tagged); ok {
		s.tag = tagged.Tag()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements Store.
func (s *OCIStore) Name() string { return "oci" }

// Reference returns the repository and tag artifacts are pushed to.
func (s *OCIStore) Reference() string {
	return s.repository + ":" + s.tag
}

// Write packs the snapshot in memory and copies it to the target.
func (s *OCIStore) Write(ctx context.Context, snap *graph.Snapshot) error {
	if snap == nil {
		return aderrors.New(aderrors.ErrCodeInvalidRequest, "snapshot is nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return persistenceError(s.Name(), "failed to encode snapshot", err)
	}

	src := memory.New()

	layer := content.NewDescriptorFromBytes(MediaTypeSnapshot, data)
	layer.Annotations = map[string]string{ocispec.AnnotationTitle: "snapshot.json"}
	if err := src.Push(ctx, layer, bytes.NewReader(data)); err != nil {
		return persistenceError(s.Name(), "failed to stage snapshot layer", err)
	}

	annotations := map[string]string{}
	if ts := snap.Metadata[header.MetaTimestamp]; ts != "" {
		annotations[ocispec.AnnotationCreated] = ts
	}
	if v := snap.Metadata[header.MetaVersion]; v != "" {
		annotations[ocispec.AnnotationVersion] = v
	}

	manifest, err := oras.PackManifest(ctx, src, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ocispec.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return persistenceError(s.Name(), "failed to pack manifest", err)
	}

	if err := src.Tag(ctx, manifest, s.tag); err != nil {
		return persistenceError(s.Name(), "failed to tag manifest", err)
	}

	dst, err := s.getTarget()
	if err != nil {
		return persistenceError(s.Name(), "failed to initialize repository", err)
	}

	desc, err := oras.Copy(ctx, src, s.tag, dst, s.tag, oras.DefaultCopyOptions)
	if err != nil {
		return persistenceError(s.Name(), fmt.Sprintf("failed to push snapshot to %s", s.Reference()), err)
	}

	slog.Info("snapshot pushed", "reference", s.Reference(), "digest", desc.Digest.String())
	return nil
}

func (s *OCIStore) getTarget() (oras.Target, error) {
	if s.target != nil {
		return s.target, nil
	}

	repo, err := remote.NewRepository(s.repository)
	if err != nil {
		return nil, err
	}
	repo.PlainHTTP = s.plainHTTP

	// missing docker credentials fall back to anonymous access
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credential store not available", "error", err)
	}
	authClient := &auth.Client{
		Client: &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		authClient.Credential = credentials.Credential(credStore)
	}
	repo.Client = authClient

	s.target = repo
	return s.target, nil
}

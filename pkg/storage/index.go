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
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
)

const (
	IndexUserAgent = "autodoc-index-store/1.0"

	// maxErrorBody limits how much of a failed response is kept for the error.
	maxErrorBody = 4 << 10
)

// IndexOption configures an IndexStore.
type IndexOption func(*IndexStore)

// WithHTTPClient replaces the default client. Transport timeouts of the
// default client do not apply to a custom one.
func WithHTTPClient(c *http.Client) IndexOption {
	return func(s *IndexStore) {
		if c != nil {
			s.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header of index requests.
func WithUserAgent(ua string) IndexOption {
	return func(s *IndexStore) {
		s.userAgent = ua
	}
}

// IndexStore submits each snapshot as one document to a search index over
// HTTP, using the document API: POST {endpoint}/{index}/_doc.
// Failures are not retried.
type IndexStore struct {
	endpoint  *url.URL
	index     string
	client    *http.Client
	userAgent string
}

// NewIndexStore creates an index store for the given base endpoint and index.
func NewIndexStore(endpoint, index string, opts ...IndexOption) (*IndexStore, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, aderrors.NewWithContext(aderrors.ErrCodeConfiguration,
			"invalid index endpoint", map[string]any{"endpoint": endpoint})
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, aderrors.NewWithContext(aderrors.ErrCodeConfiguration,
			"index endpoint must use http or https", map[string]any{"endpoint": endpoint})
	}
	index = strings.Trim(strings.TrimSpace(index), "/")
	if index == "" {
		index = defaults.IndexName
	}

	s := &IndexStore{
		endpoint:  u,
		index:     index,
		client:    newIndexHTTPClient(),
		userAgent: IndexUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func newIndexHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaults.HTTPClientTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			DialContext: (&net.Dialer{
				Timeout:   defaults.HTTPConnectTimeout,
				KeepAlive: defaults.HTTPKeepAlive,
			}).DialContext,
			TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			ExpectContinueTimeout: 1 * time.Second,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
			ForceAttemptHTTP2:     true,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// Name implements Store.
func (s *IndexStore) Name() string { return "index" }

// DocumentURL returns the URL snapshots are posted to.
func (s *IndexStore) DocumentURL() string {
	return s.endpoint.JoinPath(s.index, "_doc").String()
}

// Write posts the snapshot as a JSON document. Any non-2xx status is a
// persistence error.
func (s *IndexStore) Write(ctx context.Context, snap *graph.Snapshot) error {
	if snap == nil {
		return aderrors.New(aderrors.ErrCodeInvalidRequest, "snapshot is nil")
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return persistenceError(s.Name(), "failed to encode snapshot", err)
	}

	target := s.DocumentURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return persistenceError(s.Name(), "failed to create index request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return persistenceError(s.Name(), fmt.Sprintf("failed to post snapshot to %s", target), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return aderrors.NewWithContext(aderrors.ErrCodePersistence,
			fmt.Sprintf("index rejected snapshot: %s", resp.Status),
			map[string]any{
				"store":  s.Name(),
				"url":    target,
				"status": resp.StatusCode,
				"body":   strings.TrimSpace(string(msg)),
			})
	}

	// drain for connection reuse
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	slog.Debug("snapshot indexed", "url", target, "status", resp.StatusCode)
	return nil
}

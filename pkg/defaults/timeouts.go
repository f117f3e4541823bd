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

import "time"

// Describer timeouts for environment probes.
const (
	// DescriberTimeout bounds a single describer invocation.
	// Describers should respect parent context deadlines when shorter.
	DescriberTimeout = 5 * time.Second

	// DockerInspectTimeout bounds the Docker engine enrichment inside the container describer.
	// Must stay below DescriberTimeout so the basic container item is still reported.
	DockerInspectTimeout = 2 * time.Second

	// HostLookupTimeout bounds address resolution in the hostname describer.
	HostLookupTimeout = 2 * time.Second
)

// Storage timeouts for snapshot persistence.
const (
	// StorageWriteTimeout bounds a single snapshot write.
	StorageWriteTimeout = 15 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 10 * time.Second
)

// HTTP client timeouts for the index store.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 10 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 3 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 3 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 5 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 30 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// CLI timeouts for the host program.
const (
	// CLIPassTimeout is the overall deadline for one documentation pass.
	CLIPassTimeout = 1 * time.Minute
)

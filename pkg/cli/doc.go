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

// Package cli implements the autodoc command line.
//
// # Commands
//
// run - Run one documentation pass:
//
//	autodoc run [--config FILE]... [--set KEY=VALUE]... [--print json|yaml]
//
// Describes the host, container and application, links them and persists
// the snapshot to the configured store (file, index, configmap or oci).
//
// config - Show the resolved configuration:
//
//	autodoc config [--config FILE]... [--set KEY=VALUE]...
//
// Prints every key under the namespace with its value and the source that
// supplied it, then validates the settings.
//
// # Configuration Precedence
//
// Lowest to highest:
//
//  1. AUTODOC_* environment variables (disable with --env=false)
//  2. --config files, in the order given
//  3. --set overrides
//
// When none of them supplies a key under the namespace, built-in defaults
// are used.
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (env: LOG_LEVEL)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid configuration, persistence failure)
//	2  Interrupted
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/autodoc/pkg/cli.version=1.0.0'"
package cli

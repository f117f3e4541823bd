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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	"github.com/NVIDIA/autodoc/pkg/engine"
	"github.com/NVIDIA/autodoc/pkg/graph"
	"github.com/NVIDIA/autodoc/pkg/storage"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Run one documentation pass and persist the snapshot",
		Description: `Describe the host, container and application, link them into a graph
and write the snapshot to the configured store.

Configuration is read from the environment, from --config files and from
--set overrides, in that order of precedence. When nothing is configured
under the namespace, built-in defaults write JSON lines to ./autodoc.log.

# Examples

Append to a local file:
  autodoc run --set storage.file.path=/var/log/autodoc.log

Publish to a search index:
  autodoc run --set storage.type=index --set storage.index.endpoint=http://localhost:9200

Push to an OCI registry and print the snapshot:
  autodoc run -c autodoc.yaml --set storage.type=oci \
    --set storage.oci.reference=ghcr.io/acme/autodoc:latest --print yaml`,
		Flags: append(sourceFlags(),
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "deadline for the whole pass",
				Value: defaults.CLIPassTimeout,
			},
			&cli.DurationFlag{
				Name:  "describer-timeout",
				Usage: "override the per-describer timeout",
			},
			&cli.StringFlag{
				Name:  "print",
				Usage: "also write the persisted snapshot to stdout (json, yaml)",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			printFormat := storage.Format(cmd.String("print"))
			if printFormat != "" && printFormat.IsUnknown() {
				return fmt.Errorf("unknown print format: %q", printFormat)
			}

			src, err := buildSource(cmd)
			if err != nil {
				return err
			}

			opts := []engine.Option{
				engine.WithSource(src),
				engine.WithNamespace(cmd.String("namespace")),
				engine.WithVersion(version),
			}
			if d := cmd.Duration("describer-timeout"); d > 0 {
				opts = append(opts, engine.WithDescriberTimeout(d))
			}

			if d := cmd.Duration("timeout"); d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			res, err := engine.New(opts...).Run(ctx)
			if err != nil {
				return err
			}

			if printFormat == "" {
				return nil
			}
			return printSnapshot(cmd.Root().Writer, printFormat, res.Snapshot)
		},
	}
}

func printSnapshot(w io.Writer, f storage.Format, snap *graph.Snapshot) error {
	switch f {
	case storage.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return nil
	}
}

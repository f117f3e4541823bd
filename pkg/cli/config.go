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
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/autodoc/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the resolved configuration and where each value came from",
		Description: `Resolve configuration exactly as "run" would and print every key under
the namespace with its value and origin. Settings are validated; an invalid
value is reported without running a pass.`,
		Flags: sourceFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			src, err := buildSource(cmd)
			if err != nil {
				return err
			}

			flat := config.Load(src, cmd.String("namespace"))
			settings, err := config.NewSettings(flat)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE\tORIGIN")
			for _, e := range flat.Entries() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, e.Origin)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "\nstore: %s (defaults: %t)\n", settings.Storage.Type, flat.Defaulted())
			return nil
		},
	}
}

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
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/autodoc/pkg/config"
	"github.com/NVIDIA/autodoc/pkg/defaults"
)

// envNamespace selects the key prefix. It is a CLI setting, not a
// configuration value, so it is kept out of the environment source.
const envNamespace = "AUTODOC_NAMESPACE"

// sourceFlags are shared by every command that resolves configuration.
// A fresh slice is returned each time because flags carry parse state.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file, can be repeated (later files win)",
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "configuration override relative to the namespace (format: key=value, can be repeated)",
		},
		&cli.BoolFlag{
			Name:  "env",
			Usage: "read <NAMESPACE>_* environment variables as configuration",
			Value: true,
		},
		&cli.StringFlag{
			Name:    "namespace",
			Usage:   "configuration key prefix",
			Sources: cli.EnvVars(envNamespace),
			Value:   defaults.Namespace,
		},
	}
}

// buildSource layers environment, files and --set pairs, lowest precedence first.
func buildSource(cmd *cli.Command) (config.Source, error) {
	ns := cmd.String("namespace")
	root := config.NewCompositeSource("cli")

	if cmd.Bool("env") {
		root.Add(config.FromEnv(ns, configEnviron(os.Environ())))
	}

	for _, path := range cmd.StringSlice("config") {
		src, err := config.FromYAMLFile(path)
		if err != nil {
			return nil, err
		}
		root.Add(src)
	}

	if pairs := cmd.StringSlice("set"); len(pairs) > 0 {
		scoped := make([]string, 0, len(pairs))
		for _, p := range pairs {
			key, _, _ := strings.Cut(p, "=")
			if key = strings.TrimSpace(key); key != "" && !strings.HasPrefix(key, ns+".") {
				p = ns + "." + strings.TrimSpace(p)
			}
			scoped = append(scoped, p)
		}
		src, err := config.FromPairs("flags", scoped)
		if err != nil {
			return nil, err
		}
		root.Add(src)
	}

	return root, nil
}

// configEnviron drops variables that steer the CLI itself.
func configEnviron(environ []string) []string {
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if strings.EqualFold(key, envNamespace) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

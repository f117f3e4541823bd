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

package describer

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/NVIDIA/autodoc/pkg/defaults"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
	"github.com/NVIDIA/autodoc/pkg/version"
)

const (
	AttrVersion      = "version"
	AttrVersionMajor = "version-major"
	AttrVersionMinor = "version-minor"
	AttrPID          = "pid"
)

// ApplicationIdentityDescriber reports the host application itself.
type ApplicationIdentityDescriber struct {
	name    string
	version string
	pid     func() int
}

// NewApplicationIdentityDescriber creates a describer for the named
// application. An empty name uses the default application name.
func NewApplicationIdentityDescriber(name, ver string) *ApplicationIdentityDescriber {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaults.ApplicationName
	}
	return &ApplicationIdentityDescriber{
		name:    name,
		version: strings.TrimSpace(ver),
		pid:     os.Getpid,
	}
}

// Name implements Describer.
func (d *ApplicationIdentityDescriber) Name() string { return "application" }

// Describe returns a single application item.
func (d *ApplicationIdentityDescriber) Describe(ctx context.Context) ([]graph.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, aderrors.Wrap(aderrors.ErrCodeTimeout, "application describer canceled", err)
	}

	item := graph.NewItem(ApplicationID(d.name), graph.TypeApplication).
		With(AttrName, d.name).
		With(AttrVersion, d.version).
		With(AttrPID, strconv.Itoa(d.pid())).
		With(AttrRuntime, runtime.Version())

	if d.version != "" {
		v, err := version.ParseVersion(d.version)
		if err != nil {
			slog.Debug("application version is not numeric", slog.String("version", d.version), slog.String("error", err.Error()))
		} else {
			item = item.With(AttrVersionMajor, strconv.Itoa(v.Major))
			if v.Precision > 1 {
				item = item.With(AttrVersionMinor, strconv.Itoa(v.Minor))
			}
		}
	}

	return []graph.Item{item}, nil
}

// ApplicationID returns the graph id of the application item for name.
func ApplicationID(name string) string {
	return "app-" + name
}

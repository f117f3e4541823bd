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

	"github.com/NVIDIA/autodoc/pkg/config"
	"github.com/NVIDIA/autodoc/pkg/describer/file"
	"github.com/NVIDIA/autodoc/pkg/graph"
)

// Describer inspects one aspect of the runtime environment and reports it as
// graph items. Implementations must honor ctx cancellation.
type Describer interface {
	Name() string
	Describe(ctx context.Context) ([]graph.Item, error)
}

// Factory creates describers with production dependencies.
type Factory struct {
	Settings config.Settings
	Parser   *file.Parser
}

// NewFactory creates a factory for the given settings reading from the root filesystem.
func NewFactory(settings config.Settings) *Factory {
	return &Factory{
		Settings: settings,
		Parser:   file.NewParser(),
	}
}

// CreateHostnameDescriber creates the host describer.
func (f *Factory) CreateHostnameDescriber() Describer {
	return NewHostnameDescriber(WithHostParser(f.Parser))
}

// CreateContainerDescriber creates the container describer. Docker
// enrichment is skipped when disabled in settings.
func (f *Factory) CreateContainerDescriber() Describer {
	opts := []ContainerOption{WithContainerParser(f.Parser)}
	if !f.Settings.DockerEnabled {
		opts = append(opts, WithInspector(nil))
	}
	return NewContainerDescriber(opts...)
}

// CreateApplicationDescriber creates the application identity describer.
func (f *Factory) CreateApplicationDescriber() Describer {
	return NewApplicationIdentityDescriber(f.Settings.Application.Name, f.Settings.Application.Version)
}

// Default returns the built-in describers in their fixed order: host,
// container, application.
func Default(settings config.Settings) []Describer {
	f := NewFactory(settings)
	return []Describer{
		f.CreateHostnameDescriber(),
		f.CreateContainerDescriber(),
		f.CreateApplicationDescriber(),
	}
}

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

package config

import (
	"maps"
)

// Source is a node of a configuration source tree: either a *MapSource leaf
// holding key/value pairs or a *CompositeSource holding ordered children.
type Source interface {
	// Name identifies the source in resolved entries and logs.
	Name() string

	isSource()
}

// MapSource is a leaf source backed by a key/value map. Values may be scalars
// or nested maps and lists, which are flattened with dot notation on resolve.
type MapSource struct {
	name   string
	values map[string]any
}

// NewMapSource returns a leaf source holding a copy of values.
func NewMapSource(name string, values map[string]any) *MapSource {
	return &MapSource{
		name:   name,
		values: maps.Clone(values),
	}
}

// Name implements Source.
func (m *MapSource) Name() string { return m.name }

// Values returns a copy of the raw values held by the source.
func (m *MapSource) Values() map[string]any { return maps.Clone(m.values) }

func (m *MapSource) isSource() {}

// CompositeSource is an ordered list of child sources. Later children take
// precedence over earlier ones. Children may be shared between composites and
// may reference an ancestor.
type CompositeSource struct {
	name     string
	children []Source
}

// NewCompositeSource returns a composite with the given children in order.
func NewCompositeSource(name string, children ...Source) *CompositeSource {
	c := &CompositeSource{name: name}
	return c.Add(children...)
}

// Add appends children and returns the composite. Nil children are ignored.
func (c *CompositeSource) Add(children ...Source) *CompositeSource {
	for _, child := range children {
		if child == nil {
			continue
		}
		c.children = append(c.children, child)
	}
	return c
}

// Name implements Source.
func (c *CompositeSource) Name() string { return c.name }

// Children returns the child sources in precedence order.
func (c *CompositeSource) Children() []Source {
	res := make([]Source, len(c.children))
	copy(res, c.children)
	return res
}

func (c *CompositeSource) isSource() {}

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

package graph

import (
	"maps"

	"github.com/NVIDIA/autodoc/pkg/header"
)

const (
	// APIGroup is the API group of autodoc resources.
	APIGroup = "autodoc.nvidia.com"
	// APIVersion is the full apiVersion written into snapshot headers.
	APIVersion = APIGroup + "/v1"
)

// Well-known item types.
const (
	TypeHost        = "host"
	TypeContainer   = "docker-container"
	TypeApplication = "spring-application"
)

// Well-known relation labels.
const (
	LabelRunsIn     = "runs in"
	LabelDeployedOn = "deployed on"
)

// Item is one discovered environment entity. Two items with the same ID are
// the same logical entity.
type Item struct {
	ID         string            `json:"id" yaml:"id"`
	Type       string            `json:"type" yaml:"type"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// NewItem returns an Item with an initialized attribute map.
func NewItem(id, typ string) Item {
	return Item{
		ID:         id,
		Type:       typ,
		Attributes: make(map[string]string),
	}
}

// With returns a copy of the item with the attribute set when value is not
// empty. The receiver's attribute map is never modified.
func (i Item) With(key, value string) Item {
	if value == "" {
		return i
	}
	attrs := maps.Clone(i.Attributes)
	if attrs == nil {
		attrs = make(map[string]string, 1)
	}
	attrs[key] = value
	i.Attributes = attrs
	return i
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	c := Item{ID: i.ID, Type: i.Type}
	if i.Attributes != nil {
		c.Attributes = maps.Clone(i.Attributes)
	}
	return c
}

// Relation is a directed, labeled edge between two items.
type Relation struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label" yaml:"label"`
}

// Skip records a piece of the environment that could not be documented
// during a pass, such as a failed describer or a dangling relation.
type Skip struct {
	Stage   string `json:"stage" yaml:"stage"`
	Subject string `json:"subject" yaml:"subject"`
	Code    string `json:"code" yaml:"code"`
	Reason  string `json:"reason" yaml:"reason"`
}

// Snapshot is one complete capture of the item/relation graph for a single
// documentation pass. Stores must treat it as read-only.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	// Items in first-insertion order.
	Items []Item `json:"items" yaml:"items"`

	// Relations in link order.
	Relations []Relation `json:"relations" yaml:"relations"`

	// Skipped lists contained failures of the pass.
	Skipped []Skip `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// NewSnapshot creates a Snapshot with initialized item and relation slices.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Items:     make([]Item, 0),
		Relations: make([]Relation, 0),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := &Snapshot{
		Header:    s.Header.Clone(),
		Items:     make([]Item, len(s.Items)),
		Relations: make([]Relation, len(s.Relations)),
	}
	for i, item := range s.Items {
		c.Items[i] = item.Clone()
	}
	copy(c.Relations, s.Relations)
	if s.Skipped != nil {
		c.Skipped = make([]Skip, len(s.Skipped))
		copy(c.Skipped, s.Skipped)
	}
	return c
}

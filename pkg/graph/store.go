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
)

// Store is an in-memory registry of items and relations for one documentation
// pass. It is not safe for concurrent use; each pass owns its own Store.
type Store struct {
	items     []*Item
	byID      map[string]*Item
	relations []Relation
	linked    map[Relation]struct{}
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		items:     make([]*Item, 0),
		byID:      make(map[string]*Item),
		relations: make([]Relation, 0),
		linked:    make(map[Relation]struct{}),
	}
}

// Put inserts an item or merges it into the existing item with the same ID.
// On merge, new attribute values override same-named old values, old
// attributes absent from the new item are kept, and a non-empty type replaces
// the previous one. The item keeps its first insertion position.
func (s *Store) Put(item Item) error {
	if item.ID == "" {
		return ErrInvalidItem
	}

	existing, ok := s.byID[item.ID]
	if !ok {
		c := item.Clone()
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		s.items = append(s.items, &c)
		s.byID[c.ID] = &c
		return nil
	}

	if item.Type != "" {
		existing.Type = item.Type
	}
	maps.Copy(existing.Attributes, item.Attributes)
	return nil
}

// Link records a relation between two registered items. It returns a
// *DanglingReferenceError when either endpoint is unknown. Linking the same
// relation twice stores it once.
func (s *Store) Link(from, to, label string) error {
	var missing []string
	if _, ok := s.byID[from]; !ok {
		missing = append(missing, from)
	}
	if _, ok := s.byID[to]; !ok && to != from {
		missing = append(missing, to)
	}
	if len(missing) > 0 {
		return &DanglingReferenceError{From: from, To: to, Label: label, Missing: missing}
	}

	r := Relation{From: from, To: to, Label: label}
	if _, dup := s.linked[r]; dup {
		return nil
	}
	s.linked[r] = struct{}{}
	s.relations = append(s.relations, r)
	return nil
}

// FindByID returns a copy of the item with the given ID.
func (s *Store) FindByID(id string) (Item, bool) {
	it, ok := s.byID[id]
	if !ok {
		return Item{}, false
	}
	return it.Clone(), true
}

// FindByType returns copies of all items of the given type in insertion order.
func (s *Store) FindByType(typ string) []Item {
	var res []Item
	for _, it := range s.items {
		if it.Type == typ {
			res = append(res, it.Clone())
		}
	}
	return res
}

// First returns the first item of the given type, if any.
func (s *Store) First(typ string) (Item, bool) {
	for _, it := range s.items {
		if it.Type == typ {
			return it.Clone(), true
		}
	}
	return Item{}, false
}

// Items returns copies of all items in insertion order.
func (s *Store) Items() []Item {
	res := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		res = append(res, it.Clone())
	}
	return res
}

// Relations returns a copy of all relations in link order.
func (s *Store) Relations() []Relation {
	res := make([]Relation, len(s.relations))
	copy(res, s.relations)
	return res
}

// Len returns the number of distinct items.
func (s *Store) Len() int {
	return len(s.items)
}

// Snapshot captures the current items and relations into a new Snapshot that
// shares no memory with the store.
func (s *Store) Snapshot() *Snapshot {
	snap := NewSnapshot()
	snap.Items = s.Items()
	snap.Relations = s.Relations()
	return snap
}

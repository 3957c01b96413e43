/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package graph holds the sequence graph edited on the canvas: placed nodes and
// the directed connections between them.
package graph

import (
	"sync"

	"vschords/internal/geom"
)

// Kind distinguishes the unique start node from palette-created nodes.
type Kind string

const (
	KindStart   Kind = "start"
	KindGeneric Kind = "generic"
)

// Node is a placed item. Pos is the top-left corner of its square footprint in
// world space.
type Node struct {
	ID    string  `json:"id"`
	Kind  Kind    `json:"kind"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Pos   geom.Pt `json:"pos"`
}

// NodeStore is an ordered collection of nodes. Order is insertion order and is
// used as the draw order; Move never reorders.
type NodeStore struct {
	mu    sync.RWMutex
	nodes []Node
	newID IDFunc
}

func NewNodeStore(ids IDFunc) *NodeStore {
	if ids == nil {
		ids = UUIDs
	}
	return &NodeStore{newID: ids}
}

// Create appends a node with a fresh identifier and returns it.
func (s *NodeStore) Create(kind Kind, label, color string, pos geom.Pt) Node {
	n := Node{ID: s.newID("node"), Kind: kind, Label: label, Color: color, Pos: pos}
	s.mu.Lock()
	s.nodes = append(s.nodes, n)
	s.mu.Unlock()
	return n
}

// insert appends a fully specified node (used for the start node).
func (s *NodeStore) insert(n Node) {
	s.mu.Lock()
	s.nodes = append(s.nodes, n)
	s.mu.Unlock()
}

// Move replaces the position of a node, keeping every other field and its index.
func (s *NodeStore) Move(id string, pos geom.Pt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes[i].Pos = pos
			return true
		}
	}
	return false
}

// Delete removes a node. Connections are not touched here.
func (s *NodeStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *NodeStore) Find(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Nodes returns a snapshot copy in store order.
func (s *NodeStore) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Node(nil), s.nodes...)
}

func (s *NodeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

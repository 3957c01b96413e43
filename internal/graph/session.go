/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

import "vschords/internal/geom"

const (
	StartID    = "start"
	StartLabel = "START"
	StartColor = "#374151"
)

// StartPos is where the start node is placed in a fresh session.
var StartPos = geom.Pt{X: 100, Y: 300}

// Session owns the node and connection stores for one editing session.
type Session struct {
	Nodes       *NodeStore
	Connections *ConnectionStore
}

// NewSession returns a session holding only the start node.
func NewSession(ids IDFunc) *Session {
	s := &Session{Nodes: NewNodeStore(ids), Connections: NewConnectionStore(ids)}
	s.Nodes.insert(Node{ID: StartID, Kind: KindStart, Label: StartLabel, Color: StartColor, Pos: StartPos})
	return s
}

// DeleteNode removes a generic node together with every connection touching it.
// The start node is never deleted.
func (s *Session) DeleteNode(id string) bool {
	n, ok := s.Nodes.Find(id)
	if !ok || n.Kind == KindStart {
		return false
	}
	s.Connections.DeleteTouching(id)
	return s.Nodes.Delete(id)
}

// Connect creates source->target when both nodes exist.
func (s *Session) Connect(source, target string) (Connection, bool) {
	if _, ok := s.Nodes.Find(source); !ok {
		return Connection{}, false
	}
	if _, ok := s.Nodes.Find(target); !ok {
		return Connection{}, false
	}
	return s.Connections.Create(source, target)
}

// Snapshot is an immutable copy of the session for readers.
type Snapshot struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{Nodes: s.Nodes.Nodes(), Connections: s.Connections.Connections()}
}

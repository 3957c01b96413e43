/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vschords/internal/geom"
)

func TestNewSession_HasOnlyStartNode(t *testing.T) {
	s := NewSession(Sequential())
	nodes := s.Nodes.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, StartID, nodes[0].ID)
	assert.Equal(t, KindStart, nodes[0].Kind)
	assert.Equal(t, geom.Pt{X: 100, Y: 300}, nodes[0].Pos)
	assert.Zero(t, s.Connections.Len())
}

func TestNodeStore_CreateMoveKeepsOrderAndFields(t *testing.T) {
	s := NewNodeStore(Sequential())
	a := s.Create(KindGeneric, "C Maj7", "#16a34a", geom.Pt{X: 1, Y: 2})
	b := s.Create(KindGeneric, "A min7", "#ca8a04", geom.Pt{X: 3, Y: 4})
	require.NotEqual(t, a.ID, b.ID)

	require.True(t, s.Move(a.ID, geom.Pt{X: 50, Y: 60}))
	nodes := s.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, a.ID, nodes[0].ID, "move must not reorder")
	assert.Equal(t, "C Maj7", nodes[0].Label)
	assert.Equal(t, "#16a34a", nodes[0].Color)
	assert.Equal(t, KindGeneric, nodes[0].Kind)
	assert.Equal(t, geom.Pt{X: 50, Y: 60}, nodes[0].Pos)

	assert.False(t, s.Move("missing", geom.Pt{}))
	_, ok := s.Find("missing")
	assert.False(t, ok)
}

func TestNodeStore_NodesIsSnapshot(t *testing.T) {
	s := NewNodeStore(nil)
	n := s.Create(KindGeneric, "B 7", "#ea580c", geom.Pt{})
	assert.True(t, strings.HasPrefix(n.ID, "node-"))
	snap := s.Nodes()
	snap[0].Label = "changed"
	got, _ := s.Find(n.ID)
	assert.Equal(t, "B 7", got.Label)
}

func TestConnectionStore_DuplicateIsNoop(t *testing.T) {
	s := NewConnectionStore(Sequential())
	_, ok := s.Create("a", "b")
	require.True(t, ok)
	_, ok = s.Create("a", "b")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	// the reverse direction is a different edge
	_, ok = s.Create("b", "a")
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestConnectionStore_RejectsSelfLoop(t *testing.T) {
	s := NewConnectionStore(Sequential())
	_, ok := s.Create("a", "a")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestConnectionStore_DeleteTouching(t *testing.T) {
	s := NewConnectionStore(Sequential())
	s.Create("a", "b")
	s.Create("b", "c")
	s.Create("c", "a")
	s.Create("c", "d")
	removed := s.DeleteTouching("a")
	assert.Equal(t, 2, removed)
	for _, c := range s.Connections() {
		assert.NotEqual(t, "a", c.Source)
		assert.NotEqual(t, "a", c.Target)
	}
	assert.True(t, s.Exists("b", "c"))
	assert.True(t, s.Exists("c", "d"))
}

func TestSession_DeleteNodeCascades(t *testing.T) {
	s := NewSession(Sequential())
	a := s.Nodes.Create(KindGeneric, "A", "#000000", geom.Pt{X: 300, Y: 300})
	b := s.Nodes.Create(KindGeneric, "B", "#000000", geom.Pt{X: 500, Y: 300})
	_, ok := s.Connect(StartID, a.ID)
	require.True(t, ok)
	_, ok = s.Connect(a.ID, b.ID)
	require.True(t, ok)

	require.True(t, s.DeleteNode(a.ID))
	snap := s.Snapshot()
	assert.Len(t, snap.Nodes, 2)
	assert.Empty(t, snap.Connections)
}

func TestSession_StartNodeCannotBeDeleted(t *testing.T) {
	s := NewSession(Sequential())
	assert.False(t, s.DeleteNode(StartID))
	assert.Equal(t, 1, s.Nodes.Len())
}

func TestSession_ConnectRequiresExistingNodes(t *testing.T) {
	s := NewSession(Sequential())
	_, ok := s.Connect(StartID, "ghost")
	assert.False(t, ok)
	assert.Zero(t, s.Connections.Len())
}

func TestSequentialIDs(t *testing.T) {
	ids := Sequential()
	assert.Equal(t, "node-1", ids("node"))
	assert.Equal(t, "conn-2", ids("conn"))
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vschords/internal/geom"
	"vschords/internal/graph"
)

func TestLayoutAnchors(t *testing.T) {
	l := Layout{F: Footprint}
	n := node("a", 100, 300)
	assert.Equal(t, geom.P(100, 348), l.InputAnchor(n))
	assert.Equal(t, geom.P(196, 348), l.OutputAnchor(n))
	assert.Equal(t, geom.R(180, 332, 32, 32), l.OutputPort(n))
}

func TestPortHidingFlushNeighbours(t *testing.T) {
	l := Layout{F: Footprint}
	a := node("a", 100, 300)
	b := node("b", 196, 340)
	c := node("c", 196, 400) // |dy| = 100, outside the band
	nodes := []graph.Node{a, b, c}

	assert.True(t, l.OutputHidden(a, nodes))
	assert.True(t, l.InputHidden(b, nodes))
	assert.False(t, l.InputHidden(c, nodes))
	assert.False(t, l.InputHidden(a, nodes))
	assert.False(t, l.OutputHidden(b, nodes))
}

func TestHitTestPriorities(t *testing.T) {
	l := Layout{F: Footprint}
	start := graph.Node{ID: "start", Kind: graph.KindStart, Pos: geom.P(100, 300)}
	a := node("a", 400, 300)
	nodes := []graph.Node{start, a}

	assert.Equal(t, Target{Kind: TargetOutputPort, NodeID: "start"}, l.HitTest(geom.P(196, 348), nodes))
	// start has no input port
	assert.Equal(t, Target{Kind: TargetBody, NodeID: "start"}, l.HitTest(geom.P(105, 348), nodes))
	assert.Equal(t, Target{}, l.HitTest(geom.P(95, 348), nodes))
	// start has no delete button
	assert.Equal(t, Target{Kind: TargetBody, NodeID: "start"}, l.HitTest(geom.P(190, 305), nodes))

	assert.Equal(t, Target{Kind: TargetInputPort, NodeID: "a"}, l.HitTest(geom.P(395, 350), nodes))
	assert.Equal(t, Target{Kind: TargetDelete, NodeID: "a"}, l.HitTest(geom.P(496, 300), nodes))
	assert.Equal(t, Target{Kind: TargetBody, NodeID: "a"}, l.HitTest(geom.P(448, 348), nodes))
	assert.Equal(t, Target{}, l.HitTest(geom.P(300, 100), nodes))
}

func TestHitTestFlushEdgeKeepsPortsReachable(t *testing.T) {
	l := Layout{F: Footprint}
	start := graph.Node{ID: "start", Kind: graph.KindStart, Pos: geom.P(100, 300)}
	a := node("a", 196, 300)
	b := node("b", 292, 300)
	nodes := []graph.Node{start, a, b}
	require.True(t, l.OutputHidden(start, nodes))
	require.True(t, l.InputHidden(a, nodes))

	// press: the shared edge belongs to the left node's output
	assert.Equal(t, Target{Kind: TargetOutputPort, NodeID: "start"}, l.HitTest(geom.P(196, 348), nodes))
	assert.Equal(t, Target{Kind: TargetOutputPort, NodeID: "a"}, l.HitTest(geom.P(290, 340), nodes))
	// drop: the same spot resolves to the right node's input
	assert.Equal(t, Target{Kind: TargetInputPort, NodeID: "a"}, l.HitTestDrop(geom.P(196, 348), nodes))
	assert.Equal(t, Target{Kind: TargetInputPort, NodeID: "b"}, l.HitTestDrop(geom.P(290, 340), nodes))
	// away from the edge nothing changes
	assert.Equal(t, Target{Kind: TargetBody, NodeID: "a"}, l.HitTestDrop(geom.P(244, 348), nodes))
	assert.Equal(t, Target{Kind: TargetOutputPort, NodeID: "b"}, l.HitTestDrop(geom.P(388, 348), nodes))
}

func TestHitTestTopmostWins(t *testing.T) {
	l := Layout{F: Footprint}
	nodes := []graph.Node{node("under", 100, 100), node("over", 150, 150)}
	assert.Equal(t, "over", l.HitTest(geom.P(170, 170), nodes).NodeID)
}

func TestBuildSceneLinksAndPorts(t *testing.T) {
	s := graph.NewSession(graph.Sequential())
	a := s.Nodes.Create(graph.KindGeneric, "C Maj7", "#22c55e", geom.P(196, 300))
	_, ok := s.Connect(graph.StartID, a.ID)
	assert.True(t, ok)

	sc := BuildScene(s.Snapshot(), 0)
	assert.Equal(t, Footprint, sc.Footprint)
	assert.Len(t, sc.Nodes, 2)
	assert.False(t, sc.Nodes[0].ShowOutput, "start output hidden by flush neighbour")
	assert.False(t, sc.Nodes[0].Deletable)
	assert.False(t, sc.Nodes[1].ShowInput)
	assert.True(t, sc.Nodes[1].ShowOutput)
	assert.Len(t, sc.Links, 1)
	assert.Equal(t, geom.P(196, 348), sc.Links[0].Curve.P0)
	assert.Equal(t, geom.P(196, 348), sc.Links[0].Curve.P3)

	b := sc.Bounds()
	assert.Equal(t, geom.R(100, 300, 192, 96), b)
}

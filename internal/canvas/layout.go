/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"vschords/internal/geom"
	"vschords/internal/graph"
)

// TargetKind tells what part of the canvas a pointer is over.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetBody
	TargetInputPort
	TargetOutputPort
	TargetDelete
)

func (k TargetKind) String() string {
	switch k {
	case TargetBody:
		return "body"
	case TargetInputPort:
		return "input"
	case TargetOutputPort:
		return "output"
	case TargetDelete:
		return "delete"
	default:
		return "none"
	}
}

// Target is the result of a hit test.
type Target struct {
	Kind   TargetKind
	NodeID string
}

// Layout answers geometric questions about nodes for a given footprint.
type Layout struct{ F float32 }

func (l Layout) Body(n graph.Node) geom.Rect { return geom.Square(n.Pos, l.F) }

// InputAnchor is the left-centre of the footprint.
func (l Layout) InputAnchor(n graph.Node) geom.Pt {
	return geom.Pt{X: n.Pos.X, Y: n.Pos.Y + l.F/2}
}

// OutputAnchor is the right-centre of the footprint.
func (l Layout) OutputAnchor(n graph.Node) geom.Pt {
	return geom.Pt{X: n.Pos.X + l.F, Y: n.Pos.Y + l.F/2}
}

func portRect(c geom.Pt) geom.Rect {
	return geom.R(c.X-PortSize/2, c.Y-PortSize/2, PortSize, PortSize)
}

func (l Layout) InputPort(n graph.Node) geom.Rect  { return portRect(l.InputAnchor(n)) }
func (l Layout) OutputPort(n graph.Node) geom.Rect { return portRect(l.OutputAnchor(n)) }

// DeleteButton sits over the top-right corner, slightly outside the body.
func (l Layout) DeleteButton(n graph.Node) geom.Rect {
	return geom.R(n.Pos.X+l.F-DeleteSize+8, n.Pos.Y-8, DeleteSize, DeleteSize)
}

// flushLeft returns the node whose right edge touches the left edge of n
// inside the same horizontal band.
func (l Layout) flushLeft(n graph.Node, nodes []graph.Node) (graph.Node, bool) {
	for _, o := range nodes {
		if o.ID != n.ID && o.Pos.X+l.F == n.Pos.X && geom.Abs(o.Pos.Y-n.Pos.Y) < l.F {
			return o, true
		}
	}
	return graph.Node{}, false
}

// flushRight is the mirror of flushLeft for the right edge of n.
func (l Layout) flushRight(n graph.Node, nodes []graph.Node) (graph.Node, bool) {
	for _, o := range nodes {
		if o.ID != n.ID && n.Pos.X+l.F == o.Pos.X && geom.Abs(o.Pos.Y-n.Pos.Y) < l.F {
			return o, true
		}
	}
	return graph.Node{}, false
}

// InputHidden reports whether another node's right edge is flush with the
// left edge of n. Cosmetic only; the port stays hittable.
func (l Layout) InputHidden(n graph.Node, nodes []graph.Node) bool {
	_, ok := l.flushLeft(n, nodes)
	return ok
}

// OutputHidden is the mirror of InputHidden for the right edge of n.
func (l Layout) OutputHidden(n graph.Node, nodes []graph.Node) bool {
	_, ok := l.flushRight(n, nodes)
	return ok
}

// HasInput reports whether n ever shows an input port. The start node has none.
func HasInput(n graph.Node) bool { return n.Kind != graph.KindStart }

// Deletable reports whether n shows a delete button.
func Deletable(n graph.Node) bool { return n.Kind != graph.KindStart }

// HitTest finds the topmost element under a world point for a press that
// starts a gesture. Later nodes are drawn above earlier ones; a node's
// controls win over its own body. Where two flush nodes share an edge the
// overlapping port area belongs to the left node's output port.
func (l Layout) HitTest(p geom.Pt, nodes []graph.Node) Target {
	return l.hitTest(p, nodes, TargetOutputPort)
}

// HitTestDrop is HitTest for a pointer carrying a connection draft. On a
// shared flush edge it resolves to the right node's input port.
func (l Layout) HitTestDrop(p geom.Pt, nodes []graph.Node) Target {
	return l.hitTest(p, nodes, TargetInputPort)
}

func (l Layout) hitTest(p geom.Pt, nodes []graph.Node, edge TargetKind) Target {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if Deletable(n) && l.DeleteButton(n).Contains(p) {
			return Target{Kind: TargetDelete, NodeID: n.ID}
		}
		if l.OutputPort(n).Contains(p) {
			if o, ok := l.flushRight(n, nodes); ok && edge == TargetInputPort && HasInput(o) && l.InputPort(o).Contains(p) {
				return Target{Kind: TargetInputPort, NodeID: o.ID}
			}
			return Target{Kind: TargetOutputPort, NodeID: n.ID}
		}
		if HasInput(n) && l.InputPort(n).Contains(p) {
			if o, ok := l.flushLeft(n, nodes); ok && edge == TargetOutputPort && l.OutputPort(o).Contains(p) {
				return Target{Kind: TargetOutputPort, NodeID: o.ID}
			}
			return Target{Kind: TargetInputPort, NodeID: n.ID}
		}
		if l.Body(n).Contains(p) {
			return Target{Kind: TargetBody, NodeID: n.ID}
		}
	}
	return Target{}
}

// LinkCurve is the committed path between two nodes.
func (l Layout) LinkCurve(src, dst graph.Node) geom.Bezier {
	return geom.HorizontalS(l.OutputAnchor(src), l.InputAnchor(dst))
}

// DraftCurve follows the pointer from the source's output port.
func (l Layout) DraftCurve(src graph.Node, pointer geom.Pt) geom.Bezier {
	return geom.HorizontalS(l.OutputAnchor(src), pointer)
}

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

// NodeView is a node plus everything the render layer needs to draw it.
type NodeView struct {
	graph.Node
	Rect       geom.Rect
	ShowInput  bool
	ShowOutput bool
	Deletable  bool
	Active     bool // being dragged or the source of the draft
}

// Link is a curve between two ports. Draft links are drawn dashed.
type Link struct {
	ID     string
	Source string
	Target string
	Curve  geom.Bezier
	Draft  bool
}

// Scene is a read-only render model in world coordinates.
type Scene struct {
	Viewport  geom.Viewport
	Footprint float32
	State     State
	Nodes     []NodeView
	Links     []Link
	Guides    []GuideLine
}

// BuildScene derives the static part of a scene (nodes and committed links)
// from a session snapshot. Links whose endpoints are missing are skipped.
func BuildScene(snap graph.Snapshot, f float32) Scene {
	if f <= 0 {
		f = Footprint
	}
	l := Layout{F: f}
	sc := Scene{Viewport: geom.IdentityViewport, Footprint: f}
	byID := make(map[string]graph.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
		sc.Nodes = append(sc.Nodes, NodeView{
			Node:       n,
			Rect:       l.Body(n),
			ShowInput:  HasInput(n) && !l.InputHidden(n, snap.Nodes),
			ShowOutput: !l.OutputHidden(n, snap.Nodes),
			Deletable:  Deletable(n),
		})
	}
	for _, c := range snap.Connections {
		src, ok1 := byID[c.Source]
		dst, ok2 := byID[c.Target]
		if !ok1 || !ok2 {
			continue
		}
		sc.Links = append(sc.Links, Link{ID: c.ID, Source: c.Source, Target: c.Target, Curve: l.LinkCurve(src, dst)})
	}
	return sc
}

// Draft returns the in-progress link, if any.
func (s Scene) Draft() (Link, bool) {
	for _, l := range s.Links {
		if l.Draft {
			return l, true
		}
	}
	return Link{}, false
}

// Bounds is the world-space box around all nodes and link control points.
func (s Scene) Bounds() geom.Rect {
	var b geom.Rect
	first := true
	add := func(r geom.Rect) {
		if first {
			b = r
			first = false
			return
		}
		b = b.Union(r)
	}
	for _, n := range s.Nodes {
		add(n.Rect)
	}
	for _, l := range s.Links {
		for _, p := range []geom.Pt{l.Curve.P0, l.Curve.P1, l.Curve.P2, l.Curve.P3} {
			add(geom.R(p.X, p.Y, 0, 0))
		}
	}
	return b
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

// Neighbour snapping for dragged nodes. Each axis is resolved independently
// against every other node:
//   - x within threshold of other.X            -> align left edges
//   - y within threshold of other.Y            -> align top edges
//   - x within threshold of other.X+F+gap      -> sit to the right of other
//   - x within threshold of other.X-F-gap      -> sit to the left of other
// Distances are measured from the unsnapped candidate.

import (
	"math"

	"vschords/internal/geom"
	"vschords/internal/graph"
)

// GuideLine describes a visual guide for an applied snap.
// Orientation is "vertical" or "horizontal"; Kind is "align" or "adjacent".
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float32
	From        geom.Pt
	To          geom.Pt
}

type axisSnap struct {
	ok    bool
	value float32
	dist  float32
	guide GuideLine
}

// Snap returns the snapped top-left position for the node draggedID whose
// unsnapped position is candidate, plus the guides for every applied axis.
func Snap(candidate geom.Pt, draggedID string, nodes []graph.Node, opts Options) (geom.Pt, []GuideLine) {
	opts = opts.normalized()
	f := opts.Footprint
	step := f + opts.SnapGap
	bestX := axisSnap{dist: math.MaxFloat32}
	bestY := axisSnap{dist: math.MaxFloat32}

	for _, n := range nodes {
		if n.ID == draggedID {
			continue
		}
		ox, oy := n.Pos.X, n.Pos.Y
		consider(&bestX, candidate.X, ox, opts, verticalGuide(ox, "align", candidate.Y, oy, f))
		consider(&bestY, candidate.Y, oy, opts, horizontalGuide(oy, "align", candidate.X, ox, f))
		consider(&bestX, candidate.X, ox+step, opts, verticalGuide(ox+f, "adjacent", candidate.Y, oy, f))
		consider(&bestX, candidate.X, ox-step, opts, verticalGuide(ox, "adjacent", candidate.Y, oy, f))
	}

	snapped := candidate
	var guides []GuideLine
	if bestX.ok {
		snapped.X = bestX.value
		guides = append(guides, bestX.guide)
	}
	if bestY.ok {
		snapped.Y = bestY.value
		guides = append(guides, bestY.guide)
	}
	return snapped, guides
}

func consider(best *axisSnap, candidate, target float32, opts Options, g GuideLine) {
	d := geom.Abs(candidate - target)
	if d >= opts.SnapThreshold {
		return
	}
	if opts.SnapPolicy == SnapClosest && d >= best.dist {
		return
	}
	best.ok = true
	best.value = target
	best.dist = d
	best.guide = g
}

func verticalGuide(x float32, kind string, y1, y2, f float32) GuideLine {
	top := min(y1, y2)
	bottom := max(y1, y2) + f
	return GuideLine{Orientation: "vertical", Kind: kind, Position: x, From: geom.Pt{X: x, Y: top}, To: geom.Pt{X: x, Y: bottom}}
}

func horizontalGuide(y float32, kind string, x1, x2, f float32) GuideLine {
	left := min(x1, x2)
	right := max(x1, x2) + f
	return GuideLine{Orientation: "horizontal", Kind: kind, Position: y, From: geom.Pt{X: left, Y: y}, To: geom.Pt{X: right, Y: y}}
}

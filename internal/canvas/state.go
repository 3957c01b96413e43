/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "vschords/internal/geom"

// State is the interaction mode of the controller.
// Idle: nothing active; Panning: background drag; DraggingNode: moving one node;
// ConnectingDraft: a link is being drawn from an output port.
type State int

const (
	Idle State = iota
	Panning
	DraggingNode
	ConnectingDraft
)

func (s State) String() string {
	switch s {
	case Panning:
		return "panning"
	case DraggingNode:
		return "dragging"
	case ConnectingDraft:
		return "connecting"
	default:
		return "idle"
	}
}

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// PointerEvent is a pointer sample in window coordinates. Canvas is the canvas
// element's rectangle in the same space, sampled at event time.
type PointerEvent struct {
	Pos    geom.Pt
	Canvas geom.Rect
	Button Button
}

// Origin is the top-left of the canvas element.
func (e PointerEvent) Origin() geom.Pt { return e.Canvas.Min() }

// Inside reports whether the pointer is over the canvas element. An empty
// canvas rectangle means unbounded.
func (e PointerEvent) Inside() bool {
	if e.Canvas.W <= 0 || e.Canvas.H <= 0 {
		return true
	}
	return e.Canvas.Contains(e.Pos)
}

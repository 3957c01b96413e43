/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas implements the interaction engine of the chord canvas: the
// viewport, panning, node dragging with neighbour snapping, palette drops and
// port-to-port connection drawing. It is UI-agnostic; frontends feed pointer
// events in window coordinates and draw the resulting Scene.
package canvas

import (
	"log/slog"

	"vschords/internal/geom"
	"vschords/internal/graph"
	applog "vschords/internal/log"
)

// EventSink receives anonymous usage events (node_created, connection_created).
type EventSink func(name string, props map[string]any)

// Controller is the single writer of the session stores. It is not safe for
// concurrent use; frontends call it from their UI goroutine.
type Controller struct {
	session *graph.Session
	opts    Options
	layout  Layout
	log     *slog.Logger

	vp    geom.Viewport
	state State

	// node drag
	dragNodeID  string
	grab        geom.Pt
	pendingDrop bool // node came from the palette and is not committed yet

	// connection draft
	draftSource string

	pointer    geom.Pt // last pointer position, world space
	lastScreen geom.Pt // last pointer position, window space
	guides     []GuideLine

	onChange func()
	events   EventSink
}

// New returns a controller bound to session with an identity viewport.
func New(session *graph.Session, opts Options) *Controller {
	opts = opts.normalized()
	return &Controller{
		session: session,
		opts:    opts,
		layout:  Layout{F: opts.Footprint},
		log:     applog.WithComponent("canvas"),
		vp:      geom.IdentityViewport,
	}
}

// SetOnChange registers a callback invoked after every state or store change.
func (c *Controller) SetOnChange(fn func()) { c.onChange = fn }

// SetEventSink registers a receiver for usage events.
func (c *Controller) SetEventSink(fn EventSink) { c.events = fn }

func (c *Controller) Session() *graph.Session { return c.session }
func (c *Controller) Options() Options        { return c.opts }
func (c *Controller) Layout() Layout          { return c.layout }
func (c *Controller) State() State            { return c.state }
func (c *Controller) Viewport() geom.Viewport { return c.vp }
func (c *Controller) NodeCount() int          { return c.session.Nodes.Len() }

// Guides returns the snap guides of the current drag.
func (c *Controller) Guides() []GuideLine { return append([]GuideLine(nil), c.guides...) }

// SetViewport replaces pan and zoom, e.g. for "reset view".
func (c *Controller) SetViewport(vp geom.Viewport) {
	if vp.Zoom <= 0 {
		vp.Zoom = 1
	}
	c.vp = vp
	c.changed()
}

// Dragging returns the id of the node being dragged.
func (c *Controller) Dragging() (string, bool) { return c.dragNodeID, c.state == DraggingNode }

// Draft returns the source node and live pointer of the connection draft.
func (c *Controller) Draft() (source string, pointer geom.Pt, ok bool) {
	return c.draftSource, c.pointer, c.state == ConnectingDraft
}

func (c *Controller) toWorld(ev PointerEvent) geom.Pt {
	return geom.ScreenToWorld(ev.Pos, c.vp, ev.Origin())
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) emit(name string, props map[string]any) {
	if c.events != nil {
		c.events(name, props)
	}
}

// HitTest reports what lies under a window-space pointer position.
func (c *Controller) HitTest(ev PointerEvent) Target {
	return c.hit(c.toWorld(ev))
}

// hit resolves shared flush edges towards the input port while a draft is
// being carried and towards the output port otherwise.
func (c *Controller) hit(world geom.Pt) Target {
	if c.state == ConnectingDraft {
		return c.layout.HitTestDrop(world, c.session.Nodes.Nodes())
	}
	return c.layout.HitTest(world, c.session.Nodes.Nodes())
}

// PointerDown handles a press on the canvas.
func (c *Controller) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonPrimary {
		return
	}
	world := c.toWorld(ev)
	c.pointer = world
	c.lastScreen = ev.Pos
	hit := c.hit(world)
	c.log.Debug("pointer down", slog.String("state", c.state.String()), slog.String("target", hit.Kind.String()), slog.String("node", hit.NodeID))

	switch hit.Kind {
	case TargetDelete:
		c.DeleteNode(hit.NodeID)
		return
	case TargetOutputPort:
		c.dragNodeID = ""
		c.pendingDrop = false
		c.draftSource = hit.NodeID
		c.state = ConnectingDraft
	case TargetInputPort:
		if c.state == ConnectingDraft {
			c.commitDraft(hit.NodeID)
		}
	case TargetBody:
		if c.state == ConnectingDraft {
			// dragging is disabled mid-connection
			return
		}
		n, ok := c.session.Nodes.Find(hit.NodeID)
		if !ok {
			return
		}
		c.grab = world.Sub(n.Pos)
		c.dragNodeID = n.ID
		c.pendingDrop = false
		c.state = DraggingNode
	default:
		switch c.state {
		case ConnectingDraft:
			c.cancelDraft("press on empty canvas")
		case Idle:
			c.state = Panning
		}
	}
	c.changed()
}

// PointerMove handles pointer motion, including motion outside the canvas
// while a gesture is active.
func (c *Controller) PointerMove(ev PointerEvent) {
	world := c.toWorld(ev)
	dx := ev.Pos.X - c.lastScreen.X
	dy := ev.Pos.Y - c.lastScreen.Y
	c.lastScreen = ev.Pos
	c.pointer = world

	switch c.state {
	case Panning:
		c.vp = c.vp.Pan(dx, dy)
	case DraggingNode:
		candidate := world.Sub(c.grab)
		pos, guides := Snap(candidate, c.dragNodeID, c.session.Nodes.Nodes(), c.opts)
		c.session.Nodes.Move(c.dragNodeID, pos)
		c.guides = guides
	case ConnectingDraft:
	default:
		return
	}
	c.changed()
}

// PointerUp ends the active gesture. Panning and node drags always end. A
// draft is committed when released over another node's input port, stays
// armed when released over its own output port (click-to-connect) and is
// discarded anywhere else. On an edge shared with a flush neighbour the
// neighbour's input port wins, so the release commits.
func (c *Controller) PointerUp(ev PointerEvent) {
	world := c.toWorld(ev)
	c.pointer = world
	c.lastScreen = ev.Pos
	prev := c.state

	switch c.state {
	case ConnectingDraft:
		hit := c.hit(world)
		switch {
		case hit.Kind == TargetInputPort:
			c.commitDraft(hit.NodeID)
		case hit.Kind == TargetOutputPort && hit.NodeID == c.draftSource:
		default:
			c.cancelDraft("released away from an input port")
		}
	case DraggingNode:
		if c.pendingDrop {
			if ev.Inside() {
				n, _ := c.session.Nodes.Find(c.dragNodeID)
				c.log.Debug("palette node placed", slog.String("node", n.ID), slog.String("label", n.Label))
				c.emit("node_created", map[string]any{"nodes": c.session.Nodes.Len()})
			} else {
				c.session.DeleteNode(c.dragNodeID)
				c.log.Debug("palette drop outside canvas discarded", slog.String("node", c.dragNodeID))
			}
		}
	}

	c.dragNodeID = ""
	c.pendingDrop = false
	c.guides = nil
	if c.state == Panning || c.state == DraggingNode {
		c.state = Idle
	}
	if prev != Idle || c.state != Idle {
		c.changed()
	}
}

// Scroll zooms around the pointer. dy is the wheel delta in pixels.
func (c *Controller) Scroll(ev PointerEvent, dy float32) {
	if dy == 0 {
		return
	}
	anchor := ev.Pos.Sub(ev.Origin())
	z := c.vp.Zoom * (1 + dy*ZoomStep)
	c.vp = c.vp.ZoomAt(anchor, z)
	c.changed()
}

// BeginPaletteDrag creates a node for a palette item under the pointer and
// starts dragging it, centred on the pointer. The node is removed again if the
// pointer is released outside the canvas.
func (c *Controller) BeginPaletteDrag(label, color string, ev PointerEvent) graph.Node {
	if c.state == ConnectingDraft {
		c.cancelDraft("palette drag started")
	}
	world := c.toWorld(ev)
	half := c.opts.Footprint / 2
	n := c.session.Nodes.Create(graph.KindGeneric, label, color, geom.Pt{X: world.X - half, Y: world.Y - half})
	c.dragNodeID = n.ID
	c.grab = geom.Pt{X: half, Y: half}
	c.pendingDrop = true
	c.pointer = world
	c.lastScreen = ev.Pos
	c.state = DraggingNode
	c.log.Debug("palette drag started", slog.String("node", n.ID), slog.String("label", label))
	c.changed()
	return n
}

// DeleteNode removes a generic node and every connection touching it.
func (c *Controller) DeleteNode(id string) bool {
	if !c.session.DeleteNode(id) {
		return false
	}
	if c.dragNodeID == id {
		c.dragNodeID = ""
		c.pendingDrop = false
		c.guides = nil
		c.state = Idle
	}
	if c.state == ConnectingDraft && c.draftSource == id {
		c.draftSource = ""
		c.state = Idle
	}
	c.log.Debug("node deleted", slog.String("node", id))
	c.changed()
	return true
}

// Connect commits a link directly, with the same rules as a drawn one.
func (c *Controller) Connect(source, target string) bool {
	conn, ok := c.session.Connect(source, target)
	if ok {
		c.log.Debug("connection created", slog.String("id", conn.ID), slog.String("source", source), slog.String("target", target))
		c.emit("connection_created", map[string]any{"connections": c.session.Connections.Len()})
		c.changed()
	}
	return ok
}

func (c *Controller) commitDraft(target string) {
	source := c.draftSource
	c.draftSource = ""
	c.state = Idle
	if target == source {
		c.log.Debug("draft released on its own node", slog.String("node", source))
		return
	}
	if !c.Connect(source, target) {
		c.log.Debug("connection ignored", slog.String("source", source), slog.String("target", target))
	}
}

func (c *Controller) cancelDraft(reason string) {
	c.log.Debug("draft cancelled", slog.String("source", c.draftSource), slog.String("reason", reason))
	c.draftSource = ""
	c.state = Idle
}

// Scene returns the current render model including the draft link and guides.
func (c *Controller) Scene() Scene {
	sc := BuildScene(c.session.Snapshot(), c.opts.Footprint)
	sc.Viewport = c.vp
	sc.State = c.state
	sc.Guides = c.Guides()
	for i := range sc.Nodes {
		id := sc.Nodes[i].ID
		sc.Nodes[i].Active = (c.state == DraggingNode && id == c.dragNodeID) ||
			(c.state == ConnectingDraft && id == c.draftSource)
	}
	if c.state == ConnectingDraft {
		if src, ok := c.session.Nodes.Find(c.draftSource); ok {
			sc.Links = append(sc.Links, Link{Source: src.ID, Curve: c.layout.DraftCurve(src, c.pointer), Draft: true})
		}
	}
	return sc
}

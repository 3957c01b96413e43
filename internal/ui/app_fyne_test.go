//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
//
// Ensure you have the Fyne dependencies installed and a working OS driver.
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	chords "vschords/internal/canvas"
	"vschords/internal/geom"
	"vschords/internal/graph"
)

// widget origin in window space for all synthetic events
var origin = fyne.NewPos(10, 20)

func newTestCanvas(t *testing.T) *ChordCanvas {
	t.Helper()
	test.NewTempApp(t)
	ctl := chords.New(graph.NewSession(graph.Sequential()), chords.DefaultOptions())
	cc := NewChordCanvas(ctl)
	cc.Resize(fyne.NewSize(800, 600))
	return cc
}

func mouse(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	rel := fyne.NewPos(x, y)
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: rel, AbsolutePosition: rel.Add(origin)},
		Button:     b,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	rel := fyne.NewPos(x, y)
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: rel, AbsolutePosition: rel.Add(origin)}}
}

func TestChordCanvas_Defaults(t *testing.T) {
	cc := newTestCanvas(t)
	sz := cc.PreferredSize()
	if sz.Width != 800 || sz.Height != 600 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
	if cc.Controller().State() != chords.Idle {
		t.Fatalf("expected idle controller, got %v", cc.Controller().State())
	}
}

func TestChordCanvas_PanUsesWindowDelta(t *testing.T) {
	cc := newTestCanvas(t)
	cc.MouseDown(mouse(400, 200, desktop.MouseButtonPrimary))
	if cc.Controller().State() != chords.Panning {
		t.Fatalf("expected panning, got %v", cc.Controller().State())
	}
	cc.Dragged(drag(430, 215))
	// pointer leaves the widget; the drag keeps panning
	cc.Dragged(drag(-50, 215))
	cc.DragEnd()
	cc.MouseUp(mouse(-50, 215, desktop.MouseButtonPrimary))

	vp := cc.Controller().Viewport()
	if vp.X != -450 || vp.Y != 15 {
		t.Fatalf("unexpected viewport after pan: %+v", vp)
	}
	if cc.Controller().State() != chords.Idle {
		t.Fatalf("expected idle after release, got %v", cc.Controller().State())
	}
}

func TestChordCanvas_ClickToConnect(t *testing.T) {
	cc := newTestCanvas(t)
	ctl := cc.Controller()
	n := ctl.Session().Nodes.Create(graph.KindGeneric, "C Maj7", "#16a34a", geom.P(300, 300))

	// press and release on the start node's output port arms the draft
	cc.MouseDown(mouse(196, 348, desktop.MouseButtonPrimary))
	cc.MouseUp(mouse(196, 348, desktop.MouseButtonPrimary))
	if ctl.State() != chords.ConnectingDraft {
		t.Fatalf("expected armed draft, got %v", ctl.State())
	}

	cc.MouseMoved(mouse(260, 340, desktop.MouseButtonPrimary))
	if _, p, ok := ctl.Draft(); !ok || p != geom.P(260, 340) {
		t.Fatalf("draft should follow hover, got %v ok=%v", p, ok)
	}

	cc.MouseDown(mouse(300, 348, desktop.MouseButtonPrimary))
	cc.MouseUp(mouse(300, 348, desktop.MouseButtonPrimary))
	if ctl.State() != chords.Idle {
		t.Fatalf("expected idle after commit, got %v", ctl.State())
	}
	if !ctl.Session().Connections.Exists(graph.StartID, n.ID) {
		t.Fatal("expected connection start -> node")
	}
}

func TestChordCanvas_SecondaryButtonIgnored(t *testing.T) {
	cc := newTestCanvas(t)
	cc.MouseDown(mouse(400, 200, desktop.MouseButtonSecondary))
	if cc.Controller().State() != chords.Idle {
		t.Fatalf("secondary press should not start a gesture, got %v", cc.Controller().State())
	}
}

func TestChordCanvas_ScrollZoomsAroundPointer(t *testing.T) {
	cc := newTestCanvas(t)
	ev := &fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(148, 348), AbsolutePosition: fyne.NewPos(158, 368)}}
	ev.Scrolled = fyne.Delta{DY: 100}
	cc.Scrolled(ev)
	vp := cc.Controller().Viewport()
	if vp.Zoom != 2 {
		t.Fatalf("expected zoom 2, got %v", vp.Zoom)
	}
	// world point under the pointer stays put
	w := geom.ScreenToWorld(geom.P(158, 368), vp, geom.P(10, 20))
	if w != geom.P(148, 348) {
		t.Fatalf("anchor moved: %v", w)
	}
}

func TestSceneObjects_Counts(t *testing.T) {
	cc := newTestCanvas(t)
	ctl := cc.Controller()

	// start node: body, label, output port
	if got := len(sceneObjects(ctl.Scene(), ctl.Layout())); got != 3 {
		t.Fatalf("fresh scene: expected 3 objects, got %d", got)
	}

	n := ctl.Session().Nodes.Create(graph.KindGeneric, "A min7", "#ca8a04", geom.P(500, 300))
	// + body, label, input, output, delete disc and glyph
	if got := len(sceneObjects(ctl.Scene(), ctl.Layout())); got != 9 {
		t.Fatalf("with one chord: expected 9 objects, got %d", got)
	}

	ctl.Connect(graph.StartID, n.ID)
	if got := len(sceneObjects(ctl.Scene(), ctl.Layout())); got != 9+curveSegments {
		t.Fatalf("with one link: expected %d objects, got %d", 9+curveSegments, got)
	}
}

func TestChordCanvas_RendererIncludesBackground(t *testing.T) {
	cc := newTestCanvas(t)
	r := cc.CreateRenderer()
	if got := len(r.Objects()); got != 4 {
		t.Fatalf("expected background plus 3 start node objects, got %d", got)
	}
	r.Layout(fyne.NewSize(1000, 700))
	if bg := r.Objects()[0]; bg.Size() != fyne.NewSize(1000, 700) {
		t.Fatalf("background not resized: %v", bg.Size())
	}
}

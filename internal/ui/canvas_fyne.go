//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	chords "vschords/internal/canvas"
	"vschords/internal/geom"
	"vschords/internal/graph"
	"vschords/internal/palette"
)

const curveSegments = 24

var (
	colBackground = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	colLink       = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	colDraft      = color.NRGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff}
	colGuide      = color.NRGBA{R: 0xf4, G: 0x72, B: 0xb6, A: 0xc0}
	colPort       = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	colDelete     = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	colActive     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ChordCanvas draws the controller's scene and feeds it pointer input.
// Positions handed to the controller are absolute window coordinates, so a
// drag that leaves the widget keeps working: fyne continues to route drag
// events to the widget that received the press.
type ChordCanvas struct {
	widget.BaseWidget
	ctl *chords.Controller

	pressed bool
	last    fyne.Position // absolute position of the last pointer sample
	origin  fyne.Position // absolute top-left of the widget at the last sample
}

var (
	_ fyne.Draggable      = (*ChordCanvas)(nil)
	_ fyne.Scrollable     = (*ChordCanvas)(nil)
	_ desktop.Mouseable   = (*ChordCanvas)(nil)
	_ desktop.Hoverable   = (*ChordCanvas)(nil)
	_ fyne.WidgetRenderer = (*chordCanvasRenderer)(nil)
)

func NewChordCanvas(ctl *chords.Controller) *ChordCanvas {
	cc := &ChordCanvas{ctl: ctl}
	cc.ExtendBaseWidget(cc)
	return cc
}

// Controller returns the interaction engine behind the widget.
func (c *ChordCanvas) Controller() *chords.Controller { return c.ctl }

// PreferredSize sets a decent default size for the widget.
func (c *ChordCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

// event builds a controller event. abs and rel are the same pointer sample in
// window and widget space; their difference is the widget origin.
func (c *ChordCanvas) event(abs, rel fyne.Position, b chords.Button) chords.PointerEvent {
	c.origin = abs.Subtract(rel)
	c.last = abs
	return c.eventAt(abs, b)
}

func (c *ChordCanvas) eventAt(abs fyne.Position, b chords.Button) chords.PointerEvent {
	sz := c.Size()
	return chords.PointerEvent{
		Pos:    geom.P(abs.X, abs.Y),
		Canvas: geom.R(c.origin.X, c.origin.Y, sz.Width, sz.Height),
		Button: b,
	}
}

func button(b desktop.MouseButton) chords.Button {
	if b == desktop.MouseButtonPrimary {
		return chords.ButtonPrimary
	}
	return chords.ButtonSecondary
}

// MouseDown starts a gesture.
func (c *ChordCanvas) MouseDown(e *desktop.MouseEvent) {
	b := button(e.Button)
	if b == chords.ButtonPrimary {
		c.pressed = true
	}
	c.ctl.PointerDown(c.event(e.AbsolutePosition, e.Position, b))
}

// MouseUp ends a gesture that did not turn into a drag, or one whose DragEnd
// has not arrived yet.
func (c *ChordCanvas) MouseUp(e *desktop.MouseEvent) {
	c.origin = e.AbsolutePosition.Subtract(e.Position)
	c.release(e.AbsolutePosition)
}

func (c *ChordCanvas) Dragged(e *fyne.DragEvent) {
	c.ctl.PointerMove(c.event(e.AbsolutePosition, e.Position, chords.ButtonPrimary))
}

func (c *ChordCanvas) DragEnd() { c.release(c.last) }

func (c *ChordCanvas) release(abs fyne.Position) {
	if !c.pressed {
		return
	}
	c.pressed = false
	c.last = abs
	c.ctl.PointerUp(c.eventAt(abs, chords.ButtonPrimary))
}

// MouseMoved keeps an armed draft following the pointer between clicks.
func (c *ChordCanvas) MouseMoved(e *desktop.MouseEvent) {
	if c.pressed {
		return
	}
	c.ctl.PointerMove(c.event(e.AbsolutePosition, e.Position, chords.ButtonPrimary))
}

func (c *ChordCanvas) MouseIn(*desktop.MouseEvent) {}
func (c *ChordCanvas) MouseOut()                   {}

// Scrolled zooms around the pointer.
func (c *ChordCanvas) Scrolled(e *fyne.ScrollEvent) {
	c.ctl.Scroll(c.event(e.AbsolutePosition, e.Position, chords.ButtonPrimary), e.Scrolled.DY)
}

// BeginPaletteDrag hands a palette drag over to the canvas. abs is the
// pointer in window coordinates.
func (c *ChordCanvas) BeginPaletteDrag(item palette.Item, abs fyne.Position) {
	c.syncOrigin()
	c.last = abs
	c.ctl.BeginPaletteDrag(item.Label, item.Color, c.eventAt(abs, chords.ButtonPrimary))
}

// PaletteDragMoved forwards the pointer of a palette drag.
func (c *ChordCanvas) PaletteDragMoved(abs fyne.Position) {
	c.last = abs
	c.ctl.PointerMove(c.eventAt(abs, chords.ButtonPrimary))
}

// PaletteDragEnded drops the dragged node at the last pointer position.
func (c *ChordCanvas) PaletteDragEnded() {
	c.syncOrigin()
	c.ctl.PointerUp(c.eventAt(c.last, chords.ButtonPrimary))
}

func (c *ChordCanvas) syncOrigin() {
	if a := fyne.CurrentApp(); a != nil {
		c.origin = a.Driver().AbsolutePositionForObject(c)
	}
}

// CreateRenderer builds the background; scene objects are rebuilt on layout.
func (c *ChordCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(colBackground)
	r := &chordCanvasRenderer{cc: c, bg: bg}
	r.Layout(c.Size())
	return r
}

type chordCanvasRenderer struct {
	cc      *ChordCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *chordCanvasRenderer) Destroy()                     {}
func (r *chordCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *chordCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 200) }
func (r *chordCanvasRenderer) Refresh()                     { r.Layout(r.cc.Size()); canvas.Refresh(r.cc) }

func (r *chordCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.objects = append([]fyne.CanvasObject{r.bg}, sceneObjects(r.cc.ctl.Scene(), r.cc.ctl.Layout())...)
}

// sceneObjects converts a scene into positioned fyne primitives in widget
// space. Draw order: links, guides, nodes in store order.
func sceneObjects(sc chords.Scene, lay chords.Layout) []fyne.CanvasObject {
	vp := sc.Viewport
	z := vp.Zoom
	if z <= 0 {
		z = 1
	}
	toLocal := func(p geom.Pt) fyne.Position {
		s := geom.WorldToScreen(p, vp, geom.Pt{})
		return fyne.NewPos(s.X, s.Y)
	}
	var objs []fyne.CanvasObject

	for _, l := range sc.Links {
		col := colLink
		if l.Draft {
			col = colDraft
		}
		pts := l.Curve.Flatten(curveSegments)
		for i := 1; i < len(pts); i++ {
			if l.Draft && i%2 == 0 {
				continue
			}
			seg := canvas.NewLine(col)
			seg.StrokeWidth = 2
			seg.Position1 = toLocal(pts[i-1])
			seg.Position2 = toLocal(pts[i])
			objs = append(objs, seg)
		}
	}

	for _, g := range sc.Guides {
		gl := canvas.NewLine(colGuide)
		gl.StrokeWidth = 1
		gl.Position1 = toLocal(g.From)
		gl.Position2 = toLocal(g.To)
		objs = append(objs, gl)
	}

	for _, n := range sc.Nodes {
		fill, _ := palette.ParseHex(n.Color)
		topLeft := toLocal(n.Rect.Min())
		size := fyne.NewSize(n.Rect.W*z, n.Rect.H*z)
		if n.Kind == graph.KindStart {
			body := canvas.NewCircle(fill)
			if n.Active {
				body.StrokeColor = colActive
				body.StrokeWidth = 2
			}
			body.Move(topLeft)
			body.Resize(size)
			objs = append(objs, body)
		} else {
			body := canvas.NewRectangle(fill)
			body.CornerRadius = 8 * z
			if n.Active {
				body.StrokeColor = colActive
				body.StrokeWidth = 2
			}
			body.Move(topLeft)
			body.Resize(size)
			objs = append(objs, body)
		}

		label := canvas.NewText(n.Label, color.White)
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.TextSize = 13 * z
		label.Alignment = fyne.TextAlignCenter
		th := fyne.MeasureText(n.Label, label.TextSize, label.TextStyle).Height
		label.Move(fyne.NewPos(topLeft.X, topLeft.Y+(size.Height-th)/2))
		label.Resize(fyne.NewSize(size.Width, th))
		objs = append(objs, label)

		portR := 6 * z
		if n.ShowInput {
			objs = append(objs, disc(toLocal(lay.InputAnchor(n.Node)), portR, colPort))
		}
		if n.ShowOutput {
			objs = append(objs, disc(toLocal(lay.OutputAnchor(n.Node)), portR, colPort))
		}
		if n.Deletable {
			db := lay.DeleteButton(n.Node)
			objs = append(objs, disc(toLocal(db.Center()), db.W*z/2-2*z, colDelete))
			x := canvas.NewText("×", color.White)
			x.TextSize = 12 * z
			x.Alignment = fyne.TextAlignCenter
			x.Move(toLocal(db.Min()))
			x.Resize(fyne.NewSize(db.W*z, db.H*z))
			objs = append(objs, x)
		}
	}
	return objs
}

func disc(center fyne.Position, radius float32, col color.Color) *canvas.Circle {
	c := canvas.NewCircle(col)
	c.Move(fyne.NewPos(center.X-radius, center.Y-radius))
	c.Resize(fyne.NewSize(2*radius, 2*radius))
	return c
}

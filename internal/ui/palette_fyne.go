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
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"vschords/internal/palette"
)

// PaletteItem is a draggable chord template. The first drag sample hands the
// gesture to the canvas, which creates the node and tracks the pointer from
// then on; the item only relays positions.
type PaletteItem struct {
	widget.BaseWidget
	Item   palette.Item
	target *ChordCanvas

	dragging bool
}

var _ fyne.Draggable = (*PaletteItem)(nil)

func NewPaletteItem(item palette.Item, target *ChordCanvas) *PaletteItem {
	p := &PaletteItem{Item: item, target: target}
	p.ExtendBaseWidget(p)
	return p
}

func (p *PaletteItem) Dragged(e *fyne.DragEvent) {
	if !p.dragging {
		p.dragging = true
		p.target.BeginPaletteDrag(p.Item, e.AbsolutePosition)
		return
	}
	p.target.PaletteDragMoved(e.AbsolutePosition)
}

func (p *PaletteItem) DragEnd() {
	if !p.dragging {
		return
	}
	p.dragging = false
	p.target.PaletteDragEnded()
}

func (p *PaletteItem) CreateRenderer() fyne.WidgetRenderer {
	fill, _ := palette.ParseHex(p.Item.Color)
	bg := canvas.NewRectangle(fill)
	bg.CornerRadius = 4
	label := canvas.NewText(p.Item.Label, color.White)
	label.TextStyle = fyne.TextStyle{Bold: true}
	grip := canvas.NewText("⋮⋮", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80})
	row := container.NewBorder(nil, nil, label, grip)
	return widget.NewSimpleRenderer(container.NewStack(bg, container.NewPadded(row)))
}

func (p *PaletteItem) MinSize() fyne.Size { return fyne.NewSize(200, 40) }

// newSidebar builds the sidebar body for a tab. The palette is listed under
// the search tab; the explorer tab shows a placeholder.
func newSidebar(tab string, items []palette.Item, target *ChordCanvas) fyne.CanvasObject {
	header := widget.NewLabelWithStyle(SidebarTitle(tab), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	if tab != TabSearch {
		return container.NewBorder(header, nil, nil, nil, widget.NewLabel("No open editors"))
	}
	hint := canvas.NewText("Drag to canvas", color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff})
	hint.TextSize = 11
	list := container.NewVBox(hint)
	for _, it := range items {
		list.Add(NewPaletteItem(it, target))
	}
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(list))
}

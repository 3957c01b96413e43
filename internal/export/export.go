/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a canvas scene to SVG, PNG or PDF. All exporters draw
// in world coordinates shifted so the scene's bounding box plus padding starts
// at the origin; the viewport is ignored.
package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"vschords/internal/canvas"
	"vschords/internal/geom"
	"vschords/internal/palette"
)

// Format is an output file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "svg", "png" or "pdf" in any case, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Options controls rendering. Zero values get defaults.
//
//nolint:revive // clarity is preferred
type Options struct {
	Padding       float64 // world units around the scene bounds
	Scale         float64 // PNG pixels per world unit
	IncludeGuides bool
	IncludeDraft  bool
	Title         string
	Background    color.NRGBA
	LinkColor     color.NRGBA
	TextColor     color.NRGBA
}

func (o Options) withDefaults() Options {
	if o.Padding <= 0 {
		o.Padding = 48
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Title == "" {
		o.Title = "VS Chords"
	}
	if o.Background == (color.NRGBA{}) {
		o.Background = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	}
	if o.LinkColor == (color.NRGBA{}) {
		o.LinkColor = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	}
	if o.TextColor == (color.NRGBA{}) {
		o.TextColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return o
}

var (
	guideColor = color.NRGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
	portColor  = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
)

// frame maps world coordinates into the output page.
type frame struct {
	bounds geom.Rect
	pad    float64
	w, h   float64
}

func newFrame(sc canvas.Scene, pad float64) frame {
	b := sc.Bounds()
	return frame{bounds: b, pad: pad, w: float64(b.W) + 2*pad, h: float64(b.H) + 2*pad}
}

func (f frame) pt(p geom.Pt) (float64, float64) {
	return float64(p.X-f.bounds.X) + f.pad, float64(p.Y-f.bounds.Y) + f.pad
}

func (f frame) rect(r geom.Rect) (x, y, w, h float64) {
	x, y = f.pt(r.Min())
	return x, y, float64(r.W), float64(r.H)
}

// links returns the links to draw, dropping the draft unless requested.
func links(sc canvas.Scene, opt Options) []canvas.Link {
	out := make([]canvas.Link, 0, len(sc.Links))
	for _, l := range sc.Links {
		if l.Draft && !opt.IncludeDraft {
			continue
		}
		out = append(out, l)
	}
	return out
}

func nodeColor(hex string) color.NRGBA {
	c, _ := palette.ParseHex(hex)
	return c
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ensureDir creates the parent directory of outPath.
func ensureDir(outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	return nil
}

// Write renders sc to outPath in the given format.
func Write(sc canvas.Scene, format Format, outPath string, opt Options) error {
	switch format {
	case FormatSVG:
		return ExportSVG(sc, outPath, opt)
	case FormatPNG:
		return ExportPNG(sc, outPath, opt)
	case FormatPDF:
		return ExportPDF(sc, outPath, opt)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

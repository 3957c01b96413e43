/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"vschords/internal/canvas"
	"vschords/internal/geom"
	"vschords/internal/graph"
)

const curveSegments = 48

// raster draws scene primitives into an RGBA image in page pixels.
type raster struct {
	img   *image.RGBA
	fr    frame
	scale float64
}

func (r *raster) px(p geom.Pt) (float32, float32) {
	x, y := r.fr.pt(p)
	return float32(x * r.scale), float32(y * r.scale)
}

func (r *raster) fill(z *vector.Rasterizer, c color.NRGBA) {
	z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *raster) newRasterizer() *vector.Rasterizer {
	b := r.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

// roundRect fills a rectangle with quadratic corners of radius rad (world units).
func (r *raster) roundRect(rect geom.Rect, rad float32, c color.NRGBA) {
	x0, y0 := r.px(rect.Min())
	x1, y1 := r.px(rect.Max())
	k := rad * float32(r.scale)
	k = min(k, (x1-x0)/2, (y1-y0)/2)
	z := r.newRasterizer()
	z.MoveTo(x0+k, y0)
	z.LineTo(x1-k, y0)
	z.QuadTo(x1, y0, x1, y0+k)
	z.LineTo(x1, y1-k)
	z.QuadTo(x1, y1, x1-k, y1)
	z.LineTo(x0+k, y1)
	z.QuadTo(x0, y1, x0, y1-k)
	z.LineTo(x0, y0+k)
	z.QuadTo(x0, y0, x0+k, y0)
	z.ClosePath()
	r.fill(z, c)
}

// disc fills a circle of radius rad pixels around a world point.
func (r *raster) disc(center geom.Pt, rad float32, c color.NRGBA) {
	cx, cy := r.px(center)
	const kappa = 0.5523
	k := rad * kappa
	z := r.newRasterizer()
	z.MoveTo(cx+rad, cy)
	z.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
	z.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
	z.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
	z.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	z.ClosePath()
	r.fill(z, c)
}

// polyline strokes consecutive world points with the given pixel width. When
// dashed, every other segment is skipped.
func (r *raster) polyline(pts []geom.Pt, width float32, dashed bool, c color.NRGBA) {
	z := r.newRasterizer()
	half := width / 2
	for i := 1; i < len(pts); i++ {
		if dashed && i%2 == 0 {
			continue
		}
		ax, ay := r.px(pts[i-1])
		bx, by := r.px(pts[i])
		dx, dy := bx-ax, by-ay
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		z.MoveTo(ax+nx, ay+ny)
		z.LineTo(bx+nx, by+ny)
		z.LineTo(bx-nx, by-ny)
		z.LineTo(ax-nx, ay-ny)
		z.ClosePath()
	}
	r.fill(z, c)
}

// label centres text on a world point using the fixed 7x13 face.
func (r *raster) label(center geom.Pt, text string, c color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: r.img, Src: image.NewUniform(c), Face: face}
	cx, cy := r.px(center)
	w := d.MeasureString(text)
	m := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(cx)) - w/2,
		Y: fixed.I(int(cy)) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(text)
}

// WritePNG renders sc as a PNG image. Scale sets pixels per world unit.
func WritePNG(w io.Writer, sc canvas.Scene, opt Options) error {
	opt = opt.withDefaults()
	fr := newFrame(sc, opt.Padding)
	pixW := int(math.Round(fr.w * opt.Scale))
	pixH := int(math.Round(fr.h * opt.Scale))
	if pixW <= 0 || pixH <= 0 {
		return fmt.Errorf("empty image %dx%d", pixW, pixH)
	}

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), image.NewUniform(opt.Background), image.Point{}, draw.Src)
	r := &raster{img: img, fr: fr, scale: opt.Scale}

	lw := float32(2 * opt.Scale)
	for _, l := range links(sc, opt) {
		r.polyline(l.Curve.Flatten(curveSegments), lw, l.Draft, opt.LinkColor)
	}
	for _, n := range sc.Nodes {
		rad := n.Rect.W / 4
		if n.Kind == graph.KindStart {
			rad = n.Rect.W / 2
		}
		r.roundRect(n.Rect, rad, nodeColor(n.Color))
		c := n.Rect.Center()
		r.label(c, n.Label, opt.TextColor)
		pr := float32(6 * opt.Scale)
		if n.ShowInput {
			r.disc(geom.Pt{X: n.Rect.X, Y: c.Y}, pr, portColor)
		}
		if n.ShowOutput {
			r.disc(geom.Pt{X: n.Rect.X + n.Rect.W, Y: c.Y}, pr, portColor)
		}
	}
	if opt.IncludeGuides {
		for _, g := range sc.Guides {
			r.polyline([]geom.Pt{g.From, g.To}, 1, false, guideColor)
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportPNG writes sc to outPath as PNG.
func ExportPNG(sc canvas.Scene, outPath string, opt Options) error {
	if err := ensureDir(outPath); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(f, sc, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

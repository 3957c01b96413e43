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
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"vschords/internal/canvas"
	"vschords/internal/graph"
	"vschords/internal/version"
)

// One world unit maps to one point. The page is sized to the scene bounds plus
// padding, so large graphs produce large pages rather than being scaled down.
func buildPDF(sc canvas.Scene, opt Options) *gofpdf.Fpdf {
	opt = opt.withDefaults()
	fr := newFrame(sc, opt.Padding)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: fr.w, Ht: fr.h},
	})
	pdf.SetTitle(opt.Title, true)
	pdf.SetCreator("vschords "+version.String(), true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: fr.w, Ht: fr.h})

	setFillColor(pdf, opt.Background)
	pdf.Rect(0, 0, fr.w, fr.h, "F")

	setDrawColor(pdf, opt.LinkColor)
	pdf.SetLineWidth(2)
	for _, l := range links(sc, opt) {
		if l.Draft {
			pdf.SetDashPattern([]float64{6, 4}, 0)
		}
		x0, y0 := fr.pt(l.Curve.P0)
		x1, y1 := fr.pt(l.Curve.P1)
		x2, y2 := fr.pt(l.Curve.P2)
		x3, y3 := fr.pt(l.Curve.P3)
		pdf.CurveBezierCubic(x0, y0, x1, y1, x2, y2, x3, y3, "D")
		if l.Draft {
			pdf.SetDashPattern([]float64{}, 0)
		}
	}

	pdf.SetFont("Helvetica", "B", 11)
	for _, n := range sc.Nodes {
		x, y, w, h := fr.rect(n.Rect)
		setFillColor(pdf, nodeColor(n.Color))
		if n.Kind == graph.KindStart {
			pdf.Circle(x+w/2, y+h/2, w/2, "F")
		} else {
			pdf.Rect(x, y, w, h, "F")
		}
		setTextColor(pdf, opt.TextColor)
		tw := pdf.GetStringWidth(n.Label)
		pdf.Text(x+(w-tw)/2, y+h/2+4, n.Label)

		setFillColor(pdf, portColor)
		if n.ShowInput {
			pdf.Circle(x, y+h/2, 6, "F")
		}
		if n.ShowOutput {
			pdf.Circle(x+w, y+h/2, 6, "F")
		}
	}

	if opt.IncludeGuides && len(sc.Guides) > 0 {
		setDrawColor(pdf, guideColor)
		pdf.SetLineWidth(0.5)
		pdf.SetDashPattern([]float64{4, 4}, 0)
		for _, g := range sc.Guides {
			x0, y0 := fr.pt(g.From)
			x1, y1 := fr.pt(g.To)
			pdf.Line(x0, y0, x1, y1)
		}
		pdf.SetDashPattern([]float64{}, 0)
	}
	return pdf
}

// WritePDF renders sc as a single-page PDF.
func WritePDF(w io.Writer, sc canvas.Scene, opt Options) error {
	pdf := buildPDF(sc, opt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportPDF writes sc to outPath as PDF.
func ExportPDF(sc canvas.Scene, outPath string, opt Options) error {
	if err := ensureDir(outPath); err != nil {
		return err
	}
	pdf := buildPDF(sc, opt)
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.NRGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.NRGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c color.NRGBA) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

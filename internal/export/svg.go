/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"vschords/internal/canvas"
	"vschords/internal/geom"
	"vschords/internal/graph"
)

// WriteSVG renders sc as a standalone SVG document.
func WriteSVG(w io.Writer, sc canvas.Scene, opt Options) error {
	opt = opt.withDefaults()
	fr := newFrame(sc, opt.Padding)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n", fr.w, fr.h, fr.w, fr.h)
	wf("  <title>%s</title>\n", escText(opt.Title))
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", fr.w, fr.h, hexColor(opt.Background))

	// Shift world space into the page once; paths keep world coordinates.
	ox, oy := fr.pt(geom.Pt{})
	wf("  <g transform=\"translate(%g %g)\">\n", ox, oy)

	lc := hexColor(opt.LinkColor)
	for _, l := range links(sc, opt) {
		dash := ""
		if l.Draft {
			dash = " stroke-dasharray=\"6 4\""
		}
		wf("    <path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\"%s/>\n", l.Curve.PathData(), lc, dash)
	}

	tc := hexColor(opt.TextColor)
	pc := hexColor(portColor)
	for _, n := range sc.Nodes {
		r := n.Rect
		radius := r.W / 4
		if n.Kind == graph.KindStart {
			radius = r.W / 2
		}
		wf("    <g id=\"%s\">\n", escAttr(n.ID))
		wf("      <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" fill=\"%s\"/>\n", r.X, r.Y, r.W, r.H, radius, hexColor(nodeColor(n.Color)))
		c := r.Center()
		wf("      <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"14\" font-weight=\"bold\" text-anchor=\"middle\" dominant-baseline=\"middle\" fill=\"%s\">%s</text>\n", c.X, c.Y, tc, escText(n.Label))
		if n.ShowInput {
			wf("      <circle cx=\"%g\" cy=\"%g\" r=\"6\" fill=\"%s\"/>\n", r.X, c.Y, pc)
		}
		if n.ShowOutput {
			wf("      <circle cx=\"%g\" cy=\"%g\" r=\"6\" fill=\"%s\"/>\n", r.X+r.W, c.Y, pc)
		}
		wf("    </g>\n")
	}

	if opt.IncludeGuides {
		gc := hexColor(guideColor)
		for _, g := range sc.Guides {
			wf("    <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"1\" stroke-dasharray=\"4 4\"/>\n", g.From.X, g.From.Y, g.To.X, g.To.Y, gc)
		}
	}

	wf("  </g>\n")
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// ExportSVG writes sc to outPath as SVG.
func ExportSVG(sc canvas.Scene, outPath string, opt Options) error {
	if err := ensureDir(outPath); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sc, opt); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func escAttr(s string) string {
	// naive escaping sufficient for ids and font names
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

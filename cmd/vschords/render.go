/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vschords/internal/canvas"
	"vschords/internal/export"
	"vschords/internal/geom"
	"vschords/internal/graph"
	applog "vschords/internal/log"
	"vschords/internal/palette"
	"vschords/internal/telemetry"
	"vschords/internal/ui"
)

// fallbackColor is used for chords that are not in the palette.
const fallbackColor = "#6b7280"

// chainRequest describes a left-to-right progression hanging off the start node.
type chainRequest struct {
	Chords  []string
	Spacing float32 // horizontal gap between nodes
	Palette []palette.Item
	Options canvas.Options
	IDs     graph.IDFunc
	Events  canvas.EventSink
}

// parseChords splits a comma separated chord list, dropping empty entries.
func parseChords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// colorFor looks a label up in the palette, ignoring case.
func colorFor(label string, items []palette.Item) string {
	for _, it := range items {
		if strings.EqualFold(it.Label, label) {
			return it.Color
		}
	}
	return fallbackColor
}

// buildChain drives a controller the way a user would: every chord is
// dropped from the palette and wired to its predecessor by dragging from the
// output port to the input port, also when the two sit flush.
func buildChain(req chainRequest) (*canvas.Controller, error) {
	if len(req.Chords) == 0 {
		return nil, errors.New("no chords given")
	}
	ids := req.IDs
	if ids == nil {
		ids = graph.UUIDs
	}
	ctl := canvas.New(graph.NewSession(ids), req.Options)
	ctl.SetEventSink(req.Events)
	lay := ctl.Layout()
	f := ctl.Options().Footprint
	at := func(p geom.Pt) canvas.PointerEvent { return canvas.PointerEvent{Pos: p} }

	prev, _ := ctl.Session().Nodes.Find(graph.StartID)
	for i, label := range req.Chords {
		x := graph.StartPos.X + float32(i+1)*(f+req.Spacing)
		centre := geom.P(x+f/2, graph.StartPos.Y+f/2)
		n := ctl.BeginPaletteDrag(label, colorFor(label, req.Palette), at(centre))
		ctl.PointerUp(at(centre))

		ctl.PointerDown(at(lay.OutputAnchor(prev)))
		ctl.PointerMove(at(lay.InputAnchor(n)))
		ctl.PointerUp(at(lay.InputAnchor(n)))
		if !ctl.Session().Connections.Exists(prev.ID, n.ID) {
			return nil, fmt.Errorf("could not link %q to %q", prev.Label, label)
		}
		prev = n
	}
	return ctl, nil
}

func renderCmd() *cobra.Command {
	var (
		chords  string
		out     string
		format  string
		preset  string
		outDir  string
		name    string
		scale   float64
		spacing float32
		palFile string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build a chord chain headlessly and export it",
		Example: `  vschords render --chords "C Maj7,A min7,D min9,G 7alt" --out chords.svg
  vschords render --chords "C Maj7,A min7" --preset print --out-dir build`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := applog.WithOperation(applog.WithComponent("cli"), "render")
			items, err := resolvePalette(palFile)
			if err != nil {
				return err
			}
			tcfg := telemetry.FromEnv()
			tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
			tc := telemetry.New(tcfg)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				tc.Flush(ctx)
				tc.Close()
			}()

			ctl, err := buildChain(chainRequest{
				Chords:  parseChords(chords),
				Spacing: spacing,
				Palette: items,
				Options: ui.CanvasOptions(cfg.Editor),
				Events:  tc.Sink(),
			})
			if err != nil {
				return err
			}

			sc := ctl.Scene()
			var written []string
			if preset != "" {
				written, err = export.BatchExport(sc, export.BatchOptions{
					Preset: export.PresetName(preset),
					OutDir: outDir,
					Name:   name,
					Scale:  scale,
				})
				if err != nil {
					return err
				}
			} else {
				if out == "" {
					return errors.New("--out is required unless --preset is given")
				}
				var f export.Format
				if format != "" {
					f, err = export.ParseFormat(format)
				} else {
					f, err = export.FormatFromPath(out)
				}
				if err != nil {
					return err
				}
				if err := export.Write(sc, f, out, export.Options{Scale: scale}); err != nil {
					return fmt.Errorf("%s export: %w", strings.ToUpper(string(f)), err)
				}
				written = []string{out}
			}

			for _, p := range written {
				good.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
				tc.Event(telemetry.ExportWritten, map[string]any{"format": strings.TrimPrefix(filepath.Ext(p), "."), "nodes": ctl.NodeCount()})
			}
			l.Info("render done", slog.Int("nodes", ctl.NodeCount()), slog.Int("links", ctl.Session().Connections.Len()), slog.Int("files", len(written)))
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&chords, "chords", "C Maj7,A min7,D min9,G 7alt", "comma separated chord labels")
	fs.StringVarP(&out, "out", "o", "", "output file")
	fs.StringVar(&format, "format", "", "svg, png or pdf; defaults to the --out extension")
	fs.StringVar(&preset, "preset", "", "export preset (web or print) writing several formats")
	fs.StringVar(&outDir, "out-dir", "", "output directory for --preset")
	fs.StringVar(&name, "name", "chords", "base file name for --preset")
	fs.Float64Var(&scale, "scale", 0, "PNG pixels per canvas unit")
	fs.Float32Var(&spacing, "spacing", 64, "horizontal gap between chords")
	fs.StringVar(&palFile, "palette", "", "palette file used to colour chords")
	return cmd
}

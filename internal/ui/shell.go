/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"
	"math"

	"vschords/internal/canvas"
	"vschords/internal/config"
	applog "vschords/internal/log"
	"vschords/internal/palette"
)

// Sidebar tabs of the activity bar.
const (
	TabExplorer = "explorer"
	TabSearch   = "search"
)

// SidebarTitle is the header shown above the sidebar for a tab.
func SidebarTitle(tab string) string {
	if tab == TabExplorer {
		return "EXPLORER"
	}
	return "CHORD PALETTE"
}

// CanvasOptions maps the editor section of the user config onto controller options.
func CanvasOptions(ec config.EditorConfig) canvas.Options {
	o := canvas.DefaultOptions()
	if ec.Footprint > 0 {
		o.Footprint = ec.Footprint
	}
	if ec.SnapThreshold > 0 {
		o.SnapThreshold = ec.SnapThreshold
	}
	if ec.SnapGap > 0 {
		o.SnapGap = ec.SnapGap
	}
	o.SnapPolicy = canvas.ParseSnapPolicy(ec.SnapPolicy)
	return o
}

// LoadPalette returns the configured palette, or the built-in one when no
// file is configured. A broken palette file falls back to the default and
// the error is returned so the caller can report it.
func LoadPalette(ec config.EditorConfig) ([]palette.Item, error) {
	if ec.PaletteFile == "" {
		return palette.Default(), nil
	}
	items, err := palette.Load(ec.PaletteFile)
	if err != nil {
		applog.WithComponent("ui").Warn("palette file rejected, using default", slog.String("path", ec.PaletteFile), slog.Any("err", err))
		return palette.Default(), err
	}
	return items, nil
}

// StatusText renders the status bar line for the controller.
func StatusText(c *canvas.Controller) string {
	zoom := int(math.Round(float64(c.Viewport().Zoom) * 100))
	return fmt.Sprintf("Nodes: %d   Links: %d   Zoom: %d%%   %s",
		c.NodeCount(), c.Session().Connections.Len(), zoom, c.State())
}

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
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	chords "vschords/internal/canvas"
	"vschords/internal/config"
	"vschords/internal/crash"
	"vschords/internal/export"
	"vschords/internal/geom"
	"vschords/internal/graph"
	applog "vschords/internal/log"
	"vschords/internal/telemetry"
	"vschords/internal/version"
)

var (
	colHeader    = color.NRGBA{R: 0x3c, G: 0x3c, B: 0x3c, A: 0xff}
	colActivity  = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	colSidebar   = color.NRGBA{R: 0x25, G: 0x25, B: 0x26, A: 0xff}
	colStatusBar = color.NRGBA{R: 0x00, G: 0x7a, B: 0xcc, A: 0xff}
)

// Run starts the Fyne-based editor shell: header, activity bar, palette
// sidebar, chord canvas and status bar.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	session := graph.NewSession(graph.UUIDs)
	defer crash.Recover(session)

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	tc := telemetry.New(tcfg)
	telemetry.SetDefault(tc)
	defer tc.Close()

	items, palErr := LoadPalette(cfg.Editor)

	ctl := chords.New(session, CanvasOptions(cfg.Editor))
	ctl.SetEventSink(tc.Sink())

	fyneApp := app.NewWithID("vschords")
	switch cfg.General.Theme {
	case "light":
		fyneApp.Settings().SetTheme(theme.LightTheme()) //nolint:staticcheck // variant themes are deprecated but still the simplest switch
	case "dark":
		fyneApp.Settings().SetTheme(theme.DarkTheme()) //nolint:staticcheck
	}
	w := fyneApp.NewWindow("VS Chords")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	chordCanvas := NewChordCanvas(ctl)

	// Status bar
	status := canvas.NewText("", color.White)
	status.TextSize = 12
	mode := canvas.NewText("Visual Mode", color.White)
	mode.TextSize = 12
	updateStatus := func() {
		status.Text = "main*   " + StatusText(ctl)
		status.Refresh()
	}
	ctl.SetOnChange(func() {
		chordCanvas.Refresh()
		updateStatus()
	})
	updateStatus()
	statusBar := container.NewStack(
		canvas.NewRectangle(colStatusBar),
		container.NewBorder(nil, nil, status, mode),
	)

	// Sidebar with activity bar toggles
	activeTab := prefs.StringWithFallback("sidebar.tab", TabSearch)
	sidebarVisible := true
	sidebarBody := container.NewStack()
	sidebar := container.NewStack(canvas.NewRectangle(colSidebar), container.NewPadded(sidebarBody))
	var explorerBtn, searchBtn *widget.Button
	refreshSidebar := func() {
		sidebarBody.Objects = []fyne.CanvasObject{newSidebar(activeTab, items, chordCanvas)}
		sidebarBody.Refresh()
		if sidebarVisible {
			sidebar.Show()
		} else {
			sidebar.Hide()
		}
		explorerBtn.Importance = widget.LowImportance
		searchBtn.Importance = widget.LowImportance
		if sidebarVisible {
			if activeTab == TabExplorer {
				explorerBtn.Importance = widget.HighImportance
			} else {
				searchBtn.Importance = widget.HighImportance
			}
		}
		explorerBtn.Refresh()
		searchBtn.Refresh()
	}
	selectTab := func(tab string) {
		if tab == activeTab {
			sidebarVisible = !sidebarVisible
		} else {
			activeTab = tab
			sidebarVisible = true
		}
		l.Info("sidebar tab", slog.String("tab", activeTab), slog.Bool("visible", sidebarVisible))
		refreshSidebar()
	}
	explorerBtn = widget.NewButtonWithIcon("", theme.FolderIcon(), func() { selectTab(TabExplorer) })
	searchBtn = widget.NewButtonWithIcon("", theme.SearchIcon(), func() { selectTab(TabSearch) })
	refreshSidebar()
	activityBar := container.NewStack(canvas.NewRectangle(colActivity), container.NewVBox(explorerBtn, searchBtn))

	// Header
	title := canvas.NewText("vs-chords - visual_mode", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x99})
	title.TextSize = 12
	header := container.NewStack(canvas.NewRectangle(colHeader), container.NewCenter(title))

	left := container.NewHBox(activityBar, sidebar)
	w.SetContent(container.NewBorder(header, statusBar, left, nil, chordCanvas))

	// View menu
	zoomBy := func(f float32) {
		vp := ctl.Viewport()
		sz := chordCanvas.Size()
		ctl.SetViewport(vp.ZoomAt(geom.P(sz.Width/2, sz.Height/2), vp.Zoom*f))
	}
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Explorer", func() { selectTab(TabExplorer) }),
		fyne.NewMenuItem("Chord Palette", func() { selectTab(TabSearch) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Zoom In", func() { zoomBy(1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { zoomBy(0.8) }),
		fyne.NewMenuItem("Reset View", func() {
			l.Info("menu: reset view")
			ctl.SetViewport(geom.IdentityViewport)
		}),
	)

	// Export menu
	exportItem := func(f export.Format) *fyne.MenuItem {
		name := strings.ToUpper(string(f))
		return fyne.NewMenuItem("Export as "+name+"…", func() {
			l.Info("menu: export", slog.String("format", string(f)))
			save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				if uc == nil {
					return
				}
				outPath := uc.URI().Path()
				_ = uc.Close()
				// Run synchronously on the UI thread to avoid Driver().RunOnMain incompatibilities
				if err := export.Write(ctl.Scene(), f, outPath, export.Options{}); err != nil {
					l.Error("export failed", slog.String("format", string(f)), slog.Any("err", err))
					dialog.ShowError(err, w)
					return
				}
				tc.Event(telemetry.ExportWritten, map[string]any{"format": string(f), "nodes": ctl.NodeCount()})
				dialog.ShowInformation("Export "+name, "Exported to "+outPath, w)
			}, w)
			save.SetFileName("chords." + string(f))
			save.SetFilter(fstorage.NewExtensionFileFilter([]string{"." + string(f)}))
			save.Show()
		})
	}
	exportMenu := fyne.NewMenu("Export", exportItem(export.FormatSVG), exportItem(export.FormatPNG), exportItem(export.FormatPDF))

	aboutItem := fyne.NewMenuItem("About VS Chords", func() {
		l.Info("menu: about")
		exe, _ := os.Executable()
		cwd, _ := os.Getwd()
		info := fmt.Sprintf("VS Chords\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nWorking Dir: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, cwd)
		dialog.ShowInformation("Installation Environment", info, w)
	})
	copyrightItem := fyne.NewMenuItem("Copyright…", func() {
		l.Info("menu: copyright")
		msg := fmt.Sprintf("VS Chords\nCopyright © 2025-%d The VS Chords Authors\n\nLicensed under the Apache License, Version 2.0.\nSee the LICENSE file for details.", time.Now().Year())
		dialog.ShowInformation("Copyright", msg, w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem, copyrightItem)

	w.SetMainMenu(fyne.NewMainMenu(viewMenu, exportMenu, aboutMenu))

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		prefs.SetString("sidebar.tab", activeTab)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		tc.Flush(ctx)
		cancel()
		w.Close()
	})

	if palErr != nil {
		dialog.ShowError(fmt.Errorf("palette file ignored: %w", palErr), w)
	}
	tc.Event(telemetry.EditorStarted, map[string]any{"palette_items": len(items)})

	w.ShowAndRun()
	l.Info("UI closed", slog.Int("nodes", ctl.NodeCount()))
	return nil
}

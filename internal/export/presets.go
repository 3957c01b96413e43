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
	"path/filepath"
	"strings"

	"vschords/internal/canvas"
	applog "vschords/internal/log"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls exporting one scene to several formats at once.
//
// Files are written as <OutDir>/<Name>.<ext>. An empty OutDir means the
// preset name relative to the working directory.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, png, svg; empty means preset defaults
	Name          string   // base file name, default "chords"
	OutDir        string
	Scale         float64 // PNG override
	IncludeGuides *bool   // guides are off unless set
}

// BatchExport writes sc in every requested format and returns the written paths.
func BatchExport(sc canvas.Scene, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "chords"
	}
	eo := Options{Scale: presetScale(opt.Preset)}
	if opt.IncludeGuides != nil {
		eo.IncludeGuides = *opt.IncludeGuides
	}
	if opt.Scale > 0 {
		eo.Scale = opt.Scale
	}

	log := applog.WithOperation(applog.WithComponent("export"), "batch")
	var written []string
	for _, raw := range formats {
		f, err := ParseFormat(raw)
		if err != nil {
			return written, err
		}
		out := filepath.Join(baseOut, name+"."+string(f))
		if err := Write(sc, f, out, eo); err != nil {
			return written, fmt.Errorf("%s: %w", strings.ToUpper(string(f)), err)
		}
		log.Debug("exported", "format", f, "path", out)
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"svg"}
	}
}

func presetScale(p PresetName) float64 {
	switch p {
	case PresetPrint:
		return 300.0 / 72.0
	default:
		return 1
	}
}

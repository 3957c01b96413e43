/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package palette provides the chord templates shown in the sidebar. The
// built-in set can be replaced by a user palette file in YAML, JSON or TOML.
package palette

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	applog "vschords/internal/log"
)

// Item is a placeable chord template.
type Item struct {
	Label string `json:"label" yaml:"label" toml:"label"`
	Color string `json:"color" yaml:"color" toml:"color"`
}

// File is the on-disk palette document.
type File struct {
	Items []Item `json:"items" yaml:"items" toml:"items"`
}

//go:embed palette.schema.json
var schemaJSON []byte

// ErrInvalid is returned when a palette document fails schema validation.
var ErrInvalid = errors.New("invalid palette")

// Default returns the built-in chord palette.
func Default() []Item {
	return []Item{
		{Label: "C Maj7", Color: "#16a34a"},
		{Label: "A min7", Color: "#ca8a04"},
		{Label: "D min9", Color: "#2563eb"},
		{Label: "G 7alt", Color: "#dc2626"},
		{Label: "F #m7b5", Color: "#9333ea"},
		{Label: "B 7", Color: "#ea580c"},
	}
}

// Load reads a palette file. The format follows the extension: .yaml/.yml,
// .json or .toml.
func Load(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	items, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	applog.WithComponent("palette").Debug("palette loaded", "path", path, "items", len(items))
	return items, nil
}

// Parse decodes and validates a palette document. ext selects the decoder.
func Parse(data []byte, ext string) ([]Item, error) {
	var doc any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case ".toml":
		var m map[string]any
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		doc = m
	default:
		return nil, fmt.Errorf("unsupported palette format %q", ext)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	// Round-trip through JSON so all three formats share one struct mapping.
	norm, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var f File
	if err := json.Unmarshal(norm, &f); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	for i := range f.Items {
		f.Items[i].Label = strings.TrimSpace(f.Items[i].Label)
		f.Items[i].Color = strings.ToLower(f.Items[i].Color)
	}
	return f.Items, nil
}

func validate(doc any) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// ParseHex parses "#rrggbb" or "#rgb". Invalid input yields a neutral grey and false.
func ParseHex(s string) (color.NRGBA, bool) {
	grey := color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return grey, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return grey, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

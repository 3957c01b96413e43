/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the per-user editor configuration. Values come from
// defaults, then the YAML file, then a .env file in the working directory,
// then process environment variables (VSC_*).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

// EditorConfig tunes the canvas. Zero values mean "use the built-in default".
type EditorConfig struct {
	Footprint     float32 `yaml:"footprint"`
	SnapThreshold float32 `yaml:"snap_threshold"`
	SnapGap       float32 `yaml:"snap_gap"`
	SnapPolicy    string  `yaml:"snap_policy"` // "last" | "closest"
	PaletteFile   string  `yaml:"palette_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "dark"},
		Editor:        EditorConfig{Footprint: 96, SnapThreshold: 20, SnapGap: 0, SnapPolicy: "last"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "VSC_CONFIG"
	EnvTelemetryOptIn = "VSC_TELEMETRY_OPT_IN"
	EnvTheme          = "VSC_THEME"
	// EnvFootprint Editor envs
	EnvFootprint     = "VSC_FOOTPRINT"
	EnvSnapThreshold = "VSC_SNAP_THRESHOLD"
	EnvSnapGap       = "VSC_SNAP_GAP"
	EnvSnapPolicy    = "VSC_SNAP_POLICY"
	EnvPaletteFile   = "VSC_PALETTE_FILE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "VSC_LOG_LEVEL"
	EnvLogFormat = "VSC_LOG_FORMAT"
	EnvLogSource = "VSC_LOG_SOURCE"
	EnvLogFile   = "VSC_LOG_FILE"
)

// DotEnvFile is loaded from the working directory when present. Variables
// already set in the process environment win.
var DotEnvFile = ".env"

// ConfigPath returns the per-user config file path. VSC_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "VSChords")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "VSChords")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "vschords")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "vschords")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, loads .env
// and merges environment overrides. A malformed config file is an error; a
// missing one is not.
func Load() (AppConfig, error) {
	cfg := Defaults()
	if err := loadDotEnv(DotEnvFile); err != nil {
		return cfg, err
	}
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	// godotenv.Load never overwrites variables that are already set.
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	// editor
	if src.Editor.Footprint > 0 {
		dst.Editor.Footprint = src.Editor.Footprint
	}
	if src.Editor.SnapThreshold > 0 {
		dst.Editor.SnapThreshold = src.Editor.SnapThreshold
	}
	if src.Editor.SnapGap > 0 {
		dst.Editor.SnapGap = src.Editor.SnapGap
	}
	if strings.TrimSpace(src.Editor.SnapPolicy) != "" {
		dst.Editor.SnapPolicy = strings.ToLower(strings.TrimSpace(src.Editor.SnapPolicy))
	}
	if strings.TrimSpace(src.Editor.PaletteFile) != "" {
		dst.Editor.PaletteFile = strings.TrimSpace(src.Editor.PaletteFile)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func parseFloat32(v string) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil || f < 0 {
		return 0, false
	}
	return float32(f), true
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	// editor overrides
	if f, ok := parseFloat32(os.Getenv(EnvFootprint)); ok && f > 0 {
		cfg.Editor.Footprint = f
	}
	if f, ok := parseFloat32(os.Getenv(EnvSnapThreshold)); ok {
		cfg.Editor.SnapThreshold = f
	}
	if f, ok := parseFloat32(os.Getenv(EnvSnapGap)); ok {
		cfg.Editor.SnapGap = f
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapPolicy)); v != "" {
		cfg.Editor.SnapPolicy = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPaletteFile)); v != "" {
		cfg.Editor.PaletteFile = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"general.theme":            EnvTheme,
	"editor.footprint":         EnvFootprint,
	"editor.snap_threshold":    EnvSnapThreshold,
	"editor.snap_gap":          EnvSnapGap,
	"editor.snap_policy":       EnvSnapPolicy,
	"editor.palette_file":      EnvPaletteFile,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envByKey[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

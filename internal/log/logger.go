/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up slog for the editor and the CLI. Records go to a
// colourised console line or JSON on stderr and, when a file is configured,
// to a rotated JSON log. Attributes stored with ContextWith are appended to
// every record logged with that context.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	lj "gopkg.in/natefinch/lumberjack.v2"

	"vschords/internal/version"
)

// Rotation limits for the file log.
const (
	rotateMaxMB   = 10
	rotateBackups = 3
	rotateMaxDays = 28
)

// Options controls Init. FromEnv fills it from
// VSC_LOG_LEVEL, VSC_LOG_FORMAT, VSC_LOG_SOURCE and VSC_LOG_FILE.
type Options struct {
	Level     string // debug, info, warn or error
	Format    string // console or json
	AddSource bool
	File      string    // rotated JSON log, off when empty
	Output    io.Writer // console destination, stderr when nil
}

var (
	current atomic.Pointer[slog.Logger]

	fileMu sync.Mutex
	file   io.Closer
)

// L returns the application logger, configuring it from the environment on
// first use.
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return current.Load()
}

// Init replaces the application logger and slog's default. A file opened by
// a previous Init is closed.
func Init(opts Options) {
	level := parseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var console slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource})
	default:
		console = newConsoleHandler(out, level, opts.AddSource, out == os.Stderr && !color.NoColor)
	}
	handlers := []slog.Handler{withContextAttrs(console)}

	var rotated *lj.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		rotated = &lj.Logger{Filename: path, MaxSize: rotateMaxMB, MaxBackups: rotateBackups, MaxAge: rotateMaxDays, Compress: true}
		fh := slog.NewJSONHandler(rotated, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource})
		handlers = append(handlers, withContextAttrs(fh))
	}

	l := slog.New(fanOut(handlers...)).With(
		slog.String("app", "vschords"),
		slog.String("ver", version.Version),
	)
	current.Store(l)
	slog.SetDefault(l)

	fileMu.Lock()
	prev := file
	file = nil
	if rotated != nil {
		file = rotated
	}
	fileMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
}

// FromEnv reads Options from VSC_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("VSC_LOG_LEVEL", "info"),
		Format:    getenv("VSC_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("VSC_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("VSC_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger tagged with a component such as canvas,
// export or cli. The console shows it as a bracketed prefix.
func WithComponent(name string) *slog.Logger { return L().With(slog.String(componentKey, name)) }

// WithOperation annotates l with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

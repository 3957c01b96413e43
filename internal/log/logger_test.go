/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines in %s", path)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", last, err)
	}
	return m
}

func TestInitWritesRotatedJSONWithContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vschords.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "json", File: path, Output: &console})
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	ctx := ContextWith(context.Background(), slog.String("session", "s-1"))
	WithOperation(WithComponent("export"), "batch").InfoContext(ctx, "file written", slog.String("format", "svg"))

	m := lastJSONLine(t, path)
	want := map[string]any{"app": "vschords", "component": "export", "op": "batch", "session": "s-1", "format": "svg", "msg": "file written"}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("%s = %v, want %v (record %v)", k, m[k], v, m)
		}
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr: %v", m)
	}
	if !strings.Contains(console.String(), `"session":"s-1"`) {
		t.Fatalf("console JSON missing context attrs: %q", console.String())
	}
}

func TestReinitReleasesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.log")
	second := filepath.Join(dir, "b.log")
	out := &bytes.Buffer{}
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	Init(Options{File: first, Output: out})
	L().Info("to a")
	Init(Options{File: second, Output: out})
	L().Info("to b")

	if m := lastJSONLine(t, first); m["msg"] != "to a" {
		t.Fatalf("first file: %v", m)
	}
	if m := lastJSONLine(t, second); m["msg"] != "to b" {
		t.Fatalf("second file: %v", m)
	}
}

func TestConsoleLineShowsComponentAndQuotesLabels(t *testing.T) {
	var out bytes.Buffer
	Init(Options{Level: "debug", Output: &out})
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	WithComponent("canvas").Debug("node placed", slog.String("label", "C Maj7"), slog.Int("nodes", 2))

	line := strings.TrimSpace(out.String())
	if !strings.Contains(line, "DBG [canvas] node placed") {
		t.Fatalf("missing level, component or message: %q", line)
	}
	for _, want := range []string{`label="C Maj7"`, "nodes=2", "app=vschords"} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should only appear as prefix: %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("buffer output must not be coloured: %q", line)
	}
}

func TestConsoleHandlerFiltersAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, slog.LevelWarn, false, false)
	if h.Enabled(context.Background(), slog.LevelInfo) || !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("level filter wrong")
	}

	l := slog.New(h).With("k", "v").WithGroup("scene")
	l.Error("export failed", slog.Int("nodes", 42), slog.Float64("scale", 2.5), slog.Duration("took", 1500*time.Millisecond), slog.String("path", ""))

	out := buf.String()
	for _, want := range []string{"ERR export failed", " k=v", "scene.nodes=42", "scene.scale=2.5", "scene.took=1.5s", `scene.path=""`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestConsoleHandlerColoursLevelTag(t *testing.T) {
	cases := []struct {
		level slog.Level
		seq   string
	}{
		{slog.LevelDebug, "\x1b[90mDBG"},
		{slog.LevelInfo, "\x1b[36mINF"},
		{slog.LevelWarn, "\x1b[33mWRN"},
		{slog.LevelError, "\x1b[31;1mERR"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		h := newConsoleHandler(&buf, slog.LevelDebug, false, true)
		r := slog.NewRecord(time.Now(), tc.level, "msg", 0)
		if err := h.Handle(context.Background(), r); err != nil {
			t.Fatalf("handle: %v", err)
		}
		if !strings.Contains(buf.String(), tc.seq) {
			t.Fatalf("%v: want %q in %q", tc.level, tc.seq, buf.String())
		}
	}
}

func TestContextWithAccumulates(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(withContextAttrs(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx := ContextWith(context.Background(), slog.String("cmd", "render"))
	ctx = ContextWith(ctx, slog.Int("nodes", 3))
	l.InfoContext(ctx, "exported")
	l.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"cmd":"render"`) || !strings.Contains(lines[0], `"nodes":3`) {
		t.Fatalf("context attrs missing: %s", lines[0])
	}
	if strings.Contains(lines[1], `"cmd"`) {
		t.Fatalf("context attrs leaked: %s", lines[1])
	}
}

func TestFromEnvAndParseLevel(t *testing.T) {
	t.Setenv("VSC_LOG_LEVEL", "warn")
	t.Setenv("VSC_LOG_FORMAT", "json")
	t.Setenv("VSC_LOG_SOURCE", "TRUE")
	t.Setenv("VSC_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, " Warning ": slog.LevelWarn, "error": slog.LevelError, "loud": slog.LevelInfo} {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

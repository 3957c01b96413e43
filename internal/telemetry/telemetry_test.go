/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"vschords/internal/canvas"
	"vschords/internal/geom"
	"vschords/internal/graph"
)

// collector records every POST body and answers with status.
type collector struct {
	mu       sync.Mutex
	bodies   [][]byte
	sessions []string
	status   int
}

func (c *collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()
	c.mu.Lock()
	c.bodies = append(c.bodies, b)
	c.sessions = append(c.sessions, r.Header.Get("X-VSC-Session"))
	status := c.status
	c.mu.Unlock()
	if status == 0 {
		status = http.StatusNoContent
	}
	w.WriteHeader(status)
}

func (c *collector) envelopes(t *testing.T) []Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Envelope, 0, len(c.bodies))
	for _, b := range c.bodies {
		var e Envelope
		if err := json.Unmarshal(b, &e); err != nil {
			t.Fatalf("bad envelope %q: %v", b, err)
		}
		out = append(out, e)
	}
	return out
}

func flushed(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.Flush(ctx)
}

func TestEventCarriesSessionAndScalarProps(t *testing.T) {
	col := &collector{}
	srv := httptest.NewServer(col)
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	if !c.Enabled() || c.Session() == "" {
		t.Fatalf("expected enabled client with a session, got %v %q", c.Enabled(), c.Session())
	}

	c.Event(ExportWritten, map[string]any{"format": "svg", "nodes": 4, "label": []string{"C Maj7"}})
	flushed(t, c)

	envs := col.envelopes(t)
	if len(envs) != 1 {
		t.Fatalf("expected 1 envelope, got %d", len(envs))
	}
	e := envs[0]
	if e.Name != ExportWritten || e.Session != c.Session() || e.TS == "" || e.OS == "" {
		t.Fatalf("unexpected envelope: %+v", e)
	}
	if e.Props["format"] != "svg" || e.Props["nodes"] != float64(4) {
		t.Fatalf("scalar props lost: %v", e.Props)
	}
	if _, ok := e.Props["label"]; ok {
		t.Fatalf("non-scalar prop leaked: %v", e.Props)
	}
	if col.sessions[0] != c.Session() {
		t.Fatalf("session header %q, want %q", col.sessions[0], c.Session())
	}
	if s := c.Stats(); s.Sent != 1 || s.Rejected != 0 {
		t.Fatalf("stats: %+v", s)
	}
}

func TestRejectedExportEventIsCounted(t *testing.T) {
	col := &collector{status: http.StatusBadRequest}
	srv := httptest.NewServer(col)
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second, DebugLogging: true})
	defer c.Close()
	c.Event(ExportWritten, map[string]any{"format": "pdf", "nodes": 2})
	flushed(t, c)

	if s := c.Stats(); s.Rejected != 1 || s.Sent != 0 || s.Failed != 0 {
		t.Fatalf("expected one rejection, got %+v", s)
	}
}

func TestUnreachableEndpointCountsFailure(t *testing.T) {
	c := New(Config{OptIn: true, EventsURL: "http://127.0.0.1:1/events", Timeout: 100 * time.Millisecond, DebugLogging: true})
	defer c.Close()
	c.Event(NodeCreated, map[string]any{"nodes": 2})
	flushed(t, c)
	if s := c.Stats(); s.Failed != 1 {
		t.Fatalf("expected one failure, got %+v", s)
	}
}

func TestUnknownAndDisabledEventsNeverLeave(t *testing.T) {
	col := &collector{}
	srv := httptest.NewServer(col)
	defer srv.Close()

	off := New(Config{OptIn: false, EventsURL: srv.URL, CrashURL: srv.URL})
	defer off.Close()
	off.Event(NodeCreated, nil)
	off.UploadCrash([]byte("panic: boom"))

	on := New(Config{OptIn: true, EventsURL: srv.URL})
	defer on.Close()
	on.Event("chord_played", map[string]any{"label": "C Maj7"})
	on.Event("", nil)
	on.Flush(nil)
	time.Sleep(50 * time.Millisecond)

	if n := len(col.envelopes(t)); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
	if s := on.Stats(); s.Dropped != 2 {
		t.Fatalf("expected 2 dropped events, got %+v", s)
	}
}

func TestSinkForwardsControllerEvents(t *testing.T) {
	col := &collector{}
	srv := httptest.NewServer(col)
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()

	ctl := canvas.New(graph.NewSession(graph.Sequential()), canvas.DefaultOptions())
	ctl.SetEventSink(c.Sink())
	at := func(x, y float32) canvas.PointerEvent { return canvas.PointerEvent{Pos: geom.P(x, y)} }
	n := ctl.BeginPaletteDrag("C Maj7", "#16a34a", at(448, 348))
	ctl.PointerUp(at(448, 348))
	ctl.PointerDown(at(196, 348))
	ctl.PointerUp(at(400, 348))
	if !ctl.Session().Connections.Exists(graph.StartID, n.ID) {
		t.Fatal("controller did not connect")
	}
	flushed(t, c)

	envs := col.envelopes(t)
	if len(envs) != 2 {
		t.Fatalf("expected 2 envelopes, got %d", len(envs))
	}
	if envs[0].Name != NodeCreated || envs[1].Name != ConnectionCreated {
		t.Fatalf("order or names wrong: %s, %s", envs[0].Name, envs[1].Name)
	}
	if envs[0].Props["nodes"] != float64(2) || envs[1].Props["connections"] != float64(1) {
		t.Fatalf("counts lost: %v %v", envs[0].Props, envs[1].Props)
	}
	if envs[0].Session != envs[1].Session {
		t.Fatal("events of one client must share a session")
	}
}

func TestUploadCrashPostsReport(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got <- r.Header.Get("Content-Type") + "|" + string(b)
	}))
	defer srv.Close()

	c := New(Config{OptIn: true, CrashURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.UploadCrash([]byte("panic: boom"))
	select {
	case s := <-got:
		if s != "text/plain; charset=utf-8|panic: boom" {
			t.Fatalf("unexpected upload: %q", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("crash report not uploaded")
	}
}

func TestFromEnvAndDefaultClient(t *testing.T) {
	t.Setenv("VSC_TELEMETRY_OPT_IN", "yes")
	t.Setenv("VSC_TELEMETRY_URL", " http://127.0.0.1:0 ")
	t.Setenv("VSC_CRASH_UPLOAD_URL", "")
	t.Setenv("VSC_TELEMETRY_TIMEOUT_MS", "100")
	t.Setenv("VSC_TELEMETRY_DEBUG", "")

	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "http://127.0.0.1:0" || cfg.Timeout != 100*time.Millisecond || cfg.DebugLogging {
		t.Fatalf("FromEnv mismatch: %+v", cfg)
	}

	t.Setenv("VSC_TELEMETRY_TIMEOUT_MS", "soon")
	if got := FromEnv().Timeout; got != 1500*time.Millisecond {
		t.Fatalf("bad timeout should fall back to default, got %v", got)
	}

	c := New(cfg)
	defer c.Close()
	SetDefault(c)
	t.Cleanup(func() { SetDefault(nil) })
	if Default() != c || !Default().Enabled() {
		t.Fatal("SetDefault not honoured")
	}
}

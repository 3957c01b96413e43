/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends anonymous, opt-in usage events for the chord editor
// and uploads crash reports. Only a fixed set of event names is accepted and
// only scalar properties leave the process.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	applog "vschords/internal/log"
	"vschords/internal/version"
)

// Event names understood by the collector.
const (
	EditorStarted     = "editor_started"
	NodeCreated       = "node_created"
	ConnectionCreated = "connection_created"
	ExportWritten     = "export_written"
)

var knownEvents = map[string]bool{
	EditorStarted:     true,
	NodeCreated:       true,
	ConnectionCreated: true,
	ExportWritten:     true,
}

const (
	queueSize      = 64
	defaultTimeout = 1500 * time.Millisecond
	flushCap       = 500 * time.Millisecond
)

// Config holds runtime configuration for telemetry and crash uploads.
// Everything is off unless OptIn is set and a URL is configured.
//
// Environment variables (read by FromEnv):
//   - VSC_TELEMETRY_OPT_IN: 1, true, yes or on
//   - VSC_TELEMETRY_URL: endpoint receiving one JSON envelope per POST
//   - VSC_CRASH_UPLOAD_URL: endpoint receiving plain-text crash reports
//   - VSC_TELEMETRY_TIMEOUT_MS: request timeout, default 1500
//   - VSC_TELEMETRY_DEBUG: any value logs delivery results
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("VSC_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("VSC_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("VSC_CRASH_UPLOAD_URL")),
		Timeout:      defaultTimeout,
		DebugLogging: os.Getenv("VSC_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("VSC_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil && v > 0 {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Envelope is the JSON body of one event POST.
type Envelope struct {
	Name    string         `json:"name"`
	Session string         `json:"session"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// Stats counts delivery outcomes since the client was created.
type Stats struct {
	Sent     int64 // accepted with a 2xx or 3xx status
	Rejected int64 // answered with a 4xx or 5xx status
	Failed   int64 // transport errors
	Dropped  int64 // unknown names or a full queue
}

// Client queues events and posts them from a background goroutine so callers
// on the UI goroutine never block. Delivery is best effort.
type Client struct {
	cfg     Config
	session string
	log     *slog.Logger
	http    *http.Client

	queue   chan Envelope
	pending atomic.Int64
	stop    chan struct{}
	done    chan struct{}
	closing sync.Once

	sent, rejected, failed, dropped atomic.Int64
}

// New constructs a client with a fresh random session id.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:     cfg,
		session: uuid.NewString(),
		log:     applog.WithComponent("telemetry"),
		http:    &http.Client{Timeout: cfg.Timeout},
		queue:   make(chan Envelope, queueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.run()
	return c
}

// Enabled reports whether events will be posted.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Session returns the random per-process id attached to every event. It is
// not derived from the machine or user.
func (c *Client) Session() string {
	if c == nil {
		return ""
	}
	return c.session
}

// Stats returns a snapshot of the delivery counters.
func (c *Client) Stats() Stats {
	return Stats{Sent: c.sent.Load(), Rejected: c.rejected.Load(), Failed: c.failed.Load(), Dropped: c.dropped.Load()}
}

// Event queues a usage event. Unknown names are dropped, and so are
// properties that are not strings, booleans or numbers.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() {
		return
	}
	if !knownEvents[name] {
		c.dropped.Add(1)
		return
	}
	env := Envelope{
		Name:    name,
		Session: c.session,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Props:   scalars(props),
	}
	c.pending.Add(1)
	select {
	case c.queue <- env:
	default:
		c.pending.Add(-1)
		c.dropped.Add(1)
	}
}

func scalars(props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		switch v.(type) {
		case string, bool, int, int32, int64, uint, uint32, uint64, float32, float64:
			out[k] = v
		}
	}
	return out
}

// Sink adapts the client to the canvas controller's event callback.
func (c *Client) Sink() func(name string, props map[string]any) {
	return func(name string, props map[string]any) { c.Event(name, props) }
}

// Flush waits until every queued event has been delivered or given up on.
// A nil ctx waits at most half a second.
func (c *Client) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), flushCap)
		defer cancel()
	}
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-tick.C:
		}
	}
}

// Close stops the sender. Events still queued are discarded.
func (c *Client) Close() {
	c.closing.Do(func() {
		close(c.stop)
		<-c.done
	})
}

func (c *Client) run() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case env := <-c.queue:
			c.deliver(env)
			c.pending.Add(-1)
		}
	}
}

func (c *Client) deliver(env Envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		c.failed.Add(1)
		return
	}
	status, err := c.post(c.cfg.EventsURL, "application/json", body)
	switch {
	case err != nil:
		c.failed.Add(1)
		c.debug("event not delivered", slog.String("event", env.Name), slog.Any("err", err))
	case status >= 400:
		c.rejected.Add(1)
		c.debug("event rejected", slog.String("event", env.Name), slog.Int("status", status))
	default:
		c.sent.Add(1)
		c.debug("event sent", slog.String("event", env.Name))
	}
}

func (c *Client) post(url, contentType string, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-VSC-Session", c.session)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.cfg.DebugLogging {
		c.log.Debug(msg, args...)
	}
}

// UploadCrash posts a crash report to the crash URL when opted in. It runs
// in the background and reports nothing back.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	b := append([]byte(nil), report...)
	go func() {
		status, err := c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", b)
		if err != nil {
			c.debug("crash upload failed", slog.Any("err", err))
			return
		}
		c.debug("crash report uploaded", slog.Int("status", status))
	}()
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// SetDefault installs c as the package-level client used by UploadCrash.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
}

// Default returns the package-level client, building one from the
// environment on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// UploadCrash uploads through the default client.
func UploadCrash(report []byte) { Default().UploadCrash(report) }

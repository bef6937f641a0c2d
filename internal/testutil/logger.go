// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// NopLogger discards everything
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Record is one captured log line with its attributes flattened
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Recorder collects log records so tests can assert on them
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// RecordingLogger returns a logger that keeps every record at or above debug
func RecordingLogger() (*slog.Logger, *Recorder) {
	rec := &Recorder{}
	return slog.New(&recordingHandler{rec: rec}), rec
}

// Records returns a copy of what has been logged so far
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Find returns the first record with the given message
func (r *Recorder) Find(message string) (Record, bool) {
	for _, rec := range r.Records() {
		if rec.Message == message {
			return rec, true
		}
	}
	return Record{}, false
}

type recordingHandler struct {
	rec   *Recorder
	attrs []slog.Attr
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	out := Record{Level: r.Level, Message: r.Message, Attrs: map[string]string{}}
	for _, a := range h.attrs {
		out.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		out.Attrs[a.Key] = a.Value.String()
		return true
	})

	h.rec.mu.Lock()
	h.rec.records = append(h.rec.records, out)
	h.rec.mu.Unlock()
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{rec: h.rec, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}

// Groups are flattened; no caller logs with them.
func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

var _ slog.Handler = (*recordingHandler)(nil)

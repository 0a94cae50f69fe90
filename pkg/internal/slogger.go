package internal

import (
	"context"
	"log/slog"
	"sync"
)

// RecordingLogger returns a slog.Logger that keeps the message of every record
// it handles, at any level.
func RecordingLogger() (*slog.Logger, *Messages) {
	m := &Messages{}
	return slog.New(recordingHandler{messages: m}), m
}

// Messages are the log messages seen by a RecordingLogger, in order.
type Messages struct {
	mu   sync.Mutex
	msgs []string
}

// All returns a copy of the messages logged so far.
func (m *Messages) All() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.msgs...)
}

type recordingHandler struct {
	messages *Messages
}

func (h recordingHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.messages.mu.Lock()
	defer h.messages.mu.Unlock()
	h.messages.msgs = append(h.messages.msgs, r.Message)
	return nil
}

func (h recordingHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h recordingHandler) WithGroup(_ string) slog.Handler {
	return h
}

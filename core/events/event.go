package events

import "log/slog"

// Event represents a structured state change emitted by a native module.
type Event interface {
	EventType() string
}

// WireEvent is implemented by events that also carry a canonical binary
// payload for off-ledger consumers.
type WireEvent interface {
	Event
	Bytes() []byte
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while
// discarding all events. It is useful when a component wants to optionally
// expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// LogEmitter writes every event to a structured logger. Wire payloads are
// logged hex-encoded by slog's default []byte handling.
type LogEmitter struct {
	Logger *slog.Logger
}

// Emit implements the Emitter interface.
func (l LogEmitter) Emit(evt Event) {
	if l.Logger == nil || evt == nil {
		return
	}
	attrs := []any{slog.String("event", evt.EventType())}
	if wire, ok := evt.(WireEvent); ok {
		attrs = append(attrs, slog.Any("payload", wire.Bytes()))
	}
	l.Logger.Info("module event", attrs...)
}

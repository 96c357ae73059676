// Package eventlog provides the structured, append-only event sink described
// in the external-interfaces section: every reducer-visible transition is
// logged as one JSONL line plus a log/slog record, correlated by a
// per-message trace id and per-step span id.
package eventlog

import (
	"log/slog"
)

// Dispatcher is the single construction point for event logging, mirroring
// the call-site contract: construct once with a logger, defer Close.
type Dispatcher struct {
	logger *slog.Logger
	sink   *fileSink
}

// NewWithLogger opens the default event log file and wires it alongside the
// given logger. If the file cannot be opened, events are still logged via
// slog but the JSONL sink is silently absent rather than failing startup.
func NewWithLogger(logger *slog.Logger) *Dispatcher {
	return NewWithLoggerAndPath(logger, DefaultPath())
}

// NewWithLoggerAndPath is NewWithLogger with an explicit sink path, for
// callers (tests, alternate deployments) that don't want the default
// ~/.config/grove location.
func NewWithLoggerAndPath(logger *slog.Logger, path string) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	sink, err := newFileSink(path)
	if err != nil {
		logger.Warn("event log sink unavailable", "path", path, "error", err)
		sink = nil
	}
	return &Dispatcher{logger: logger, sink: sink}
}

// Close flushes and closes the underlying sink.
func (d *Dispatcher) Close() error {
	if d.sink == nil {
		return nil
	}
	return d.sink.close()
}

// Emit records one named event with trace/span correlation and arbitrary
// attributes, both to the JSONL sink and to the logger.
func (d *Dispatcher) Emit(traceID, spanID, name string, attrs map[string]any) {
	if d.sink != nil {
		_ = d.sink.write(Record{TraceID: traceID, SpanID: spanID, Name: name, Attrs: attrs})
	}
	args := make([]any, 0, 2*len(attrs)+4)
	if traceID != "" {
		args = append(args, "trace_id", traceID)
	}
	if spanID != "" {
		args = append(args, "span_id", spanID)
	}
	for k, v := range attrs {
		args = append(args, k, v)
	}
	d.logger.Info(name, args...)
}

// StartTrace returns a fresh trace id for a new reducer message.
func (d *Dispatcher) StartTrace() string { return NewTraceID() }

// EmitInteractiveInputToPreview logs a single drained pending-input trace
// once the next preview capture shows changed_cleaned, per the interactive
// input forwarding contract.
func (d *Dispatcher) EmitInteractiveInputToPreview(traceID, session string, seq uint64, latencyMs int64) {
	d.Emit(traceID, NewSpanID(), "interactive_input_to_preview", map[string]any{
		"session":    session,
		"seq":        seq,
		"latency_ms": latencyMs,
	})
}

// EmitInteractiveInputsCoalesced logs a batch of drained traces as one event
// when more than one trace lands in the same preview capture.
func (d *Dispatcher) EmitInteractiveInputsCoalesced(traceID, session string, count int, latencyMs int64) {
	d.Emit(traceID, NewSpanID(), "interactive_inputs_coalesced", map[string]any{
		"session":    session,
		"count":      count,
		"latency_ms": latencyMs,
	})
}

// EmitPendingInputTraceDropped logs the bounded-queue drop-oldest event.
func (d *Dispatcher) EmitPendingInputTraceDropped(session string, totalDropped int) {
	d.Emit("", NewSpanID(), "pending_input_trace_dropped", map[string]any{
		"session":       session,
		"total_dropped": totalDropped,
	})
}

// EmitStalePollDiscarded logs a poll result dropped because its generation
// predates the current one.
func (d *Dispatcher) EmitStalePollDiscarded(session string, resultGeneration, currentGeneration uint64) {
	d.Emit("", NewSpanID(), "stale_poll_discarded", map[string]any{
		"session":            session,
		"result_generation":  resultGeneration,
		"current_generation": currentGeneration,
	})
}

// EmitSelectionChanged logs the reducer's selection-change transition.
func (d *Dispatcher) EmitSelectionChanged(traceID, from, to string) {
	d.Emit(traceID, NewSpanID(), "selection_changed", map[string]any{"from": from, "to": to})
}

// EmitFocusChanged logs a sidebar/preview focus transition.
func (d *Dispatcher) EmitFocusChanged(traceID, focus string) {
	d.Emit(traceID, NewSpanID(), "focus_changed", map[string]any{"focus": focus})
}

// EmitModeChanged logs a modal/interactive mode transition.
func (d *Dispatcher) EmitModeChanged(traceID, mode string) {
	d.Emit(traceID, NewSpanID(), "mode_changed", map[string]any{"mode": mode})
}

// EmitInteractiveEntered logs entry into interactive (attached) mode for a session.
func (d *Dispatcher) EmitInteractiveEntered(traceID, session string) {
	d.Emit(traceID, NewSpanID(), "interactive_entered", map[string]any{"session": session})
}

// EmitInteractiveExited logs exit from interactive mode for a session.
func (d *Dispatcher) EmitInteractiveExited(traceID, session string) {
	d.Emit(traceID, NewSpanID(), "interactive_exited", map[string]any{"session": session})
}

// EmitOrphanedSessionFound logs a live tmux session a refresh's worktree
// discovery could not match to any known workspace.
func (d *Dispatcher) EmitOrphanedSessionFound(session string) {
	d.Emit("", NewSpanID(), "orphaned_session_found", map[string]any{"session": session})
}

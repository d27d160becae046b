package rowtable

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with rowtable-specific context. This provides
// structured logging with consistent field names across every Table.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output. This is the
// default for a Table constructed without WithLogger.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithTable returns a Logger tagged with a table's instance ID, so log
// lines from a process embedding several tables can be told apart.
func (l *Logger) WithTable(id uuid.UUID) *Logger {
	return &Logger{Logger: l.Logger.With("table_id", id.String())}
}

// LogInsert logs an insert attempt.
func (l *Logger) LogInsert(slot uint32, err error) {
	if err != nil {
		l.Error("insert failed", "slot", slot, "error", err)
		return
	}
	l.Debug("insert completed", "slot", slot)
}

// LogInsertAll logs a batch insert.
func (l *Logger) LogInsertAll(requested, inserted int, err error) {
	if err != nil {
		l.Warn("batch insert stopped early", "requested", requested, "inserted", inserted, "error", err)
		return
	}
	l.Debug("batch insert completed", "count", inserted)
}

// LogErase logs a single-slot erase.
func (l *Logger) LogErase(slot uint32, err error) {
	if err != nil {
		l.Error("erase failed", "slot", slot, "error", err)
		return
	}
	l.Debug("erase completed", "slot", slot)
}

// LogEraseAll logs a batched erase.
func (l *Logger) LogEraseAll(requested, erased int) {
	l.Debug("batched erase completed", "requested", requested, "erased", erased)
}

// LogVerify logs the outcome of a Table.Verify call.
func (l *Logger) LogVerify(err error) {
	if err != nil {
		l.Error("verify found an inconsistency", "error", err)
		return
	}
	l.Debug("verify passed")
}

// LogInconsistency implements the inconsistency hook (spec §6, §7): an
// index detected its own structural corruption mid-operation. The
// operation that triggered this has already returned control to its
// caller best-effort; this call only records the finding.
func (l *Logger) LogInconsistency(index, op string, slot uint32, detail string) {
	l.Warn("index reported a structural inconsistency",
		"index", index,
		"op", op,
		"slot", slot,
		"detail", detail,
	)
}

// Package output provides structured logging for autosquash: a console
// sink plus an optional rotating file sink, fanned out through log/slog.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"

	taxonomy "autosquash.dev/autosquash/internal/errors"
)

// consoleHandler writes bare messages with no timestamp or level prefix,
// matching the terse CLI output a git porcelain-adjacent tool is expected
// to produce.
type consoleHandler struct {
	writer    io.Writer
	debugMode bool
	quiet     *bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if *h.quiet {
		return nil
	}
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *consoleHandler) WithGroup(_ string) slog.Handler      { return h }

// multiHandler fans a record out to every handler that accepts its level.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		out[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: out}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		out[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: out}
}

func newLumberjackLogger(path string) *lumberjack.Logger {
	logger := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1,
		MaxBackups: 2,
		MaxAge:     30,
		Compress:   false,
	}
	if v := os.Getenv("GIT_AUTOSQUASH_LOG_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			logger.MaxSize = n
		}
	}
	if v := os.Getenv("GIT_AUTOSQUASH_LOG_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			logger.MaxBackups = n
		}
	}
	return logger
}

// Logger is autosquash's structured logger: terse, unprefixed console
// output plus optional timestamped file output for diagnostics.
type Logger struct {
	logger    *slog.Logger
	writer    io.Writer
	logFile   io.WriteCloser
	quiet     bool
	debugMode bool
}

// New creates a console-only Logger. Debug messages are gated by
// GIT_AUTOSQUASH_LOG_LEVEL=debug.
func New() *Logger {
	l, _ := NewWithFile("")
	return l
}

// NewWithFile creates a Logger that also writes timestamped records to
// logFilePath via a rotating lumberjack sink, grounded on the teacher's
// dual-sink handler in internal/tui/splog.go.
func NewWithFile(logFilePath string) (*Logger, error) {
	debugMode := os.Getenv("GIT_AUTOSQUASH_LOG_LEVEL") == "debug"
	l := &Logger{writer: os.Stdout, debugMode: debugMode}

	console := &consoleHandler{writer: l.writer, debugMode: debugMode, quiet: &l.quiet}
	handlers := []slog.Handler{console}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		lj := newLumberjackLogger(logFilePath)
		l.logFile = lj
		fileHandler := slog.NewTextHandler(lj, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
				}
				return a
			},
		})
		handlers = append(handlers, fileHandler)
	}

	l.logger = slog.New(&multiHandler{handlers: handlers})
	return l, nil
}

// SetQuiet suppresses console output while leaving file logging intact.
func (l *Logger) SetQuiet(quiet bool) { l.quiet = quiet }

func (l *Logger) log(level slog.Level, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.logger.Log(context.Background(), level, msg)
}

// Info writes an info-level message.
func (l *Logger) Info(format string, args ...interface{}) { l.log(slog.LevelInfo, format, args...) }

// Warn writes a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(slog.LevelWarn, "warning: "+format, args...)
}

// Debug writes a debug message, visible only when GIT_AUTOSQUASH_LOG_LEVEL=debug.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(slog.LevelDebug, format, args...)
}

// Newline writes a blank line to the console, independent of log level.
func (l *Logger) Newline() {
	if !l.quiet {
		_, _ = fmt.Fprintln(l.writer)
	}
}

// Failure prints a taxonomy failure: the taxonomy kind, the offending
// artifact, the recovery action taken, and the backup stash name if one
// remains.
func (l *Logger) Failure(kind error, artifact, recovery, backupStash string) {
	l.log(slog.LevelError, "%s: %s", kindName(kind), artifact)
	l.log(slog.LevelError, "  recovery: %s", recovery)
	if backupStash != "" {
		l.log(slog.LevelError, "  backup stash retained: %s", backupStash)
	}
}

func kindName(kind error) string {
	switch kind {
	case taxonomy.ErrPrecondition:
		return "precondition"
	case taxonomy.ErrUnsafePath:
		return "unsafe_path"
	case taxonomy.ErrBlameEmpty:
		return "blame_empty"
	case taxonomy.ErrUnplaceableChange:
		return "unplaceable_change"
	case taxonomy.ErrPatchReject:
		return "patch_reject"
	case taxonomy.ErrRebaseConflict:
		return "rebase_conflict"
	case taxonomy.ErrHookFailure:
		return "hook_failure"
	case taxonomy.ErrInterrupted:
		return "interrupted"
	default:
		return "error"
	}
}

// Close flushes and closes the file sink, if any.
func (l *Logger) Close() error {
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

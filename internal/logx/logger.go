// Package logx provides structured logging for the hook engine using slog.
//
// Usage:
//
//	if err := logx.Init(sessionID); err != nil {
//	    // handle error
//	}
//	defer logx.Close()
//
//	ctx = logx.WithSession(ctx, sessionID)
//	ctx = logx.WithHook(ctx, hookID)
//	logx.Info(ctx, "hook invoked", slog.String("event", event))
package logx

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/carlrannaberg/claudekit/internal/validation"
)

// LogLevelEnvVar controls the log level directly, overriding config.
const LogLevelEnvVar = "CLAUDEKIT_LOG_LEVEL"

// UnknownSessionID is the ephemeral session id; its log file is fixed rather
// than per-invocation so manual CLI runs and profiling don't scatter files.
const UnknownSessionID = "unknown"

var (
	logger           *slog.Logger
	logFile          *os.File
	logBufWriter     *bufio.Writer
	currentSessionID string
	mu               sync.RWMutex
	logLevelGetter   func() string
)

// SetLogLevelGetter registers a callback used when CLAUDEKIT_LOG_LEVEL is unset.
// Lets config.DEBUG feed the logger without an import cycle.
func SetLogLevelGetter(getter func() string) {
	mu.Lock()
	defer mu.Unlock()
	logLevelGetter = getter
}

// Init opens (or creates) the JSON log file for sessionID under logsDir and
// installs it as the package logger. On any failure it falls back to stderr
// rather than erroring the caller out of a hook invocation.
func Init(logsDir, sessionID string) error {
	if sessionID != UnknownSessionID {
		if err := validation.ValidateSessionID(sessionID); err != nil {
			return fmt.Errorf("invalid session id for logging: %w", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if logBufWriter != nil {
		_ = logBufWriter.Flush()
		logBufWriter = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	levelStr := os.Getenv(LogLevelEnvVar)
	if levelStr == "" && logLevelGetter != nil {
		levelStr = logLevelGetter()
	}
	level := parseLogLevel(levelStr)
	if levelStr != "" && !isValidLogLevel(levelStr) {
		fmt.Fprintf(os.Stderr, "[claudekit] warning: invalid log level %q, defaulting to INFO\n", levelStr)
	}

	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		logger = createLogger(os.Stderr, level)
		return nil
	}

	logFilePath := filepath.Join(logsDir, sessionID+".log")
	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // sessionID validated above
	if err != nil {
		logger = createLogger(os.Stderr, level)
		return nil
	}

	logFile = f
	logBufWriter = bufio.NewWriterSize(f, 8192)
	logger = createLogger(logBufWriter, level)
	currentSessionID = sessionID
	return nil
}

// Close flushes and closes the current log file. Safe to call multiple times.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logBufWriter != nil {
		_ = logBufWriter.Flush()
		logBufWriter = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	currentSessionID = ""
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func getSessionID() string {
	mu.RLock()
	defer mu.RUnlock()
	return currentSessionID
}

func createLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isValidLogLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "":
		return true
	default:
		return false
	}
}

func Debug(ctx context.Context, msg string, attrs ...any) { log(ctx, slog.LevelDebug, msg, attrs...) }
func Info(ctx context.Context, msg string, attrs ...any)  { log(ctx, slog.LevelInfo, msg, attrs...) }
func Warn(ctx context.Context, msg string, attrs ...any)  { log(ctx, slog.LevelWarn, msg, attrs...) }
func Error(ctx context.Context, msg string, attrs ...any) { log(ctx, slog.LevelError, msg, attrs...) }

// LogDuration logs msg with a duration_ms attribute computed from start.
func LogDuration(ctx context.Context, level slog.Level, msg string, start time.Time, attrs ...any) {
	allAttrs := make([]any, 0, len(attrs)+1)
	allAttrs = append(allAttrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	allAttrs = append(allAttrs, attrs...)
	log(ctx, level, msg, allAttrs...)
}

func log(ctx context.Context, level slog.Level, msg string, attrs ...any) {
	l := getLogger()

	var allAttrs []any
	globalSessionID := getSessionID()
	if globalSessionID != "" {
		allAttrs = append(allAttrs, slog.String("session_id", globalSessionID))
	}
	for _, a := range attrsFromContext(ctx, globalSessionID) {
		allAttrs = append(allAttrs, a)
	}
	allAttrs = append(allAttrs, attrs...)

	l.Log(nil, level, msg, allAttrs...) //nolint:staticcheck // context values already extracted as attrs
}

func attrsFromContext(ctx context.Context, globalSessionID string) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if globalSessionID == "" {
		if s := SessionIDFromContext(ctx); s != "" {
			attrs = append(attrs, slog.String("session_id", s))
		}
	}
	if s := HookIDFromContext(ctx); s != "" {
		attrs = append(attrs, slog.String("hook_id", s))
	}
	if s := EventFromContext(ctx); s != "" {
		attrs = append(attrs, slog.String("event", s))
	}
	return attrs
}

// Package logger provides structured logging for the xmlzip CLI.
// Warnings and errors are always written so partial failures stay visible.
// When verbose mode is enabled via the --verbose flag, debug and info
// messages are written as well.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	sugar             = build(os.Stderr, false)
)

// build creates a console logger writing to w.
func build(w io.Writer, debug bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Sugar()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	sugar = build(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sugar = build(output, verbose)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a message with key-value pairs if verbose mode is enabled.
func Debug(msg string, keysAndValues ...any) {
	current().Debugw(msg, keysAndValues...)
}

// Info logs a message with key-value pairs if verbose mode is enabled.
func Info(msg string, keysAndValues ...any) {
	current().Infow(msg, keysAndValues...)
}

// Warn logs a warning with key-value pairs.
func Warn(msg string, keysAndValues ...any) {
	current().Warnw(msg, keysAndValues...)
}

// Error logs an error with key-value pairs.
func Error(msg string, keysAndValues ...any) {
	current().Errorw(msg, keysAndValues...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current().Sync()
}

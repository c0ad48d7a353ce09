// =============================================================================
// pkg/logging/logger.go - Dual Logging Implementation
// =============================================================================
//
// Trace conversion runs take hours and are usually driven from scripts, so
// logging goes to files rather than the terminal:
//   - Informational messages to a log file
//   - Error messages to a separate error file (and mirrored to the log file)
//
// Loggers can be scoped with a prefix using WithScope(), which is how the
// per-workload runs identify themselves:
//
//	logger, _ := logging.NewDualLogger("convert.log", "convert.err")
//	runLog := logger.WithScope("WORKLOAD-D")
//	runLog.Info("load phase complete") // → [ts] [WORKLOAD-D] load phase complete
//
// =============================================================================

package logging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	// SeparatorLine is the visual separator used in logs.
	SeparatorLine = "========================================================================="

	// TimeFormat is the timestamp format for log messages.
	TimeFormat = "2006-01-02 15:04:05.000"
)

// Logger is the logging surface the conversion pipelines write to.
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Separator()
	WithScope(scope string) Logger
	Sync()
}

// =============================================================================
// DualLogger
// =============================================================================

// DualLogger implements Logger with separate log and error files.
type DualLogger struct {
	mu        sync.Mutex
	logFile   *os.File
	errorFile *os.File
}

// NewDualLogger creates a DualLogger writing to the given paths.
// Existing files are truncated.
func NewDualLogger(logPath, errorPath string) (*DualLogger, error) {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	errorFile, err := os.OpenFile(errorPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open error file %s: %w", errorPath, err)
	}

	return &DualLogger{logFile: logFile, errorFile: errorFile}, nil
}

// WithScope creates a scoped child logger that prefixes all messages with
// the scope name. The child shares the underlying files with its parent.
func (l *DualLogger) WithScope(scope string) Logger {
	return &ScopedLogger{parent: l, scope: scope}
}

// Info logs an informational message to the log file.
func (l *DualLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.logFile, "[%s] %s\n", time.Now().Format(TimeFormat), fmt.Sprintf(format, args...))
}

// Error logs an error message to both the error file and the log file.
func (l *DualLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(TimeFormat)
	msg := fmt.Sprintf(format, args...)

	fmt.Fprintf(l.errorFile, "[%s] ERROR: %s\n", timestamp, msg)
	fmt.Fprintf(l.logFile, "[%s] ERROR: %s\n", timestamp, msg)
}

// Separator logs a visual separator line to the log file.
func (l *DualLogger) Separator() {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.logFile, SeparatorLine)
}

// Sync forces a flush of all log data to disk.
func (l *DualLogger) Sync() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.Sync()
	l.errorFile.Sync()
}

// Close closes the log files after syncing.
func (l *DualLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		l.logFile.Sync()
		l.logFile.Close()
		l.logFile = nil
	}
	if l.errorFile != nil {
		l.errorFile.Sync()
		l.errorFile.Close()
		l.errorFile = nil
	}
}

// =============================================================================
// ScopedLogger
// =============================================================================

// ScopedLogger prefixes all messages with a scope name. It shares the
// underlying files with its parent; do not close the parent while scoped
// children are in use.
type ScopedLogger struct {
	parent *DualLogger
	scope  string
}

// WithScope creates a nested scope: parent.WithScope("A").WithScope("B")
// prefixes messages with [A:B].
func (l *ScopedLogger) WithScope(scope string) Logger {
	return &ScopedLogger{parent: l.parent, scope: l.scope + ":" + scope}
}

// Info logs an informational message with the scope prefix.
func (l *ScopedLogger) Info(format string, args ...interface{}) {
	l.parent.Info("[%s] %s", l.scope, fmt.Sprintf(format, args...))
}

// Error logs an error message with the scope prefix.
func (l *ScopedLogger) Error(format string, args ...interface{}) {
	l.parent.Error("[%s] %s", l.scope, fmt.Sprintf(format, args...))
}

// Separator logs a visual separator line (no scope prefix).
func (l *ScopedLogger) Separator() {
	l.parent.Separator()
}

// Sync forces a flush of all log data to disk.
func (l *ScopedLogger) Sync() {
	l.parent.Sync()
}

// =============================================================================
// Discard Logger
// =============================================================================

// discard is a Logger that drops everything. Used by tests and library
// callers that do not care about run logging.
type discard struct{}

// Discard returns a Logger that drops all messages.
func Discard() Logger { return discard{} }

func (discard) Info(string, ...interface{})  {}
func (discard) Error(string, ...interface{}) {}
func (discard) Separator()                   {}
func (discard) WithScope(string) Logger      { return discard{} }
func (discard) Sync()                        {}

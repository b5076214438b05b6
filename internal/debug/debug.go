package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/codeaudit/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// QuietMode suppresses all debug output (set by the CLI for --quiet)
var QuietMode = false

// debugOutput is the writer for debug output (defaults to nil, meaning no output)
var debugOutput io.Writer

// debugFile holds the open file handle if debug output goes to a file
var debugFile *os.File

// debugMutex protects access to debug output
var debugMutex sync.Mutex

// SetQuietMode enables quiet mode which suppresses all debug output
func SetQuietMode(enabled bool) {
	QuietMode = enabled
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitDebugLogFile sends debug output to the file at path, appending when it exists.
// An empty path picks a timestamped file under the temp directory. Returns the path used;
// call CloseDebugLog when done.
func InitDebugLogFile(path string) (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if path == "" {
		logDir := filepath.Join(os.TempDir(), "codeaudit-debug-logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create debug log directory: %w", err)
		}
		path = filepath.Join(logDir, fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02T150405")))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open debug log file: %w", err)
	}

	if debugFile != nil {
		debugFile.Close()
	}
	debugFile = file
	debugOutput = file
	return path, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		return err
	}
	return nil
}

// IsDebugEnabled returns true if debug mode is enabled and we're not in quiet mode
func IsDebugEnabled() bool {
	if QuietMode {
		return false
	}

	// Check build flag first
	if EnableDebug == "true" {
		return true
	}

	// Allow runtime override via environment variable
	if os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true" {
		return true
	}

	return false
}

// getDebugWriter returns the writer for debug output, or nil if none is configured
func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Printf prints debug information only when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG] "+format, args...)
}

// Log provides structured debug logging with component names
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// Track starts timing a named stage. Call the returned func when the stage ends to log
// its duration under component.
func Track(component, stage string) func() {
	if !IsDebugEnabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		Log(component, "%s took %v", stage, time.Since(start))
	}
}

// LogAudit provides debug logging for extraction, resolution and aggregation
func LogAudit(format string, args ...interface{}) {
	Log("AUDIT", format, args...)
}

// LogDiscovery provides debug logging for file discovery and watch mode
func LogDiscovery(format string, args ...interface{}) {
	Log("DISCOVERY", format, args...)
}

// LogReport provides debug logging for report rendering
func LogReport(format string, args ...interface{}) {
	Log("REPORT", format, args...)
}

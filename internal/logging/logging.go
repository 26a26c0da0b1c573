// Package logging writes leveled log lines to a per-user log file.
// Until Init is called every function is a no-op.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	logger  *log.Logger
	logFile *os.File
	logPath string
	enabled bool
)

// Init opens the log file in the default OS log directory.
func Init() error {
	return InitAt(getLogDir())
}

// InitAt opens consent.log inside dir, creating dir if needed.
func InitAt(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	path := filepath.Join(dir, "consent.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	logPath = path
	logger = log.New(logFile, "", 0)
	enabled = true

	logger.Println(formatMessage("INFO", "consent started"))
	return nil
}

// getLogDir returns the log directory for the OS
func getLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "consent", "logs")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "consent")
	case "linux":
		return filepath.Join(home, ".local", "state", "consent", "logs")
	default:
		return filepath.Join(os.TempDir(), "consent", "logs")
	}
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logger.Println(formatMessage("INFO", "consent shutting down"))
		logFile.Close()
		logFile = nil
	}
	logger = nil
	enabled = false
}

// Path returns the current log file path, empty when logging is off.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

func formatMessage(level, format string, args ...any) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, args...))
}

func write(level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if enabled && logger != nil {
		logger.Println(formatMessage(level, format, args...))
	}
}

// Debug logs a debug message
func Debug(format string, args ...any) { write("DEBUG", format, args...) }

// Info logs an info message
func Info(format string, args ...any) { write("INFO", format, args...) }

// Warn logs a warning message
func Warn(format string, args ...any) { write("WARN", format, args...) }

// Error logs an error message
func Error(format string, args ...any) { write("ERROR", format, args...) }

// SetOutput mirrors log lines to w in addition to the log file.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		logger.SetOutput(io.MultiWriter(logFile, w))
	}
}

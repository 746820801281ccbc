// Package logger is the process-wide logger. Messages go to a console writer
// on stderr and, once Init is called, to a JSON log file as well.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	console io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logFile *os.File
	log     = zerolog.New(console).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// Init adds a log file next to the console output.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	log = log.Output(zerolog.MultiLevelWriter(console, f))
	return nil
}

// SetOutput replaces the console writer. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	console = w
	if logFile != nil {
		log = log.Output(zerolog.MultiLevelWriter(console, logFile))
		return
	}
	log = log.Output(console)
}

// SetVerbose toggles debug logging.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	if verbose {
		log = log.Level(zerolog.DebugLevel)
		return
	}
	log = log.Level(zerolog.InfoLevel)
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
		log = log.Output(console)
	}
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Info().Msgf(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Debug().Msgf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Warn().Msgf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Error().Msgf(format, v...)
}

package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	Logger *log.Logger
	mu     sync.Mutex
)

// Init initializes the logger with default settings
func Init() {
	Initialize("info")
}

// Initialize sets up the global logger with Charm's log library
func Initialize(logLevel string) {
	InitializeWithWriter(logLevel, os.Stderr)
}

// InitializeWithWriter sets up the global logger writing to w
func InitializeWithWriter(logLevel string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	initLocked(logLevel, w)
}

// initLocked replaces Logger; mu must be held
func initLocked(logLevel string, w io.Writer) {
	l := log.New(w)
	level := strings.ToLower(logLevel)
	l.SetLevel(parseLevel(level))
	l.SetReportCaller(true)
	l.SetReportTimestamp(true)

	Logger = l
	Logger.Debug("Logger initialized", "level", level)
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Get returns the global logger instance
func Get() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if Logger == nil {
		initLocked("info", os.Stderr)
	}
	return Logger
}

// WithContext creates a new logger with additional context fields
func WithContext(fields ...any) *log.Logger {
	return Get().With(fields...)
}

// Service creates a logger for a specific service
func Service(serviceName string) *log.Logger {
	return WithContext("service", serviceName)
}

// Database creates a logger for database operations
func Database() *log.Logger {
	return WithContext("component", "database")
}

// HTTP creates a logger for HTTP operations
func HTTP() *log.Logger {
	return WithContext("component", "http")
}

// Migration creates a logger for migration operations
func Migration() *log.Logger {
	return WithContext("component", "migration")
}

// Tally creates a logger for vote casting and tally aggregation
func Tally() *log.Logger {
	return WithContext("component", "tally")
}

// Repository creates a logger for repository operations
func Repository(repoName string) *log.Logger {
	return WithContext("component", "repository", "repository", repoName)
}

// Handler creates a logger for HTTP handlers
func Handler(handlerName string) *log.Logger {
	return WithContext("component", "handler", "handler", handlerName)
}

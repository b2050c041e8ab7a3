package system

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger provides file-based logging with daily rotation
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	logger *logrus.Logger
	logDir string
	prefix string
	date   string
}

// Global logger instance
var globalLogger *Logger

// InitLogger initializes the global logger
func InitLogger(logDir string) error {
	if logDir == "" {
		logDir = "./logs"
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &Logger{
		logDir: logDir,
		prefix: "countries",
		logger: logrus.New(),
	}
	l.logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	if err := l.rotateIfNeeded(); err != nil {
		return err
	}

	globalLogger = l
	return nil
}

// rotateIfNeeded switches to a new file when the day changes
func (l *Logger) rotateIfNeeded() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	if l.date == today && l.file != nil {
		return nil
	}

	if l.file != nil {
		l.file.Close()
	}

	logPath := filepath.Join(l.logDir, fmt.Sprintf("%s-%s.log", l.prefix, today))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Also write to stdout for container logs
	l.logger.SetOutput(io.MultiWriter(os.Stdout, file))
	l.file = file
	l.date = today

	return nil
}

// Log writes a log entry
func (l *Logger) Log(level logrus.Level, format string, args ...interface{}) {
	if l == nil || l.logger == nil {
		logrus.StandardLogger().Logf(level, format, args...)
		return
	}

	_ = l.rotateIfNeeded()
	l.logger.Logf(level, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	globalLogger.Log(logrus.InfoLevel, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	globalLogger.Log(logrus.WarnLevel, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	globalLogger.Log(logrus.ErrorLevel, format, args...)
}

// Close closes the logger
func Close() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.file.Close()
	}
}

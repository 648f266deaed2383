// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log message
type Level string

const (
	DebugLevel Level = "DEBUG"
	InfoLevel  Level = "INFO"
	WarnLevel  Level = "WARN"
	ErrorLevel Level = "ERROR"
	FatalLevel Level = "FATAL"
)

var levelRank = map[Level]int{
	DebugLevel: 0,
	InfoLevel:  1,
	WarnLevel:  2,
	ErrorLevel: 3,
	FatalLevel: 4,
}

// ParseLevel converts a configuration string into a Level
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	if level == "WARNING" {
		level = WarnLevel
	}
	if _, ok := levelRank[level]; !ok {
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Fields carries structured context for a log entry
type Fields = map[string]interface{}

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
	Fatal(msg string, fields Fields)
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
}

// JSONLogger writes one JSON object per entry
type JSONLogger struct {
	out    *syncWriter
	level  Level
	fields Fields
}

// syncWriter serializes writes from loggers sharing one output
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(p)
	return err
}

// NewJSONLogger creates a new JSON logger. A nil output writes to stdout.
func NewJSONLogger(output io.Writer, level Level) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}
	if _, ok := levelRank[level]; !ok {
		level = InfoLevel
	}

	return &JSONLogger{
		out:    &syncWriter{w: output},
		level:  level,
		fields: Fields{},
	}
}

// WithField returns a child logger carrying key
func (l *JSONLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a child logger carrying fields
func (l *JSONLogger) WithFields(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}

	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &JSONLogger{out: l.out, level: l.level, fields: merged}
}

func (l *JSONLogger) Debug(msg string, fields Fields) { l.log(DebugLevel, msg, fields) }

func (l *JSONLogger) Info(msg string, fields Fields) { l.log(InfoLevel, msg, fields) }

func (l *JSONLogger) Warn(msg string, fields Fields) { l.log(WarnLevel, msg, fields) }

func (l *JSONLogger) Error(msg string, fields Fields) { l.log(ErrorLevel, msg, fields) }

// Fatal logs at fatal level and terminates the process
func (l *JSONLogger) Fatal(msg string, fields Fields) {
	l.log(FatalLevel, msg, fields)
	os.Exit(1)
}

// Enabled reports whether entries at level are written
func (l *JSONLogger) Enabled(level Level) bool {
	return levelRank[level] >= levelRank[l.level]
}

func (l *JSONLogger) log(level Level, msg string, fields Fields) {
	if !l.Enabled(level) {
		return
	}

	// skip log and the exported level method
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}

	record := make(Fields, len(l.fields)+len(fields)+5)
	for k, v := range l.fields {
		record[k] = v
	}
	for k, v := range fields {
		if err, isErr := v.(error); isErr {
			v = err.Error()
		}
		record[k] = v
	}
	record["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	record["level"] = level
	record["message"] = msg
	record["file"] = file
	record["line"] = line

	data, err := json.Marshal(record)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","message":"failed to marshal log entry","error":%q}`, err.Error()))
	}
	data = append(data, '\n')

	if err := l.out.write(data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %s\n", err)
	}
}

var defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)

// GetDefaultLogger returns the process-wide logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Nop returns a logger that discards everything below fatal
func Nop() Logger {
	return NewJSONLogger(io.Discard, FatalLevel)
}

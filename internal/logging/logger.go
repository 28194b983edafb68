package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug is the most verbose level.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a string into a Level. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format represents the log output format.
type Format int

const (
	// FormatText outputs logs in human-readable text format.
	FormatText Format = iota
	// FormatJSON outputs logs as one JSON object per line.
	FormatJSON
)

// ParseFormat parses a string into a Format. Unknown names map to FormatText.
func ParseFormat(s string) Format {
	if strings.ToLower(s) == "json" {
		return FormatJSON
	}
	return FormatText
}

// Logger is the interface for structured logging.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})
	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})
	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})
	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
	// WithRequestID returns a new logger that tags entries with requestID.
	WithRequestID(requestID string) Logger
	// WithFields returns a new logger carrying the given fields.
	WithFields(keysAndValues ...interface{}) Logger
}

// Config holds the logger configuration.
type Config struct {
	Level  string
	Format string
	// Output is "stdout", "stderr" or a file path.
	Output string
}

// sink is the destination shared by a logger and everything derived from it.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

type logger struct {
	level     Level
	format    Format
	sink      *sink
	fields    map[string]interface{}
	requestID string
}

// New creates a Logger from cfg. A file output that cannot be opened falls
// back to stderr.
func New(cfg Config) Logger {
	var out io.Writer
	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}
	return NewWithWriter(out, ParseLevel(cfg.Level), ParseFormat(cfg.Format))
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level Level, format Format) Logger {
	return &logger{
		level:  level,
		format: format,
		sink:   &sink{out: w},
		fields: make(map[string]interface{}),
	}
}

// NewDefault creates an info-level text Logger on stderr.
func NewDefault() Logger {
	return NewWithWriter(os.Stderr, LevelInfo, FormatText)
}

// NewNop creates a no-op logger that discards all output.
func NewNop() Logger {
	return nopLogger{}
}

func (l *logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues)
}

func (l *logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues)
}

func (l *logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues)
}

func (l *logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues)
}

func (l *logger) WithRequestID(requestID string) Logger {
	derived := l.derive()
	derived.requestID = requestID
	return derived
}

func (l *logger) WithFields(keysAndValues ...interface{}) Logger {
	derived := l.derive()
	addPairs(derived.fields, keysAndValues)
	return derived
}

func (l *logger) derive() *logger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &logger{
		level:     l.level,
		format:    l.format,
		sink:      l.sink,
		fields:    fields,
		requestID: l.requestID,
	}
}

// addPairs copies alternating key/value arguments into dst. Non-string keys
// and a trailing key without value are dropped.
func addPairs(dst map[string]interface{}, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			dst[key] = stringifyError(keysAndValues[i+1])
		}
	}
}

// stringifyError renders errors as their message; encoding/json would
// otherwise print them as {}.
func stringifyError(v interface{}) interface{} {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return v
}

func (l *logger) log(level Level, msg string, keysAndValues []interface{}) {
	if level < l.level {
		return
	}

	entry := make(map[string]interface{}, len(l.fields)+len(keysAndValues)/2+4)
	for k, v := range l.fields {
		entry[k] = v
	}
	addPairs(entry, keysAndValues)
	entry["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.requestID != "" {
		entry["request_id"] = l.requestID
	}

	var line string
	if l.format == FormatJSON {
		data, err := json.Marshal(entry)
		if err != nil {
			line = fmt.Sprintf(`{"ts":%q,"level":"error","msg":"unencodable log entry"}`, entry["ts"])
		} else {
			line = string(data)
		}
	} else {
		line = formatText(entry)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	fmt.Fprintln(l.sink.out, line)
}

// formatText renders "ts [level] msg request_id=... k=v ..." with the
// remaining keys in sorted order.
func formatText(entry map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", entry["ts"], entry["level"], entry["msg"])
	if reqID, ok := entry["request_id"]; ok {
		fmt.Fprintf(&b, " request_id=%v", reqID)
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		switch k {
		case "ts", "level", "msg", "request_id":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry[k])
	}
	return b.String()
}

// nopLogger is a no-op logger that discards all output.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}
func (n nopLogger) WithRequestID(string) Logger { return n }
func (n nopLogger) WithFields(...interface{}) Logger { return n }

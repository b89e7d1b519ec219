package logging

import (
	"encoding/json"
	"log"
	"os"
	"sync/atomic"
	"time"
)

type Fields map[string]interface{}

var debugEnabled atomic.Bool

// SetDebug toggles Debug output.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// output writes one JSON line. The caller's fields are copied, never
// modified.
func output(level, msg string, cause error, fields Fields) {
	entry := make(Fields, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	if cause != nil {
		entry["error"] = cause.Error()
	}
	entry["level"] = level
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["msg"] = msg
	b, err := json.Marshal(entry)
	if err != nil {
		// fallback to plain logging
		log.Printf("%s: %s (%v)\n", level, msg, entry)
		return
	}
	log.Println(string(b))
}

// Debug logs only when debug output is enabled.
func Debug(msg string, fields Fields) {
	if !debugEnabled.Load() {
		return
	}
	output("debug", msg, nil, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output("info", msg, nil, fields)
}

// Warn logs a recoverable problem.
func Warn(msg string, fields Fields) {
	output("warn", msg, nil, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	output("error", msg, err, fields)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	output("fatal", msg, err, fields)
	os.Exit(1)
}

package log

import (
	"fmt"
	"io"
	"sync"
)

const (
	// LogFormatPlain defines a logging format used for human-readable text-based
	// logging that is not structured. Typically, this format is used for development
	// and testing purposes.
	LogFormatPlain string = "plain"

	// LogFormatText defines a logging format used for human-readable text-based
	// logging that is not structured. Typically, this format is used for development
	// and testing purposes.
	LogFormatText string = "text"

	// LogFormatJSON defines a logging format for structured JSON-based logging
	// that is typically used in production environments, which can be sent to
	// logging facilities that support complex log parsing.
	LogFormatJSON string = "json"

	// Supported loging levels
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Logger defines a generic logging interface compatible with the auction
// program host.
type Logger interface {
	Debug(msg string, keyVals ...interface{})
	Info(msg string, keyVals ...interface{})
	Error(msg string, keyVals ...interface{})

	With(keyVals ...interface{}) Logger
}

// Hexadecimal is intended to convert a []byte
// type to a value that is hexadecimal (uppercase).
type Hexadecimal struct {
	b []byte
}

// NewHexadecimal wraps bz so it is logged as uppercase hex.
func NewHexadecimal(bz []byte) Hexadecimal {
	return Hexadecimal{b: bz}
}

// String fulfills the Stringer interface within the
// fmt package.
func (s Hexadecimal) String() string {
	return fmt.Sprintf("%X", s.b)
}

// MarshalText makes structured encoders print the hex form.
func (s Hexadecimal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NewSyncWriter returns a new writer that is safe for concurrent use by
// multiple goroutines. Writes to the returned writer are passed on to w. If
// another write is already in progress, the calling goroutine blocks until
// the writer is available.
func NewSyncWriter(w io.Writer) io.Writer {
	return &syncWriter{w: w}
}

type syncWriter struct {
	mtx sync.Mutex
	w   io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.w.Write(p)
}

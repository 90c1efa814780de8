// Package logger exposes the process-wide structured logger. Every
// level function is safe to call before Init; without a backend the
// call is a no-op, so packages can log unconditionally and tests run
// silent by default.
package logger

import "sync/atomic"

// Instance is a leveled logging backend. Key-value pairs follow the
// message, alternating key then value.
type Instance interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

var backend atomic.Pointer[Instance]

// Init installs the backend used by all level functions. Calling it
// again swaps the backend for subsequent calls.
func Init(instance Instance) {
	backend.Store(&instance)
}

func active() Instance {
	p := backend.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Debug logs at DEBUG level.
func Debug(message string, keyvals ...any) {
	if l := active(); l != nil {
		l.Debug(message, keyvals...)
	}
}

// Info logs at INFO level.
func Info(message string, keyvals ...any) {
	if l := active(); l != nil {
		l.Info(message, keyvals...)
	}
}

// Warn logs at WARN level.
func Warn(message string, keyvals ...any) {
	if l := active(); l != nil {
		l.Warn(message, keyvals...)
	}
}

// Error logs at ERROR level.
func Error(message string, keyvals ...any) {
	if l := active(); l != nil {
		l.Error(message, keyvals...)
	}
}

// Fatal logs at FATAL level and terminates the process.
func Fatal(message string, keyvals ...any) {
	if l := active(); l != nil {
		l.Fatal(message, keyvals...)
	}
}

// Package logger is the leveled logging facade of this library.
// Messages go through the standard log package by default; applications
// can reroute any level with SetFunc, for example into a zap sugared
// logger.
package logger

import (
	"fmt"
	"log"
)

// Func is the signature of a pluggable log sink.
type Func = func(string, ...interface{})

// Level is a log severity.
type Level int8

const (
	// LevelDebug is DEBUG level.
	LevelDebug Level = iota
	// LevelInfo is INFO level.
	LevelInfo
	// LevelWarn is WARN level.
	LevelWarn
	// LevelError is ERROR level.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	lvl    = LevelInfo
	prefix = true
	sinks  = [LevelError + 1]Func{log.Printf, log.Printf, log.Printf, log.Printf}
)

// SetLevel sets the global log level.
func SetLevel(level Level) {
	lvl = level
}

// GetLevel returns the current log level.
func GetLevel() Level {
	return lvl
}

// SetFunc replaces the sink for one level.
// A nil fn is ignored.
func SetFunc(level Level, fn Func) {
	if fn == nil {
		return
	}
	if level < LevelDebug || level > LevelError {
		return
	}
	sinks[level] = fn
}

// DisablePrefix stops prepending the "[LEVEL]" marker to messages.
func DisablePrefix() {
	prefix = false
}

// IsDebugEnabled returns true if debug level is open.
func IsDebugEnabled() bool {
	return lvl <= LevelDebug
}

func emit(level Level, format string, v ...interface{}) {
	fn := sinks[level]
	if prefix {
		fn(fmt.Sprintf("[%s] %s", level, format), v...)
	} else {
		fn(format, v...)
	}
}

// Debugf prints debug level log.
func Debugf(format string, v ...interface{}) {
	if lvl > LevelDebug {
		return
	}
	emit(LevelDebug, format, v...)
}

// Infof prints info level log.
func Infof(format string, v ...interface{}) {
	if lvl > LevelInfo {
		return
	}
	emit(LevelInfo, format, v...)
}

// Warnf prints warn level log.
func Warnf(format string, v ...interface{}) {
	if lvl > LevelWarn {
		return
	}
	emit(LevelWarn, format, v...)
}

// Errorf prints error level log. It is never filtered.
func Errorf(format string, v ...interface{}) {
	emit(LevelError, format, v...)
}

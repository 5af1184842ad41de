// Basic logging infrastructure shared by every detectordb package: the resolver, the request
// loader, the path resolver, and the optional daemon and HTTP components all log through a
// status.Logger rather than calling fmt.Println or log.Printf directly, so that a caller embedding
// this engine in a larger program can redirect or quiet diagnostics.
package status

import (
	"fmt"
	"io"
	"log/syslog"
	"os"
	"sync"
)

// LogLevel indicates the level of logging that should be done.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelCritical
)

// Implementations of this must be thread-safe.
type Logger interface {
	// Print only messages at level l or above
	SetLevel(l LogLevel)

	// Lower log level at least to l
	LowerLevelTo(l LogLevel)

	// Print on this stream, if installed
	SetStderr(w io.Writer)

	// Print on this underlying (simpler) logger, if installed - often syslog.
	SetUnderlying(w UnderlyingLogger)

	Debug(xs ...any)
	Debugf(format string, args ...any)

	Info(xs ...any)
	Infof(format string, args ...any)

	Warning(xs ...any)
	Warningf(format string, args ...any)

	Error(xs ...any)
	Errorf(format string, args ...any)

	Critical(xs ...any)
	Criticalf(format string, args ...any)
}

// Typically the underlying logger would be a syslog thing, and it has a simpler interface.  In
// particular, log/syslog implements UnderlyingLogger.  An underlying logger must be thread-safe.
type UnderlyingLogger interface {
	Debug(m string) error
	Info(m string) error
	Warning(m string) error
	Err(m string) error
	Crit(m string) error
}

type StandardLogger struct {
	sync.Mutex
	level      LogLevel
	stderr     io.Writer
	underlying UnderlyingLogger
}

// MT: Constant after initialization, thread-safe.
var defaultLogger Logger = &StandardLogger{
	level:  LogLevelError,
	stderr: os.Stderr,
}

func Default() Logger {
	return defaultLogger
}

func (sl *StandardLogger) SetLevel(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()
	sl.level = l
}

func (sl *StandardLogger) LowerLevelTo(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()
	if sl.level > l {
		sl.level = l
	}
}

func (sl *StandardLogger) SetStderr(stderr io.Writer) {
	sl.Lock()
	defer sl.Unlock()
	sl.stderr = stderr
}

func (sl *StandardLogger) SetUnderlying(underlying UnderlyingLogger) {
	sl.Lock()
	defer sl.Unlock()
	sl.underlying = underlying
}

func (sl *StandardLogger) emit(l LogLevel, s string) {
	sl.Lock()
	defer sl.Unlock()
	if sl.level > l {
		return
	}
	if sl.stderr != nil {
		fmt.Fprintln(sl.stderr, s)
	}
	if sl.underlying == nil {
		return
	}
	switch l {
	case LogLevelDebug:
		sl.underlying.Debug(s)
	case LogLevelInfo:
		sl.underlying.Info(s)
	case LogLevelWarning:
		sl.underlying.Warning(s)
	case LogLevelError:
		sl.underlying.Err(s)
	case LogLevelCritical:
		sl.underlying.Crit(s)
	}
}

func (sl *StandardLogger) Critical(xs ...any)                 { sl.emit(LogLevelCritical, fmt.Sprint(xs...)) }
func (sl *StandardLogger) Criticalf(f string, args ...any)    { sl.emit(LogLevelCritical, fmt.Sprintf(f, args...)) }
func (sl *StandardLogger) Error(xs ...any)                    { sl.emit(LogLevelError, fmt.Sprint(xs...)) }
func (sl *StandardLogger) Errorf(f string, args ...any)       { sl.emit(LogLevelError, fmt.Sprintf(f, args...)) }
func (sl *StandardLogger) Warning(xs ...any)                  { sl.emit(LogLevelWarning, fmt.Sprint(xs...)) }
func (sl *StandardLogger) Warningf(f string, args ...any)     { sl.emit(LogLevelWarning, fmt.Sprintf(f, args...)) }
func (sl *StandardLogger) Info(xs ...any)                     { sl.emit(LogLevelInfo, fmt.Sprint(xs...)) }
func (sl *StandardLogger) Infof(f string, args ...any)        { sl.emit(LogLevelInfo, fmt.Sprintf(f, args...)) }
func (sl *StandardLogger) Debug(xs ...any)                    { sl.emit(LogLevelDebug, fmt.Sprint(xs...)) }
func (sl *StandardLogger) Debugf(f string, args ...any)       { sl.emit(LogLevelDebug, fmt.Sprintf(f, args...)) }

// Start redirects the default logger's diagnostics to the local syslog daemon, in addition to
// stderr.  Used by cmd/dbserve, never by library packages.
func Start(logTag string) {
	logger, err := syslog.Dial("", "", syslog.LOG_INFO|syslog.LOG_USER, logTag)
	if err != nil {
		Fatal(err.Error())
	}
	defaultLogger.SetUnderlying(logger)
}

func Fatal(msg string) {
	defaultLogger.Critical(msg)
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	defaultLogger.Criticalf(format, args...)
	os.Exit(1)
}

// FormatMissingKey renders the diagnostic text for a required-but-absent key: "<here>:
// <loadPrefix><name> (<descript>) not found" when descript is non-empty, else the same without
// the parenthetical.  This is the exact format the request loader passes to Logger.Warning /
// Logger.Error when a non-optional DBRequest item cannot be resolved, mirroring the message
// wording of the database's original C++ diagnostic (see SPEC_FULL.md §10).
func FormatMissingKey(here, loadPrefix, key, descript string) string {
	if descript != "" {
		return fmt.Sprintf("%s: %s%s (%s) not found", here, loadPrefix, key, descript)
	}
	return fmt.Sprintf("%s: %s%s not found", here, loadPrefix, key)
}

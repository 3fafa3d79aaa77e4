// Package logger provides the process-wide leveled logger.
//
// Output is printf-style with a timestamp and level prefix. The default
// level is INFO; SetLevel and SetOutput are normally called once at startup
// from the loaded configuration.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	out          = stdlog.New(os.Stdout, "", 0)
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

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

// SetLevel sets the minimum level that gets written. Unknown names are
// ignored and the current level is kept.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel.Store(int32(LevelDebug))
	case "INFO":
		currentLevel.Store(int32(LevelInfo))
	case "WARN":
		currentLevel.Store(int32(LevelWarn))
	case "ERROR":
		currentLevel.Store(int32(LevelError))
	}
}

// SetOutput redirects log output, e.g. to stderr or a file.
func SetOutput(w io.Writer) {
	out.SetOutput(w)
}

// StandardStream maps a configured output name to a process stream. The
// empty string and "stdout" mean stdout, "stderr" means stderr; any other
// name is not a stream and should be opened as a file by the caller.
func StandardStream(name string) (*os.File, bool) {
	switch name {
	case "", "stdout":
		return os.Stdout, true
	case "stderr":
		return os.Stderr, true
	default:
		return nil, false
	}
}

func write(level Level, format string, v ...any) {
	if int32(level) < currentLevel.Load() {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	out.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, v...)))
}

func Debug(format string, v ...any) {
	write(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	write(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	write(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	write(LevelError, format, v...)
}

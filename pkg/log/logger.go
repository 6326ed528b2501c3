// Package log provides the named, leveled loggers shared by the composer
// packages. Every logger writes through one backend so a single SetLevel or
// SetSink call affects the renderer, the frame graph and the CLI alike.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[Level]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Error:   "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel maps a level name such as "warning" to its Level
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return Notice, fmt.Errorf("unknown log level %q", name)
}

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is the leveled logger used by the composer packages.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger. The name shows up as the module column.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects every logger to sink, keeping the current level.
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(toLogging(currentLevel), "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets logger verbosity for every module.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	leveledBackend.SetLevel(toLogging(level), "")
}

// CurrentLevel returns the verbosity last passed to SetLevel
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

func toLogging(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
}

// Package log provides structured logging with filesystem-based persistence.
//
// Logging is opt-in: unless logs.write is set every call is a no-op, so the
// terminal UI never has stray output written over it.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lectern-cli/lectern/filesystem"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var enabled bool

// Fields is an alias so callers do not import logrus directly.
type Fields = logrus.Fields

// Setup opens today's log file and configures formatter and level from the configuration.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	configure(f)

	return nil
}

// configure points logrus at w using the configured format and level.
func configure(w io.Writer) {
	logrus.SetOutput(w)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// Entry is a field-scoped logger. The zero value discards everything.
type Entry struct {
	entry *logrus.Entry
}

// With returns an Entry carrying fields, e.g. the playback session id.
func With(fields Fields) Entry {
	if !enabled {
		return Entry{}
	}
	return Entry{entry: logrus.WithFields(fields)}
}

func (e Entry) Debugf(format string, args ...interface{}) {
	if e.entry != nil {
		e.entry.Debugf(format, args...)
	}
}

func (e Entry) Infof(format string, args ...interface{}) {
	if e.entry != nil {
		e.entry.Infof(format, args...)
	}
}

func (e Entry) Warnf(format string, args ...interface{}) {
	if e.entry != nil {
		e.entry.Warnf(format, args...)
	}
}

func (e Entry) Errorf(format string, args ...interface{}) {
	if e.entry != nil {
		e.entry.Errorf(format, args...)
	}
}

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}

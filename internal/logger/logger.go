// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	log *logrus.Logger
)

// Init configures the shared logger. format is "json" or "text"; an unknown
// level falls back to info with a warning.
func Init(level, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)

	if strings.ToLower(format) == "text" {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	if lv, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		l.SetLevel(lv)
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.WithField("invalid_level", level).Warn("invalid log level, using info")
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return l
}

// Get returns the shared logger, initialising a JSON info logger on first use.
func Get() *logrus.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l == nil {
		return Init("info", "json", nil)
	}
	return l
}

// WithComponent tags entries with the emitting component.
func WithComponent(name string) *logrus.Entry {
	return Get().WithField("component", name)
}

// WithRequest tags entries from base with a request id. A nil base uses the
// shared logger.
func WithRequest(base *logrus.Entry, requestID string) *logrus.Entry {
	if base == nil {
		base = logrus.NewEntry(Get())
	}
	return base.WithField("request_id", requestID)
}

// WithGame tags entries with the matchup.
func WithGame(home, away string) *logrus.Entry {
	return Get().WithFields(logrus.Fields{
		"home": home,
		"away": away,
	})
}

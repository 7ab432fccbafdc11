// Package logging is a thin, leveled wrapper around an io.Writer, with
// structured fields and logrus as the backing implementation.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/wsdep/workspace-deps/wsdep"
)

// Logger wraps a *logrus.Logger, exposing the small vocabulary the CLI and
// collaborator packages need (Depf-style formatted lines plus structured
// fields) without leaking logrus's full API into callers.
type Logger struct {
	*logrus.Logger
}

// New returns a Logger writing to w at level, with the text formatter the
// CLI uses by default.
func New(w io.Writer, level logrus.Level) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{Logger: l}
}

// Default returns a Logger writing to stderr at info level.
func Default() *Logger {
	return New(os.Stderr, logrus.InfoLevel)
}

// WithFields returns an Entry carrying fields, for the common
// "log.WithFields(...).Info(...)" call shape.
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// Depf logs a formatted line at info level, prefixed with "wsdepctl: " so
// CLI output is easy to tell apart from library log lines.
func (l *Logger) Depf(format string, args ...interface{}) {
	l.Logger.Infof("wsdepctl: "+format, args...)
}

// Logger's embedded *logrus.Logger already provides Infof, so it
// satisfies wsdep.Logger and can be handed directly to wsdep.WithLogger /
// wsdep.WithUpgraderLogger.
var _ wsdep.Logger = (*Logger)(nil)

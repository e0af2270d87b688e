// Package searchlog provides structured progress logging for
// GlobalSearch, wrapping a package-level logrus logger the way
// inference-sim wires logrus through its simulation packages.
package searchlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel adjusts verbosity. Until it is called the logger runs at
// logrus's default level (Info), so Debugf output is not shown.
func SetLevel(level logrus.Level) {
	log.SetLevel(level)
}

func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

package log

import (
	"github.com/anchore/go-logger"
	"github.com/anchore/go-logger/adapter/discard"
)

// log is the singleton used to facilitate logging internally within wrangle
var log = discard.New()

// Set replaces the default logger with the provided logger.
func Set(l logger.Logger) {
	log = l
}

// Get returns the current logger instance.
func Get() logger.Logger {
	return log
}

// WithFields returns a message logger with multiple key-value fields.
func WithFields(fields ...interface{}) logger.MessageLogger {
	return log.WithFields(fields...)
}

package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger. Everything downstream logs
// through it with WithFields so one query turn can be traced across the
// classifier, router, and handlers by request id.
var Logger *logrus.Logger

// InitLogger builds the JSON logger. LOG_LEVEL accepts any logrus level
// name; anything unparseable falls back to info.
func InitLogger() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	Logger = logger
}

// GetLogger returns the shared logger, initializing it on first use.
func GetLogger() *logrus.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}

package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the application logger: full-timestamp text output with
// the level taken from LOG_LEVEL (info by default).
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	}
	return logger
}

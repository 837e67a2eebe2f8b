package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ConsoleLogger returns a logger writing human-readable output to stderr.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return log
}

// FileLogger appends JSON-formatted entries to the given path.
func FileLogger(level logrus.Level, path string) (*logrus.Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(f)
	log.SetLevel(level)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, nil
}

// Package logging builds the logrus loggers used by dronedeck binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a text logger at level writing to path. An empty path logs to
// stderr. The returned closer releases the log file.
func New(level, path string) (*logrus.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   path != "",
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if strings.TrimSpace(path) == "" {
		logger.SetOutput(os.Stderr)
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, file, nil
}

// ParseLevel accepts logrus level names. Empty means info.
func ParseLevel(level string) (logrus.Level, error) {
	trimmed := strings.TrimSpace(level)
	if trimmed == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse log level: %w", err)
	}
	return lvl, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

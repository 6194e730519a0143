package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dronedeck.log")

	logger, closer, err := New("debug", path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithField("component", "test").Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "msg=hello") || !strings.Contains(line, "component=test") {
		t.Fatalf("log line = %q, want message and component field", line)
	}
}

func TestNew_StderrWhenPathEmpty(t *testing.T) {
	logger, closer, err := New("", "  ")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Out != os.Stderr {
		t.Fatalf("Out = %v, want stderr", logger.Out)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", logger.GetLevel())
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestParseLevel_RejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatalf("ParseLevel returned nil error, want error")
	}
	lvl, err := ParseLevel(" WARN ")
	if err != nil {
		t.Fatalf("ParseLevel returned error: %v", err)
	}
	if lvl != logrus.WarnLevel {
		t.Fatalf("level = %v, want warn", lvl)
	}
}

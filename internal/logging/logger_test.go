package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWithPrefixBeforeInit(t *testing.T) {
	Logger = nil

	l := WithPrefix("fetch")
	if l == nil {
		t.Fatal("expected a usable logger before Init")
	}
	// Must not panic.
	l.Debug("early message", "key", "value")
}

func TestInitCreatesDatedLogFile(t *testing.T) {
	dir := t.TempDir()

	if err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() {
		Close()
		Logger = nil
	}()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log file, got %d", len(entries))
	}

	Info("hello", "n", 1)
	data, err := os.ReadFile(filepath.Join(dir, "logs", entries[0].Name()))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in the file")
	}
}

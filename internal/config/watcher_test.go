package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// mockLogger implements Logger for assertions on watcher behavior.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) Infof(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
}

func (m *mockLogger) Errorf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
}

func (m *mockLogger) Debugf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
}

func TestFileWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sv-bugpoint.yaml")
	if err := os.WriteFile(path, []byte("version: \"1.0\"\nreduce:\n  sieve_lower: 1024\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	m := NewManager()
	if err := m.Load(path); err != nil {
		t.Fatalf("initial Load: %v", err)
	}

	logger := &mockLogger{}
	fw := NewFileWatcher(m, logger)
	fw.SetInterval(20 * time.Millisecond)

	if err := fw.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer fw.Stop()

	time.Sleep(30 * time.Millisecond)
	future := time.Now().Add(time.Second)
	if err := os.WriteFile(path, []byte("version: \"1.0\"\nreduce:\n  sieve_lower: 2048\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Get().Reduce.SieveLower == 2048 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected sieve_lower to reach 2048 after reload, got %d", m.Get().Reduce.SieveLower)
}

func TestFileWatcherStopIsIdempotentSafe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sv-bugpoint.yaml")
	if err := os.WriteFile(path, []byte("version: \"1.0\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	m := NewManager()
	if err := m.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fw := NewFileWatcher(m, nil)
	fw.SetInterval(20 * time.Millisecond)
	if err := fw.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	fw.Stop()
	fw.Stop()
}

func TestFileWatcherWatchMissingFile(t *testing.T) {
	m := NewManager()
	fw := NewFileWatcher(m, &mockLogger{})
	if err := fw.Watch("/nonexistent/sv-bugpoint.yaml"); err == nil {
		t.Error("expected an error watching a nonexistent file")
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aisingest/config"
)

func TestFanoutSplitsLines(t *testing.T) {
	var console bytes.Buffer
	fanout, err := setupLogging(config.LoggingConfig{}, &console)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer fanout.Close()

	fanout.Write([]byte("first line\nsecond"))
	fanout.Write([]byte(" half\n"))

	out := console.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 console lines, got %d: %q", len(lines), out)
	}
	if !strings.HasSuffix(lines[0], "first line") || !strings.HasSuffix(lines[1], "second half") {
		t.Fatalf("line reassembly broken: %q", lines)
	}
}

func TestFileSinkWritesDateNamedFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	fanout, err := setupLogging(config.LoggingConfig{Enabled: true, Dir: dir, RetentionDays: 7}, &console)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	fanout.Write([]byte("archived line\n"))
	if err := fanout.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	if _, ok := parseLogFileDate(entries[0].Name()); !ok {
		t.Fatalf("log file name not date-based: %s", entries[0].Name())
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "archived line") {
		t.Fatalf("line missing from file: %q", data)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	old := filepath.Join(dir, now.AddDate(0, 0, -10).Format(logFileDateLayout)+".log")
	recent := filepath.Join(dir, now.Format(logFileDateLayout)+".log")
	unrelated := filepath.Join(dir, "keep.txt")
	for _, p := range []string{old, recent, unrelated} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if err := cleanupOldLogs(dir, now, 7); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("old log not removed")
	}
	if _, err := os.Stat(recent); err != nil {
		t.Fatalf("recent log removed: %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("unrelated file removed: %v", err)
	}
}

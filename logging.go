package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aisingest/config"
)

const (
	logTimestampLayout = "2006/01/02 15:04:05"
	logFileDateLayout  = "02-Jan-2006"
)

// lineSink receives finished log lines.
type lineSink interface {
	WriteLine(line string, now time.Time)
	Close() error
}

type ioLineSink struct {
	w io.Writer
}

func (s *ioLineSink) WriteLine(line string, now time.Time) {
	if s == nil || s.w == nil {
		return
	}
	_, _ = io.WriteString(s.w, formatLogTimestamp(now)+" "+line+"\n")
}

func (s *ioLineSink) Close() error { return nil }

// fileSink appends timestamped lines to a date-named log file. A batch run
// never crosses midnight in practice, so the file is picked once at startup;
// retention cleanup still runs so repeated daily runs stay bounded.
type fileSink struct {
	file *os.File
}

func newFileSink(dir string, retentionDays int, now time.Time) (*fileSink, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("log directory is empty")
	}
	if retentionDays <= 0 {
		retentionDays = 7
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", trimmed, err)
	}
	if err := cleanupOldLogs(trimmed, now, retentionDays); err != nil {
		fmt.Fprintf(os.Stderr, "Logging: cleanup failed for %s: %v\n", trimmed, err)
	}
	path := filepath.Join(trimmed, now.UTC().Format(logFileDateLayout)+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open failed for %s: %w", path, err)
	}
	return &fileSink{file: file}, nil
}

func (s *fileSink) WriteLine(line string, now time.Time) {
	if s == nil || s.file == nil {
		return
	}
	_, _ = s.file.WriteString(formatLogTimestamp(now) + " " + line + "\n")
}

func (s *fileSink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// logFanout duplicates every log line to the console and, when enabled, the
// daily file sink. It is installed as the output of the stdlib logger.
type logFanout struct {
	buf     []byte
	console lineSink
	file    lineSink
}

// setupLogging wires logging based on config. File-sink failures degrade to
// console-only logging rather than blocking startup.
func setupLogging(cfg config.LoggingConfig, console io.Writer) (*logFanout, error) {
	fanout := &logFanout{console: &ioLineSink{w: console}}
	if !cfg.Enabled {
		return fanout, nil
	}
	sink, err := newFileSink(cfg.Dir, cfg.RetentionDays, time.Now().UTC())
	if err != nil {
		return fanout, err
	}
	fanout.file = sink
	return fanout, nil
}

func (f *logFanout) Write(p []byte) (int, error) {
	if f == nil {
		return len(p), nil
	}
	f.buf = append(f.buf, p...)
	now := time.Now().UTC()
	for {
		idx := -1
		for i, b := range f.buf {
			if b == '\n' {
				idx = i
				break
			}
		}
		if idx == -1 {
			break
		}
		line := strings.TrimRight(string(f.buf[:idx]), "\r")
		f.buf = f.buf[idx+1:]
		if f.console != nil {
			f.console.WriteLine(line, now)
		}
		if f.file != nil {
			f.file.WriteLine(line, now)
		}
	}
	return len(p), nil
}

func (f *logFanout) Close() error {
	if f == nil {
		return nil
	}
	var firstErr error
	if f.console != nil {
		_ = f.console.Close()
	}
	if f.file != nil {
		if err := f.file.Close(); err != nil {
			firstErr = err
		}
	}
	return firstErr
}

func formatLogTimestamp(now time.Time) string {
	return now.UTC().Format(logTimestampLayout)
}

func parseLogFileDate(name string) (time.Time, bool) {
	if filepath.Ext(name) != ".log" {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation(logFileDateLayout, strings.TrimSuffix(name, ".log"), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func cleanupOldLogs(dir string, now time.Time, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	cutoff := dateOnly(now.UTC()).AddDate(0, 0, -(retentionDays - 1))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := parseLogFileDate(entry.Name())
		if !ok {
			continue
		}
		if date.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// installLogger points the stdlib logger at the fanout with no default
// prefix/flags; the fanout adds its own timestamps.
func installLogger(fanout *logFanout) {
	log.SetFlags(0)
	log.SetOutput(fanout)
}

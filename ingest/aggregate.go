// Package ingest turns raw transponder log files into tokenized rows:
// multi-file aggregation with lexical dedupe, anomaly repair, and fixed-arity
// field tokenization. Everything downstream of this package works on clean
// 22-field rows.
package ingest

import (
	"bufio"
	"fmt"
	"os"
)

// AggregateStats reports what the aggregator saw across one batch.
type AggregateStats struct {
	FilesRead         int
	LinesRead         uint64 // data lines, headers excluded
	LexicalDuplicates uint64 // byte-identical lines dropped
}

// Aggregate reads every file in order, strips the header line of each, and
// returns the concatenated data lines with byte-identical duplicates removed
// (first occurrence wins). This lexical pass only catches re-logged or
// accidentally concatenated files; semantic dedup happens later on the
// composite key. Any read failure aborts the whole batch with no partial
// result.
func Aggregate(paths []string) ([]string, AggregateStats, error) {
	var stats AggregateStats
	var lines []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		if err := aggregateFile(path, seen, &lines, &stats); err != nil {
			return nil, AggregateStats{}, err
		}
		stats.FilesRead++
	}
	return lines, stats, nil
}

func aggregateFile(path string, seen map[string]struct{}, lines *[]string, stats *AggregateStats) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		line := scanner.Text()
		stats.LinesRead++
		if _, dup := seen[line]; dup {
			stats.LexicalDuplicates++
			continue
		}
		seen[line] = struct{}{}
		*lines = append(*lines, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ingest: read %s: %w", path, err)
	}
	return nil
}

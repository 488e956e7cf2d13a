// Package dedup collapses tokenized rows that share a composite identity key
// to a single representative. All rows pass through here between
// tokenization and decoding.
package dedup

import (
	"aisingest/nav"
)

// Deduplicator removes semantic duplicates from one batch of tokenized rows.
// Identity is the xxh3 hash of the raw key fields (nav.KeyFields), which
// deliberately excludes the local receipt timestamp: the logger can record
// the same satellite-timestamped sentence twice with different receipt
// times, and those must count as one observation.
type Deduplicator struct {
	seen           map[uint64]struct{}
	processedCount uint64
	duplicateCount uint64
}

// NewDeduplicator creates an empty deduplicator. Each batch gets its own
// instance; nothing is shared across pipeline invocations.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[uint64]struct{})}
}

// Collapse returns the rows whose composite key has not been seen before,
// preserving first-occurrence order. The input slice is not modified.
func (d *Deduplicator) Collapse(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		d.processedCount++
		hash := nav.KeyHash(row)
		if _, dup := d.seen[hash]; dup {
			d.duplicateCount++
			continue
		}
		d.seen[hash] = struct{}{}
		out = append(out, row)
	}
	return out
}

// Stats returns how many rows were processed and how many were dropped as
// duplicates.
func (d *Deduplicator) Stats() (processed, duplicates uint64) {
	return d.processedCount, d.duplicateCount
}

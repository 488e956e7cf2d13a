// Package pipeline wires the full cleaning run: path validation, multi-file
// aggregation, repair, tokenization, composite-key dedup, typed decode,
// vessel filtering, chronological sort, and duplicate-timestamp collapse.
// Each stage consumes the whole output of the previous one; a batch either
// fails before parsing (FormatError), fails on file IO, or completes with
// every row-level fault absorbed into the audit counters.
package pipeline

import (
	"math"
	"sort"

	"aisingest/dedup"
	"aisingest/filter"
	"aisingest/ingest"
	"aisingest/nav"
)

// Options controls one pipeline run.
type Options struct {
	// Vessels is the allow-list of vessel identifiers; empty means every
	// observed vessel passes.
	Vessels []uint32
	// Rules overrides the repair rule set; nil selects ingest.DefaultRules.
	Rules []ingest.RepairRule
}

// Audit aggregates every non-fatal fault and drop across a run. Row-level
// faults never surface individually; this is their only visible trace.
type Audit struct {
	FilesRead          int
	LinesRead          uint64
	LexicalDuplicates  uint64
	LinesRepaired      uint64
	TokenizeDrops      uint64
	SemanticDuplicates uint64
	Decode             nav.DecodeStats
	FilteredOut        uint64
	TimestampCollapsed uint64
}

// Result is the outcome of one run: the final fix sequence plus its audit.
// Fixes satisfies the output invariants: strictly increasing UTC timestamps
// (one NaN group allowed, sorted first) and every MMSI in the effective
// filter set.
type Result struct {
	Format Format
	Fixes  []nav.Fix
	Audit  Audit
}

// Run executes the whole pipeline over the given input files. All paths must
// share one supported format. Legacy-format batches return an empty result:
// the format is recognized but decoding it is not implemented.
func Run(paths []string, opts Options) (*Result, error) {
	format, err := detectFormat(paths)
	if err != nil {
		return nil, err
	}
	res := &Result{Format: format}
	if format == FormatLegacy {
		return res, nil
	}

	lines, aggStats, err := ingest.Aggregate(paths)
	if err != nil {
		return nil, err
	}
	res.Audit.FilesRead = aggStats.FilesRead
	res.Audit.LinesRead = aggStats.LinesRead
	res.Audit.LexicalDuplicates = aggStats.LexicalDuplicates

	rules := opts.Rules
	if rules == nil {
		rules = ingest.DefaultRules()
	}
	res.Audit.LinesRepaired = ingest.Repair(lines, rules)

	rows, dropped := ingest.Tokenize(lines)
	res.Audit.TokenizeDrops = dropped

	d := dedup.NewDeduplicator()
	rows = d.Collapse(rows)
	_, res.Audit.SemanticDuplicates = d.Stats()

	fixes := make([]nav.Fix, 0, len(rows))
	for _, row := range rows {
		fixes = append(fixes, nav.Decode(row, &res.Audit.Decode))
	}

	vf := filter.NewVesselFilter(opts.Vessels)
	filtered := vf.Apply(fixes)
	res.Audit.FilteredOut = uint64(len(fixes) - len(filtered))

	sortByUTC(filtered)
	res.Fixes = collapseTimestamps(filtered, &res.Audit)
	return res, nil
}

// sortByUTC stable-sorts by the authoritative UTC timestamp. Stability is
// load-bearing: the collapser keeps the first record per timestamp, and
// "first" must mean first in pre-sort order among ties. NaN timestamps
// (decode sentinels) sort before every real timestamp so their position is
// defined rather than accidental.
func sortByUTC(fixes []nav.Fix) {
	sort.SliceStable(fixes, func(i, j int) bool {
		return utcLess(fixes[i].UTCTime, fixes[j].UTCTime)
	})
}

func utcLess(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	if math.IsNaN(b) {
		return false
	}
	return a < b
}

// collapseTimestamps keeps the first post-sort record per distinct UTC
// timestamp. All NaN timestamps count as one value, so at most one sentinel
// record survives.
func collapseTimestamps(fixes []nav.Fix, audit *Audit) []nav.Fix {
	out := make([]nav.Fix, 0, len(fixes))
	seen := make(map[float64]struct{}, len(fixes))
	seenNaN := false
	for i := range fixes {
		ts := fixes[i].UTCTime
		if math.IsNaN(ts) {
			if seenNaN {
				audit.TimestampCollapsed++
				continue
			}
			seenNaN = true
			out = append(out, fixes[i])
			continue
		}
		if _, dup := seen[ts]; dup {
			audit.TimestampCollapsed++
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, fixes[i])
	}
	return out
}

// Package nav defines the canonical navigation fix record and the sentence
// schema shared by the whole pipeline: field positions, dedup-key layout,
// typed decoding, and data-quality auditing helpers.
package nav

// Sentence layout constants. Every transponder sentence is one comma-delimited
// line with exactly FieldCount positional fields once repaired. Field numbers
// below are 1-based, matching the logger's documentation; use fieldAt to index
// a tokenized row.
const (
	FieldCount = 22
	Delimiter  = ','

	// A well-formed line carries FieldCount-1 delimiters. A line with exactly
	// FieldCount delimiters is assumed to carry one spurious delimiter inside
	// the free-text name span; SpuriousDelimiterIndex is the 0-indexed
	// occurrence to neutralize. This is a single-point heuristic, not a
	// general repair.
	WellFormedDelimiters   = FieldCount - 1
	SpuriousDelimiterIndex = 14
)

// 1-based field positions of the semantically used fields.
const (
	FieldUTCTime   = 2  // satellite-derived timestamp, authoritative sort key
	FieldPCTime    = 5  // local receipt timestamp
	FieldMMSI      = 8  // vessel identifier
	FieldShipName  = 10 // free text
	FieldShipType  = 11 // free text
	FieldNavStatus = 15 // small integer code
	FieldSOG       = 17 // speed over ground, knots
	FieldLat       = 18 // latitude, degrees
	FieldLon       = 19 // longitude, degrees
	FieldCOG       = 20 // course over ground, degrees
	FieldHeading   = 21 // true heading, degrees
)

// TimestampLayout is the textual timestamp format used by fields 2 and 5.
const TimestampLayout = "2006-01-02 15:04:05.000"

// KeyFields lists the 1-based positions that make up the composite identity
// key. Field 5 (local receipt time) is deliberately excluded: the logger can
// record the same satellite-timestamped sentence twice with different receipt
// times, and those must collapse to one observation.
var KeyFields = [...]int{
	FieldUTCTime,
	FieldMMSI,
	FieldShipName,
	FieldShipType,
	FieldNavStatus,
	FieldSOG,
	FieldLat,
	FieldLon,
	FieldCOG,
	FieldHeading,
}

// fieldAt returns the 1-based field from a tokenized row.
func fieldAt(row []string, position int) string {
	return row[position-1]
}

package nav

import (
	"fmt"
	"math"
	"testing"
)

// testRow builds a 22-field row with distinct fillers; overrides are keyed by
// 1-based field position.
func testRow(overrides map[int]string) []string {
	row := make([]string, FieldCount)
	for i := range row {
		row[i] = fmt.Sprintf("f%02d", i+1)
	}
	for pos, v := range overrides {
		row[pos-1] = v
	}
	return row
}

func validRow() []string {
	return testRow(map[int]string{
		FieldUTCTime:   "2024-03-01 12:00:01.500",
		FieldPCTime:    "2024-03-01 12:00:02.000",
		FieldMMSI:      "235001234",
		FieldShipName:  "OCEAN TRADER  ",
		FieldShipType:  "Cargo ",
		FieldNavStatus: "0",
		FieldSOG:       "12.3",
		FieldLat:       "57.12345",
		FieldLon:       "-3.54321",
		FieldCOG:       "181.0",
		FieldHeading:   "179.5",
	})
}

func TestDecodeWellFormedRow(t *testing.T) {
	var stats DecodeStats
	f := Decode(validRow(), &stats)

	if stats.Total() != 0 {
		t.Fatalf("unexpected decode faults: %+v", stats)
	}
	// 2024-03-01 12:00:01.500 UTC.
	if want := 1709294401.5; f.UTCTime != want {
		t.Fatalf("UTCTime = %v, want %v", f.UTCTime, want)
	}
	if f.PCTime != 1709294402.0 {
		t.Fatalf("PCTime = %v", f.PCTime)
	}
	if f.MMSI != 235001234 {
		t.Fatalf("MMSI = %d", f.MMSI)
	}
	if f.ShipName != "OCEAN TRADER" {
		t.Fatalf("trailing whitespace not trimmed: %q", f.ShipName)
	}
	if f.ShipType != "Cargo" {
		t.Fatalf("ShipType = %q", f.ShipType)
	}
	if f.NavStatus != 0 {
		t.Fatalf("NavStatus = %d", f.NavStatus)
	}
	if f.SOG != 12.3 || f.COG != 181.0 || f.Heading != 179.5 {
		t.Fatalf("motion fields: sog=%v cog=%v hdg=%v", f.SOG, f.COG, f.Heading)
	}
	if f.Lat != 57.12345 || f.Lon != -3.54321 {
		t.Fatalf("coordinates: %v %v", f.Lat, f.Lon)
	}
	if !f.HasPosition() {
		t.Fatalf("HasPosition false for decoded coordinates")
	}
}

func TestDecodeFaultsYieldSentinels(t *testing.T) {
	var stats DecodeStats
	f := Decode(testRow(nil), &stats) // every used field is unparseable filler

	if !math.IsNaN(f.UTCTime) || !math.IsNaN(f.PCTime) {
		t.Fatalf("timestamps should be NaN: %v %v", f.UTCTime, f.PCTime)
	}
	if f.MMSI != MMSISentinel {
		t.Fatalf("MMSI sentinel = %d", f.MMSI)
	}
	if f.NavStatus != NavStatusSentinel {
		t.Fatalf("NavStatus sentinel = %d", f.NavStatus)
	}
	if !math.IsNaN(float64(f.SOG)) || !math.IsNaN(f.Lat) || !math.IsNaN(f.Lon) ||
		!math.IsNaN(float64(f.COG)) || !math.IsNaN(float64(f.Heading)) {
		t.Fatalf("numeric sentinels missing: %+v", f)
	}
	if f.HasPosition() {
		t.Fatalf("HasPosition true with NaN coordinates")
	}
	// Text fields survive as-is; 9 numeric/timestamp fields fault.
	if stats.Total() != 9 {
		t.Fatalf("expected 9 counted faults, got %d (%+v)", stats.Total(), stats)
	}
	if stats.UTCTime != 1 || stats.MMSI != 1 || stats.Heading != 1 {
		t.Fatalf("per-field counters wrong: %+v", stats)
	}
}

func TestDecodeSingleBadFieldDoesNotPoisonRow(t *testing.T) {
	var stats DecodeStats
	f := Decode(testRow(map[int]string{
		FieldUTCTime: "2024-03-01 12:00:01.500",
		FieldMMSI:    "235001234",
		FieldLat:     "not-a-number",
		FieldLon:     "-3.5",
	}), &stats)

	if math.IsNaN(f.UTCTime) || f.MMSI != 235001234 {
		t.Fatalf("good fields should decode: %+v", f)
	}
	if !math.IsNaN(f.Lat) {
		t.Fatalf("bad latitude should be NaN")
	}
	if f.Lon != -3.5 {
		t.Fatalf("Lon = %v", f.Lon)
	}
	if stats.Lat != 1 {
		t.Fatalf("Lat fault not counted: %+v", stats)
	}
}

func TestDecodeStatsAccumulate(t *testing.T) {
	var stats DecodeStats
	Decode(testRow(nil), &stats)
	Decode(testRow(nil), &stats)
	if stats.Total() != 18 {
		t.Fatalf("stats should accumulate across rows, got %d", stats.Total())
	}
}

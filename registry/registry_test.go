package registry

import (
	"math"
	"testing"
	"time"

	"aisingest/nav"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpdateAndLookup(t *testing.T) {
	s := openStore(t)
	fixes := []nav.Fix{
		{MMSI: 235001234, ShipName: "OCEAN TRADER", ShipType: "Cargo",
			UTCTime: 1709294401.5, Lat: 57.1, Lon: -3.5},
		{MMSI: 235001234, ShipName: "OCEAN TRADER", ShipType: "Cargo",
			UTCTime: 1709294405.0, Lat: 57.2, Lon: -3.6},
	}
	if err := s.Update(fixes); err != nil {
		t.Fatalf("update: %v", err)
	}

	rec, found, err := s.Lookup(235001234)
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if rec.ShipName != "OCEAN TRADER" || rec.ShipType != "Cargo" {
		t.Fatalf("identity: %+v", rec)
	}
	if rec.Observations != 2 {
		t.Fatalf("observations = %d", rec.Observations)
	}
	// Last fix wins for position/time.
	if rec.LastLat != 57.2 || rec.LastLon != -3.6 {
		t.Fatalf("last position: %+v", rec)
	}
	want := time.UnixMilli(1709294405000).UTC()
	if !rec.LastSeen.Equal(want) {
		t.Fatalf("LastSeen = %v, want %v", rec.LastSeen, want)
	}
}

func TestUpdateAccumulatesAcrossRuns(t *testing.T) {
	s := openStore(t)
	fix := nav.Fix{MMSI: 992345678, ShipName: "NORTH STAR", UTCTime: 1709294401.0,
		Lat: 60.0, Lon: 5.0}
	if err := s.Update([]nav.Fix{fix}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Update([]nav.Fix{fix}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec, _, err := s.Lookup(992345678)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.Observations != 2 {
		t.Fatalf("observations should accumulate, got %d", rec.Observations)
	}
}

func TestUpdateSkipsSentinelsAndKeepsOldPosition(t *testing.T) {
	s := openStore(t)
	if err := s.Update([]nav.Fix{
		{MMSI: nav.MMSISentinel, ShipName: "GHOST"},
		{MMSI: 235001234, ShipName: "OCEAN TRADER", UTCTime: 1709294401.0, Lat: 57.1, Lon: -3.5},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, found, _ := s.Lookup(nav.MMSISentinel); found {
		t.Fatalf("sentinel MMSI must not be registered")
	}

	// A later run without a decodable position keeps the previous one.
	if err := s.Update([]nav.Fix{
		{MMSI: 235001234, ShipName: "OCEAN TRADER", UTCTime: math.NaN(),
			Lat: math.NaN(), Lon: math.NaN()},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec, _, err := s.Lookup(235001234)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.LastLat != 57.1 || rec.LastLon != -3.5 {
		t.Fatalf("position overwritten by sentinel: %+v", rec)
	}
	if rec.Observations != 2 {
		t.Fatalf("observations = %d", rec.Observations)
	}
}

func TestCount(t *testing.T) {
	s := openStore(t)
	if err := s.Update([]nav.Fix{
		{MMSI: 1, UTCTime: 1, Lat: 0, Lon: 0},
		{MMSI: 2, UTCTime: 2, Lat: 0, Lon: 0},
		{MMSI: 1, UTCTime: 3, Lat: 0, Lon: 0},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestRecordEncodingRoundTrip(t *testing.T) {
	rec := Record{
		MMSI: 235001234, ShipName: "OCEAN TRADER", ShipType: "Cargo",
		LastLat: 57.1, LastLon: -3.5,
		LastSeen: time.UnixMilli(1709294401500).UTC(), Observations: 7,
	}
	got, err := decodeRecord(rec.MMSI, encodeRecord(&rec))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != rec {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, rec)
	}

	// NaN position survives encoding.
	nanRec := Record{MMSI: 1, LastLat: math.NaN(), LastLon: math.NaN()}
	back, err := decodeRecord(1, encodeRecord(&nanRec))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !math.IsNaN(back.LastLat) || !math.IsNaN(back.LastLon) {
		t.Fatalf("NaN position lost: %+v", back)
	}

	if _, err := decodeRecord(1, []byte{recordVersion, 1, 2}); err == nil {
		t.Fatalf("short record should fail to decode")
	}
}

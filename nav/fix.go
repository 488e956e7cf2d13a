package nav

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"
)

// Fix is one decoded navigation observation. Instances are created once by
// the decoder and never mutated afterwards; later stages only filter,
// reorder, or drop them.
type Fix struct {
	PCTime    float64 // local receipt time, seconds since the Unix epoch
	UTCTime   float64 // satellite time, seconds since the Unix epoch; sort + uniqueness key
	Lat       float64 // degrees, NaN when undecodable
	Lon       float64 // degrees, NaN when undecodable
	MMSI      uint32  // vessel identifier, 0 when undecodable
	ShipName  string
	ShipType  string
	NavStatus uint8   // 0..15 per the transponder code table, 255 when undecodable
	SOG       float32 // knots
	COG       float32 // degrees
	Heading   float32 // degrees
}

// Sentinel values substituted when a field fails to decode. Float fields use
// NaN, matching the upstream logger's behavior for unparseable numeric text.
const (
	MMSISentinel      uint32 = 0
	NavStatusSentinel uint8  = 255
)

// HasPosition reports whether both coordinates decoded.
func (f *Fix) HasPosition() bool {
	return !math.IsNaN(f.Lat) && !math.IsNaN(f.Lon)
}

// String returns a human-readable one-line representation for logs.
func (f *Fix) String() string {
	return fmt.Sprintf("MMSI %d %q @ (%.5f, %.5f) utc=%.3f sog=%.1f cog=%.1f",
		f.MMSI, f.ShipName, f.Lat, f.Lon, f.UTCTime, f.SOG, f.COG)
}

// KeyHash returns the 64-bit composite identity hash for a tokenized row.
// The hash covers the raw text of the KeyFields positions in order, each
// length-prefixed so adjacent fields can never alias ("AB","C" vs "A","BC").
// Hashing the raw text rather than decoded values keeps the dedup stage
// independent of decode faults, exactly as the sentences are logged.
func KeyHash(row []string) uint64 {
	buf := make([]byte, 0, 128)
	var n [4]byte
	for _, pos := range KeyFields {
		field := fieldAt(row, pos)
		binary.LittleEndian.PutUint32(n[:], uint32(len(field)))
		buf = append(buf, n[:]...)
		buf = append(buf, field...)
	}
	return xxh3.Hash(buf)
}

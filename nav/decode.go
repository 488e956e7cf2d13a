package nav

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DecodeStats counts sentinel substitutions per field so the pipeline's
// tolerance of bad numeric text stays auditable instead of silent. One
// instance accumulates across a whole batch.
type DecodeStats struct {
	UTCTime   uint64
	PCTime    uint64
	MMSI      uint64
	NavStatus uint64
	SOG       uint64
	Lat       uint64
	Lon       uint64
	COG       uint64
	Heading   uint64
}

// Total returns the number of sentinel substitutions across all fields.
func (s *DecodeStats) Total() uint64 {
	return s.UTCTime + s.PCTime + s.MMSI + s.NavStatus +
		s.SOG + s.Lat + s.Lon + s.COG + s.Heading
}

// Decode converts one tokenized 22-field row into a Fix. A field that fails
// to parse yields its sentinel and bumps the matching counter; the row itself
// is always retained.
func Decode(row []string, stats *DecodeStats) Fix {
	var f Fix

	f.UTCTime = decodeTimestamp(fieldAt(row, FieldUTCTime), &stats.UTCTime)
	f.PCTime = decodeTimestamp(fieldAt(row, FieldPCTime), &stats.PCTime)

	f.MMSI = decodeMMSI(fieldAt(row, FieldMMSI), &stats.MMSI)

	f.ShipName = strings.TrimRight(fieldAt(row, FieldShipName), " \t")
	f.ShipType = strings.TrimRight(fieldAt(row, FieldShipType), " \t")

	f.NavStatus = decodeNavStatus(fieldAt(row, FieldNavStatus), &stats.NavStatus)

	f.SOG = decodeFloat32(fieldAt(row, FieldSOG), &stats.SOG)
	f.Lat = decodeFloat64(fieldAt(row, FieldLat), &stats.Lat)
	f.Lon = decodeFloat64(fieldAt(row, FieldLon), &stats.Lon)
	f.COG = decodeFloat32(fieldAt(row, FieldCOG), &stats.COG)
	f.Heading = decodeFloat32(fieldAt(row, FieldHeading), &stats.Heading)

	return f
}

// decodeTimestamp parses the fixed textual layout into float64 seconds since
// the Unix epoch, keeping millisecond resolution.
func decodeTimestamp(text string, faults *uint64) float64 {
	t, err := time.Parse(TimestampLayout, strings.TrimSpace(text))
	if err != nil {
		*faults++
		return math.NaN()
	}
	return float64(t.UnixMilli()) / 1000
}

func decodeMMSI(text string, faults *uint64) uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil {
		*faults++
		return MMSISentinel
	}
	return uint32(v)
}

func decodeNavStatus(text string, faults *uint64) uint8 {
	v, err := strconv.ParseUint(strings.TrimSpace(text), 10, 8)
	if err != nil {
		*faults++
		return NavStatusSentinel
	}
	return uint8(v)
}

func decodeFloat64(text string, faults *uint64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		*faults++
		return math.NaN()
	}
	return v
}

func decodeFloat32(text string, faults *uint64) float32 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err != nil {
		*faults++
		return float32(math.NaN())
	}
	return float32(v)
}

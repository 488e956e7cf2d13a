// Package export writes a cleaned fix set to interchange formats for
// downstream correlation tools: JSON lines and CSV. NaN sentinels become
// JSON null / empty CSV cells so consumers never need to parse "NaN".
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"aisingest/nav"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonFix is the wire shape of one fix. Pointer fields drop to null when the
// decoded value was a sentinel.
type jsonFix struct {
	UTCTime   *float64 `json:"utc_ts"`
	PCTime    *float64 `json:"pc_ts"`
	MMSI      uint32   `json:"mmsi"`
	ShipName  string   `json:"ship_name"`
	ShipType  string   `json:"ship_type"`
	NavStatus uint8    `json:"nav_status"`
	SOG       *float64 `json:"sog"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	COG       *float64 `json:"cog"`
	Heading   *float64 `json:"heading"`
}

// WriteJSONLines writes one JSON object per fix to path.
func WriteJSONLines(path string, fixes []nav.Fix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range fixes {
		fix := &fixes[i]
		if err := enc.Encode(jsonFix{
			UTCTime:   optFloat(fix.UTCTime),
			PCTime:    optFloat(fix.PCTime),
			MMSI:      fix.MMSI,
			ShipName:  fix.ShipName,
			ShipType:  fix.ShipType,
			NavStatus: fix.NavStatus,
			SOG:       optFloat(float64(fix.SOG)),
			Lat:       optFloat(fix.Lat),
			Lon:       optFloat(fix.Lon),
			COG:       optFloat(float64(fix.COG)),
			Heading:   optFloat(float64(fix.Heading)),
		}); err != nil {
			return fmt.Errorf("export: encode: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: flush %s: %w", path, err)
	}
	return nil
}

var csvHeader = []string{
	"utc_ts", "pc_ts", "mmsi", "ship_name", "ship_type",
	"nav_status", "sog", "lat", "lon", "cog", "heading",
}

// WriteCSV writes the fix set as CSV with a header row.
func WriteCSV(path string, fixes []nav.Fix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	for i := range fixes {
		fix := &fixes[i]
		row := []string{
			csvFloat(fix.UTCTime, 3),
			csvFloat(fix.PCTime, 3),
			strconv.FormatUint(uint64(fix.MMSI), 10),
			fix.ShipName,
			fix.ShipType,
			strconv.FormatUint(uint64(fix.NavStatus), 10),
			csvFloat(float64(fix.SOG), -1),
			csvFloat(fix.Lat, -1),
			csvFloat(fix.Lon, -1),
			csvFloat(float64(fix.COG), -1),
			csvFloat(float64(fix.Heading), -1),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export: row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: flush %s: %w", path, err)
	}
	return nil
}

func optFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func csvFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

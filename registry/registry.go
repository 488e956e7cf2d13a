// Package registry persists per-vessel identity and last-known position in a
// Pebble key/value store. The registry is a side artifact built from cleaned
// fix sets: it never feeds back into the pipeline, so independent runs stay
// independent, but recurring correlation jobs get a durable MMSI lookup.
package registry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cockroachdb/pebble"

	"aisingest/nav"
)

const (
	recordVersion = 1
	vesselPrefix  = "v|"
)

var errClosed = errors.New("registry: store is closed")

// Record is one vessel's registry entry.
type Record struct {
	MMSI         uint32
	ShipName     string
	ShipType     string
	LastLat      float64 // NaN when the vessel never produced a decodable position
	LastLon      float64
	LastSeen     time.Time // zero when the vessel never produced a decodable UTC time
	Observations uint64
}

// Store wraps the Pebble database.
type Store struct {
	db     *pebble.DB
	closed bool
}

// Open opens (or creates) the registry at dir.
func Open(dir string) (*Store, error) {
	opts := &pebble.Options{
		Cache:        pebble.NewCache(16 << 20),
		MemTableSize: 8 << 20,
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Update upserts one registry record per vessel in the fix set. The last fix
// per vessel wins for position/time (fixes arrive time-ordered from the
// pipeline); observation counts accumulate across runs. Fixes carrying the
// MMSI sentinel are skipped, their identity is unknown.
func (s *Store) Update(fixes []nav.Fix) error {
	if s == nil || s.closed {
		return errClosed
	}
	type pending struct {
		last  *nav.Fix
		count uint64
	}
	byVessel := make(map[uint32]*pending)
	for i := range fixes {
		f := &fixes[i]
		if f.MMSI == nav.MMSISentinel {
			continue
		}
		p, ok := byVessel[f.MMSI]
		if !ok {
			p = &pending{}
			byVessel[f.MMSI] = p
		}
		p.last = f
		p.count++
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	for mmsi, p := range byVessel {
		rec, found, err := s.lookupLocked(mmsi)
		if err != nil {
			return err
		}
		if !found {
			rec = Record{MMSI: mmsi, LastLat: math.NaN(), LastLon: math.NaN()}
		}
		rec.Observations += p.count
		if p.last.ShipName != "" {
			rec.ShipName = p.last.ShipName
		}
		if p.last.ShipType != "" {
			rec.ShipType = p.last.ShipType
		}
		if p.last.HasPosition() {
			rec.LastLat = p.last.Lat
			rec.LastLon = p.last.Lon
		}
		if !math.IsNaN(p.last.UTCTime) {
			rec.LastSeen = time.UnixMilli(int64(p.last.UTCTime * 1000)).UTC()
		}
		if err := batch.Set(vesselKey(mmsi), encodeRecord(&rec), nil); err != nil {
			return fmt.Errorf("registry: set %d: %w", mmsi, err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("registry: commit: %w", err)
	}
	return nil
}

// Lookup returns the registry record for a vessel, if present.
func (s *Store) Lookup(mmsi uint32) (Record, bool, error) {
	if s == nil || s.closed {
		return Record{}, false, errClosed
	}
	return s.lookupLocked(mmsi)
}

func (s *Store) lookupLocked(mmsi uint32) (Record, bool, error) {
	value, closer, err := s.db.Get(vesselKey(mmsi))
	if err == pebble.ErrNotFound {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("registry: get %d: %w", mmsi, err)
	}
	defer closer.Close()
	rec, err := decodeRecord(mmsi, value)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Count returns the number of vessels in the registry.
func (s *Store) Count() (int, error) {
	if s == nil || s.closed {
		return 0, errClosed
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(vesselPrefix),
		UpperBound: []byte(vesselPrefix + "\xff"),
	})
	if err != nil {
		return 0, fmt.Errorf("registry: iter: %w", err)
	}
	defer iter.Close()
	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

func vesselKey(mmsi uint32) []byte {
	return []byte(vesselPrefix + strconv.FormatUint(uint64(mmsi), 10))
}

// encodeRecord packs a record as: version byte, lastSeen unix-milli int64,
// lat/lon float64 bits, observations uint64, then length-prefixed name and
// type. All integers little-endian.
func encodeRecord(rec *Record) []byte {
	buf := make([]byte, 0, 33+4+len(rec.ShipName)+len(rec.ShipType))
	buf = append(buf, recordVersion)
	var n8 [8]byte
	var lastSeen int64
	if !rec.LastSeen.IsZero() {
		lastSeen = rec.LastSeen.UnixMilli()
	}
	binary.LittleEndian.PutUint64(n8[:], uint64(lastSeen))
	buf = append(buf, n8[:]...)
	binary.LittleEndian.PutUint64(n8[:], math.Float64bits(rec.LastLat))
	buf = append(buf, n8[:]...)
	binary.LittleEndian.PutUint64(n8[:], math.Float64bits(rec.LastLon))
	buf = append(buf, n8[:]...)
	binary.LittleEndian.PutUint64(n8[:], rec.Observations)
	buf = append(buf, n8[:]...)
	buf = appendString(buf, rec.ShipName)
	buf = appendString(buf, rec.ShipType)
	return buf
}

func appendString(buf []byte, s string) []byte {
	var n2 [2]byte
	binary.LittleEndian.PutUint16(n2[:], uint16(len(s)))
	buf = append(buf, n2[:]...)
	return append(buf, s...)
}

func decodeRecord(mmsi uint32, value []byte) (Record, error) {
	if len(value) < 33 || value[0] != recordVersion {
		return Record{}, fmt.Errorf("registry: invalid record encoding for %d", mmsi)
	}
	rec := Record{MMSI: mmsi}
	off := 1
	lastSeen := int64(binary.LittleEndian.Uint64(value[off:]))
	off += 8
	if lastSeen != 0 {
		rec.LastSeen = time.UnixMilli(lastSeen).UTC()
	}
	rec.LastLat = math.Float64frombits(binary.LittleEndian.Uint64(value[off:]))
	off += 8
	rec.LastLon = math.Float64frombits(binary.LittleEndian.Uint64(value[off:]))
	off += 8
	rec.Observations = binary.LittleEndian.Uint64(value[off:])
	off += 8
	var err error
	rec.ShipName, off, err = readString(value, off)
	if err != nil {
		return Record{}, fmt.Errorf("registry: invalid record encoding for %d", mmsi)
	}
	rec.ShipType, _, err = readString(value, off)
	if err != nil {
		return Record{}, fmt.Errorf("registry: invalid record encoding for %d", mmsi)
	}
	return rec, nil
}

func readString(value []byte, off int) (string, int, error) {
	if off+2 > len(value) {
		return "", 0, errors.New("short record")
	}
	n := int(binary.LittleEndian.Uint16(value[off:]))
	off += 2
	if off+n > len(value) {
		return "", 0, errors.New("short record")
	}
	return string(value[off : off+n]), off + n, nil
}

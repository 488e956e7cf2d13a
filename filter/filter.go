// Package filter restricts a decoded fix set to an allow-list of vessel
// identifiers. An empty list means "all observed vessels": the filter is a
// pass-through and never an error source; an empty result is a valid result.
package filter

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"aisingest/nav"
)

// VesselFilter holds the effective allow-list. The zero value (or
// NewVesselFilter(nil)) passes everything.
type VesselFilter struct {
	allowed map[uint32]struct{}
}

// NewVesselFilter builds a filter from the given identifiers. Duplicates are
// harmless; a nil or empty slice yields an all-pass filter.
func NewVesselFilter(vessels []uint32) *VesselFilter {
	f := &VesselFilter{}
	if len(vessels) == 0 {
		return f
	}
	f.allowed = make(map[uint32]struct{}, len(vessels))
	for _, v := range vessels {
		f.allowed[v] = struct{}{}
	}
	return f
}

// Matches reports whether the fix passes the allow-list.
func (f *VesselFilter) Matches(fix *nav.Fix) bool {
	if f == nil || f.allowed == nil {
		return true
	}
	_, ok := f.allowed[fix.MMSI]
	return ok
}

// Apply returns the subsequence of fixes passing the filter, order preserved.
func (f *VesselFilter) Apply(fixes []nav.Fix) []nav.Fix {
	if f == nil || f.allowed == nil {
		return fixes
	}
	out := make([]nav.Fix, 0, len(fixes))
	for i := range fixes {
		if f.Matches(&fixes[i]) {
			out = append(out, fixes[i])
		}
	}
	return out
}

// Vessels returns the allow-list in ascending order, nil when all-pass.
func (f *VesselFilter) Vessels() []uint32 {
	if f == nil || f.allowed == nil {
		return nil
	}
	out := make([]uint32, 0, len(f.allowed))
	for v := range f.allowed {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseVesselList parses a comma-separated identifier list as given on the
// command line. Blank entries are skipped; a malformed entry is an error
// rather than a silent drop, since a typo here silently empties the output.
func ParseVesselList(text string) ([]uint32, error) {
	var out []uint32
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, errors.New("filter: invalid vessel identifier " + strconv.Quote(part))
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// savedList is the on-disk YAML shape for a persisted allow-list.
type savedList struct {
	Vessels []uint32 `yaml:"vessels"`
}

// SaveList persists an allow-list to a YAML file so recurring correlation
// jobs can share one curated vessel set.
func SaveList(path string, vessels []uint32) error {
	bs, err := yaml.Marshal(savedList{Vessels: vessels})
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0o644)
}

// LoadList reads an allow-list saved by SaveList.
func LoadList(path string) ([]uint32, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list savedList
	if err := yaml.Unmarshal(bs, &list); err != nil {
		return nil, err
	}
	return list.Vessels, nil
}

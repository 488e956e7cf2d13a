package nav

import (
	"sort"

	lev "github.com/agnivade/levenshtein"
)

// NameVariant reports a vessel whose sentences carried more than one spelling
// of the ship name. Suspect variants (edit distance within
// maxNameEditDistance of another spelling for the same vessel) usually point
// at free-text corruption upstream, the same fault class the delimiter repair
// rule exists for.
type NameVariant struct {
	MMSI    uint32
	Names   []string // distinct spellings, sorted
	Suspect bool     // at least one pair within edit distance maxNameEditDistance
}

// maxNameEditDistance bounds how different two spellings can be and still be
// flagged as a likely typo rather than a legitimate rename. 2 allows single
// dropped or swapped characters.
const maxNameEditDistance = 2

// NameVariants scans decoded fixes and returns one entry per vessel that was
// observed under more than one ship-name spelling. Vessels with the MMSI
// sentinel are skipped: their identity is unknown, so grouping by it would
// lump unrelated sentences together.
func NameVariants(fixes []Fix) []NameVariant {
	byVessel := make(map[uint32]map[string]struct{})
	for i := range fixes {
		f := &fixes[i]
		if f.MMSI == MMSISentinel || f.ShipName == "" {
			continue
		}
		names, ok := byVessel[f.MMSI]
		if !ok {
			names = make(map[string]struct{})
			byVessel[f.MMSI] = names
		}
		names[f.ShipName] = struct{}{}
	}

	var out []NameVariant
	for mmsi, names := range byVessel {
		if len(names) < 2 {
			continue
		}
		sorted := make([]string, 0, len(names))
		for name := range names {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)
		out = append(out, NameVariant{
			MMSI:    mmsi,
			Names:   sorted,
			Suspect: hasCloseSpelling(sorted),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MMSI < out[j].MMSI })
	return out
}

func hasCloseSpelling(names []string) bool {
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if lev.ComputeDistance(names[i], names[j]) <= maxNameEditDistance {
				return true
			}
		}
	}
	return false
}

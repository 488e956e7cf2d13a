package ingest

import (
	"strings"

	"aisingest/nav"
)

// RepairRule fixes one known single-point formatting fault. Detect matches a
// line against the rule's anomaly signature; Apply returns the corrected
// line. Rules are tried in order and the first match wins, so a line is never
// repaired twice.
type RepairRule struct {
	Name   string
	Detect func(line string) bool
	Apply  func(line string) string
}

// SpuriousDelimiterRule handles the one fault shape the logger is known to
// produce: exactly one extra delimiter inside a free-text span, pushing the
// delimiter count from 21 to 22. The extra delimiter always lands at the
// same relative position, so the rule blanks that occurrence in place. This
// is positional and fragile by construction; a line with two extra
// delimiters, or one in a different span, is left alone and will be dropped
// by the tokenizer.
func SpuriousDelimiterRule() RepairRule {
	delim := string(rune(nav.Delimiter))
	return RepairRule{
		Name: "spurious-delimiter",
		Detect: func(line string) bool {
			return strings.Count(line, delim) == nav.FieldCount
		},
		Apply: func(line string) string {
			return replaceNthDelimiter(line, nav.SpuriousDelimiterIndex)
		},
	}
}

// DefaultRules returns the shipped repair rule set.
func DefaultRules() []RepairRule {
	return []RepairRule{SpuriousDelimiterRule()}
}

// Repair runs the rule set over every line in place and returns how many
// lines were rewritten. Lines matching no rule pass through untouched;
// malformed ones surface later as tokenization drops.
func Repair(lines []string, rules []RepairRule) (repaired uint64) {
	for i, line := range lines {
		for _, rule := range rules {
			if rule.Detect(line) {
				lines[i] = rule.Apply(line)
				repaired++
				break
			}
		}
	}
	return repaired
}

// replaceNthDelimiter blanks the n-th (0-indexed) delimiter occurrence with a
// single space, leaving every other byte untouched.
func replaceNthDelimiter(line string, n int) string {
	count := 0
	for i := 0; i < len(line); i++ {
		if line[i] != nav.Delimiter {
			continue
		}
		if count == n {
			return line[:i] + " " + line[i+1:]
		}
		count++
	}
	return line
}

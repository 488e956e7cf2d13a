package ingest

import (
	"strings"

	"aisingest/nav"
)

// Tokenize splits repaired lines into fixed 22-field rows. strings.Split
// keeps trailing empty fields, which stands in for the logger's synthetic
// trailing delimiter: a line ending in an empty field still tokenizes to the
// full count. Rows that do not yield exactly nav.FieldCount fields are
// data-quality faults: they are dropped and counted, never fatal for the
// batch.
func Tokenize(lines []string) (rows [][]string, dropped uint64) {
	delim := string(rune(nav.Delimiter))
	rows = make([][]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, delim)
		if len(fields) != nav.FieldCount {
			dropped++
			continue
		}
		rows = append(rows, fields)
	}
	return rows, dropped
}

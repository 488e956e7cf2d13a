package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an input file format by extension.
type Format int

const (
	FormatUnknown Format = iota
	// FormatTranscript is the comma-delimited 22-field transponder transcript
	// (.log), the only fully supported format.
	FormatTranscript
	// FormatLegacy is the older free-text export (.txt). It is recognized so
	// a batch of legacy files yields an empty result instead of an error,
	// but decoding it is not implemented.
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatTranscript:
		return "transcript"
	case FormatLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".log":
		return FormatTranscript
	case ".txt":
		return FormatLegacy
	default:
		return FormatUnknown
	}
}

// detectFormat validates the batch before any parsing: every path must
// exist, carry a supported extension, and agree on one format.
func detectFormat(paths []string) (Format, error) {
	if len(paths) == 0 {
		return FormatUnknown, &FormatError{Reason: "no input files"}
	}
	batch := FormatUnknown
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return FormatUnknown, &FormatError{Path: path, Reason: "file not found"}
		}
		f := formatForPath(path)
		if f == FormatUnknown {
			return FormatUnknown, &FormatError{Path: path, Reason: "unsupported extension " + filepath.Ext(path)}
		}
		if batch == FormatUnknown {
			batch = f
			continue
		}
		if f != batch {
			return FormatUnknown, &FormatError{Path: path, Reason: "mixed input formats in one batch"}
		}
	}
	return batch, nil
}

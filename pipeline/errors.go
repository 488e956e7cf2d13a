package pipeline

import "fmt"

// FormatError reports a path/format validation failure: a missing input, an
// unsupported extension, or a batch mixing two supported formats. It is
// always raised before any parsing begins, so the caller never sees a
// partial result alongside one.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return "pipeline: " + e.Reason
	}
	return fmt.Sprintf("pipeline: %s: %s", e.Path, e.Reason)
}

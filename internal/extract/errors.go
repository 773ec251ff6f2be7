package extract

import "fmt"

// UnsupportedFormatError indicates a file extension with no registered
// extractor. Hint, when set, tells the user what to do about it.
type UnsupportedFormatError struct {
	Path      string
	Extension string
	Hint      string
}

func (e *UnsupportedFormatError) Error() string {
	msg := fmt.Sprintf("unsupported format %q: %s", e.Extension, e.Path)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// ExtractionError indicates a file that matched an extractor but could not
// be read or parsed.
type ExtractionError struct {
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Path, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

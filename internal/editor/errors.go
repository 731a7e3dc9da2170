package editor

import "fmt"

// ErrorKind classifies a failed user action.
type ErrorKind string

const (
	ConversionFailure    ErrorKind = "conversion_failure"
	ClipboardUnavailable ErrorKind = "clipboard_unavailable"
	ClipboardWriteFailed ErrorKind = "clipboard_write_failed"
)

// ConversionError reports a panic recovered while reformatting input.
type ConversionError struct {
	Cause any
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed: %v", e.Cause)
}

// Kind returns ConversionFailure.
func (e *ConversionError) Kind() ErrorKind {
	return ConversionFailure
}

// ClipboardError reports a failed copy.
type ClipboardError struct {
	kind ErrorKind
	Err  error
}

func (e *ClipboardError) Error() string {
	if e.Err == nil {
		return string(e.kind)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// Kind returns ClipboardUnavailable or ClipboardWriteFailed.
func (e *ClipboardError) Kind() ErrorKind {
	return e.kind
}

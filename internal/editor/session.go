package editor

import (
	"errors"
	"io"
	"log/slog"

	"github.com/dgallion1/outlinemd/internal/clipboard"
	"github.com/dgallion1/outlinemd/internal/outline"
)

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Session holds the input text and its converted output for one editor.
// It is not safe for concurrent use.
type Session struct {
	Input  string
	Output string

	log     *slog.Logger
	convert func(string) string
}

// New returns an empty session. A nil logger discards log output.
func New(log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{log: log, convert: outline.Reformat}
}

// Restore returns a session seeded with a previous input and output, as
// sent back by a browser that owns the state.
func Restore(log *slog.Logger, input, output string) *Session {
	s := New(log)
	s.Input = input
	s.Output = output
	return s
}

// SetInput stores text and reconverts it. If conversion panics, Output keeps
// its previous value and the returned notice reports the failure.
func (s *Session) SetInput(text string) (Notice, error) {
	s.Input = text
	out, err := s.safeConvert(text)
	if err != nil {
		s.log.Error("conversion failed", "error", err, "input_bytes", len(text))
		return newNotice("Error", "Failed to convert text", VariantDestructive), err
	}
	s.Output = out
	return Notice{}, nil
}

func (s *Session) safeConvert(text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ConversionError{Cause: r}
		}
	}()
	return s.convert(text), nil
}

// Clear empties both input and output.
func (s *Session) Clear() Notice {
	s.Input = ""
	s.Output = ""
	return newNotice("Cleared", "All text has been cleared", VariantDefault)
}

// CanCopy reports whether there is output to copy.
func (s *Session) CanCopy() bool {
	return s.Output != ""
}

// Copy writes Output to cb verbatim. With no output it does nothing.
func (s *Session) Copy(cb Clipboard) (Notice, error) {
	if !s.CanCopy() {
		return Notice{}, nil
	}
	if cb == nil {
		err := &ClipboardError{kind: ClipboardUnavailable, Err: clipboard.ErrUnavailable}
		return copyFailed(err), err
	}
	if err := cb.WriteText(s.Output); err != nil {
		kind := ClipboardWriteFailed
		if errors.Is(err, clipboard.ErrUnavailable) {
			kind = ClipboardUnavailable
		}
		cerr := &ClipboardError{kind: kind, Err: err}
		s.log.Warn("clipboard write failed", "kind", kind, "error", err)
		return copyFailed(cerr), cerr
	}
	return newNotice("Copied!", "Markdown text copied to clipboard", VariantDefault), nil
}

func copyFailed(err *ClipboardError) Notice {
	desc := "Failed to copy to clipboard"
	if err.Err != nil && err.Err.Error() != "" {
		desc = err.Err.Error()
	}
	return newNotice("Error", desc, VariantDestructive)
}

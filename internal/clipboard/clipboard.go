// Package clipboard writes text to the host system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility can be used.
var ErrUnavailable = errors.New("clipboard unavailable")

// System is the host clipboard.
type System struct {
	// unsupported overrides detection in tests.
	unsupported func() bool
	write       func(string) error
}

func NewSystem() *System {
	return &System{
		unsupported: func() bool { return clipboard.Unsupported },
		write:       clipboard.WriteAll,
	}
}

// WriteText copies text to the clipboard unchanged.
func (s *System) WriteText(text string) error {
	if s.unsupported() {
		return ErrUnavailable
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

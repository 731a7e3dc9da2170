package editor

import "github.com/google/uuid"

// Variant selects how the UI styles a notice.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is a short user-facing message, shown as a toast in the browser
// and printed to stderr by the CLI.
type Notice struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// IsZero reports whether n carries no message.
func (n Notice) IsZero() bool {
	return n.Title == "" && n.Description == ""
}

func newNotice(title, description string, variant Variant) Notice {
	return Notice{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Variant:     variant,
	}
}

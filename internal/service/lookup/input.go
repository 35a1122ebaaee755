package lookup

import "github.com/heartmarshall/yomitan-backend/internal/domain"

const maxTextLength = 1000

// Input holds the parameters for Lookup.
type Input struct {
	Language string
	Text     string
	// Index is the rune offset in Text where scanning starts.
	Index int
}

// Validate reports every invalid field at once.
func (i *Input) Validate() error {
	var v domain.ValidationError
	if i.Language == "" {
		v.Add("lang", "required")
	}
	switch {
	case i.Text == "":
		v.Add("text", "required")
	case len(i.Text) > maxTextLength:
		v.Add("text", "too long (max 1000 bytes)")
	}
	if i.Index < 0 {
		v.Add("index", "must not be negative")
	}
	return v.Err()
}

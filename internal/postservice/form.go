package postservice

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PostForm carries the raw form fields of a create/update submission.
type PostForm struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Markdown string `json:"markdown"`
}

// Validate checks the three required fields. All of them are checked
// independently so simultaneous failures are reported together rather
// than stopping at the first.
func (f PostForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("Title is required")),
		validation.Field(&f.Slug, validation.Required.Error("Slug is required")),
		validation.Field(&f.Markdown, validation.Required.Error("Markdown is required")),
	)
}

// FieldErrors flattens a validation error into a field-name → message map.
// Returns nil when err carries no per-field information.
func FieldErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}
	return out
}

package listing

import "strings"

// EvidenceFileName is the file name evidence is uploaded under.
const EvidenceFileName = "evidence.json"

// Evidence justifies a removal request or a challenge.
type Evidence struct {
	Title       string `json:"title" label:"Title" validate:"required"`
	Description string `json:"description" label:"Description" validate:"required"`
}

// Validate requires both a title and a description.
func (e *Evidence) Validate() error {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	return check(e)
}

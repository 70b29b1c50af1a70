package domain

import "strings"

// Request describes a single scene-transition invocation.
// Optional fields are pointers so that "unset" stays distinguishable from the zero value.
type Request struct {
	// Note is free-form guidance for the new scene. Blank means "use the generic note".
	Note string `json:"note,omitempty"`

	// Style is an optional style hint (e.g. "noir", "whimsical").
	Style string `json:"style,omitempty"`

	// MaxTokens is the generation budget. Nil means DefaultMaxTokens.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Background explicitly forces (true) or suppresses (false) background regeneration.
	// Nil leaves the decision to the persisted settings.
	Background *bool `json:"background,omitempty"`
}

// TokenBudget returns the effective token budget of the request.
func (r Request) TokenBudget() int {
	if r.MaxTokens == nil {
		return DefaultMaxTokens
	}
	return *r.MaxTokens
}

// HasNote reports whether the caller supplied a non-blank note.
func (r Request) HasNote() bool {
	return strings.TrimSpace(r.Note) != ""
}

// Outcome is the terminal status string of a transition.
type Outcome string

const (
	OutcomeInserted Outcome = "Scene line inserted."
	OutcomeNoOutput Outcome = "No output generated."
)

// OutcomeError builds the error outcome for the given failure.
func OutcomeError(err error) Outcome {
	return Outcome("Error: " + err.Error())
}

// IsError reports whether the outcome describes a failure.
func (o Outcome) IsError() bool {
	return strings.HasPrefix(string(o), "Error: ")
}

func (o Outcome) String() string {
	return string(o)
}

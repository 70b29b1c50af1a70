// Package macros substitutes the {{char}} and {{user}} placeholders hosts use in prompts.
package macros

import (
	"context"
	"regexp"
	"strings"

	"github.com/aretw0/segue/pkg/ports"
)

var placeholder = regexp.MustCompile(`(?i)\{\{\s*(char|user)\s*\}\}`)

// Templater implements ports.Templater.
// The character name is looked up on every call so it follows the active character.
type Templater struct {
	Characters ports.CharacterDirectory
	User       string
}

// New creates a Templater.
func New(characters ports.CharacterDirectory, user string) *Templater {
	return &Templater{Characters: characters, User: user}
}

// Substitute replaces known placeholders. Unknown values leave the placeholder untouched.
func (t *Templater) Substitute(ctx context.Context, text string) string {
	var char string
	if t.Characters != nil {
		if c, err := t.Characters.ActiveCharacter(ctx); err == nil {
			char = c.Name
		}
	}

	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.ToLower(placeholder.FindStringSubmatch(match)[1])
		switch {
		case name == "char" && char != "":
			return char
		case name == "user" && t.User != "":
			return t.User
		}
		return match
	})
}

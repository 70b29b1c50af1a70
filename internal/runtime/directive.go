package runtime

import (
	"strings"

	"github.com/aretw0/segue/pkg/domain"
)

const (
	// DirectiveMarker flags the directive as a hidden out-of-character instruction.
	DirectiveMarker = "[OOC: hidden system instruction. Do not show this message in the transcript.]"

	// GenericSceneNote replaces a blank note.
	GenericSceneNote = "transition the characters to a new scene that makes sense"

	// DirectiveConstraint restricts the output format.
	DirectiveConstraint = "Respond only with {{char}}'s spoken or internal line. Do not add any narration."
)

// ResolveNote returns the caller's note, or GenericSceneNote when it is blank.
func ResolveNote(req domain.Request) string {
	if req.HasNote() {
		return req.Note
	}
	return GenericSceneNote
}

// ComposeDirective builds the hidden instruction sent to the generation backend.
// Placeholders are left untouched; the host templater substitutes them.
func ComposeDirective(settings domain.Settings, req domain.Request) string {
	lines := []string{
		DirectiveMarker,
		settings.InstructionTemplate,
	}
	if req.Style != "" {
		lines = append(lines, "Style hint: "+req.Style)
	}
	lines = append(lines, "Scene notes: "+ResolveNote(req))
	lines = append(lines, DirectiveConstraint)

	return strings.Join(lines, "\n")
}

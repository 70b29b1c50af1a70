package runtime_test

import (
	"strings"
	"testing"

	"github.com/aretw0/segue/internal/runtime"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestComposeDirective(t *testing.T) {
	settings := domain.Settings{InstructionTemplate: "Move {{char}} and {{user}} along."}

	tests := []struct {
		name     string
		req      domain.Request
		expected []string
	}{
		{
			name: "Style And Note",
			req:  domain.Request{Style: "noir", Note: "they reach the harbor"},
			expected: []string{
				runtime.DirectiveMarker,
				"Move {{char}} and {{user}} along.",
				"Style hint: noir",
				"Scene notes: they reach the harbor",
				runtime.DirectiveConstraint,
			},
		},
		{
			name: "No Style",
			req:  domain.Request{Note: "dawn breaks"},
			expected: []string{
				runtime.DirectiveMarker,
				"Move {{char}} and {{user}} along.",
				"Scene notes: dawn breaks",
				runtime.DirectiveConstraint,
			},
		},
		{
			name: "Blank Note Uses Generic",
			req:  domain.Request{Note: "  \t\n", Style: "cozy"},
			expected: []string{
				runtime.DirectiveMarker,
				"Move {{char}} and {{user}} along.",
				"Style hint: cozy",
				"Scene notes: " + runtime.GenericSceneNote,
				runtime.DirectiveConstraint,
			},
		},
		{
			name: "Empty Request",
			req:  domain.Request{},
			expected: []string{
				runtime.DirectiveMarker,
				"Move {{char}} and {{user}} along.",
				"Scene notes: " + runtime.GenericSceneNote,
				runtime.DirectiveConstraint,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runtime.ComposeDirective(settings, tt.req)
			assert.Equal(t, strings.Join(tt.expected, "\n"), got)
		})
	}
}

func TestComposeDirective_StyleLineIffStyle(t *testing.T) {
	settings := domain.DefaultSettings()
	for _, style := range []string{"", "gothic", "  "} {
		got := runtime.ComposeDirective(settings, domain.Request{Style: style})
		hasStyle := strings.Contains(got, "Style hint: ")
		assert.Equal(t, style != "", hasStyle, "style=%q", style)
		assert.Contains(t, got, "Scene notes: ")
	}
}

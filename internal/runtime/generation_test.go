package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/segue/internal/runtime"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvoker_Unavailable(t *testing.T) {
	res := runtime.NewInvoker(nil).Invoke(context.Background(), "directive", 120)

	require.True(t, res.Failed())
	assert.Equal(t, runtime.FailureUnavailable, res.Failure.Kind)
	assert.ErrorIs(t, res.Failure, domain.ErrBackendUnavailable)
}

func TestInvoker_BackendError(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateQuiet", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	res := runtime.NewInvoker(gen).Invoke(context.Background(), "directive", 120)

	require.True(t, res.Failed())
	assert.Equal(t, runtime.FailureBackend, res.Failure.Kind)
	assert.Contains(t, runtime.Placeholder("note", "style", res.Failure), "boom")
}

func TestInvoker_PanicIsContained(t *testing.T) {
	gen := ports.GeneratorFunc(func(ctx context.Context, p domain.QuietPrompt) (any, error) {
		panic("backend exploded")
	})

	res := runtime.NewInvoker(gen).Invoke(context.Background(), "directive", 120)

	require.True(t, res.Failed())
	assert.Contains(t, res.Failure.Error(), "backend exploded")
}

func TestInvoker_Success(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"Trimmed String", "  Hello there.\n", "Hello there."},
		{"Nil", nil, ""},
		{"Number", 42, "42"},
		{"Bytes", []byte(" raw "), "raw"},
		{"Structured", map[string]any{"text": "hi"}, `{"text":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("GenerateQuiet", mock.Anything, domain.QuietPrompt{
				Prompt:      "directive",
				MaxTokens:   64,
				QuietToLoud: true,
			}).Return(tt.value, nil)

			res := runtime.NewInvoker(gen).Invoke(context.Background(), "directive", 64)

			assert.False(t, res.Failed())
			assert.Equal(t, tt.expected, res.Text)
			gen.AssertExpectations(t)
		})
	}
}

func TestPlaceholder(t *testing.T) {
	unavailable := runtime.Placeholder("the inn", "noir", &runtime.GenerationFailure{Kind: runtime.FailureUnavailable})
	assert.Equal(t, "[scene transition unavailable] note: the inn | style: noir", unavailable)

	failed := runtime.Placeholder("the inn", "", &runtime.GenerationFailure{Kind: runtime.FailureBackend, Err: errors.New("timeout")})
	assert.Equal(t, "[scene transition failed: timeout] note: the inn | style: ", failed)
}

package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
)

// FailureKind classifies why generation produced no real line.
type FailureKind string

const (
	FailureUnavailable FailureKind = "unavailable"
	FailureBackend     FailureKind = "backend"
)

// GenerationFailure describes a non-fatal generation failure.
type GenerationFailure struct {
	Kind FailureKind
	Err  error
}

func (f *GenerationFailure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *GenerationFailure) Unwrap() error {
	return f.Err
}

// GenerationResult is the explicit outcome of a generation call.
// Exactly one of Text (possibly empty) or Failure is meaningful.
type GenerationResult struct {
	Text    string
	Failure *GenerationFailure
}

// Failed reports whether the backend could not produce a line.
func (r GenerationResult) Failed() bool {
	return r.Failure != nil
}

// Invoker calls the quiet generation capability.
type Invoker struct {
	generator ports.Generator
}

// NewInvoker creates an invoker. A nil generator is treated as an unwired capability.
func NewInvoker(generator ports.Generator) *Invoker {
	return &Invoker{generator: generator}
}

// Invoke sends the directive with the given token budget. It never returns an error:
// failures are reported through GenerationResult.Failure.
func (i *Invoker) Invoke(ctx context.Context, directive string, maxTokens int) (res GenerationResult) {
	if i.generator == nil {
		return GenerationResult{Failure: &GenerationFailure{Kind: FailureUnavailable, Err: domain.ErrBackendUnavailable}}
	}

	defer func() {
		if r := recover(); r != nil {
			res = GenerationResult{Failure: &GenerationFailure{Kind: FailureBackend, Err: fmt.Errorf("generator panic: %v", r)}}
		}
	}()

	out, err := i.generator.GenerateQuiet(ctx, domain.QuietPrompt{
		Prompt:      directive,
		MaxTokens:   maxTokens,
		QuietToLoud: true,
	})
	if err != nil {
		return GenerationResult{Failure: &GenerationFailure{Kind: FailureBackend, Err: err}}
	}

	return GenerationResult{Text: strings.TrimSpace(Stringify(out))}
}

// Stringify converts a backend value to text. Nil becomes the empty string.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	case bool, int, int32, int64, float32, float64, json.Number:
		return fmt.Sprint(val)
	}

	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}

// Placeholder builds the visible diagnostic line inserted in place of a real one.
func Placeholder(note, style string, failure *GenerationFailure) string {
	head := "[scene transition unavailable]"
	if failure != nil && failure.Kind == FailureBackend {
		msg := "unknown error"
		if failure.Err != nil {
			msg = failure.Err.Error()
		}
		head = fmt.Sprintf("[scene transition failed: %s]", msg)
	}
	return fmt.Sprintf("%s note: %s | style: %s", head, note, style)
}

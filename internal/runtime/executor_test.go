package runtime_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/segue/internal/runtime"
	"github.com/aretw0/segue/pkg/adapters/memory"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func staticGenerator(text any) ports.Generator {
	return ports.GeneratorFunc(func(ctx context.Context, p domain.QuietPrompt) (any, error) {
		return text, nil
	})
}

func newExecutor(chat *memory.Chat, opts ...runtime.ExecutorOption) (*runtime.Executor, *memory.SettingsStore) {
	store := memory.NewSettingsStore()
	opts = append([]runtime.ExecutorOption{
		runtime.WithCharacters(chat),
		runtime.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	return runtime.NewExecutor(store, chat, opts...), store
}

func TestExecutor_Inserted(t *testing.T) {
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	exec, _ := newExecutor(chat, runtime.WithGenerator(staticGenerator("Hello there.")))

	outcome := exec.Execute(context.Background(), domain.Request{})

	assert.Equal(t, domain.OutcomeInserted, outcome)
	msgs := chat.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello there.", msgs[0].Mes)
	assert.Equal(t, "Seraphina", msgs[0].Name)
	assert.False(t, msgs[0].IsUser)
	assert.Equal(t, fixedNow, msgs[0].SendDate)

	assert.Equal(t, []memory.EmittedEvent{
		{Type: domain.EventMessageReceived, Index: 0},
		{Type: domain.EventMessageRendered, Index: 0},
	}, chat.Events())
	assert.Equal(t, 1, chat.Saves())
}

func TestExecutor_NoOutput(t *testing.T) {
	for _, value := range []any{"", "   \n", nil} {
		chat := memory.NewChat(domain.Character{Name: "Seraphina"})
		images := new(MockImageBackend)
		exec, _ := newExecutor(chat,
			runtime.WithGenerator(staticGenerator(value)),
			runtime.WithImageBackend(images),
		)

		yes := true
		outcome := exec.Execute(context.Background(), domain.Request{Background: &yes})

		assert.Equal(t, domain.OutcomeNoOutput, outcome)
		assert.Empty(t, chat.Messages())
		assert.Zero(t, chat.Saves())
		images.AssertNotCalled(t, "TriggerBackground", mock.Anything)
	}
}

func TestExecutor_DirectiveAndBudget(t *testing.T) {
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	gen := new(MockGenerator)
	gen.On("GenerateQuiet", mock.Anything, mock.MatchedBy(func(p domain.QuietPrompt) bool {
		return p.MaxTokens == 120 &&
			strings.Contains(p.Prompt, "Style hint: noir") &&
			strings.Contains(p.Prompt, "Scene notes: "+runtime.GenericSceneNote) &&
			strings.Contains(p.Prompt, "Seraphina")
	})).Return("We should go.", nil).Once()

	exec, _ := newExecutor(chat,
		runtime.WithGenerator(gen),
		runtime.WithTemplater(replacer{"{{char}}": "Seraphina"}),
	)

	outcome := exec.Execute(context.Background(), domain.Request{Style: "noir"})

	assert.Equal(t, domain.OutcomeInserted, outcome)
	gen.AssertExpectations(t)
}

func TestExecutor_GenerationFailureInsertsPlaceholder(t *testing.T) {
	t.Run("Unavailable", func(t *testing.T) {
		chat := memory.NewChat(domain.Character{Name: "Seraphina"})
		exec, _ := newExecutor(chat)

		outcome := exec.Execute(context.Background(), domain.Request{Note: "the market", Style: "bright"})

		assert.Equal(t, domain.OutcomeInserted, outcome)
		msgs := chat.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "[scene transition unavailable] note: the market | style: bright", msgs[0].Mes)
	})

	t.Run("Backend Error", func(t *testing.T) {
		chat := memory.NewChat(domain.Character{Name: "Seraphina"})
		gen := new(MockGenerator)
		gen.On("GenerateQuiet", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
		exec, _ := newExecutor(chat, runtime.WithGenerator(gen))

		outcome := exec.Execute(context.Background(), domain.Request{})

		assert.Equal(t, domain.OutcomeInserted, outcome)
		msgs := chat.Messages()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0].Mes, "boom")
		assert.Contains(t, msgs[0].Mes, runtime.GenericSceneNote)
	})
}

func TestExecutor_InsertionFailureIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		chat     failingChat
		expected domain.Outcome
	}{
		{
			name:     "Append",
			chat:     failingChat{appendErr: errors.New("chat is read-only")},
			expected: "Error: failed to append message: chat is read-only",
		},
		{
			name:     "Emit",
			chat:     failingChat{emitErr: errors.New("no listeners")},
			expected: "Error: failed to emit message_received: no listeners",
		},
		{
			name:     "Save",
			chat:     failingChat{saveErr: errors.New("disk full")},
			expected: "Error: failed to save chat: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := new(MockImageBackend)
			exec := runtime.NewExecutor(memory.NewSettingsStore(), tt.chat,
				runtime.WithGenerator(staticGenerator("Hello there.")),
				runtime.WithImageBackend(images),
			)

			yes := true
			outcome := exec.Execute(context.Background(), domain.Request{Background: &yes})

			assert.Equal(t, tt.expected, outcome)
			images.AssertNotCalled(t, "TriggerBackground", mock.Anything)
		})
	}
}

func TestExecutor_CharacterLookupFailureIsFatal(t *testing.T) {
	chat := memory.NewChat(domain.Character{})
	exec := runtime.NewExecutor(memory.NewSettingsStore(), chat,
		runtime.WithGenerator(staticGenerator("Hello there.")),
		runtime.WithCharacters(noCharacter{}),
	)

	outcome := exec.Execute(context.Background(), domain.Request{})

	assert.Equal(t, domain.Outcome("Error: failed to resolve active character: no character selected"), outcome)
	assert.Empty(t, chat.Messages())
}

func TestExecutor_SettingsFailure(t *testing.T) {
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	exec := runtime.NewExecutor(brokenStore{}, chat, runtime.WithGenerator(staticGenerator("Hello there.")))

	outcome := exec.Execute(context.Background(), domain.Request{})

	assert.Equal(t, domain.Outcome("Error: failed to load settings: connection refused"), outcome)
	assert.Empty(t, chat.Messages())
}

func TestExecutor_BackgroundTriggerFailureIsSuppressed(t *testing.T) {
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	images := new(MockImageBackend)
	images.On("TriggerBackground", mock.Anything).Return(errors.New("image backend offline")).Once()

	exec, _ := newExecutor(chat,
		runtime.WithGenerator(staticGenerator("Hello there.")),
		runtime.WithImageBackend(images),
	)

	yes := true
	outcome := exec.Execute(context.Background(), domain.Request{Background: &yes})

	assert.Equal(t, domain.OutcomeInserted, outcome)
	assert.Len(t, chat.Messages(), 1)
	images.AssertExpectations(t)
	images.AssertNotCalled(t, "Available", mock.Anything)
}

func TestExecutor_BackgroundTriggerPanicIsSuppressed(t *testing.T) {
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	images := new(MockImageBackend)
	images.On("TriggerBackground", mock.Anything).Run(func(mock.Arguments) {
		panic("driver crashed")
	}).Return(nil)

	exec, _ := newExecutor(chat,
		runtime.WithGenerator(staticGenerator("Hello there.")),
		runtime.WithImageBackend(images),
	)

	yes := true
	outcome := exec.Execute(context.Background(), domain.Request{Background: &yes})

	assert.Equal(t, domain.OutcomeInserted, outcome)
	assert.Len(t, chat.Messages(), 1)
}

func TestExecutor_AutoTriggerGatedByAvailability(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		triggered bool
	}{
		{"Backend Available", true, true},
		{"Backend Missing", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			chat := memory.NewChat(domain.Character{Name: "Seraphina"})
			images := new(MockImageBackend)
			images.On("Available", mock.Anything).Return(tt.available).Once()
			if tt.triggered {
				images.On("TriggerBackground", mock.Anything).Return(nil).Once()
			}

			exec, store := newExecutor(chat,
				runtime.WithGenerator(staticGenerator("Hello there.")),
				runtime.WithImageBackend(images),
			)
			require.NoError(t, store.Save(ctx, domain.SettingsKey, map[string]any{domain.KeyAutoTriggerBackground: true}))

			outcome := exec.Execute(ctx, domain.Request{})

			assert.Equal(t, domain.OutcomeInserted, outcome)
			images.AssertExpectations(t)
			if !tt.triggered {
				images.AssertNotCalled(t, "TriggerBackground", mock.Anything)
			}
		})
	}
}

func TestExecutor_ExplicitFalseSuppressesAuto(t *testing.T) {
	ctx := context.Background()
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	images := new(MockImageBackend)

	exec, store := newExecutor(chat,
		runtime.WithGenerator(staticGenerator("Hello there.")),
		runtime.WithImageBackend(images),
	)
	require.NoError(t, store.Save(ctx, domain.SettingsKey, map[string]any{domain.KeyAutoTriggerBackground: true}))

	no := false
	outcome := exec.Execute(ctx, domain.Request{Background: &no})

	assert.Equal(t, domain.OutcomeInserted, outcome)
	images.AssertNotCalled(t, "Available", mock.Anything)
	images.AssertNotCalled(t, "TriggerBackground", mock.Anything)
}

func TestExecutor_LifecycleHooks(t *testing.T) {
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	images := new(MockImageBackend)
	images.On("TriggerBackground", mock.Anything).Return(nil)

	var seen []string
	var final *domain.TransitionEvent
	hooks := domain.LifecycleHooks{
		OnTransitionStart:   func(ctx context.Context, e *domain.TransitionEvent) { seen = append(seen, "start") },
		OnGenerated:         func(ctx context.Context, e *domain.TransitionEvent) { seen = append(seen, "generated") },
		OnInserted:          func(ctx context.Context, e *domain.TransitionEvent) { seen = append(seen, "inserted") },
		OnBackgroundTrigger: func(ctx context.Context, e *domain.TransitionEvent) { seen = append(seen, "background") },
		OnOutcome: func(ctx context.Context, e *domain.TransitionEvent) {
			seen = append(seen, "outcome")
			final = e
		},
	}

	exec, _ := newExecutor(chat,
		runtime.WithGenerator(staticGenerator("Hello there.")),
		runtime.WithImageBackend(images),
		runtime.WithLifecycleHooks(hooks),
	)

	yes := true
	exec.Execute(context.Background(), domain.Request{Background: &yes})

	assert.Equal(t, []string{"start", "generated", "inserted", "background", "outcome"}, seen)
	require.NotNil(t, final)
	assert.Equal(t, domain.OutcomeInserted, final.Outcome)
	assert.Equal(t, "Hello there.", final.Line)
	assert.True(t, final.Background)
	assert.False(t, final.Degraded)
}

func TestExecutor_HookPanicsDoNotChangeOutcome(t *testing.T) {
	boom := func(ctx context.Context, e *domain.TransitionEvent) { panic("hook boom") }
	tests := []struct {
		name  string
		hooks domain.LifecycleHooks
	}{
		{name: "OnTransitionStart", hooks: domain.LifecycleHooks{OnTransitionStart: boom}},
		{name: "OnGenerated", hooks: domain.LifecycleHooks{OnGenerated: boom}},
		{name: "OnInserted", hooks: domain.LifecycleHooks{OnInserted: boom}},
		{name: "OnBackgroundTrigger", hooks: domain.LifecycleHooks{OnBackgroundTrigger: boom}},
		{name: "OnOutcome", hooks: domain.LifecycleHooks{OnOutcome: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := memory.NewChat(domain.Character{Name: "Seraphina"})
			images := new(MockImageBackend)
			images.On("TriggerBackground", mock.Anything).Return(nil).Once()

			exec, _ := newExecutor(chat,
				runtime.WithGenerator(staticGenerator("Hello there.")),
				runtime.WithImageBackend(images),
				runtime.WithLifecycleHooks(tt.hooks),
			)

			yes := true
			var outcome domain.Outcome
			require.NotPanics(t, func() {
				outcome = exec.Execute(context.Background(), domain.Request{Background: &yes})
			})

			assert.Equal(t, domain.OutcomeInserted, outcome)
			assert.Len(t, chat.Messages(), 1)
			images.AssertExpectations(t)
		})
	}
}

func TestExecutor_PanicBecomesErrorOutcome(t *testing.T) {
	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	exec, _ := newExecutor(chat,
		runtime.WithGenerator(staticGenerator("Hello there.")),
		runtime.WithTemplater(panicTemplater{}),
	)

	outcome := exec.Execute(context.Background(), domain.Request{})

	assert.Equal(t, domain.Outcome("Error: templater exploded"), outcome)
	assert.Empty(t, chat.Messages())
}

type replacer map[string]string

func (r replacer) Substitute(ctx context.Context, text string) string {
	for k, v := range r {
		text = strings.ReplaceAll(text, k, v)
	}
	return text
}

type panicTemplater struct{}

func (panicTemplater) Substitute(ctx context.Context, text string) string {
	panic("templater exploded")
}

type noCharacter struct{}

func (noCharacter) ActiveCharacter(ctx context.Context) (domain.Character, error) {
	return domain.Character{}, errors.New("no character selected")
}

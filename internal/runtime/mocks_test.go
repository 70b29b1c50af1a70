package runtime_test

import (
	"context"
	"errors"

	"github.com/aretw0/segue/pkg/domain"
	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateQuiet(ctx context.Context, prompt domain.QuietPrompt) (any, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0), args.Error(1)
}

type MockImageBackend struct {
	mock.Mock
}

func (m *MockImageBackend) Available(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockImageBackend) TriggerBackground(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Load(ctx context.Context, key string) (map[string]any, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Save(ctx context.Context, key string, blob map[string]any) error {
	return errors.New("connection refused")
}

// failingChat fails the insertion step selected by its non-nil error field.
type failingChat struct {
	appendErr error
	emitErr   error
	saveErr   error
}

func (c failingChat) Append(ctx context.Context, msg domain.Message) (int, error) {
	if c.appendErr != nil {
		return 0, c.appendErr
	}
	return 0, nil
}

func (c failingChat) Emit(ctx context.Context, event domain.EventType, index int) error {
	return c.emitErr
}

func (c failingChat) Save(ctx context.Context) error {
	return c.saveErr
}

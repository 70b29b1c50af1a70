package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/segue"
	"github.com/aretw0/segue/pkg/adapters/file"
	"github.com/aretw0/segue/pkg/adapters/gemini"
	httpAdapter "github.com/aretw0/segue/pkg/adapters/http"
	"github.com/aretw0/segue/pkg/adapters/macros"
	"github.com/aretw0/segue/pkg/adapters/memory"
	"github.com/aretw0/segue/pkg/adapters/process"
	"github.com/aretw0/segue/pkg/adapters/redis"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/observability"
	"github.com/aretw0/segue/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// ChatStore is what the CLI needs from a conversation backend.
type ChatStore interface {
	ports.Conversation
	ports.CharacterDirectory
	Messages() []domain.Message
}

// App bundles the engine with the adapters built from a Config.
type App struct {
	Engine   *segue.Engine
	Chat     ChatStore
	Store    ports.SettingsStore
	Images   *process.ImageBackend
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Streams  *httpAdapter.StreamManager
	Logger   *slog.Logger

	closers []func() error
}

// NewApp wires the adapters described by cfg into an engine.
func NewApp(ctx context.Context, cfg Config, logger *slog.Logger) (*App, error) {
	app := &App{
		Registry: prometheus.NewRegistry(),
		Streams:  httpAdapter.NewStreamManager(),
		Logger:   logger,
	}
	app.Metrics = observability.NewMetrics(app.Registry)

	store, err := app.openStore(cfg.Settings)
	if err != nil {
		return nil, err
	}
	app.Store = store

	chat, err := app.openChat(cfg.Chat)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Chat = chat

	opts := []segue.Option{
		segue.WithLogger(logger),
		segue.WithCharacters(chat),
		segue.WithTemplater(macros.New(chat, cfg.Chat.User)),
		segue.WithLifecycleHooks(observability.Combine(
			observability.LoggingHooks(logger),
			app.Metrics.Hooks(),
			app.Streams.Hooks(),
		)),
	}

	if gen := app.openGenerator(ctx, cfg.Generator); gen != nil {
		opts = append(opts, segue.WithGenerator(gen))
	}

	if cfg.Image.Command != "" {
		app.Images = process.NewImageBackend(cfg.Image, process.WithLogger(logger))
		opts = append(opts, segue.WithImageBackend(app.Images))
		app.closers = append(app.closers, func() error {
			app.Images.Wait()
			return nil
		})
	}

	engine, err := segue.New(store, chat, opts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = engine
	return app, nil
}

func (a *App) openStore(cfg SettingsConfig) (ports.SettingsStore, error) {
	switch cfg.Backend {
	case BackendMemory:
		return memory.NewSettingsStore(), nil
	case BackendRedis:
		opts := []redis.Option{}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, opts...)
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		store := file.NewSettingsStore(cfg.Path, file.WithDebounce(cfg.Debounce), file.WithLogger(a.Logger))
		a.closers = append(a.closers, store.Close)
		return store, nil
	}
}

func (a *App) openChat(cfg ChatConfig) (ChatStore, error) {
	character := domain.Character{Name: cfg.Character, Avatar: cfg.Avatar}
	if cfg.Path == "" {
		return memory.NewChat(character), nil
	}
	chat, err := file.OpenChat(cfg.Path, character, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat: %w", err)
	}
	return chat, nil
}

// openGenerator returns nil when no backend is usable; transitions then
// insert the "unavailable" placeholder.
func (a *App) openGenerator(ctx context.Context, cfg GeneratorConfig) ports.Generator {
	if cfg.Provider == "none" || cfg.Provider == "" {
		return nil
	}
	gen, err := gemini.New(ctx, cfg.APIKey, gemini.WithModel(cfg.Model), gemini.WithLogger(a.Logger))
	if err != nil {
		a.Logger.Warn("Generation backend unavailable", "provider", cfg.Provider, "error", err)
		return nil
	}
	return gen
}

// Close flushes pending settings and waits for background commands.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

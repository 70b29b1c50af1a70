package process

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// DefaultProbeTTL is how long a probe result is reused.
	DefaultProbeTTL = 30 * time.Second
	// DefaultProbeTimeout bounds a single probe run.
	DefaultProbeTimeout = 5 * time.Second
	// EnvSource carries the configured source to the background command.
	EnvSource = "SEGUE_IMAGE_SOURCE"

	probeKey = "probe"
)

// ImageBackend implements ports.ImageBackend by running a configured local command.
// Triggers are fire-and-forget: the command is started and reaped in the background.
type ImageBackend struct {
	cfg     Config
	logger  *slog.Logger
	limiter *rate.Limiter
	probes  *cache.Cache
	wg      sync.WaitGroup
}

type Option func(*ImageBackend)

// WithLogger sets the logger used for background command results.
func WithLogger(logger *slog.Logger) Option {
	return func(b *ImageBackend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewImageBackend creates a backend from cfg.
func NewImageBackend(cfg Config, opts ...Option) *ImageBackend {
	ttl := cfg.ProbeTTL
	if ttl <= 0 {
		ttl = DefaultProbeTTL
	}
	b := &ImageBackend{
		cfg:    cfg,
		logger: logging.NewNop(),
		// No janitor: expired entries are simply never returned.
		probes: cache.New(ttl, 0),
	}
	if cfg.MinInterval > 0 {
		b.limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Source returns the configured, normalized source name.
func (b *ImageBackend) Source() string {
	return strings.ToLower(strings.TrimSpace(b.cfg.Source))
}

// Available reports whether the configured source is a recognized image source,
// a command is configured, and the optional probe command succeeds.
func (b *ImageBackend) Available(ctx context.Context) bool {
	if !domain.IsImageSource(b.Source()) || b.cfg.Command == "" {
		return false
	}
	if b.cfg.ProbeCommand == "" {
		return true
	}

	if v, ok := b.probes.Get(probeKey); ok {
		return v.(bool)
	}

	probeCtx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, b.cfg.ProbeCommand, b.cfg.ProbeArgs...)
	cmd.Dir = b.cfg.Dir
	err := cmd.Run()
	ok := err == nil
	if !ok {
		b.logger.Debug("image backend probe failed", "source", b.Source(), "error", err)
	}
	b.probes.SetDefault(probeKey, ok)
	return ok
}

// TriggerBackground starts the configured command and returns without waiting for it.
func (b *ImageBackend) TriggerBackground(ctx context.Context) error {
	if b.cfg.Command == "" {
		return fmt.Errorf("%w: no image command configured", domain.ErrBackendUnavailable)
	}
	if b.limiter != nil && !b.limiter.Allow() {
		return domain.ErrRateLimited
	}

	// The command outlives the request that triggered it.
	cmd := exec.CommandContext(context.WithoutCancel(ctx), b.cfg.Command, b.cfg.Args...)
	cmd.Dir = b.cfg.Dir
	cmd.Env = append(cmd.Environ(), fmt.Sprintf("%s=%s", EnvSource, b.Source()))
	for k, v := range b.cfg.Environment {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start image command: %w", err)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		start := time.Now()
		if err := cmd.Wait(); err != nil {
			b.logger.Warn("background command failed",
				"source", b.Source(),
				"error", err,
				"stderr", strings.TrimSpace(stderr.String()))
			return
		}
		b.logger.Debug("background command finished", "source", b.Source(), "duration", time.Since(start))
	}()
	return nil
}

// Wait blocks until every started background command has exited.
func (b *ImageBackend) Wait() {
	b.wg.Wait()
}

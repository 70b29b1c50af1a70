package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/segue/internal/logging"
)

// NewLogger builds the application logger from a level name.
func NewLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// notifyContext is cancelled on SIGINT or SIGTERM.
func notifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> "+format+"\n", args...)
}

var errInterrupted = errors.New("interrupted")

// cancelReader stops handing out input once done is closed.
type cancelReader struct {
	r    io.Reader
	done <-chan struct{}
}

func (c cancelReader) Read(p []byte) (int, error) {
	select {
	case <-c.done:
		return 0, errInterrupted
	default:
	}
	return c.r.Read(p)
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, errInterrupted)
}

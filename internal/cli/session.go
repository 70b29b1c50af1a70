package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/segue"
	"github.com/aretw0/segue/internal/presentation/tui"
)

// ChatOptions configures RunChat.
type ChatOptions struct {
	Headless bool
	User     string
	Input    io.Reader
	Output   io.Writer
}

// RunChat runs the interactive chat loop until EOF, /quit or a signal.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	sigCtx, stop := notifyContext(ctx)
	defer stop()

	if err := app.Engine.Initialize(sigCtx); err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}

	if !opts.Headless {
		tui.PrintBanner(opts.Output, segue.Version)
		if character, err := app.Chat.ActiveCharacter(sigCtx); err == nil {
			printSystemMessage(opts.Output, "Chatting with %s (%d messages so far).", character.Name, len(app.Chat.Messages()))
		}
	}

	r := segue.NewRunner(app.Chat, cancelReader{r: opts.Input, done: sigCtx.Done()}, opts.Output)
	r.Headless = opts.Headless
	if opts.User != "" {
		r.UserName = opts.User
	}
	if !opts.Headless {
		r.Renderer = tui.NewRenderer()
	}

	err := r.Run(sigCtx, app.Engine)
	if isInterrupted(err) {
		if !opts.Headless {
			fmt.Fprintln(opts.Output)
			printSystemMessage(opts.Output, "Interrupted.")
		}
		return nil
	}
	return err
}

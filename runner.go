package segue

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/segue/pkg/command"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
)

// Transcript is implemented by conversations that can list their messages.
type Transcript interface {
	Messages() []domain.Message
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner is a line-oriented chat loop: plain lines are appended as user turns,
// transition command lines run a scene transition.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Chat     ports.Conversation
	UserName string
	Headless bool
	Renderer ContentRenderer
}

// NewRunner creates a Runner over the given chat.
func NewRunner(chat ports.Conversation, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		Input:    in,
		Output:   out,
		Chat:     chat,
		UserName: "User",
	}
}

// Run executes the loop until EOF, "/quit" or context cancellation.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	if r.Chat == nil {
		return fmt.Errorf("chat must be set")
	}

	lineReader := bufio.NewReader(r.Input)

	if !r.Headless {
		fmt.Fprintf(r.Output, "--- segue %s (type /transition [style=..] [max=..] [background=..] note, /quit to exit) ---\n", Version)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := lineReader.ReadString('\n')
		line := strings.TrimSpace(text)
		if err != nil && err != io.EOF {
			return fmt.Errorf("input error: %w", err)
		}

		if line != "" {
			if line == "/quit" || line == "/exit" {
				if !r.Headless {
					fmt.Fprintln(r.Output, "Bye!")
				}
				return nil
			}
			if herr := r.handle(ctx, engine, line); herr != nil {
				return herr
			}
		}

		if err == io.EOF {
			return nil
		}
	}
}

func (r *Runner) handle(ctx context.Context, engine *Engine, line string) error {
	req, ok, err := command.ParseLine(line)
	if !ok {
		return r.appendUserTurn(ctx, line)
	}

	var outcome domain.Outcome
	if err != nil {
		outcome = domain.OutcomeError(err)
	} else {
		outcome = engine.Transition(ctx, req)
	}

	if outcome == domain.OutcomeInserted {
		r.printLast()
	}
	fmt.Fprintln(r.Output, outcome)
	return nil
}

func (r *Runner) appendUserTurn(ctx context.Context, line string) error {
	clean, err := command.SanitizeNote(line)
	if err != nil {
		fmt.Fprintln(r.Output, domain.OutcomeError(err))
		return nil
	}

	msg := domain.NewMessage(domain.Character{Name: r.UserName}, clean, time.Now())
	msg.IsUser = true
	if _, err := r.Chat.Append(ctx, msg); err != nil {
		return fmt.Errorf("failed to append user message: %w", err)
	}
	if err := r.Chat.Save(ctx); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}
	return nil
}

func (r *Runner) printLast() {
	t, ok := r.Chat.(Transcript)
	if !ok {
		return
	}
	msgs := t.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]

	output := fmt.Sprintf("**%s**: %s", last.Name, last.Mes)
	if r.Renderer != nil {
		if rendered, err := r.Renderer(output); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}

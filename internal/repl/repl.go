package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"

	"github.com/giantswarm/kshell/internal/command"
	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/logging"
)

// LineReader is the part of *readline.Instance the processor uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	SaveHistory(line string) error
	Close() error
}

// Processor feeds input lines to a Dispatcher, either one scripted line or
// an interactive session.
type Processor struct {
	d         *command.Dispatcher
	completer readline.AutoCompleter
	out       io.Writer
	logger    *slog.Logger

	openReader func() (LineReader, error)
	reader     LineReader
	fallback   env.ConfirmFunc
}

// Option configures a Processor.
type Option func(*Processor)

// WithReader replaces the terminal line editor, e.g. in tests.
func WithReader(open func() (LineReader, error)) Option {
	return func(p *Processor) { p.openReader = open }
}

// WithFallbackConfirm sets how questions are asked outside an interactive
// session.
func WithFallbackConfirm(fn env.ConfirmFunc) Option {
	return func(p *Processor) { p.fallback = fn }
}

// New returns a processor writing command output to out. completer may be nil.
func New(d *command.Dispatcher, completer readline.AutoCompleter, out io.Writer, opts ...Option) *Processor {
	p := &Processor{
		d:         d,
		completer: completer,
		out:       out,
		logger:    d.Env().Logger(),
	}
	p.openReader = p.openReadline
	for _, opt := range opts {
		opt(p)
	}
	if p.fallback == nil {
		p.fallback = env.StdinConfirm(os.Stdin, d.Env().ErrWriter())
	}
	return p
}

// RunOnce executes a single line, as with --exec.
func (p *Processor) RunOnce(ctx context.Context, line string) error {
	return p.execute(ctx, line)
}

// Run reads and executes lines until quit, end of input, or ctx is done.
// Ctrl-C at the prompt discards the line being typed; while a command runs
// it cancels that command only.
func (p *Processor) Run(ctx context.Context) error {
	rl, err := p.openReader()
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	p.reader = rl
	defer func() {
		p.reader = nil
		if err := rl.Close(); err != nil {
			p.logger.Debug("closing line editor", logging.Err(err))
		}
	}()

	for ctx.Err() == nil {
		rl.SetPrompt(p.d.Env().Prompt())
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := rl.SaveHistory(line); err != nil {
			p.logger.Debug("saving history", logging.Err(err))
		}

		if err := p.execute(ctx, line); command.IsQuit(err) {
			return nil
		}
	}
	return nil
}

// execute dispatches line with a context that SIGINT cancels for the
// duration of the command.
func (p *Processor) execute(ctx context.Context, line string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return p.d.Dispatch(ctx, line, p.out)
}

// Confirm asks a yes/no question through the line editor while a session
// is running, and through the fallback otherwise.
func (p *Processor) Confirm(question string) bool {
	rl := p.reader
	if rl == nil {
		return p.fallback(question)
	}
	defer rl.SetPrompt(p.d.Env().Prompt())

	rl.SetPrompt(question + " [y/N] ")
	answer, err := rl.Readline()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *Processor) openReadline() (LineReader, error) {
	e := p.d.Env()

	// readline treats 0 as its own default and -1 as no history.
	limit := e.Settings().HistoryLimit
	if limit == 0 {
		limit = -1
	}

	return readline.NewEx(&readline.Config{
		Prompt:                 e.Prompt(),
		HistoryFile:            e.Paths().History,
		HistoryLimit:           limit,
		DisableAutoSaveHistory: true,
		HistorySearchFold:      true,
		AutoComplete:           p.completer,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		Stdout:                 p.out,
		Stderr:                 e.ErrWriter(),
	})
}

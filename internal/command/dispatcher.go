package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/logging"
)

// Dispatcher turns input lines into command executions. At most one
// command runs at a time.
type Dispatcher struct {
	registry *Registry
	env      *env.Env
	stats    prometheus.Gatherer
	noPipes  bool

	busy sync.Mutex
}

// NewDispatcher returns a dispatcher over registry and e. stats may be nil.
func NewDispatcher(registry *Registry, e *env.Env, stats prometheus.Gatherer) *Dispatcher {
	return &Dispatcher{registry: registry, env: e, stats: stats}
}

// DisableShellPipes makes lines that pipe into a shell command fail as
// input errors. Must be called before the first Dispatch.
func (d *Dispatcher) DisableShellPipes() { d.noPipes = true }

// Registry returns the dispatcher's command registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Env returns the dispatcher's environment.
func (d *Dispatcher) Env() *env.Env { return d.env }

// TryAcquire takes the command lock without waiting. Completion uses it so
// its cluster calls never overlap a running command.
func (d *Dispatcher) TryAcquire() bool {
	return d.busy.TryLock()
}

// Release returns a lock obtained with TryAcquire.
func (d *Dispatcher) Release() {
	d.busy.Unlock()
}

// Busy reports whether a command is running.
func (d *Dispatcher) Busy() bool {
	if d.busy.TryLock() {
		d.busy.Unlock()
		return false
	}
	return true
}

// Tokenize splits a line with shell-like quoting. Shell operators such as
// pipes and redirections are rejected.
func Tokenize(line string) ([]string, error) {
	args, rest, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("unsupported shell operator %q, quote it to use it literally", rest[:1])
	}
	return args, nil
}

// ParseLine splits line into the command's words and, when the line pipes
// into a shell command with an unquoted '|', that command's text. Other
// shell operators are rejected.
func ParseLine(line string) ([]string, string, error) {
	args, rest, err := tokenize(line)
	if err != nil {
		return nil, "", err
	}
	if rest == "" {
		return args, "", nil
	}
	if rest[0] != '|' || strings.HasPrefix(rest, "||") {
		return nil, "", fmt.Errorf("unsupported shell operator %q, quote it to use it literally", rest[:1])
	}
	if len(args) == 0 {
		return nil, "", errors.New("missing command before '|'")
	}
	script := strings.TrimSpace(rest[1:])
	if script == "" {
		return nil, "", errors.New("missing shell command after '|'")
	}
	return args, script, nil
}

// tokenize returns the words before the first unquoted shell operator and
// the remainder of the line starting at that operator.
func tokenize(line string) ([]string, string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false

	args, err := p.Parse(line)
	if err != nil {
		return nil, "", err
	}
	if p.Position >= 0 {
		// Position counts runes, not bytes.
		return args, string([]rune(line)[p.Position:]), nil
	}
	return args, "", nil
}

// Dispatch runs one input line, writing output to out. Every error is
// reported to the Environment's error sink before it is returned, so
// callers only need the return value to decide an exit status.
//
// A line of the form "command | shell command" runs the command with its
// output piped into the shell command, whose output goes to out.
func (d *Dispatcher) Dispatch(ctx context.Context, line string, out io.Writer) error {
	args, script, err := ParseLine(line)
	if err == nil && script != "" && d.noPipes {
		err = errors.New("piping into shell commands is disabled")
	}
	if err != nil {
		d.env.Reportf("cannot parse input: %v", err)
		return &UsageError{Command: "input", Err: err}
	}
	if len(args) == 0 {
		return nil
	}

	d.busy.Lock()
	defer d.busy.Unlock()

	if script != "" {
		return d.dispatchPiped(ctx, args, script, out)
	}
	return d.dispatch(ctx, args, out)
}

func (d *Dispatcher) dispatch(ctx context.Context, args []string, out io.Writer) error {
	var picked *kobj.Handle
	if index, err := strconv.Atoi(args[0]); err == nil {
		h, err := d.env.ResolveRow(index)
		if err != nil {
			d.env.Reportf("%v", err)
			return err
		}
		if len(args) == 1 {
			d.env.Select(h)
			return nil
		}
		picked = &h
		args = args[1:]
	}

	name := args[0]
	cmd, ok := d.registry.Lookup(name)
	if !ok {
		d.env.Reportf("unknown command: %s", name)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	fs := cmd.NewFlagSet()
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			_, _ = io.WriteString(out, cmd.Usage())
			return nil
		}
		d.env.Reportf("%s: %v\n%s", cmd.Name, err, cmd.Usage())
		return &UsageError{Command: cmd.Name, Err: err}
	}
	if err := cmd.checkArgs(fs.Args()); err != nil {
		d.env.Reportf("%v\n%s", err, cmd.Usage())
		return err
	}

	sink := newSink(out)
	defer sink.close()

	inv := &Invocation{
		Command:   cmd,
		Flags:     fs,
		Args:      fs.Args(),
		Env:       d.env,
		Out:       sink,
		Registry:  d.registry,
		Stats:     d.stats,
		selection: picked,
	}

	kubeContext, namespace := d.env.Context(), d.env.Namespace()
	if err := d.run(ctx, inv); err != nil {
		return err
	}
	d.commitSelection(inv, kubeContext, namespace)
	return nil
}

// commitSelection makes the row a successful invocation picked the
// Environment's selection, unless the command moved to another context or
// away from the row's namespace.
func (d *Dispatcher) commitSelection(inv *Invocation, kubeContext, namespace string) {
	if inv.selection == nil {
		return
	}
	h := *inv.selection
	if d.env.Context() != kubeContext {
		return
	}
	if h.HasNamespace() && d.env.Namespace() != namespace {
		return
	}
	d.env.Select(h)
}

func (d *Dispatcher) run(ctx context.Context, inv *Invocation) (err error) {
	name := inv.Command.Name
	logger := logging.WithCommand(d.env.Logger(), name)

	ctx, span := instrumentation.StartCommandSpan(ctx, name)
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: internal error: %v", name, r)
			d.env.Reportf("%v", err)
			logger.Error("command panicked", logging.Err(err))
		}

		status := instrumentation.StatusSuccess
		if err != nil && !errors.Is(err, ErrQuit) {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		elapsed := time.Since(start)
		d.env.Metrics().RecordCommand(ctx, name, status, elapsed)
		logger.Debug("command finished",
			logging.Status(status),
			logging.Duration(elapsed),
			logging.TraceID(instrumentation.GetTraceID(ctx)))
	}()

	err = inv.Command.Run(ctx, inv)
	if err != nil && !errors.Is(err, ErrQuit) && !errors.Is(err, ErrReported) {
		var usage *UsageError
		if errors.As(err, &usage) {
			d.env.Reportf("%v\n%s", err, inv.Command.Usage())
		} else {
			d.env.Reportf("%s: %v", name, err)
		}
	}
	return err
}

// sink is the output writer of a single invocation. Writes after the
// invocation ended are dropped.
type sink struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func newSink(w io.Writer) *sink {
	return &sink{w: w}
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	return s.w.Write(p)
}

func (s *sink) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

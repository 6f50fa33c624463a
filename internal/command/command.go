package command

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/kobj"
)

// ArgSpec bounds the number of positional arguments. Max < 0 means unbounded.
type ArgSpec struct {
	Min int
	Max int
	// Synopsis is shown in usage, e.g. "[index]".
	Synopsis string
}

var (
	// NoArgs accepts no positional arguments.
	NoArgs = ArgSpec{}
	// OptionalIndex accepts an optional row index.
	OptionalIndex = ArgSpec{Max: 1, Synopsis: "[index]"}
)

// CompleteFunc returns dynamic candidates for a positional argument. It may
// call the cluster and must honour ctx.
type CompleteFunc func(ctx context.Context, e *env.Env, prefix string) ([]string, error)

// StaticArgsFunc returns positional candidates known without cluster I/O.
type StaticArgsFunc func(e *env.Env, r *Registry) []string

// RunFunc executes a command.
type RunFunc func(ctx context.Context, inv *Invocation) error

// Command describes one shell command. Descriptors are registered once and
// never modified.
type Command struct {
	Name    string
	Aliases []string
	About   string
	Args    ArgSpec

	// Flags declares the command's flags on a fresh set for each invocation.
	Flags func(fs *pflag.FlagSet)

	// FlagValues enumerates accepted values per long flag name, for completion.
	FlagValues map[string][]string

	StaticArgs StaticArgsFunc
	Complete   CompleteFunc

	Run RunFunc
}

// Invocation carries everything one execution of a command may use.
type Invocation struct {
	Command  *Command
	Flags    *pflag.FlagSet
	Args     []string
	Env      *env.Env
	Out      io.Writer
	Registry *Registry
	Stats    prometheus.Gatherer

	// selection is the row picked by a leading index or an index argument.
	// It reaches the Environment only when the command succeeds.
	selection *kobj.Handle
}

// Current returns the object this invocation acts on: the row it picked,
// or else the Environment's selection.
func (inv *Invocation) Current() (kobj.Handle, bool) {
	if inv.selection != nil {
		return *inv.selection, true
	}
	return inv.Env.Current()
}

// Select picks h for this invocation.
func (inv *Invocation) Select(h kobj.Handle) {
	inv.selection = &h
}

// Deselect drops h from both the invocation and the Environment.
func (inv *Invocation) Deselect(h kobj.Handle) {
	if inv.selection != nil && *inv.selection == h {
		inv.selection = nil
	}
	if current, ok := inv.Env.Current(); ok && current == h {
		inv.Env.ClearSelection()
	}
}

// ClearSelection drops any selection, picked or committed.
func (inv *Invocation) ClearSelection() {
	inv.selection = nil
	inv.Env.ClearSelection()
}

// Printf writes formatted output to the invocation's sink.
func (inv *Invocation) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(inv.Out, format, args...)
}

// NewFlagSet returns a fresh flag set with the command's flags declared.
func (c *Command) NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = true
	if c.Flags != nil {
		c.Flags(fs)
	}
	return fs
}

// Usage renders the command's help text.
func (c *Command) Usage() string {
	var sb strings.Builder
	fs := c.NewFlagSet()

	sb.WriteString("Usage: ")
	sb.WriteString(c.Name)
	if fs.HasFlags() {
		sb.WriteString(" [flags]")
	}
	if c.Args.Synopsis != "" {
		sb.WriteString(" ")
		sb.WriteString(c.Args.Synopsis)
	}
	sb.WriteString("\n")
	if len(c.Aliases) > 0 {
		fmt.Fprintf(&sb, "Aliases: %s\n", strings.Join(c.Aliases, ", "))
	}
	if c.About != "" {
		fmt.Fprintf(&sb, "\n%s\n", c.About)
	}
	if fs.HasFlags() {
		fmt.Fprintf(&sb, "\nFlags:\n%s", fs.FlagUsages())
	}
	return sb.String()
}

func (c *Command) checkArgs(args []string) error {
	if len(args) < c.Args.Min {
		return usageErrorf(c.Name, "expected at least %d argument(s), got %d", c.Args.Min, len(args))
	}
	if c.Args.Max >= 0 && len(args) > c.Args.Max {
		if c.Args.Max == 0 {
			return usageErrorf(c.Name, "takes no arguments, got %q", strings.Join(args, " "))
		}
		return usageErrorf(c.Name, "expected at most %d argument(s), got %d", c.Args.Max, len(args))
	}
	return nil
}

// Registry maps names and aliases to commands. It is immutable once built.
type Registry struct {
	commands []*Command
	index    map[string]*Command
}

// NewRegistry indexes cmds by name and alias. A name or alias used twice is
// an error.
func NewRegistry(cmds ...*Command) (*Registry, error) {
	r := &Registry{index: make(map[string]*Command)}
	for _, c := range cmds {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("command without a name")
		}
		if c.Run == nil {
			return nil, fmt.Errorf("command %q has no executor", c.Name)
		}
		for _, key := range append([]string{c.Name}, c.Aliases...) {
			if prev, ok := r.index[key]; ok {
				return nil, fmt.Errorf("duplicate command name %q (used by %q and %q)", key, prev.Name, c.Name)
			}
			r.index[key] = c
		}
		r.commands = append(r.commands, c)
	}
	sort.Slice(r.commands, func(i, j int) bool {
		return r.commands[i].Name < r.commands[j].Name
	})
	return r, nil
}

// MustRegistry is NewRegistry that panics on error, for startup wiring.
func MustRegistry(cmds ...*Command) *Registry {
	r, err := NewRegistry(cmds...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.index[name]
	return c, ok
}

// Commands returns the registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Names returns every name and alias, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.index))
	for k := range r.index {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

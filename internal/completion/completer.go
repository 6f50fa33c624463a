package completion

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sync/singleflight"

	"github.com/giantswarm/kshell/internal/command"
	"github.com/giantswarm/kshell/internal/config"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/logging"
)

var errBusy = errors.New("a command is running")

// Completer proposes candidates for a partially typed line. It never
// changes the Environment and never waits for a running command.
type Completer struct {
	d     *command.Dispatcher
	group singleflight.Group
}

// New returns a Completer over the dispatcher's registry and environment.
func New(d *command.Dispatcher) *Completer {
	return &Completer{d: d}
}

// Do implements readline.AutoCompleter. It returns the suffixes
// that complete the word under the cursor and that word's length.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	input := string(line[:pos])
	_, prefix := split(input)

	candidates := c.Complete(context.Background(), input)
	suffixes := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		suffixes = append(suffixes, []rune(strings.TrimPrefix(cand, prefix)+" "))
	}
	return suffixes, len([]rune(prefix))
}

// Complete returns the sorted, unique candidates for the last word of
// line. Only text before the cursor should be passed.
func (c *Completer) Complete(ctx context.Context, line string) []string {
	if _, script, err := command.ParseLine(line); err == nil && script != "" {
		// The rest of the line belongs to the shell.
		return nil
	}

	words, prefix := split(line)
	if len(words) > 0 {
		if _, err := strconv.Atoi(words[0]); err == nil {
			words = words[1:]
		}
	}

	if len(words) == 0 {
		return c.finish(ctx, instrumentation.CompletionStatic, filter(c.d.Registry().Names(), prefix))
	}

	cmd, ok := c.d.Registry().Lookup(words[0])
	if !ok {
		return nil
	}
	fs := cmd.NewFlagSet()

	if name, value, ok := strings.Cut(prefix, "="); ok && strings.HasPrefix(name, "--") {
		values := cmd.FlagValues[strings.TrimPrefix(name, "--")]
		out := make([]string, 0, len(values))
		for _, v := range filter(values, value) {
			out = append(out, name+"="+v)
		}
		return c.finish(ctx, instrumentation.CompletionStatic, out)
	}

	if strings.HasPrefix(prefix, "-") {
		return c.finish(ctx, instrumentation.CompletionStatic, filter(flagNames(fs), prefix))
	}

	if f := pendingFlag(fs, words[len(words)-1]); f != nil {
		return c.finish(ctx, instrumentation.CompletionStatic, filter(cmd.FlagValues[f.Name], prefix))
	}

	var candidates []string
	if cmd.StaticArgs != nil {
		candidates = append(candidates, cmd.StaticArgs(c.d.Env(), c.d.Registry())...)
	}
	result := instrumentation.CompletionStatic
	if cmd.Complete != nil {
		dynamic, res := c.dynamic(ctx, cmd, prefix)
		candidates = append(candidates, dynamic...)
		result = res
	}
	return c.finish(ctx, result, filter(candidates, prefix))
}

// dynamic asks the command's hook for candidates. Concurrent requests for
// the same command, context, namespace and prefix share one lookup.
func (c *Completer) dynamic(ctx context.Context, cmd *command.Command, prefix string) ([]string, string) {
	e := c.d.Env()
	timeout := config.DefaultCompletionTimeout
	if s := e.Settings(); s != nil && s.CompletionTimeout > 0 {
		timeout = s.CompletionTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	key := strings.Join([]string{cmd.Name, e.Context(), e.Namespace(), prefix}, "\x00")
	ch := c.group.DoChan(key, func() (any, error) {
		if !c.d.TryAcquire() {
			return nil, errBusy
		}
		defer c.d.Release()
		return cmd.Complete(ctx, e, prefix)
	})

	logger := logging.WithOperation(e.Logger(), "complete").With(logging.Command(cmd.Name))
	select {
	case res := <-ch:
		switch {
		case errors.Is(res.Err, errBusy):
			return nil, instrumentation.CompletionBusy
		case errors.Is(res.Err, context.DeadlineExceeded):
			return nil, instrumentation.CompletionTimeout
		case res.Err != nil:
			logger.Debug("dynamic completion failed", logging.SanitizedErr(res.Err))
			return nil, instrumentation.CompletionFailed
		}
		values, _ := res.Val.([]string)
		return values, instrumentation.CompletionDynamic
	case <-ctx.Done():
		logger.Debug("dynamic completion timed out", logging.Duration(timeout))
		return nil, instrumentation.CompletionTimeout
	}
}

func (c *Completer) finish(ctx context.Context, result string, candidates []string) []string {
	c.d.Env().Metrics().RecordCompletion(ctx, result)
	return uniqueSorted(candidates)
}

// split separates the completed words of line from the word being typed.
// Unbalanced quotes fall back to whitespace splitting.
func split(line string) ([]string, string) {
	words, err := command.Tokenize(line)
	if err != nil {
		words = strings.Fields(line)
	}
	if line == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") || len(words) == 0 {
		return words, ""
	}
	return words[:len(words)-1], words[len(words)-1]
}

func flagNames(fs *pflag.FlagSet) []string {
	var names []string
	fs.VisitAll(func(f *pflag.Flag) {
		names = append(names, "--"+f.Name)
		if f.Shorthand != "" {
			names = append(names, "-"+f.Shorthand)
		}
	})
	names = append(names, "--help")
	return names
}

// pendingFlag returns the flag word expects a value for, if any.
func pendingFlag(fs *pflag.FlagSet, word string) *pflag.Flag {
	var f *pflag.Flag
	switch {
	case strings.HasPrefix(word, "--") && !strings.Contains(word, "="):
		f = fs.Lookup(strings.TrimPrefix(word, "--"))
	case strings.HasPrefix(word, "-") && len(word) == 2:
		f = fs.ShorthandLookup(word[1:])
	}
	if f == nil || f.NoOptDefVal != "" {
		return nil
	}
	return f
}

func filter(candidates []string, prefix string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func uniqueSorted(in []string) []string {
	sort.Strings(in)
	out := make([]string, 0, len(in))
	for _, s := range in {
		if len(out) == 0 || out[len(out)-1] != s {
			out = append(out, s)
		}
	}
	return out
}

package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/giantswarm/kshell/internal/config"
	"github.com/giantswarm/kshell/internal/env"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of every built-in command. It is built once.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustRegistry(builtinCommands()...)
	})
	return defaultRegistry
}

func builtinCommands() []*Command {
	return []*Command{
		podsCommand,
		servicesCommand,
		nodesCommand,
		namespacesCommand,
		persistentVolumesCommand,
		persistentVolumeClaimsCommand,
		deploymentsCommand,
		configMapsCommand,
		secretsCommand,
		contextCommand,
		namespaceCommand,
		clearCommand,
		envCommand,
		describeCommand,
		deleteCommand,
		setCommand,
		statsCommand,
		helpCommand,
		quitCommand,
	}
}

func listLimit(n int64) metav1.ListOptions {
	return metav1.ListOptions{Limit: n}
}

var clearCommand = &Command{
	Name:  "clear",
	About: "Clear the current selection",
	Args:  NoArgs,
	Run: func(_ context.Context, inv *Invocation) error {
		inv.ClearSelection()
		return nil
	},
}

var envCommand = &Command{
	Name:  "env",
	About: "Show the shell environment",
	Args:  NoArgs,
	Run: func(_ context.Context, inv *Invocation) error {
		e := inv.Env
		selection := "none"
		if h, ok := inv.Current(); ok {
			selection = h.String()
		}
		rows := "no listing"
		if e.HasListing() {
			rows = fmt.Sprintf("%d", len(e.Rows()))
		}
		paths := e.Paths()

		inv.Printf("Context:     %s\n", e.Context())
		inv.Printf("Namespace:   %s\n", e.Namespace())
		inv.Printf("Selection:   %s\n", selection)
		inv.Printf("Rows:        %s\n", rows)
		inv.Printf("Kubeconfig:  %s\n", strings.Join(e.KubeConfig().Paths(), ", "))
		inv.Printf("History:     %s\n", paths.History)
		inv.Printf("Settings:    %s\n", paths.Settings)
		return nil
	},
}

var setCommand = &Command{
	Name:  "set",
	About: "Change a setting and save it",
	Args:  ArgSpec{Min: 0, Max: 2, Synopsis: "[setting [value]]"},
	StaticArgs: func(_ *env.Env, _ *Registry) []string {
		return config.SettingKeys()
	},
	Run: runSet,
}

func runSet(_ context.Context, inv *Invocation) error {
	settings := inv.Env.Settings()

	switch len(inv.Args) {
	case 0:
		for _, key := range config.SettingKeys() {
			value, _ := settings.Get(key)
			inv.Printf("%s = %s\n", key, value)
		}
		return nil
	case 1:
		value, ok := settings.Get(inv.Args[0])
		if !ok {
			return usageErrorf(inv.Command.Name, "unknown setting %q, expected one of: %s",
				inv.Args[0], strings.Join(config.SettingKeys(), ", "))
		}
		inv.Printf("%s = %s\n", strings.ToLower(inv.Args[0]), value)
		return nil
	}

	key, value := inv.Args[0], inv.Args[1]
	if err := settings.Set(key, value); err != nil {
		return err
	}
	path := inv.Env.Paths().Settings
	if path == "" {
		return nil
	}
	if err := settings.Save(path); err != nil {
		return fmt.Errorf("setting changed but not saved: %w", err)
	}
	return nil
}

var helpCommand = &Command{
	Name:    "help",
	Aliases: []string{"?"},
	About:   "List commands, or show help for one command",
	Args:    ArgSpec{Max: 1, Synopsis: "[command]"},
	StaticArgs: func(_ *env.Env, r *Registry) []string {
		names := make([]string, 0, len(r.commands))
		for _, c := range r.Commands() {
			names = append(names, c.Name)
		}
		return names
	},
	Run: runHelp,
}

func runHelp(_ context.Context, inv *Invocation) error {
	r := inv.Registry
	if len(inv.Args) == 1 {
		c, ok := r.Lookup(inv.Args[0])
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, inv.Args[0])
		}
		inv.Printf("%s", c.Usage())
		return nil
	}

	cmds := r.Commands()
	width := 0
	for _, c := range cmds {
		width = max(width, len(c.Name))
	}
	inv.Printf("Commands:\n")
	for _, c := range cmds {
		about := c.About
		if len(c.Aliases) > 0 {
			aliases := append([]string(nil), c.Aliases...)
			sort.Strings(aliases)
			about = fmt.Sprintf("%s (%s)", about, strings.Join(aliases, ", "))
		}
		inv.Printf("  %-*s  %s\n", width, c.Name, about)
	}
	inv.Printf("\nType a row number to select that row. Use \"help <command>\" for flags.\n")
	return nil
}

var quitCommand = &Command{
	Name:    "quit",
	Aliases: []string{"exit", "q"},
	About:   "Leave the shell",
	Args:    NoArgs,
	Run: func(context.Context, *Invocation) error {
		return ErrQuit
	},
}

// IsQuit reports whether err asks the shell to stop.
func IsQuit(err error) bool {
	return errors.Is(err, ErrQuit)
}

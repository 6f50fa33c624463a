package command

import (
	"context"
	"fmt"

	"github.com/giantswarm/kshell/internal/env"
)

var contextCommand = &Command{
	Name:    "context",
	Aliases: []string{"ctx"},
	About:   "List kubeconfig contexts, or switch to the named one",
	Args:    ArgSpec{Max: 1, Synopsis: "[name]"},
	StaticArgs: func(e *env.Env, _ *Registry) []string {
		return e.Contexts()
	},
	Run: runContext,
}

func runContext(_ context.Context, inv *Invocation) error {
	e := inv.Env
	if len(inv.Args) == 0 {
		current := e.Context()
		for _, name := range e.Contexts() {
			marker := " "
			if name == current {
				marker = "*"
			}
			inv.Printf("%s %s\n", marker, name)
		}
		return nil
	}

	name := inv.Args[0]
	if err := e.SetContext(name); err != nil {
		return err
	}
	inv.Printf("Switched to context %q (namespace %q).\n", name, e.Namespace())
	return nil
}

var namespaceCommand = &Command{
	Name:     "namespace",
	Aliases:  []string{"ns"},
	About:    "Show the active namespace, or switch to the named one",
	Args:     ArgSpec{Max: 1, Synopsis: "[name]"},
	Complete: completeNamespaces,
	Run:      runNamespace,
}

func runNamespace(_ context.Context, inv *Invocation) error {
	e := inv.Env
	if len(inv.Args) == 0 {
		inv.Printf("%s\n", e.Namespace())
		return nil
	}
	if err := e.SetNamespace(inv.Args[0]); err != nil {
		return err
	}
	inv.Printf("Switched to namespace %q.\n", e.Namespace())
	return nil
}

// maxNamespaceCandidates bounds the namespace list fetched for completion.
const maxNamespaceCandidates = 500

func completeNamespaces(ctx context.Context, e *env.Env, _ string) ([]string, error) {
	client, err := e.Client()
	if err != nil {
		return nil, err
	}
	list, err := client.CoreV1().Namespaces().List(ctx, listLimit(maxNamespaceCandidates))
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/kshell/internal/command"
	"github.com/giantswarm/kshell/internal/repl"
)

// errCommandFailed is returned when an --exec command failed. The command
// already reported why.
var errCommandFailed = errors.New("command failed")

// rootOptions holds the flags shared by the shell and its subcommands.
type rootOptions struct {
	configDir string
	exec      string
	context   string
	namespace string
	logLevel  string
}

var opts rootOptions

// rootCmd starts the interactive shell, or runs a single command with --exec.
var rootCmd = &cobra.Command{
	Use:   "kshell",
	Short: "Interactive shell for Kubernetes clusters",
	Long: `kshell is an interactive shell for exploring and managing Kubernetes
clusters. It keeps the active context, namespace and selected object between
commands, and every listing numbers its rows so later commands can refer to
an object by its row number.

  [prod][default][none] > pods -s restarts -R
  [prod][default][none] > 1
  [prod][default][api-7d9f] > describe

Contexts and credentials are read from kubeconfig ($KUBECONFIG, or
<config-dir>/config).`,
	Args: cobra.NoArgs,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kshell version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errCommandFailed) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Assigned here because the shell reads rootCmd.Version.
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runShell(cmd.Context(), &opts)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configDir, "config-dir", "c", "", "Directory holding kubeconfig, history and settings (default $HOME/.kube)")
	flags.StringVarP(&opts.context, "context", "C", "", "Kubeconfig context to start in")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "Namespace to start in")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Diagnostics log level: debug, info, warn or error")
	rootCmd.Flags().StringVarP(&opts.exec, "exec", "e", "", "Run one command and exit")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newMCPCmd())
}

func runShell(ctx context.Context, o *rootOptions) error {
	var proc *repl.Processor
	s, err := newSession(ctx, o, sessionIO{
		errOut:  os.Stderr,
		confirm: func(q string) bool { return proc.Confirm(q) },
	})
	if err != nil {
		return err
	}
	defer s.close()

	proc = repl.New(s.dispatcher, s.completer, os.Stdout)

	if o.exec != "" {
		if err := proc.RunOnce(ctx, o.exec); err != nil && !command.IsQuit(err) {
			return errCommandFailed
		}
		return nil
	}
	return proc.Run(ctx)
}

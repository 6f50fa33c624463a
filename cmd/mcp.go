package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/giantswarm/kshell/internal/mcpbridge"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the shell to MCP clients over stdio",
		Long: `Serve kshell as a Model Context Protocol server on standard input and output.

The execute tool runs one shell command line and returns its output; the
complete tool returns completion candidates. State such as the active
context and the rows of the last listing carries over between calls.
Deletions cannot be confirmed interactively and need --yes, and lines
cannot pipe into shell commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			errs := &mcpbridge.ErrorSink{}
			s, err := newSession(cmd.Context(), &opts, sessionIO{
				errOut:  errs,
				confirm: func(string) bool { return false },
			})
			if err != nil {
				return err
			}
			defer s.close()

			// MCP clients must not reach a local shell.
			s.dispatcher.DisableShellPipes()
			bridge := mcpbridge.New(s.dispatcher, s.completer, errs)
			return runStdioServer(bridge.Server(rootCmd.Version))
		},
	}
}

// runStdioServer runs the server with STDIO transport
func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	if err := <-serverDone; err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	// Don't print to stdout in stdio mode as it interferes with MCP communication
	return nil
}

// Package cmd provides the command-line interface for kshell.
//
// Running kshell without a subcommand starts the interactive shell. The
// remaining subcommands are:
//   - mcp: serves the shell to Model Context Protocol clients over stdio
//   - version: displays the application version
//   - self-update: updates the binary to the latest version from GitHub releases
//
// Command Structure:
//
//	kshell [flags]                      # Interactive shell
//	kshell -e "pods -s restarts -R"     # Run one command and exit
//	kshell mcp [flags]                  # MCP server on stdin/stdout
//	kshell version                      # Shows version information
//	kshell self-update                  # Updates to latest release
//
// The --config-dir, --context, --namespace and --log-level flags apply to
// the shell and the MCP server alike.
package cmd

// Package mcpbridge serves the shell over the Model Context Protocol.
//
// The execute tool runs one command line through the same dispatcher the
// interactive shell uses, so state carries over between calls exactly as
// it does between prompts. The complete tool returns completion
// candidates. Delete cannot ask for confirmation over MCP and needs --yes.
package mcpbridge

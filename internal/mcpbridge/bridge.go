package mcpbridge

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/kshell/internal/command"
	"github.com/giantswarm/kshell/internal/completion"
	"github.com/giantswarm/kshell/internal/logging"
)

// Tool names.
const (
	ToolExecute  = "execute"
	ToolComplete = "complete"
)

// ErrorSink collects the messages the Environment reports while a tool
// call runs. Pass it to env.WithErrorWriter.
type ErrorSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *ErrorSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *ErrorSink) take() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.buf.String()
	s.buf.Reset()
	return msg
}

// Bridge exposes a dispatcher as MCP tools. Calls are handled one at a
// time, so each call sees only its own output and errors.
type Bridge struct {
	d         *command.Dispatcher
	completer *completion.Completer
	errs      *ErrorSink
	logger    *slog.Logger

	mu sync.Mutex
}

// New returns a bridge. errs must be the error writer of d's Environment.
func New(d *command.Dispatcher, completer *completion.Completer, errs *ErrorSink) *Bridge {
	return &Bridge{
		d:         d,
		completer: completer,
		errs:      errs,
		logger:    logging.WithOperation(d.Env().Logger(), "mcp"),
	}
}

// Server returns an MCP server with the bridge's tools registered.
func (b *Bridge) Server(version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("kshell", version,
		mcpserver.WithToolCapabilities(true),
	)
	b.Register(s)
	return s
}

// Register adds the bridge's tools to s.
func (b *Bridge) Register(s *mcpserver.MCPServer) {
	executeTool := mcp.NewTool(ToolExecute,
		mcp.WithDescription(`Run one kshell command line and return its output.

The shell keeps state between calls: the active context and namespace, the
selected object, and the rows of the last listing, which later commands
address by row number.

Examples:
- "pods -s restarts -R" lists pods with the most restarts first
- "ctx staging" switches context
- "describe 3" prints row 3 of the last listing as YAML
- "delete 2 --yes" deletes row 2; confirmation is not possible here, so --yes is required
- "help" lists every command`),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("The command line, with shell-style quoting"),
		),
	)
	s.AddTool(executeTool, b.handleExecute)

	completeTool := mcp.NewTool(ToolComplete,
		mcp.WithDescription("List completion candidates for the last word of a partial command line"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("line",
			mcp.Required(),
			mcp.Description("The partial command line"),
		),
	)
	s.AddTool(completeTool, b.handleComplete)
}

func (b *Bridge) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, ok := request.GetArguments()["command"].(string)
	if !ok || strings.TrimSpace(line) == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.errs.take()
	var out bytes.Buffer
	err := b.d.Dispatch(ctx, line, &out)
	reported := b.errs.take()

	b.logger.Debug("tool call finished", logging.Command(line), logging.Err(err))

	if errors.Is(err, command.ErrQuit) {
		return mcp.NewToolResultError("quit ends interactive sessions only"), nil
	}
	if err != nil {
		msg := strings.TrimSpace(reported)
		if msg == "" {
			msg = err.Error()
		}
		return mcp.NewToolResultError(msg), nil
	}

	text := out.String()
	if reported != "" {
		text += reported
	}
	return mcp.NewToolResultText(text), nil
}

func (b *Bridge) handleComplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, ok := request.GetArguments()["line"].(string)
	if !ok {
		return mcp.NewToolResultError("line is required"), nil
	}
	candidates := b.completer.Complete(ctx, line)
	return mcp.NewToolResultText(strings.Join(candidates, "\n")), nil
}

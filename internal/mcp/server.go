// Package mcp exposes the daemon's window operations as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/ipc"
)

const (
	ServerName    = "borderless"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools forward to.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]borderless.DiscoveredWindow, error)
	Apply(target borderless.Target) (daemon.ActionResult, error)
	Restore(target borderless.Target) (daemon.ActionResult, error)
	Toggle(target borderless.Target) (daemon.ActionResult, error)
	Reconcile() (borderless.ReconcileResult, error)
	Rules() ([]borderless.MatchRule, error)
	AddRule(pattern string, mode borderless.MatchMode) (int, error)
	RemoveRule(index int) (borderless.MatchRule, error)
	SetRuleMode(index int, mode borderless.MatchMode, pattern string) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server. It keeps no state of its own; every tool call is
// one daemon request.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to d.
func NewServer(d Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{daemon: d, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon uptime, the windows made borderless by hand and the number of match rules.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List visible top-level windows with a title, sorted by title. Each entry has the window id, title, executable name and process id.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_borderless",
		Description: "Strip the frame of one window and stretch it over its monitor. Select the window by id, exact title or exact executable name. Applying to a window that is already borderless does nothing.",
	}, s.handleApply)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_windowed",
		Description: "Return a borderless window to the frame, size, position and show state it had before. If a rule made it borderless, the rule leaves it alone until the window closes.",
	}, s.handleRestore)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_borderless",
		Description: "Restore the window if it is borderless, otherwise make it borderless.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reconcile",
		Description: "Run one rule pass now: every rule makes the first window it matches borderless.",
	}, s.handleReconcile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_rules",
		Description: "List match rules in evaluation order with the window each one currently holds.",
	}, s.handleListRules)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_rule",
		Description: "Add a rule that keeps a window borderless whenever it is open. Mode title compares the exact window title; mode exe compares the executable name.",
	}, s.handleAddRule)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_rule",
		Description: "Remove a rule by index. A window the rule made borderless is restored first.",
	}, s.handleRemoveRule)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_rule_mode",
		Description: "Change the match mode and pattern of an existing rule.",
	}, s.handleSetRuleMode)
}

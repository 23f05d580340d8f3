package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/runtimepath"
)

// DefaultTimeout bounds one request round trip.
const DefaultTimeout = 5 * time.Second

// ErrDaemon wraps errors reported by the daemon itself.
var ErrDaemon = errors.New("daemon error")

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for socketPath.
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultTimeout,
	}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("%w: %s", ErrDaemon, resp.Error)
	}
	return &resp, nil
}

// call sends command with payload and decodes the response data into out.
// A nil payload or out skips that step.
func (c *Client) call(command CommandType, payload, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload asks the daemon to re-read its configuration.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns the daemon's current discovery.
func (c *Client) ListWindows() ([]borderless.DiscoveredWindow, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// Apply makes the target borderless.
func (c *Client) Apply(target borderless.Target) (daemon.ActionResult, error) {
	return c.action(CommandApply, TargetPayload{Target: target})
}

// Restore returns the target to its windowed state.
func (c *Client) Restore(target borderless.Target) (daemon.ActionResult, error) {
	return c.action(CommandRestore, TargetPayload{Target: target})
}

// Toggle flips the target.
func (c *Client) Toggle(target borderless.Target) (daemon.ActionResult, error) {
	return c.action(CommandToggle, TargetPayload{Target: target})
}

// ToggleActive flips the foreground window.
func (c *Client) ToggleActive() (daemon.ActionResult, error) {
	return c.action(CommandToggle, TargetPayload{Active: true})
}

func (c *Client) action(command CommandType, payload TargetPayload) (daemon.ActionResult, error) {
	var res daemon.ActionResult
	err := c.call(command, payload, &res)
	return res, err
}

// Reconcile runs one reconcile pass in the daemon.
func (c *Client) Reconcile() (borderless.ReconcileResult, error) {
	var res borderless.ReconcileResult
	err := c.call(CommandReconcile, nil, &res)
	return res, err
}

// Rules lists the daemon's match rules.
func (c *Client) Rules() ([]borderless.MatchRule, error) {
	var data RulesData
	if err := c.call(CommandListRules, nil, &data); err != nil {
		return nil, err
	}
	return data.Rules, nil
}

// AddRule appends a rule and returns its index.
func (c *Client) AddRule(pattern string, mode borderless.MatchMode) (int, error) {
	var data AddRuleData
	if err := c.call(CommandAddRule, AddRulePayload{Pattern: pattern, Mode: mode}, &data); err != nil {
		return -1, err
	}
	return data.Index, nil
}

// RemoveRule deletes the rule at index.
func (c *Client) RemoveRule(index int) (borderless.MatchRule, error) {
	var data RemoveRuleData
	err := c.call(CommandRemoveRule, RemoveRulePayload{Index: index}, &data)
	return data.Rule, err
}

// SetRuleMode changes the mode and pattern of the rule at index.
func (c *Client) SetRuleMode(index int, mode borderless.MatchMode, pattern string) error {
	return c.call(CommandSetRuleMode, SetRuleModePayload{Index: index, Mode: mode, Pattern: pattern}, nil)
}

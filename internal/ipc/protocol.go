package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandApply       CommandType = "APPLY"
	CommandRestore     CommandType = "RESTORE"
	CommandToggle      CommandType = "TOGGLE"
	CommandReconcile   CommandType = "RECONCILE"
	CommandListRules   CommandType = "LIST_RULES"
	CommandAddRule     CommandType = "ADD_RULE"
	CommandRemoveRule  CommandType = "REMOVE_RULE"
	CommandSetRuleMode CommandType = "SET_RULE_MODE"
)

// Response status values.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// TargetPayload is the payload of APPLY, RESTORE and TOGGLE. Active is only
// honoured by TOGGLE and selects the foreground window.
type TargetPayload struct {
	borderless.Target
	Active bool `json:"active,omitempty"`
}

type WindowsData struct {
	Windows []borderless.DiscoveredWindow `json:"windows"`
}

type RulesData struct {
	Rules []borderless.MatchRule `json:"rules"`
}

type AddRulePayload struct {
	Pattern string               `json:"pattern"`
	Mode    borderless.MatchMode `json:"mode"`
}

type AddRuleData struct {
	Index int `json:"index"`
}

type RemoveRulePayload struct {
	Index int `json:"index"`
}

type RemoveRuleData struct {
	Rule borderless.MatchRule `json:"rule"`
}

type SetRuleModePayload struct {
	Index   int                  `json:"index"`
	Mode    borderless.MatchMode `json:"mode"`
	Pattern string               `json:"pattern"`
}

// StatusData is returned by GET_STATUS.
type StatusData struct {
	daemon.Status
	DaemonRunning bool `json:"daemon_running"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

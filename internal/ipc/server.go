package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
)

// maxRequestSize bounds a single request line.
const maxRequestSize = 1 << 20

// probeTimeout bounds the dial that checks for a live daemon.
const probeTimeout = 500 * time.Millisecond

// ErrAlreadyRunning is returned by Start when a daemon answers on the socket.
var ErrAlreadyRunning = errors.New("a daemon is already listening on the socket")

// Controller is the daemon surface served over the socket.
type Controller interface {
	Status() daemon.Status
	ListWindows() ([]borderless.DiscoveredWindow, error)
	Apply(target borderless.Target) (daemon.ActionResult, error)
	Restore(target borderless.Target) (daemon.ActionResult, error)
	Toggle(target borderless.Target) (daemon.ActionResult, error)
	ToggleActive() (daemon.ActionResult, error)
	Reconcile() (borderless.ReconcileResult, error)
	Rules() []borderless.MatchRule
	AddRule(pattern string, mode borderless.MatchMode) (int, error)
	RemoveRule(index int) (borderless.MatchRule, error)
	SetRuleMode(index int, mode borderless.MatchMode, pattern string) error
}

var _ Controller = (*daemon.Service)(nil)

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	ctrl       Controller
	reload     func() error
	logger     *slog.Logger

	listener     net.Listener
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a server for socketPath. reload is called for RELOAD and
// may be nil.
func NewServer(socketPath string, ctrl Controller, reload func() error, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		reload:     reload,
		logger:     logger,
	}
}

func (s *Server) String() string {
	return "ipc-server"
}

// SocketInUse reports whether something accepts connections on socketPath.
func SocketInUse(socketPath string) bool {
	conn, err := net.DialTimeout("unix", socketPath, probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Start begins listening for IPC connections. A socket another daemon still
// serves is left alone.
func (s *Server) Start() error {
	if SocketInUse(s.socketPath) {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, s.socketPath)
	}
	// Remove a socket left behind by a previous run.
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(s.socketPath, 0600); err != nil {
			listener.Close()
			return fmt.Errorf("failed to set socket permissions: %w", err)
		}
	}

	s.shutdownMu.Lock()
	s.listener = listener
	s.shuttingDown = false
	s.shutdownMu.Unlock()

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop(listener)
	return nil
}

// Stop closes the listener and waits for in-flight requests.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	listener := s.listener
	s.listener = nil
	s.shutdownMu.Unlock()

	if listener == nil {
		return nil
	}
	err := listener.Close()
	s.conns.Wait()
	os.Remove(s.socketPath)
	return err
}

// Serve runs the server until ctx is cancelled. Finding another daemon on
// the socket stops the whole supervisor tree.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			return errors.Join(err, suture.ErrTerminateSupervisorTree)
		}
		return err
	}
	<-ctx.Done()
	if err := s.Stop(); err != nil {
		s.logger.Debug("IPC listener close", "error", err)
	}
	return ctx.Err()
}

func (s *Server) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one newline-terminated request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(io.LimitReader(conn, maxRequestSize))
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return ok(StatusData{Status: s.ctrl.Status(), DaemonRunning: true})
	case CommandListWindows:
		windows, err := s.ctrl.ListWindows()
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(WindowsData{Windows: windows})
	case CommandApply:
		return s.handleTarget(req.Payload, s.ctrl.Apply)
	case CommandRestore:
		return s.handleTarget(req.Payload, s.ctrl.Restore)
	case CommandToggle:
		return s.handleToggle(req.Payload)
	case CommandReconcile:
		res, err := s.ctrl.Reconcile()
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(res)
	case CommandListRules:
		return ok(RulesData{Rules: s.ctrl.Rules()})
	case CommandAddRule:
		return s.handleAddRule(req.Payload)
	case CommandRemoveRule:
		return s.handleRemoveRule(req.Payload)
	case CommandSetRuleMode:
		return s.handleSetRuleMode(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to reload config: %v", err))
	}
	s.logger.Info("config reloaded")
	return ok(nil)
}

func (s *Server) handleTarget(payload json.RawMessage, op func(borderless.Target) (daemon.ActionResult, error)) *Response {
	var p TargetPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	res, err := op(p.Target)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(res)
}

func (s *Server) handleToggle(payload json.RawMessage) *Response {
	var p TargetPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}

	var (
		res daemon.ActionResult
		err error
	)
	if p.Active {
		res, err = s.ctrl.ToggleActive()
	} else {
		res, err = s.ctrl.Toggle(p.Target)
	}
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(res)
}

func (s *Server) handleAddRule(payload json.RawMessage) *Response {
	var p AddRulePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	index, err := s.ctrl.AddRule(p.Pattern, p.Mode)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(AddRuleData{Index: index})
}

func (s *Server) handleRemoveRule(payload json.RawMessage) *Response {
	var p RemoveRulePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	removed, err := s.ctrl.RemoveRule(p.Index)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(RemoveRuleData{Rule: removed})
}

func (s *Server) handleSetRuleMode(payload json.RawMessage) *Response {
	var p SetRuleModePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.ctrl.SetRuleMode(p.Index, p.Mode, p.Pattern); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errors.New("missing payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

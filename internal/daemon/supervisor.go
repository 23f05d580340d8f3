package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// NewSupervisor returns a supervisor whose events are logged through logger.
func NewSupervisor(name string, logger *slog.Logger) *suture.Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return suture.New(name, suture.Spec{
		EventHook: EventHook(logger),
	})
}

// EventHook logs supervisor events.
func EventHook(logger *slog.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Info("service failed to terminate in a timely manner", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			logger.Warn("caught a service panic", "service", e.ServiceName, "panic", e.PanicMsg)
			logger.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			logger.Error("service failed", "error", e.Err, "supervisor", e.SupervisorName, "service", e.ServiceName)
			b, _ := json.Marshal(e)
			logger.Debug(string(b))
		case suture.EventBackoff:
			logger.Debug("too many service failures, entering backoff", "supervisor", e.SupervisorName)
		case suture.EventResume:
			logger.Debug("exiting backoff", "supervisor", e.SupervisorName)
		default:
			logger.Warn("unknown supervisor event", "type", int(e.Type()))
		}
	}
}

// Supervised is a unit run under a supervisor with a readable name.
type Supervised interface {
	String() string
	suture.Service
}

// Add registers service with super, keeping non-context errors from being
// read as a shutdown request.
func Add(super *suture.Supervisor, service Supervised) suture.ServiceToken {
	return super.Add(sanitizeService{Supervised: service})
}

type sanitizeService struct {
	Supervised
}

func (s sanitizeService) Serve(ctx context.Context) error {
	return SanitizeError(ctx, s.Supervised.Serve(ctx))
}

// SanitizeError returns a context error only when ctx is actually done.
// Suture stops restarting a service that returns a context error.
func SanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var errs []error
	if errors.Is(err, suture.ErrDoNotRestart) {
		errs = append(errs, suture.ErrDoNotRestart)
	}
	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		errs = append(errs, suture.ErrTerminateSupervisorTree)
	}
	errs = append(errs, errors.New(err.Error()))
	return errors.Join(errs...)
}

// ServiceFunc adapts a function into a Supervised.
type ServiceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewServiceFunc names fn for supervision.
func NewServiceFunc(name string, fn func(ctx context.Context) error) ServiceFunc {
	return ServiceFunc{name: name, fn: fn}
}

func (s ServiceFunc) String() string {
	return s.name
}

func (s ServiceFunc) Serve(ctx context.Context) error {
	return s.fn(ctx)
}

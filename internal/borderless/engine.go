package borderless

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/borderless/internal/platform"
)

// Geometry flag sets used by the transform.
const (
	applyGeometryFlags  = platform.GeometryFrameChanged | platform.GeometryShowWindow
	redrawGeometryFlags = platform.GeometryNoMove | platform.GeometryNoSize |
		platform.GeometryNoZOrder | platform.GeometryFrameChanged
)

// Options controls engine behaviour on partial failure and restore.
type Options struct {
	// RollbackOnGeometryFailure restores the captured chrome when the
	// monitor cannot be resolved or the reposition fails, leaving the window
	// untouched and untracked. When false the window is left stripped and
	// untracked.
	RollbackOnGeometryFailure bool
	// ValidateBeforeRestore drops a snapshot whose window is gone or whose
	// handle now belongs to another process instead of writing to it.
	ValidateBeforeRestore bool
}

// DefaultOptions returns the options used by the daemon.
func DefaultOptions() Options {
	return Options{
		RollbackOnGeometryFailure: true,
		ValidateBeforeRestore:     true,
	}
}

// ReconcileResult summarises one reconciliation pass.
type ReconcileResult struct {
	Applied []platform.WindowID `json:"applied" yaml:"applied"`
	Matched int                 `json:"matched" yaml:"matched"`
	Reset   int                 `json:"reset" yaml:"reset"`
}

// Engine performs the chrome and placement transforms. Engine failures are
// logged and reported as false; they never surface as errors.
type Engine struct {
	backend platform.Backend
	opts    Options
	logger  *slog.Logger
}

// NewEngine creates an engine over backend. A nil logger discards output.
func NewEngine(backend platform.Backend, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{backend: backend, opts: opts, logger: logger}
}

// SetOptions replaces the engine options.
func (e *Engine) SetOptions(opts Options) {
	e.opts = opts
}

// ApplyBorderless makes id borderless fullscreen and records its snapshot in
// the manual table. It is a no-op for a window that already has a snapshot.
func (e *Engine) ApplyBorderless(store *Store, id platform.WindowID) bool {
	if store.Captured(id) {
		e.logger.Debug("apply skipped, window already borderless", "window", id)
		return false
	}

	saved, ok := e.apply(id)
	if !ok {
		return false
	}
	store.tracked[id] = saved
	return true
}

// RestoreWindowed writes back the snapshot held for id and forgets it.
// Without a snapshot the call does nothing.
func (e *Engine) RestoreWindowed(store *Store, id platform.WindowID) bool {
	if saved, ok := store.tracked[id]; ok {
		delete(store.tracked, id)
		return e.restore(saved)
	}

	if r := store.ruleHolding(id); r != nil {
		saved := *r.Saved
		r.Fullscreen = false
		r.Suspended = id
		return e.restore(saved)
	}

	e.logger.Debug("restore skipped, window not borderless", "window", id)
	return false
}

// Toggle restores a borderless window and applies otherwise.
func (e *Engine) Toggle(store *Store, id platform.WindowID) bool {
	if store.Captured(id) {
		return e.RestoreWindowed(store, id)
	}
	return e.ApplyBorderless(store, id)
}

// Reconcile drives every rule toward its desired state against windows.
// Running it again with the same windows changes nothing.
func (e *Engine) Reconcile(store *Store, windows []DiscoveredWindow) ReconcileResult {
	var result ReconcileResult

	for _, r := range store.rules {
		w, found := FindFirst(windows, r.Mode, r.Pattern)
		if !found {
			if r.Fullscreen {
				result.Reset++
			}
			r.Fullscreen = false
			r.Suspended = 0
			continue
		}
		result.Matched++

		if r.Suspended == w.ID {
			continue
		}
		r.Suspended = 0

		if r.Fullscreen {
			if r.holds(w.ID) || (r.Saved != nil && e.alive(*r.Saved)) {
				continue
			}
			// The window this rule transformed is gone and another one
			// matches now.
			r.Fullscreen = false
		}

		if store.Captured(w.ID) {
			continue
		}

		saved, ok := e.apply(w.ID)
		if !ok {
			continue
		}
		r.Saved = &saved
		r.Fullscreen = true
		result.Applied = append(result.Applied, w.ID)
	}

	return result
}

// RemoveRule deletes a rule. A window the rule keeps borderless is restored
// first.
func (e *Engine) RemoveRule(store *Store, index int) (MatchRule, error) {
	r, err := store.rule(index)
	if err != nil {
		return MatchRule{}, err
	}
	removed := *r

	if r.Fullscreen && r.Saved != nil {
		e.restore(*r.Saved)
		removed.Fullscreen = false
	}
	store.deleteRule(index)
	return removed, nil
}

// SetRuleMode switches a rule between title and image-name matching. A
// window the rule keeps borderless is restored first, so the snapshot is
// never orphaned on a live window. The next reconcile applies the edited
// rule from a fresh capture.
func (e *Engine) SetRuleMode(store *Store, index int, mode MatchMode, pattern string) error {
	r, err := store.checkEdit(index, mode, pattern)
	if err != nil {
		return err
	}
	if r.Mode == mode && r.Pattern == pattern {
		return nil
	}

	if r.Fullscreen && r.Saved != nil {
		e.restore(*r.Saved)
	}
	r.Fullscreen = false
	r.Suspended = 0
	r.Mode = mode
	r.Pattern = pattern
	return nil
}

// Prune drops manual entries whose window is gone and releases rules whose
// window is gone. It returns the number of manual entries removed.
func (e *Engine) Prune(store *Store) int {
	removed := 0
	for id, saved := range store.tracked {
		if e.alive(saved) {
			continue
		}
		delete(store.tracked, id)
		removed++
		e.logger.Debug("dropped snapshot of closed window", "window", id)
	}

	for _, r := range store.rules {
		if r.Fullscreen && r.Saved != nil && !e.alive(*r.Saved) {
			r.Fullscreen = false
		}
	}
	return removed
}

// apply captures the window state and transforms it. The snapshot is
// returned only when the whole transform succeeded.
func (e *Engine) apply(id platform.WindowID) (SavedState, bool) {
	saved, err := e.capture(id)
	if err != nil {
		e.logger.Debug("apply aborted, capture failed", "window", id, "error", err)
		return SavedState{}, false
	}

	stripped := saved.Chrome.Stripped()
	if err := e.backend.SetStyle(id, stripped.Style); err != nil {
		e.logger.Debug("apply aborted, set style failed", "window", id, "error", err)
		return SavedState{}, false
	}
	if err := e.backend.SetExtendedStyle(id, stripped.ExStyle); err != nil {
		e.logger.Debug("apply aborted, set extended style failed", "window", id, "error", err)
		e.rollback(saved)
		return SavedState{}, false
	}

	bounds, err := e.backend.MonitorBounds(id)
	if err != nil {
		e.logger.Warn("monitor bounds unavailable", "window", id, "error", err)
		if e.opts.RollbackOnGeometryFailure {
			e.rollback(saved)
		}
		return SavedState{}, false
	}

	if err := e.backend.SetGeometry(id, platform.ZOrderTop, bounds, applyGeometryFlags); err != nil {
		e.logger.Warn("reposition failed", "window", id, "error", err)
		if e.opts.RollbackOnGeometryFailure {
			e.rollback(saved)
			return SavedState{}, false
		}
	}

	e.logger.Info("window made borderless", "window", id, "bounds", fmt.Sprintf("%dx%d+%d+%d", bounds.Width, bounds.Height, bounds.X, bounds.Y))
	return saved, true
}

func (e *Engine) capture(id platform.WindowID) (SavedState, error) {
	style, err := e.backend.Style(id)
	if err != nil {
		return SavedState{}, fmt.Errorf("read style: %w", err)
	}
	exStyle, err := e.backend.ExtendedStyle(id)
	if err != nil {
		return SavedState{}, fmt.Errorf("read extended style: %w", err)
	}
	placement, err := e.backend.Placement(id)
	if err != nil {
		return SavedState{}, fmt.Errorf("read placement: %w", err)
	}
	pid, err := e.backend.ProcessID(id)
	if err != nil {
		return SavedState{}, fmt.Errorf("read process id: %w", err)
	}

	return SavedState{
		Window:    id,
		ProcessID: pid,
		Chrome:    platform.Chrome{Style: style, ExStyle: exStyle},
		Placement: placement,
	}, nil
}

func (e *Engine) rollback(saved SavedState) {
	id := saved.Window
	if err := e.backend.SetStyle(id, saved.Chrome.Style); err != nil {
		e.logger.Debug("rollback style failed", "window", id, "error", err)
	}
	if err := e.backend.SetExtendedStyle(id, saved.Chrome.ExStyle); err != nil {
		e.logger.Debug("rollback extended style failed", "window", id, "error", err)
	}
	if err := e.backend.SetGeometry(id, platform.ZOrderTop, platform.Rect{}, redrawGeometryFlags); err != nil {
		e.logger.Debug("rollback redraw failed", "window", id, "error", err)
	}
}

// restore writes a snapshot back verbatim. The placement is set before the
// redraw so the window reappears at its old rectangle, and a window saved
// minimized ends minimized.
func (e *Engine) restore(saved SavedState) bool {
	id := saved.Window
	if e.opts.ValidateBeforeRestore && !e.alive(saved) {
		e.logger.Info("snapshot dropped, window closed or handle reused", "window", id)
		return false
	}

	if err := e.backend.SetStyle(id, saved.Chrome.Style); err != nil {
		e.logger.Debug("restore style failed", "window", id, "error", err)
	}
	if err := e.backend.SetExtendedStyle(id, saved.Chrome.ExStyle); err != nil {
		e.logger.Debug("restore extended style failed", "window", id, "error", err)
	}
	if err := e.backend.SetPlacement(id, saved.Placement); err != nil {
		e.logger.Debug("restore placement failed", "window", id, "error", err)
	}
	if err := e.backend.SetGeometry(id, platform.ZOrderTop, platform.Rect{}, redrawGeometryFlags); err != nil {
		e.logger.Debug("restore redraw failed", "window", id, "error", err)
	}
	if saved.Placement.ShowCommand.IsMinimized() {
		if err := e.backend.SetShowState(id, platform.ShowMinimized); err != nil {
			e.logger.Debug("restore minimize failed", "window", id, "error", err)
		}
	}

	e.logger.Info("window restored", "window", id)
	return true
}

// alive reports whether the snapshot's handle still names the same window.
func (e *Engine) alive(saved SavedState) bool {
	if !e.backend.IsWindow(saved.Window) {
		return false
	}
	if saved.ProcessID == 0 {
		return true
	}
	pid, err := e.backend.ProcessID(saved.Window)
	return err == nil && pid == saved.ProcessID
}

package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/config"
	"github.com/1broseidon/borderless/internal/platform"
)

// ErrNoActiveWindow is returned by ToggleActive when the backend cannot
// report a foreground window.
var ErrNoActiveWindow = errors.New("active window unavailable")

// Status describes the daemon state.
type Status struct {
	// Instance changes every time the daemon starts.
	Instance        string                  `json:"instance" yaml:"instance"`
	UptimeSeconds   int64                   `json:"uptime_seconds" yaml:"uptime_seconds"`
	RefreshInterval int                     `json:"refresh_interval" yaml:"refresh_interval"`
	Tracked         []borderless.SavedState `json:"tracked" yaml:"tracked"`
	// Held lists the snapshots of windows kept borderless by a rule.
	Held            []borderless.SavedState `json:"held" yaml:"held"`
	RuleCount       int                     `json:"rule_count" yaml:"rule_count"`
	FullscreenRules int                     `json:"fullscreen_rules" yaml:"fullscreen_rules"`
	LastReconcile   *time.Time              `json:"last_reconcile,omitempty" yaml:"last_reconcile,omitempty"`
}

// ActionResult reports what an apply, restore or toggle did.
type ActionResult struct {
	Window  platform.WindowID `json:"window" yaml:"window"`
	Changed bool              `json:"changed" yaml:"changed"`
	// Borderless is the window's state after the call.
	Borderless bool `json:"borderless" yaml:"borderless"`
}

// Service owns the engine and its store. Every entry point holds one mutex,
// so the engine only ever runs on one logical thread no matter whether the
// call came from IPC, the refresh loop or a hotkey.
type Service struct {
	mu       sync.Mutex
	backend  platform.Backend
	resolver platform.ProcessResolver
	engine   *borderless.Engine
	store    *borderless.Store
	discover borderless.DiscoverOptions
	prune    bool
	interval int
	logger   *slog.Logger

	instance      string
	started       time.Time
	lastReconcile time.Time
}

// NewService creates a service configured from cfg.
func NewService(backend platform.Backend, resolver platform.ProcessResolver, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		backend:  backend,
		resolver: resolver,
		store:    borderless.NewStore(),
		logger:   logger,
		instance: uuid.NewString(),
		started:  time.Now(),
	}
	s.engine = borderless.NewEngine(backend, borderless.DefaultOptions(), logger)
	s.applyConfigLocked(cfg)
	return s
}

// ApplyConfig updates discovery filters and engine options. Tracked windows
// and rules are kept.
func (s *Service) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyConfigLocked(cfg)
}

func (s *Service) applyConfigLocked(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s.discover = borderless.DiscoverOptions{
		MinTitleLength:      cfg.MinTitleLength,
		HelperTitlePrefixes: append([]string(nil), cfg.HelperTitlePrefixes...),
	}
	s.engine.SetOptions(borderless.Options{
		RollbackOnGeometryFailure: cfg.RollbackOnGeometryFailure,
		ValidateBeforeRestore:     cfg.ValidateBeforeRestore,
	})
	s.prune = cfg.PruneStaleEntries
	s.interval = cfg.RefreshInterval
}

// ListWindows runs a fresh discovery.
func (s *Service) ListWindows() ([]borderless.DiscoveredWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return borderless.Discover(s.backend, s.resolver, s.discover)
}

// Apply makes the target borderless.
func (s *Service) Apply(target borderless.Target) (ActionResult, error) {
	return s.act(target, s.engine.ApplyBorderless)
}

// Restore returns the target to its saved windowed state.
func (s *Service) Restore(target borderless.Target) (ActionResult, error) {
	return s.act(target, s.engine.RestoreWindowed)
}

// Toggle flips the target between windowed and borderless.
func (s *Service) Toggle(target borderless.Target) (ActionResult, error) {
	return s.act(target, s.engine.Toggle)
}

// ToggleActive toggles the foreground window.
func (s *Service) ToggleActive() (ActionResult, error) {
	src, ok := s.backend.(platform.ActiveWindowSource)
	if !ok {
		return ActionResult{}, ErrNoActiveWindow
	}
	id, err := src.ActiveWindow()
	if err != nil || id == 0 {
		return ActionResult{}, fmt.Errorf("%w: %v", ErrNoActiveWindow, err)
	}
	return s.Toggle(borderless.Target{ID: id})
}

func (s *Service) act(target borderless.Target, op func(*borderless.Store, platform.WindowID) bool) (ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var windows []borderless.DiscoveredWindow
	if target.ID == 0 {
		var err error
		windows, err = borderless.Discover(s.backend, s.resolver, s.discover)
		if err != nil {
			return ActionResult{}, err
		}
	}

	id, err := target.Resolve(windows)
	if err != nil {
		return ActionResult{}, err
	}

	changed := op(s.store, id)
	return ActionResult{Window: id, Changed: changed, Borderless: s.store.Captured(id)}, nil
}

// Reconcile discovers windows, optionally prunes stale snapshots and drives
// every rule toward its desired state.
func (s *Service) Reconcile() (borderless.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows, err := borderless.Discover(s.backend, s.resolver, s.discover)
	if err != nil {
		return borderless.ReconcileResult{}, err
	}
	if s.prune {
		if n := s.engine.Prune(s.store); n > 0 {
			s.logger.Info("pruned snapshots of closed windows", "count", n)
		}
	}

	res := s.engine.Reconcile(s.store, windows)
	s.lastReconcile = time.Now()
	return res, nil
}

// Rules returns the rule list in evaluation order.
func (s *Service) Rules() []borderless.MatchRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Rules()
}

// AddRule appends a rule. The next reconcile applies it.
func (s *Service) AddRule(pattern string, mode borderless.MatchMode) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, err := s.store.AddRule(pattern, mode)
	if err == nil {
		s.logger.Info("rule added", "index", index, "mode", mode, "pattern", pattern)
	}
	return index, err
}

// RemoveRule deletes a rule, restoring the window it holds.
func (s *Service) RemoveRule(index int) (borderless.MatchRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.engine.RemoveRule(s.store, index)
	if err == nil {
		s.logger.Info("rule removed", "index", index, "pattern", removed.Pattern)
	}
	return removed, err
}

// SetRuleMode changes how a rule matches, restoring the window it holds.
func (s *Service) SetRuleMode(index int, mode borderless.MatchMode, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.engine.SetRuleMode(s.store, index, mode, pattern)
	if err == nil {
		s.logger.Info("rule changed", "index", index, "mode", mode, "pattern", pattern)
	}
	return err
}

// RestoreAll restores every window the daemon made borderless, manual and
// rule-held alike. It returns how many were restored.
func (s *Service) RestoreAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []platform.WindowID
	for _, saved := range s.store.TrackedStates() {
		ids = append(ids, saved.Window)
	}
	for _, r := range s.store.Rules() {
		if r.Fullscreen && r.Saved != nil {
			ids = append(ids, r.Saved.Window)
		}
	}

	restored := 0
	for _, id := range ids {
		if s.engine.RestoreWindowed(s.store, id) {
			restored++
		}
	}
	return restored
}

// Status reports uptime and the tracked windows.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Instance:        s.instance,
		UptimeSeconds:   int64(time.Since(s.started).Seconds()),
		RefreshInterval: s.interval,
		Tracked:         s.store.TrackedStates(),
		Held:            []borderless.SavedState{},
	}
	for _, r := range s.store.Rules() {
		st.RuleCount++
		if r.Fullscreen {
			st.FullscreenRules++
			if r.Saved != nil {
				st.Held = append(st.Held, *r.Saved)
			}
		}
	}
	if !s.lastReconcile.IsZero() {
		t := s.lastReconcile
		st.LastReconcile = &t
	}
	return st
}

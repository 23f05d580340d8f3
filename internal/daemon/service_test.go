package daemon

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/config"
	"github.com/1broseidon/borderless/internal/platform"
	"github.com/1broseidon/borderless/internal/platform/platformtest"
)

var primary = platform.Rect{Width: 1920, Height: 1080}

func newWindow(id platform.WindowID, title string, pid uint32) platformtest.Window {
	mon := primary
	return platformtest.Window{
		ID:     id,
		Title:  title,
		PID:    pid,
		Chrome: platform.Chrome{Style: 0x14CF0000, ExStyle: 0x100},
		Placement: platform.Placement{
			ShowCommand: platform.ShowNormal,
			NormalRect:  platform.Rect{X: 10, Y: 10, Width: 640, Height: 480},
		},
		Bounds:  platform.Rect{X: 10, Y: 10, Width: 640, Height: 480},
		Monitor: &mon,
	}
}

func newTestService(t *testing.T) (*Service, *platformtest.Backend) {
	t.Helper()
	b := platformtest.New()
	b.Add(newWindow(0x10, "Alpha Game", 100))
	b.Add(newWindow(0x20, "Editor", 200))
	names := platformtest.ImageNames{100: "alpha.exe", 200: "editor.exe"}
	return NewService(b, names, config.DefaultConfig(), nil), b
}

func TestService_ApplyRestoreByTitle(t *testing.T) {
	s, b := newTestService(t)

	res, err := s.Apply(borderless.Target{Title: "Alpha Game"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Window != 0x10 || !res.Changed || !res.Borderless {
		t.Errorf("Apply() = %+v", res)
	}
	if w, _ := b.Window(0x10); w.Bounds != primary {
		t.Errorf("bounds = %+v, want monitor", w.Bounds)
	}

	res, err = s.Restore(borderless.Target{ID: 0x10})
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !res.Changed || res.Borderless {
		t.Errorf("Restore() = %+v", res)
	}
	if w, _ := b.Window(0x10); w.Chrome.Style != 0x14CF0000 {
		t.Errorf("style = %#x after restore", w.Chrome.Style)
	}
}

func TestService_TargetErrors(t *testing.T) {
	s, _ := newTestService(t)

	if _, err := s.Apply(borderless.Target{}); !errors.Is(err, borderless.ErrNoTarget) {
		t.Errorf("empty target error = %v", err)
	}
	if _, err := s.Apply(borderless.Target{ImageName: "missing.exe"}); !errors.Is(err, borderless.ErrTargetNotFound) {
		t.Errorf("unknown exe error = %v", err)
	}
	if _, err := s.Apply(borderless.Target{Title: "alpha game"}); !errors.Is(err, borderless.ErrTargetNotFound) {
		t.Errorf("title match should be case sensitive, got %v", err)
	}
}

func TestService_ToggleActive(t *testing.T) {
	s, b := newTestService(t)

	if _, err := s.ToggleActive(); !errors.Is(err, ErrNoActiveWindow) {
		t.Fatalf("ToggleActive() without focus error = %v", err)
	}

	b.SetActive(0x20)
	res, err := s.ToggleActive()
	if err != nil {
		t.Fatalf("ToggleActive() error = %v", err)
	}
	if res.Window != 0x20 || !res.Borderless {
		t.Errorf("first toggle = %+v", res)
	}
	res, _ = s.ToggleActive()
	if res.Borderless {
		t.Errorf("second toggle = %+v, want windowed", res)
	}
}

func TestService_RulesAndReconcile(t *testing.T) {
	s, b := newTestService(t)

	if _, err := s.AddRule("editor.exe", borderless.MatchImageName); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if _, err := s.AddRule("editor.exe", borderless.MatchImageName); !errors.Is(err, borderless.ErrDuplicateRule) {
		t.Errorf("duplicate AddRule() error = %v", err)
	}

	res, err := s.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0] != 0x20 || res.Matched != 1 {
		t.Errorf("Reconcile() = %+v", res)
	}

	st := s.Status()
	if st.RuleCount != 1 || st.FullscreenRules != 1 || len(st.Tracked) != 0 {
		t.Errorf("Status() = %+v", st)
	}
	if len(st.Held) != 1 || st.Held[0].Window != 0x20 {
		t.Errorf("Status().Held = %+v, want the rule's window", st.Held)
	}
	if st.LastReconcile == nil {
		t.Error("LastReconcile not set")
	}
	if st.Instance == "" {
		t.Error("Instance not set")
	}

	if _, err := s.RemoveRule(0); err != nil {
		t.Fatalf("RemoveRule() error = %v", err)
	}
	if w, _ := b.Window(0x20); w.Chrome.Style != 0x14CF0000 {
		t.Errorf("removing the rule did not restore the window: %#x", w.Chrome.Style)
	}
	if len(s.Rules()) != 0 {
		t.Errorf("Rules() = %v", s.Rules())
	}
}

func TestService_SetRuleMode(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.AddRule("Editor", borderless.MatchTitle); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRuleMode(0, borderless.MatchImageName, "alpha.exe"); err != nil {
		t.Fatalf("SetRuleMode() error = %v", err)
	}
	rules := s.Rules()
	if rules[0].Mode != borderless.MatchImageName || rules[0].Pattern != "alpha.exe" {
		t.Errorf("rule = %+v", rules[0])
	}
	if err := s.SetRuleMode(4, borderless.MatchTitle, "x"); !errors.Is(err, borderless.ErrRuleNotFound) {
		t.Errorf("SetRuleMode(4) error = %v", err)
	}
}

func TestService_ReconcilePrunesClosedWindows(t *testing.T) {
	s, b := newTestService(t)
	if _, err := s.Apply(borderless.Target{ID: 0x10}); err != nil {
		t.Fatal(err)
	}
	b.Remove(0x10)

	if _, err := s.Reconcile(); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Status().Tracked); n != 0 {
		t.Errorf("tracked = %d after prune, want 0", n)
	}

	cfg := config.DefaultConfig()
	cfg.PruneStaleEntries = false
	s.ApplyConfig(cfg)
	b.Add(newWindow(0x30, "Third", 300))
	if _, err := s.Apply(borderless.Target{ID: 0x30}); err != nil {
		t.Fatal(err)
	}
	b.Remove(0x30)
	if _, err := s.Reconcile(); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Status().Tracked); n != 1 {
		t.Errorf("tracked = %d with pruning disabled, want 1", n)
	}
}

func TestService_ListWindowsUsesConfig(t *testing.T) {
	s, b := newTestService(t)
	b.Add(newWindow(0x40, "Default IME", 400))

	windows, err := s.ListWindows()
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 2 {
		t.Fatalf("ListWindows() = %v", windows)
	}
	if windows[0].Title != "Alpha Game" || windows[0].ImageName != "alpha.exe" {
		t.Errorf("first window = %+v", windows[0])
	}

	cfg := config.DefaultConfig()
	cfg.HelperTitlePrefixes = nil
	s.ApplyConfig(cfg)
	windows, _ = s.ListWindows()
	if len(windows) != 3 {
		t.Errorf("with no helper prefixes got %d windows, want 3", len(windows))
	}
}

func TestReconciler_RecoversPanic(t *testing.T) {
	var calls atomic.Int32
	r := NewReconciler(time.Millisecond, func() (borderless.ReconcileResult, error) {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return borderless.ReconcileResult{}, nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("reconciler stopped after panic")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestReconciler_ZeroIntervalWaits(t *testing.T) {
	r := NewReconciler(0, func() (borderless.ReconcileResult, error) {
		t.Error("reconcile called with interval 0")
		return borderless.ReconcileResult{}, nil
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v", err)
	}
}

func TestSanitizeError(t *testing.T) {
	ctx := context.Background()
	if err := SanitizeError(ctx, nil); err != nil {
		t.Errorf("nil error became %v", err)
	}

	plain := errors.New("listen failed")
	if err := SanitizeError(ctx, plain); err != plain {
		t.Errorf("plain error = %v", err)
	}

	err := SanitizeError(ctx, context.Canceled)
	if errors.Is(err, context.Canceled) {
		t.Error("context error leaked through a live context")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := SanitizeError(cancelled, plain); !errors.Is(err, context.Canceled) {
		t.Errorf("done context error = %v", err)
	}
}

func TestService_RestoreAll(t *testing.T) {
	s, b := newTestService(t)
	if _, err := s.Apply(borderless.Target{ID: 0x10}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddRule("Editor", borderless.MatchTitle); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Reconcile(); err != nil {
		t.Fatal(err)
	}

	if n := s.RestoreAll(); n != 2 {
		t.Errorf("RestoreAll() = %d, want 2", n)
	}
	for _, id := range []platform.WindowID{0x10, 0x20} {
		if w, _ := b.Window(id); w.Chrome.Style != 0x14CF0000 {
			t.Errorf("window %#x style = %#x after RestoreAll", id, w.Chrome.Style)
		}
	}
	if st := s.Status(); len(st.Tracked) != 0 || len(st.Held) != 0 || st.FullscreenRules != 0 {
		t.Errorf("Status() after RestoreAll = %+v", st)
	}
}

func TestReconciler_SetIntervalStartsPausedLoop(t *testing.T) {
	var calls atomic.Int32
	r := NewReconciler(0, func() (borderless.ReconcileResult, error) {
		calls.Add(1)
		return borderless.ReconcileResult{}, nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	r.SetInterval(time.Millisecond)
	if r.Interval() != time.Millisecond {
		t.Errorf("Interval() = %v", r.Interval())
	}

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("loop did not start after SetInterval")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}

var _ Supervised = (*Reconciler)(nil)

func TestAdd_RunsSupervisedService(t *testing.T) {
	super := NewSupervisor("test", nil)
	ran := make(chan struct{})
	Add(super, NewServiceFunc("once", func(ctx context.Context) error {
		close(ran)
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errC := super.ServeBackground(ctx)
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("supervised service never ran")
	}
	cancel()
	if err := <-errC; err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("supervisor stopped with %v", err)
	}
}

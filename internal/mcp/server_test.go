package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/config"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/ipc"
	"github.com/1broseidon/borderless/internal/platform"
	"github.com/1broseidon/borderless/internal/platform/platformtest"
)

// localDaemon adapts a daemon.Service to the Daemon interface without a socket.
type localDaemon struct {
	*daemon.Service
}

func (d localDaemon) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Status: d.Status(), DaemonRunning: true}, nil
}

func (d localDaemon) Rules() ([]borderless.MatchRule, error) {
	return d.Service.Rules(), nil
}

func newTestServer(t *testing.T) (*Server, *platformtest.Backend) {
	t.Helper()
	mon := platform.Rect{Width: 1920, Height: 1080}
	b := platformtest.New()
	for _, w := range []struct {
		id    platform.WindowID
		title string
		pid   uint32
	}{
		{0x100, "Racing Sim", 11},
		{0x200, "Terminal", 22},
	} {
		b.Add(platformtest.Window{
			ID:     w.id,
			Title:  w.title,
			PID:    w.pid,
			Chrome: platform.Chrome{Style: 0x14CF0000},
			Placement: platform.Placement{
				ShowCommand: platform.ShowNormal,
				NormalRect:  platform.Rect{X: 20, Y: 20, Width: 800, Height: 600},
			},
			Bounds:  platform.Rect{X: 20, Y: 20, Width: 800, Height: 600},
			Monitor: &mon,
		})
	}
	svc := daemon.NewService(b, platformtest.ImageNames{11: "racer.exe", 22: "term"}, config.DefaultConfig(), nil)
	return NewServer(localDaemon{svc}, nil), b
}

func TestHandleListWindows(t *testing.T) {
	s, _ := newTestServer(t)
	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("handleListWindows() error = %v", err)
	}
	if len(out.Windows) != 2 || out.Windows[0].Title != "Racing Sim" {
		t.Errorf("windows = %+v", out.Windows)
	}
}

func TestHandleApplyRestore(t *testing.T) {
	s, b := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleApply(ctx, nil, TargetInput{ImageName: "racer.exe"})
	if err != nil {
		t.Fatalf("handleApply() error = %v", err)
	}
	if out.Window != 0x100 || !out.Borderless || !out.Changed {
		t.Errorf("apply output = %+v", out)
	}

	_, out, err = s.handleApply(ctx, nil, TargetInput{ID: 0x100})
	if err != nil {
		t.Fatal(err)
	}
	if out.Changed {
		t.Error("second apply reported a change")
	}

	_, out, err = s.handleRestore(ctx, nil, TargetInput{Title: "Racing Sim"})
	if err != nil {
		t.Fatalf("handleRestore() error = %v", err)
	}
	if out.Borderless || !out.Changed {
		t.Errorf("restore output = %+v", out)
	}
	if w, _ := b.Window(0x100); w.Bounds.Width != 800 {
		t.Errorf("bounds after restore = %+v", w.Bounds)
	}

	if _, _, err := s.handleToggle(ctx, nil, TargetInput{}); !errors.Is(err, borderless.ErrNoTarget) {
		t.Errorf("empty toggle error = %v", err)
	}
}

func TestHandleRules(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleAddRule(ctx, nil, AddRuleInput{Pattern: "term", Mode: "glob"}); !errors.Is(err, borderless.ErrUnknownMatchMode) {
		t.Errorf("bad mode error = %v", err)
	}
	if _, _, err := s.handleAddRule(ctx, nil, AddRuleInput{}); err == nil {
		t.Error("empty pattern accepted")
	}

	_, added, err := s.handleAddRule(ctx, nil, AddRuleInput{Pattern: "term", Mode: "exe"})
	if err != nil || added.Index != 0 {
		t.Fatalf("handleAddRule() = %+v, %v", added, err)
	}

	_, rec, err := s.handleReconcile(ctx, nil, ReconcileInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Applied) != 1 || rec.Applied[0] != 0x200 {
		t.Errorf("reconcile = %+v", rec)
	}

	_, list, err := s.handleListRules(ctx, nil, ListRulesInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Rules) != 1 || !list.Rules[0].Fullscreen || list.Rules[0].Window != 0x200 || list.Rules[0].Mode != "exe" {
		t.Errorf("rules = %+v", list.Rules)
	}

	_, st, err := s.handleGetStatus(ctx, nil, StatusInput{})
	if err != nil {
		t.Fatal(err)
	}
	if st.RuleCount != 1 || st.FullscreenRules != 1 {
		t.Errorf("status = %+v", st)
	}

	_, removed, err := s.handleRemoveRule(ctx, nil, RemoveRuleInput{Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if !removed.Restored || removed.Removed.Pattern != "term" {
		t.Errorf("remove output = %+v", removed)
	}
}

func TestHandleSetRuleMode(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleAddRule(ctx, nil, AddRuleInput{Pattern: "Terminal"}); err != nil {
		t.Fatal(err)
	}
	_, out, err := s.handleSetRuleMode(ctx, nil, SetRuleModeInput{Index: 0, Mode: "exe", Pattern: "term"})
	if err != nil {
		t.Fatalf("handleSetRuleMode() error = %v", err)
	}
	if out.Rule.Mode != "exe" || out.Rule.Pattern != "term" {
		t.Errorf("rule = %+v", out.Rule)
	}

	if _, _, err := s.handleSetRuleMode(ctx, nil, SetRuleModeInput{Index: 5, Mode: "title", Pattern: "x"}); !errors.Is(err, borderless.ErrRuleNotFound) {
		t.Errorf("out of range error = %v", err)
	}
}

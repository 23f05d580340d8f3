package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/config"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/platform"
	"github.com/1broseidon/borderless/internal/platform/platformtest"
)

func newTestServer(t *testing.T) (*Server, *daemon.Service) {
	t.Helper()
	mon := platform.Rect{Width: 1920, Height: 1080}
	b := platformtest.New()
	b.Add(platformtest.Window{
		ID:     0x42,
		Title:  "Space Game",
		PID:    7,
		Chrome: platform.Chrome{Style: 0x14CF0000, ExStyle: 0x100},
		Placement: platform.Placement{
			ShowCommand: platform.ShowNormal,
			NormalRect:  platform.Rect{X: 50, Y: 50, Width: 1280, Height: 720},
		},
		Bounds:  platform.Rect{X: 50, Y: 50, Width: 1280, Height: 720},
		Monitor: &mon,
	})
	svc := daemon.NewService(b, platformtest.ImageNames{7: "space.exe"}, config.DefaultConfig(), nil)
	return NewServer("127.0.0.1:0", svc, "test", nil), svc
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestWindowsAndActions(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/windows", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /windows = %d %s", rec.Code, rec.Body)
	}
	windows := decode[[]borderless.DiscoveredWindow](t, rec)
	if len(windows) != 1 || windows[0].ImageName != "space.exe" {
		t.Fatalf("windows = %+v", windows)
	}

	rec = do(t, srv, http.MethodPost, "/windows/apply", map[string]any{"title": "Space Game"})
	if rec.Code != http.StatusOK {
		t.Fatalf("apply = %d %s", rec.Code, rec.Body)
	}
	res := decode[daemon.ActionResult](t, rec)
	if !res.Changed || !res.Borderless || res.Window != 0x42 {
		t.Errorf("apply result = %+v", res)
	}

	status := decode[daemon.Status](t, do(t, srv, http.MethodGet, "/status", nil))
	if len(status.Tracked) != 1 {
		t.Errorf("status tracked = %+v", status.Tracked)
	}

	rec = do(t, srv, http.MethodPost, "/windows/restore", map[string]any{"id": 0x42})
	if res := decode[daemon.ActionResult](t, rec); !res.Changed || res.Borderless {
		t.Errorf("restore result = %+v", res)
	}
}

func TestActionErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"empty target", map[string]any{}, http.StatusBadRequest},
		{"unknown title", map[string]any{"title": "Nope"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/windows/toggle", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
		})
	}

	rec := do(t, srv, http.MethodPost, "/windows/active/toggle", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("toggle active = %d, want 503", rec.Code)
	}
}

func TestRules(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/rules", map[string]any{"pattern": "space.exe", "mode": "exe"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add rule = %d %s", rec.Code, rec.Body)
	}

	rec = do(t, srv, http.MethodPost, "/rules", map[string]any{"pattern": "space.exe", "mode": "exe"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate rule = %d, want 409", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/rules", map[string]any{"pattern": "x", "mode": "regex"})
	if rec.Code != http.StatusUnprocessableEntity && rec.Code != http.StatusBadRequest {
		t.Errorf("bad mode = %d, want a client error", rec.Code)
	}

	res := decode[borderless.ReconcileResult](t, do(t, srv, http.MethodPost, "/reconcile", nil))
	if len(res.Applied) != 1 || res.Applied[0] != 0x42 {
		t.Errorf("reconcile = %+v", res)
	}

	rules := decode[[]borderless.MatchRule](t, do(t, srv, http.MethodGet, "/rules", nil))
	if len(rules) != 1 || !rules[0].Fullscreen || rules[0].Mode != borderless.MatchImageName {
		t.Fatalf("rules = %+v", rules)
	}

	rec = do(t, srv, http.MethodPut, "/rules/0", map[string]any{"pattern": "Space Game", "mode": "title"})
	if rec.Code != http.StatusNoContent {
		t.Errorf("update rule = %d %s", rec.Code, rec.Body)
	}
	if r := svc.Rules()[0]; r.Mode != borderless.MatchTitle || r.Pattern != "Space Game" {
		t.Errorf("rule after update = %+v", r)
	}

	rec = do(t, srv, http.MethodDelete, "/rules/0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete rule = %d %s", rec.Code, rec.Body)
	}
	if len(svc.Rules()) != 0 {
		t.Error("rule not removed")
	}

	rec = do(t, srv, http.MethodDelete, "/rules/3", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing rule = %d, want 404", rec.Code)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/openapi.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /openapi.json = %d", rec.Code)
	}
	doc := decode[map[string]any](t, rec)
	paths, _ := doc["paths"].(map[string]any)
	for _, p := range []string{"/status", "/windows/apply", "/rules/{index}"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("openapi document missing %s", p)
		}
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

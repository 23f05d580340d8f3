package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/config"
	"github.com/1broseidon/borderless/internal/platform"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		title   string
		exe     string
		want    borderless.Target
		wantErr bool
	}{
		{name: "hex id", args: []string{"0x1a2b"}, want: borderless.Target{ID: 0x1a2b}},
		{name: "decimal id", args: []string{"4242"}, want: borderless.Target{ID: 4242}},
		{name: "title", title: "My Game", want: borderless.Target{Title: "My Game"}},
		{name: "exe", exe: "game.exe", want: borderless.Target{ImageName: "game.exe"}},
		{name: "nothing", wantErr: true},
		{name: "two selectors", args: []string{"12"}, exe: "game.exe", wantErr: true},
		{name: "zero id", args: []string{"0"}, wantErr: true},
		{name: "garbage id", args: []string{"window"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTarget(tt.args, tt.title, tt.exe)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTarget() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	if got, err := parseIndex("3"); err != nil || got != 3 {
		t.Errorf("parseIndex(3) = %d, %v", got, err)
	}
	for _, bad := range []string{"-1", "x", ""} {
		if _, err := parseIndex(bad); err == nil {
			t.Errorf("parseIndex(%q) accepted", bad)
		}
	}
}

func TestRuleEntries(t *testing.T) {
	rules := []borderless.MatchRule{
		{Pattern: "Game", Mode: borderless.MatchTitle, Fullscreen: true, Saved: &borderless.SavedState{Window: 0xabc}},
		{Pattern: "tool.exe", Mode: borderless.MatchImageName, Suspended: platform.WindowID(0x10)},
	}
	got := ruleEntries(rules)
	if len(got) != 2 {
		t.Fatalf("ruleEntries() = %+v", got)
	}
	if got[0].Window != "0xabc" || got[0].Mode != "title" {
		t.Errorf("entry 0 = %+v", got[0])
	}
	if got[1].Index != 1 || got[1].Mode != "exe" || got[1].Window != "" || got[1].Suspended != "0x10" {
		t.Errorf("entry 1 = %+v", got[1])
	}
}

func TestExplainKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: info\nrefresh_interval: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}

	value, src, err := explainKey(res, "refresh_interval")
	if err != nil {
		t.Fatalf("explainKey() error = %v", err)
	}
	if value != 9 {
		t.Errorf("value = %v, want 9", value)
	}
	if got := formatSource(src); got != "file:"+path+":2:19" {
		t.Errorf("source = %q", got)
	}

	_, src, err = explainKey(res, "toggle_hotkey")
	if err != nil {
		t.Fatal(err)
	}
	if formatSource(src) != "default" {
		t.Errorf("unset key source = %q", formatSource(src))
	}

	if _, _, err := explainKey(res, "gap_size"); err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("unknown key error = %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	run := func(args ...string) (string, error) {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetErr(&buf)
		rootCmd.SetArgs(append([]string{"--config", path}, args...))
		err := rootCmd.Execute()
		return buf.String(), err
	}

	out, err := run("config", "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Fatalf("config path = %q, %v", out, err)
	}

	if _, err := run("config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := run("config", "init"); err == nil {
		t.Error("second config init should refuse to overwrite")
	}

	out, err = run("config", "validate")
	if err != nil || !strings.Contains(out, "config: ok") {
		t.Errorf("config validate = %q, %v", out, err)
	}

	if err := os.WriteFile(path, []byte("refresh_interval: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run("config", "validate"); err == nil || !strings.Contains(err.Error(), "refresh_interval") {
		t.Errorf("invalid config error = %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	if err := loadEnvFile(cfgPath); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}

	const key = "BORDERLESS_ENV_FILE_TEST"
	t.Cleanup(func() { os.Unsetenv(key) })
	if err := os.WriteFile(filepath.Join(dir, envFileName), []byte(key+"=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadEnvFile(cfgPath); err != nil {
		t.Fatalf("loadEnvFile() error = %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}

	os.Setenv(key, "from-env")
	if err := loadEnvFile(cfgPath); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(key); got != "from-env" {
		t.Errorf("existing variable overridden: %q", got)
	}
}

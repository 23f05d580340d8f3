//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProcResolverImageName(t *testing.T) {
	root := t.TempDir()

	// pid 10: exe symlink present.
	if err := os.MkdirAll(filepath.Join(root, "10"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/usr/bin/firefox-bin", filepath.Join(root, "10", "exe")); err != nil {
		t.Fatal(err)
	}

	// pid 20: only comm readable.
	if err := os.MkdirAll(filepath.Join(root, "20"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "20", "comm"), []byte("game.exe\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := procResolver{root: root}
	tests := []struct {
		pid  uint32
		want string
	}{
		{10, "firefox-bin"},
		{20, "game.exe"},
		{30, UnknownImageName},
		{0, UnknownImageName},
	}
	for _, tt := range tests {
		if got := r.ImageName(tt.pid); got != tt.want {
			t.Errorf("ImageName(%d) = %q, want %q", tt.pid, got, tt.want)
		}
	}
}

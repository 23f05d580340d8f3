package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SocketEnv overrides the socket location when set.
const SocketEnv = "BORDERLESS_SOCKET"

// Dir returns the runtime directory holding the daemon socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) <tmp>/borderless-runtime-<uid> (created)
//
// Windows has no per-user runtime directory and always uses the third form.
func Dir() (string, error) {
	if runtime.GOOS != "windows" {
		if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
			return runtimeDir, nil
		}

		runUserDir := fmt.Sprintf("/run/user/%d", os.Getuid())
		if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
			return runUserDir, nil
		}
	}

	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("borderless-runtime-%d", os.Getuid()))
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "borderless.sock"), nil
}

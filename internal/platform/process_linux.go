//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type procResolver struct {
	root string
}

// NewProcessResolver resolves image names from /proc.
func NewProcessResolver() ProcessResolver {
	return procResolver{root: "/proc"}
}

// ImageName prefers the basename of /proc/<pid>/exe and falls back to
// /proc/<pid>/comm, which stays readable for processes owned by other users.
func (r procResolver) ImageName(pid uint32) string {
	if pid == 0 {
		return UnknownImageName
	}
	dir := filepath.Join(r.root, strconv.FormatUint(uint64(pid), 10))

	if target, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		target = strings.TrimSuffix(target, " (deleted)")
		if name := filepath.Base(target); name != "" && name != "." && name != "/" {
			return name
		}
	}

	if data, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			return name
		}
	}

	return UnknownImageName
}

//go:build windows

package platform

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

type imageResolver struct{}

// NewProcessResolver resolves image names with QueryFullProcessImageName.
func NewProcessResolver() ProcessResolver {
	return imageResolver{}
}

func (imageResolver) ImageName(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return UnknownImageName
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return UnknownImageName
	}

	name := filepath.Base(windows.UTF16ToString(buf[:size]))
	if name == "" || name == "." {
		return UnknownImageName
	}
	return name
}

//go:build !linux && !windows

package platform

// NewNativeBackend reports ErrUnsupported on platforms without a backend.
func NewNativeBackend(display string) (Backend, error) {
	return nil, ErrUnsupported
}

// NewProcessResolver returns a resolver that always reports UnknownImageName.
func NewProcessResolver() ProcessResolver {
	return ProcessResolverFunc(func(uint32) string { return UnknownImageName })
}

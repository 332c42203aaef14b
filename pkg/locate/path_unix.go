//go:build !windows

package locate

// pathFromBytes interprets b as a native path. Unix paths are raw bytes.
func pathFromBytes(b []byte) (string, error) {
	return string(b), nil
}

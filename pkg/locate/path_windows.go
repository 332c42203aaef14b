//go:build windows

package locate

import (
	"fmt"
	"unicode/utf8"
)

// pathFromBytes interprets b as a native path, which must be UTF-8 here.
func pathFromBytes(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %q", ErrBadPathEncoding, b)
	}
	return string(b), nil
}

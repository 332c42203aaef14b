//go:build linux

package proc

import "strings"

func IsVDSO(name string) bool { return name == "[vdso]" }

// IsPseudo reports whether a mapping name is a kernel provided region such as
// [vdso] or [vsyscall] rather than a file.
func IsPseudo(name string) bool {
	return strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]")
}

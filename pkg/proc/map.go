//go:build linux

package proc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// ParseProcMaps returns the executable mappings of pid.
func ParseProcMaps(pid int) ([]*Map, error) {
	mapfile := HostProcPath(fmt.Sprintf("%d", pid), "maps")
	f, err := os.Open(mapfile)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", mapfile, err)
	}
	defer f.Close()
	return parseProcMap(f, pid), nil
}

func parseProcMap(r io.Reader, pid int) []*Map {
	var ret []*Map
	for {
		var m Map
		var perm, buf string
		n, _ := fmt.Fscanf(r, "%x-%x %4s %x %x:%x %d %s\n",
			&m.StartAddr,
			&m.EndAddr,
			&perm,
			&m.FileOffset,
			&m.DevMajor,
			&m.DevMinor,
			&m.Inode,
			&buf)
		if n > 8 || n < 7 {
			break
		}

		if len(perm) != 4 || perm[2] != 'x' { // executable only
			continue
		}
		m.Pathname = strings.TrimSpace(buf)

		if isAnonymous(m.Pathname) {
			continue
		}

		if strings.Contains(m.Pathname, "/memfd:") {
			if pathname := findMemFdPath(pid, m.Inode); pathname != "" {
				m.Pathname = pathname
				m.InMem = true
			}
		}
		ret = append(ret, &m)
	}
	return ret
}

func isAnonymous(mapname string) bool {
	return mapname != "" && (strings.HasPrefix(mapname, "//anon") ||
		strings.HasPrefix(mapname, "/dev/zero") ||
		strings.HasPrefix(mapname, "/anon_hugepage") ||
		strings.HasPrefix(mapname, "[stack") ||
		strings.HasPrefix(mapname, "/SYSV") ||
		strings.HasPrefix(mapname, "[heap]") ||
		strings.HasPrefix(mapname, "[vsyscall]"))
}

func findMemFdPath(pid int, inode uint64) string {
	fdpath := HostProcPath(fmt.Sprintf("%d/fd", pid))
	entries, err := os.ReadDir(fdpath)
	if err != nil {
		log.Warnf("Failed to list directory entry at %s, error: %v", fdpath, err)
		return ""
	}
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if info, _ := ent.Info(); info != nil {
			if stats, ok := info.Sys().(*syscall.Stat_t); ok && stats.Ino == inode {
				return filepath.Join(fdpath, ent.Name())
			}
		}
	}
	return ""
}

// Modules returns the file backed mappings of maps, one per backing file, in
// order of first appearance.
func Modules(maps []*Map) []*Map {
	seen := make(map[File]bool, len(maps))
	var out []*Map
	for _, m := range maps {
		if m.Pathname == "" || IsPseudo(m.Pathname) {
			continue
		}
		f := m.File()
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, m)
	}
	return out
}

package locate

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

// LocateDebugLink looks for link.Filename next to the binary, in its .debug
// subdirectory and under each debug directory, mirroring the binary's
// directory:
//
//	/usr/bin/ls.debug
//	/usr/bin/.debug/ls.debug
//	/usr/lib/debug/usr/bin/ls.debug
func (l *Locator) LocateDebugLink(path string, link GNUDebugLink) (string, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return "", err
	}
	parent := filepath.Dir(canon)
	if parent == canon {
		return "", fmt.Errorf("%w: %s has no parent directory", ErrBadPath, canon)
	}
	name, err := pathFromBytes(link.Filename)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}

	for _, c := range debugLinkCandidates(canon, parent, name, l.opts.debugDirs) {
		log := l.log.WithField(logfields.Candidate, c)
		if !fileExists(c) {
			log.Trace("Debuglink candidate does not exist")
			continue
		}
		if l.opts.verifyCRC {
			if err := matchCRC(c, link.CRC); err != nil {
				log.WithError(err).Debug("Debuglink candidate rejected")
				continue
			}
		}
		return c, nil
	}
	return "", nil
}

func debugLinkCandidates(canon, parent, name string, debugDirs []string) []string {
	var out []string
	if c := filepath.Join(parent, name); c != canon {
		out = append(out, c)
	}
	out = append(out, filepath.Join(parent, ".debug", name))

	rel := strings.TrimLeft(parent[len(filepath.VolumeName(parent)):], `/\`)
	for _, dir := range debugDirs {
		out = append(out, filepath.Join(dir, rel, name))
	}
	return out
}

func matchCRC(path string, want uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	h := crc32.NewIEEE()
	if _, err = io.Copy(h, f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if got := h.Sum32(); got != want {
		return fmt.Errorf("crc mismatch: want %08x, got %08x", want, got)
	}
	return nil
}

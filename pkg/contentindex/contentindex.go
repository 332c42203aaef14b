// Package contentindex queries the platform metadata index for dSYM bundles.
// Only macOS has one (Spotlight); elsewhere every lookup misses.
package contentindex

import (
	"bufio"
	"bytes"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/exec"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithFields(logrus.Fields{logfields.LogSubsys: "contentindex"})

// DefaultTimeout bounds each index query.
const DefaultTimeout = 5 * time.Second

const (
	attrDSYMUUIDs = "com_apple_xcode_dsym_uuids"
	attrDSYMPaths = "com_apple_xcode_dsym_paths"
)

// Spotlight looks dSYM bundles up by UUID through mdfind and mdls.
type Spotlight struct {
	timeout time.Duration
	which   func(string) (string, error)
}

func New(timeout time.Duration) *Spotlight {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Spotlight{timeout: timeout, which: exec.Which}
}

// tool resolves bin in PATH. An index whose tools are missing misses every
// lookup instead of failing it.
func (s *Spotlight) tool(bin string) (string, bool) {
	p, err := s.which(bin)
	if err != nil {
		log.WithError(err).Debug("Content index tool unavailable")
		return "", false
	}
	return p, true
}

// parseLines returns the non-empty lines of out.
func parseLines(out []byte) []string {
	var ret []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ret = append(ret, line)
		}
	}
	return ret
}

// parseArray parses the raw output of mdls for an array attribute:
//
//	(
//	    "Contents/Resources/DWARF/foo",
//	    "Contents/Resources/DWARF/bar"
//	)
//
// A missing attribute prints (null) and yields nil.
func parseArray(out []byte) []string {
	s := strings.TrimSpace(string(out))
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return nil
	}
	var ret []string
	for _, item := range strings.Split(s[1:len(s)-1], "\n") {
		item = strings.TrimSpace(item)
		item = strings.TrimSuffix(item, ",")
		item = strings.TrimSpace(item)
		item = strings.TrimPrefix(item, `"`)
		item = strings.TrimSuffix(item, `"`)
		if item != "" && item != "null" {
			ret = append(ret, item)
		}
	}
	return ret
}

// pickPath returns the path paired with want in the parallel uuid and path
// arrays of a bundle, or the first path when the arrays do not line up.
func pickPath(uuids, paths []string, want string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}
	if len(uuids) == len(paths) {
		for i, u := range uuids {
			if strings.EqualFold(u, want) {
				return paths[i], true
			}
		}
	}
	return paths[0], true
}

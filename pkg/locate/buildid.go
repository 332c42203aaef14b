package locate

import (
	"encoding/hex"
	"path/filepath"

	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

// BuildIDPath returns <debugDir>/.build-id/<id[0]>/<id[1:]>.debug in
// lower-case hex.
func BuildIDPath(debugDir string, id []byte) (string, error) {
	if len(id) < 2 {
		return "", ErrBuildIDTooShort
	}
	return filepath.Join(debugDir, ".build-id", hex.EncodeToString(id[:1]), hex.EncodeToString(id[1:])+".debug"), nil
}

// LocateBuildID returns the first existing build-id debug file across the
// debug directories. Build-id paths are content addressed, so existence is
// the only check.
func (l *Locator) LocateBuildID(id BuildID) (string, error) {
	if len(id) < 2 {
		return "", ErrBuildIDTooShort
	}
	for _, dir := range l.opts.debugDirs {
		p, _ := BuildIDPath(dir, id)
		if fileExists(p) {
			return p, nil
		}
		l.log.WithField(logfields.Candidate, p).Trace("Build-id candidate does not exist")
	}
	return "", nil
}

package locate

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

// LocatePDB looks for the PDB matching info. The path embedded in the binary
// is tried as-is first, then each directory of _NT_SYMBOL_PATH,
// _NT_ALT_SYMBOL_PATH and the configured search paths, and finally the
// directory holding the binary.
func (l *Locator) LocatePDB(path string, info PDBInfo) (string, error) {
	log := l.log.WithField(logfields.Strategy, KindPDB)
	if len(info.Path) > 0 {
		embedded, err := pathFromBytes(info.Path)
		if err != nil {
			return "", err
		}
		if l.matchPDB(embedded, info) {
			return embedded, nil
		}
	}

	name := filepath.Base(path)
	var dirs []string
	dirs = append(dirs, envSearchPath(envSymbolPath)...)
	dirs = append(dirs, envSearchPath(envAltSymbolPath)...)
	dirs = append(dirs, l.opts.pdbSearchPaths...)
	if found := l.searchPDB(log, dirs, name, info); found != "" {
		return found, nil
	}

	canon, err := canonicalize(path)
	if err != nil {
		return "", err
	}
	return l.searchPDB(log, []string{filepath.Dir(canon)}, filepath.Base(canon), info), nil
}

func (l *Locator) searchPDB(log logrus.FieldLogger, dirs []string, name string, info PDBInfo) string {
	for _, dir := range dirs {
		log := log.WithField(logfields.SearchPath, dir)
		if isSymbolServer(dir) {
			log.Trace("Skipping symbol server entry")
			continue
		}
		if !isDir(dir) {
			log.Trace("Skipping missing search directory")
			continue
		}
		for _, c := range pdbCandidates(dir, name) {
			if l.matchPDB(c, info) {
				return c
			}
		}
	}
	return ""
}

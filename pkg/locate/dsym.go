package locate

import (
	"os"
	"path/filepath"

	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

const (
	dsymExt      = ".dSYM"
	dsymDWARFDir = "Contents/Resources/DWARF"
)

// buildOutputDirs are scanned for dSYM bundles when the binary lives inside
// a cargo style target/<profile> directory.
var buildOutputDirs = []string{"deps", "examples"}

// LocateDSYM finds the dSYM bundle whose DWARF file carries uuid. The bundle
// next to the binary and the build output directories around it are tried
// first, then the content index.
func (l *Locator) LocateDSYM(path string, uuid MachOUUID) (string, error) {
	log := l.log.WithField(logfields.Strategy, KindMachOUUID)
	if canon, err := canonicalize(path); err != nil {
		log.WithError(err).Debug("Skipping dSYM fastpath")
	} else if found := l.dsymFastpath(canon, uuid); found != "" {
		return found, nil
	}
	return l.dsymFromIndex(uuid), nil
}

func (l *Locator) dsymFastpath(canon string, uuid MachOUUID) string {
	if found := l.matchDSYMBundle(canon+dsymExt, uuid); found != "" {
		return found
	}
	dir := buildOutputDir(canon)
	if dir == "" {
		return ""
	}
	for _, sub := range buildOutputDirs {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if err != nil {
			l.log.WithError(err).Trace("Skipping build output directory")
			continue
		}
		for _, e := range entries {
			// A bare ".dSYM" has no stem and is never a bundle for a binary.
			if name := e.Name(); filepath.Ext(name) != dsymExt || name == dsymExt {
				continue
			}
			if found := l.matchDSYMBundle(filepath.Join(dir, sub, e.Name()), uuid); found != "" {
				return found
			}
		}
	}
	return ""
}

// buildOutputDir returns the closest ancestor of path whose parent is named
// "target", or "" if there is none.
func buildOutputDir(path string) string {
	for dir := filepath.Dir(path); ; {
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		if filepath.Base(parent) == "target" {
			return dir
		}
		dir = parent
	}
}

// matchDSYMBundle validates the DWARF file of bundle. A bundle whose DWARF
// directory holds anything other than a single entry is not a match.
func (l *Locator) matchDSYMBundle(bundle string, uuid MachOUUID) string {
	dwarfDir := filepath.Join(bundle, dsymDWARFDir)
	entries, err := os.ReadDir(dwarfDir)
	if err != nil {
		l.log.WithField(logfields.Candidate, bundle).Trace("No dSYM bundle")
		return ""
	}
	if len(entries) != 1 {
		l.log.WithField(logfields.Candidate, bundle).Tracef("dSYM bundle has %d DWARF entries", len(entries))
		return ""
	}
	candidate := filepath.Join(dwarfDir, entries[0].Name())
	if !l.matchDSYM(candidate, uuid) {
		return ""
	}
	return candidate
}

func (l *Locator) dsymFromIndex(uuid MachOUUID) string {
	if l.opts.index == nil {
		return ""
	}
	bundle, dwarf, ok, err := l.opts.index.FindDSYM(uuid)
	if err != nil {
		l.log.WithError(err).Debugf("Content index lookup for %s failed", uuid)
		return ""
	}
	if !ok {
		return ""
	}
	candidate := dwarf
	if !filepath.IsAbs(dwarf) {
		candidate = filepath.Join(bundle, dwarf)
	}
	if !l.matchDSYM(candidate, uuid) {
		return ""
	}
	return candidate
}

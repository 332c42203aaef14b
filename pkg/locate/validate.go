package locate

import (
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
	"github.com/vietanhduong/debugfind/pkg/objfile"
	"github.com/vietanhduong/debugfind/pkg/pdb"
)

// matchDSYM reports whether any Mach-O slice of path has LC_UUID uuid.
func (l *Locator) matchDSYM(path string, uuid MachOUUID) bool {
	log := l.log.WithField(logfields.Candidate, path)
	uuids, err := objfile.OpenMachOUUIDs(path)
	if err != nil {
		log.WithError(err).Trace("dSYM candidate rejected")
		return false
	}
	for _, u := range uuids {
		if u == uuid {
			return true
		}
	}
	log.Tracef("dSYM candidate UUID does not match %s", uuid)
	return false
}

// matchPDB reports whether the PDB at path has the GUID and age of info.
func (l *Locator) matchPDB(path string, info PDBInfo) bool {
	log := l.log.WithField(logfields.Candidate, path)
	f, err := pdb.OpenFile(path)
	if err != nil {
		log.WithError(err).Trace("PDB candidate rejected")
		return false
	}
	defer f.Close()
	got, err := f.Info()
	if err != nil {
		log.WithError(err).Trace("PDB candidate rejected")
		return false
	}
	if got.Age != info.Age || got.UUID() != pdb.GUID(info.GUID) {
		log.Tracef("PDB signature mismatch: %s/%d", got.UUID(), got.Age)
		return false
	}
	return true
}

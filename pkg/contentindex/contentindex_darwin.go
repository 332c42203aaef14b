//go:build darwin

package contentindex

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vietanhduong/debugfind/pkg/exec"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

// FindDSYM returns the first bundle Spotlight reports for id along with the
// DWARF path recorded for id inside it.
func (s *Spotlight) FindDSYM(id [16]byte) (string, string, bool, error) {
	mdfind, ok := s.tool("mdfind")
	if !ok {
		return "", "", false, nil
	}
	want := strings.ToUpper(uuid.UUID(id).String())
	query := fmt.Sprintf("%s == %s", attrDSYMUUIDs, want)
	out, err := exec.WithTimeout(s.timeout, mdfind, query).Output(true)
	if err != nil {
		return "", "", false, fmt.Errorf("mdfind: %w", err)
	}
	for _, bundle := range parseLines(out) {
		log := log.WithField(logfields.Candidate, bundle)
		paths, err := s.attr(bundle, attrDSYMPaths)
		if err != nil {
			log.WithError(err).Debug("Failed to read dSYM paths")
			continue
		}
		uuids, err := s.attr(bundle, attrDSYMUUIDs)
		if err != nil {
			log.WithError(err).Debug("Failed to read dSYM UUIDs")
		}
		if p, ok := pickPath(uuids, paths, want); ok {
			return bundle, p, true, nil
		}
	}
	return "", "", false, nil
}

func (s *Spotlight) attr(bundle, name string) ([]string, error) {
	mdls, ok := s.tool("mdls")
	if !ok {
		return nil, fmt.Errorf("mdls not available")
	}
	out, err := exec.WithTimeout(s.timeout, mdls, "-raw", "-name", name, bundle).Output(true)
	if err != nil {
		return nil, fmt.Errorf("mdls %s: %w", name, err)
	}
	return parseArray(out), nil
}

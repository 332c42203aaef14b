// Package locate finds the separate debug information file of a compiled
// binary: dSYM bundles, PDBs, build-id and debuglink debug files.
package locate

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithFields(logrus.Fields{logfields.LogSubsys: "locate"})

// Result is the outcome of a lookup. The zero value means not found.
type Result struct {
	Path     string `json:"path,omitempty"`
	Strategy Kind   `json:"strategy,omitempty"`
}

func (r Result) Found() bool { return r.Path != "" }

// Locator resolves debug files. It holds no mutable state and is safe for
// concurrent use.
type Locator struct {
	opts *options
	log  logrus.FieldLogger
}

func New(opt ...Option) *Locator {
	opts := defaultOptions()
	for _, o := range opt {
		o(opts)
	}
	return &Locator{opts: opts, log: opts.log}
}

// Locate resolves the debug file of the binary at path from its descriptors.
//
// Descriptors are tried by priority: Mach-O UUID, PDB info, build-id, GNU
// debuglink. The dSYM and PDB strategies are final: their "not found" is the
// answer. A build-id miss falls through to the debuglink. No descriptor at
// all is a plain "not found".
func (l *Locator) Locate(descs []Descriptor, path string) (Result, error) {
	for _, d := range prioritize(descs) {
		found, err := l.dispatch(d, path)
		if errors.Is(err, ErrBuildIDTooShort) {
			l.log.WithField(logfields.Strategy, d.Kind()).Debugf("Skipping: %v", err)
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("%s lookup: %w", d.Kind(), err)
		}
		if found != "" {
			l.log.WithFields(logrus.Fields{
				logfields.Strategy:  d.Kind(),
				logfields.DebugFile: found,
			}).Debug("Found debug file")
			return Result{Path: found, Strategy: d.Kind()}, nil
		}
		l.log.WithField(logfields.Strategy, d.Kind()).Debugf("No debug file for %s", path)
		if d.Kind() != KindBuildID {
			return Result{}, nil
		}
	}
	return Result{}, nil
}

func (l *Locator) dispatch(d Descriptor, path string) (string, error) {
	switch d := d.(type) {
	case MachOUUID:
		return l.LocateDSYM(path, d)
	case PDBInfo:
		return l.LocatePDB(path, d)
	case BuildID:
		return l.LocateBuildID(d)
	case GNUDebugLink:
		return l.LocateDebugLink(path, d)
	}
	return "", fmt.Errorf("unsupported descriptor %T", d)
}

package locate

import (
	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/contentindex"
	"github.com/vietanhduong/debugfind/pkg/utils"
)

// DefaultDebugDir is the global debug file directory of GNU toolchains.
const DefaultDebugDir = "/usr/lib/debug"

// ContentIndex finds dSYM bundles through a platform metadata index.
// bundle is the bundle directory, dwarf the DWARF file path recorded for it,
// relative to bundle unless absolute.
type ContentIndex interface {
	FindDSYM(uuid [16]byte) (bundle, dwarf string, ok bool, err error)
}

type options struct {
	debugDirs      []string
	index          ContentIndex
	pdbSearchPaths []string
	verifyCRC      bool
	log            logrus.FieldLogger
}

type Option func(*options)

// WithDebugDirs replaces the global debug directories used by the build-id
// and debuglink strategies. Empty entries are ignored.
func WithDebugDirs(dirs ...string) Option {
	return func(o *options) {
		var keep []string
		for _, d := range dirs {
			if d != "" {
				keep = append(keep, d)
			}
		}
		if len(keep) > 0 {
			o.debugDirs = keep
		}
	}
}

// WithContentIndex sets the dSYM fallback index. A nil index disables the
// fallback.
func WithContentIndex(idx ContentIndex) Option {
	return func(o *options) {
		if utils.IsNil(idx) {
			o.index = nil
			return
		}
		o.index = idx
	}
}

// WithPDBSearchPaths adds directories searched for PDBs after
// _NT_SYMBOL_PATH and _NT_ALT_SYMBOL_PATH and before the module directory.
func WithPDBSearchPaths(dirs ...string) Option {
	return func(o *options) {
		for _, d := range dirs {
			if d != "" {
				o.pdbSearchPaths = append(o.pdbSearchPaths, d)
			}
		}
	}
}

// WithVerifyCRC toggles the CRC-32 check of debuglink targets.
func WithVerifyCRC(enabled bool) Option {
	return func(o *options) { o.verifyCRC = enabled }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if !utils.IsNil(logger) {
			o.log = logger
		}
	}
}

func defaultOptions() *options {
	return &options{
		debugDirs: []string{DefaultDebugDir},
		index:     contentindex.New(contentindex.DefaultTimeout),
		verifyCRC: true,
		log:       log,
	}
}

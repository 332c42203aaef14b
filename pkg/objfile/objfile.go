// Package objfile extracts the debug-file pointers a compiled binary
// carries: ELF build-ids and .gnu_debuglink, Mach-O LC_UUID and PE
// CodeView (RSDS) records.
package objfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	bufra "github.com/avvmoto/buf-readerat"
	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithFields(logrus.Fields{logfields.LogSubsys: "objfile"})

type Format string

const (
	FormatUnknown Format = "unknown"
	FormatELF     Format = "elf"
	FormatMachO   Format = "macho"
	FormatPE      Format = "pe"
)

var ErrUnknownFormat = errors.New("unrecognized object file format")

// DebugLink is the content of a .gnu_debuglink section.
type DebugLink struct {
	Filename []byte
	CRC      uint32
}

// CodeView is a PE RSDS debug record.
type CodeView struct {
	Path []byte
	GUID [16]byte
	Age  uint32
}

// Identity holds every debug pointer found in a binary. Absent pointers are
// left nil.
type Identity struct {
	Format    Format
	MachOUUID *[16]byte
	BuildID   []byte
	DebugLink *DebugLink
	CodeView  *CodeView
}

var (
	elfMagic = []byte("\x7fELF")
	peMagic  = []byte("MZ")
)

func detect(r io.ReaderAt) Format {
	var hdr [4]byte
	if n, _ := r.ReadAt(hdr[:], 0); n < len(hdr) {
		return FormatUnknown
	}
	switch {
	case bytes.Equal(hdr[:], elfMagic):
		return FormatELF
	case bytes.Equal(hdr[:2], peMagic):
		return FormatPE
	case isMachOMagic(hdr):
		return FormatMachO
	}
	return FormatUnknown
}

// Open reads the debug pointers of the binary at path.
func Open(path string) (*Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os open %s: %w", path, err)
	}
	defer f.Close()
	return Read(bufra.NewBufReaderAt(f, 4096))
}

// Read reads the debug pointers of the binary in r.
func Read(r io.ReaderAt) (*Identity, error) {
	id := &Identity{Format: detect(r)}
	var err error
	switch id.Format {
	case FormatELF:
		err = readELF(r, id)
	case FormatMachO:
		err = readMachO(r, id)
	case FormatPE:
		err = readPE(r, id)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id.Format, err)
	}
	return id, nil
}

func cstring(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

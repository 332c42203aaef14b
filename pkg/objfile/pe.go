package objfile

import (
	"debug/pe"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	debugDirectorySize   = 28
	debugTypeCodeView    = 2
	rsdsSignature        = 0x53445352 // "RSDS"
	maxCodeViewRecordLen = 4096
	maxDebugDirectories  = 64
)

var ErrNoCodeView = errors.New("CodeView debug record not found")

func readPE(r io.ReaderAt, id *Identity) error {
	f, err := pe.NewFile(r)
	if err != nil {
		return err
	}
	defer f.Close()

	cv, err := PECodeView(f, r)
	if errors.Is(err, ErrNoCodeView) {
		return nil
	}
	if err != nil {
		return err
	}
	id.CodeView = cv
	return nil
}

// PECodeView walks the debug directory of f and returns its first RSDS
// record.
func PECodeView(f *pe.File, r io.ReaderAt) (*CodeView, error) {
	var dd pe.DataDirectory
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if oh.NumberOfRvaAndSizes <= pe.IMAGE_DIRECTORY_ENTRY_DEBUG {
			return nil, ErrNoCodeView
		}
		dd = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_DEBUG]
	case *pe.OptionalHeader64:
		if oh.NumberOfRvaAndSizes <= pe.IMAGE_DIRECTORY_ENTRY_DEBUG {
			return nil, ErrNoCodeView
		}
		dd = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_DEBUG]
	default:
		return nil, ErrNoCodeView
	}
	if dd.VirtualAddress == 0 || dd.Size < debugDirectorySize {
		return nil, ErrNoCodeView
	}

	off, avail, ok := rvaToOffset(f, dd.VirtualAddress)
	if !ok {
		return nil, fmt.Errorf("debug directory rva 0x%x not in any section", dd.VirtualAddress)
	}
	// The declared size is untrusted; never read past the section's raw data.
	size := min(dd.Size, avail, maxDebugDirectories*debugDirectorySize)
	dir := make([]byte, size-size%debugDirectorySize)
	n, err := r.ReadAt(dir, int64(off))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read debug directory: %w", err)
	}
	dir = dir[:n]

	le := binary.LittleEndian
	for ; len(dir) >= debugDirectorySize; dir = dir[debugDirectorySize:] {
		if le.Uint32(dir[12:]) != debugTypeCodeView {
			continue
		}
		size := le.Uint32(dir[16:])
		ptr := le.Uint32(dir[24:])
		if size < 24 || size > maxCodeViewRecordLen {
			continue
		}
		rec := make([]byte, size)
		if _, err := r.ReadAt(rec, int64(ptr)); err != nil {
			return nil, fmt.Errorf("read codeview record: %w", err)
		}
		if le.Uint32(rec) != rsdsSignature {
			continue
		}
		cv := &CodeView{
			Age:  le.Uint32(rec[20:]),
			Path: append([]byte(nil), cstring(rec[24:])...),
		}
		copy(cv.GUID[:], rec[4:20])
		return cv, nil
	}
	return nil, ErrNoCodeView
}

// rvaToOffset maps rva to a file offset and reports how many bytes of the
// section's raw data follow it.
func rvaToOffset(f *pe.File, rva uint32) (uint32, uint32, bool) {
	for _, s := range f.Sections {
		size := max(s.VirtualSize, s.Size)
		if rva >= s.VirtualAddress && uint64(rva) < uint64(s.VirtualAddress)+uint64(size) {
			delta := rva - s.VirtualAddress
			var avail uint32
			if delta < s.Size {
				avail = s.Size - delta
			}
			return delta + s.Offset, avail, true
		}
	}
	return 0, 0, false
}

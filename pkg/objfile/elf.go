package objfile

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNoBuildIDSection = errors.New("build ID section not found")
	ErrNoDebugLink      = errors.New(".gnu_debuglink section not found")
)

const ntGNUBuildID = 3

func readELF(r io.ReaderAt, id *Identity) error {
	f, err := elf.NewFile(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if id.BuildID, err = GNUBuildID(f); err != nil && !errors.Is(err, ErrNoBuildIDSection) {
		log.WithError(err).Debug("Ignoring unreadable build ID")
	}
	link, err := GNUDebugLink(f)
	if err == nil {
		id.DebugLink = link
	} else if !errors.Is(err, ErrNoDebugLink) {
		log.WithError(err).Debug("Ignoring unreadable .gnu_debuglink")
	}
	return nil
}

// GNUBuildID returns the raw NT_GNU_BUILD_ID descriptor, looking first at
// .note.gnu.build-id and then at every PT_NOTE segment.
func GNUBuildID(f *elf.File) ([]byte, error) {
	if s := f.Section(".note.gnu.build-id"); s != nil {
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("reading .note.gnu.build-id: %w", err)
		}
		return findBuildIDNote(data, f.ByteOrder)
	}
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_NOTE {
			continue
		}
		data, err := io.ReadAll(prog.Open())
		if err != nil {
			continue
		}
		if id, err := findBuildIDNote(data, f.ByteOrder); err == nil {
			return id, nil
		}
	}
	return nil, ErrNoBuildIDSection
}

func findBuildIDNote(data []byte, order binary.ByteOrder) ([]byte, error) {
	align4 := func(n uint32) uint64 { return (uint64(n) + 3) &^ 3 }
	for len(data) >= 12 {
		namesz := order.Uint32(data[0:])
		descsz := order.Uint32(data[4:])
		typ := order.Uint32(data[8:])
		data = data[12:]
		nameEnd := align4(namesz)
		if nameEnd+align4(descsz) > uint64(len(data)) {
			return nil, fmt.Errorf("truncated note (name %d, desc %d)", namesz, descsz)
		}
		name := cstring(data[:namesz])
		desc := data[nameEnd : nameEnd+uint64(descsz)]
		data = data[nameEnd+align4(descsz):]
		if typ == ntGNUBuildID && string(name) == "GNU" {
			if len(desc) == 0 {
				return nil, fmt.Errorf("empty GNU build ID note")
			}
			return append([]byte(nil), desc...), nil
		}
	}
	return nil, ErrNoBuildIDSection
}

// GNUDebugLink parses .gnu_debuglink: a NUL terminated file name padded to
// four bytes, followed by the CRC-32 of the debug file.
func GNUDebugLink(f *elf.File) (*DebugLink, error) {
	s := f.Section(".gnu_debuglink")
	if s == nil {
		return nil, ErrNoDebugLink
	}
	data, err := s.Data()
	if err != nil {
		return nil, fmt.Errorf("reading .gnu_debuglink: %w", err)
	}
	name := cstring(data)
	off := (len(name) + 1 + 3) &^ 3
	if len(name) == 0 || off+4 > len(data) {
		return nil, fmt.Errorf(".gnu_debuglink is too small (%d bytes)", len(data))
	}
	return &DebugLink{
		Filename: append([]byte(nil), name...),
		CRC:      f.ByteOrder.Uint32(data[off:]),
	}, nil
}

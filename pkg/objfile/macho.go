package objfile

import (
	"debug/macho"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	bufra "github.com/avvmoto/buf-readerat"
)

const lcUUID = 0x1b

var ErrNoUUID = errors.New("LC_UUID load command not found")

func isMachOMagic(hdr [4]byte) bool {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		switch order.Uint32(hdr[:]) {
		case macho.Magic32, macho.Magic64, macho.MagicFat:
			return true
		}
	}
	return false
}

// MachOUUIDs returns the LC_UUID of every slice in a thin or universal
// Mach-O file.
func MachOUUIDs(r io.ReaderAt) ([][16]byte, error) {
	var files []*macho.File
	if fat, err := macho.NewFatFile(r); err == nil {
		defer fat.Close()
		for _, arch := range fat.Arches {
			files = append(files, arch.File)
		}
	} else {
		f, err := macho.NewFile(r)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		files = append(files, f)
	}

	var ids [][16]byte
	for _, f := range files {
		if id, ok := machoUUID(f); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoUUID
	}
	return ids, nil
}

// OpenMachOUUIDs is MachOUUIDs on the file at path.
func OpenMachOUUIDs(path string) ([][16]byte, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os open %s: %w", path, err)
	}
	defer fd.Close()
	return MachOUUIDs(bufra.NewBufReaderAt(fd, 4096))
}

func machoUUID(f *macho.File) ([16]byte, bool) {
	var id [16]byte
	for _, l := range f.Loads {
		raw := l.Raw()
		if len(raw) < 24 || f.ByteOrder.Uint32(raw) != lcUUID {
			continue
		}
		copy(id[:], raw[8:24])
		return id, true
	}
	return id, false
}

func readMachO(r io.ReaderAt, id *Identity) error {
	ids, err := MachOUUIDs(r)
	if errors.Is(err, ErrNoUUID) {
		return nil
	}
	if err != nil {
		return err
	}
	id.MachOUUID = &ids[0]
	return nil
}

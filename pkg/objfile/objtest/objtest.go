// Package objtest builds minimal ELF, Mach-O and PE files for tests.
package objtest

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const lcUUID = 0x1b

// MachO builds a thin 64-bit little endian MH_DSYM file with one LC_UUID.
func MachO(uuid [16]byte) []byte {
	return machO(macho.CpuAmd64, uuid)
}

func machO(cpu macho.Cpu, uuid [16]byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	binary.Write(&buf, le, macho.FileHeader{
		Magic:  macho.Magic64,
		Cpu:    cpu,
		SubCpu: 3,
		Type:   0xa, // MH_DSYM
		Ncmd:   1,
		Cmdsz:  24,
	})
	binary.Write(&buf, le, uint32(0)) // reserved
	binary.Write(&buf, le, uint32(lcUUID))
	binary.Write(&buf, le, uint32(24))
	buf.Write(uuid[:])
	return buf.Bytes()
}

// Fat builds a universal Mach-O with one slice per uuid.
func Fat(uuids ...[16]byte) []byte {
	cpus := []macho.Cpu{macho.CpuAmd64, macho.CpuArm64, macho.Cpu386, macho.CpuArm}
	const align = 12 // 4096
	var hdr, body bytes.Buffer
	be := binary.BigEndian
	binary.Write(&hdr, be, uint32(macho.MagicFat))
	binary.Write(&hdr, be, uint32(len(uuids)))

	offset := uint32(1 << align)
	for i, id := range uuids {
		slice := machO(cpus[i], id)
		binary.Write(&hdr, be, macho.FatArchHeader{
			Cpu:    cpus[i],
			SubCpu: 3,
			Offset: offset,
			Size:   uint32(len(slice)),
			Align:  align,
		})
		body.Write(slice)
		body.Write(make([]byte, 1<<align-len(slice)))
		offset += 1 << align
	}
	out := make([]byte, 1<<align, 1<<align+body.Len())
	copy(out, hdr.Bytes())
	return append(out, body.Bytes()...)
}

// ELF builds an ELF64 relocatable-free executable with an optional
// .note.gnu.build-id and an optional .gnu_debuglink.
func ELF(buildID []byte, debuglink string, crc uint32) []byte {
	le := binary.LittleEndian
	type section struct {
		name string
		typ  elf.SectionType
		data []byte
	}
	var sections []section

	if len(buildID) > 0 {
		var note bytes.Buffer
		binary.Write(&note, le, uint32(4))
		binary.Write(&note, le, uint32(len(buildID)))
		binary.Write(&note, le, uint32(3)) // NT_GNU_BUILD_ID
		note.WriteString("GNU\x00")
		note.Write(buildID)
		note.Write(make([]byte, (4-len(buildID)%4)%4))
		sections = append(sections, section{".note.gnu.build-id", elf.SHT_NOTE, note.Bytes()})
	}
	if debuglink != "" {
		var link bytes.Buffer
		link.WriteString(debuglink)
		link.WriteByte(0)
		link.Write(make([]byte, (4-link.Len()%4)%4))
		binary.Write(&link, le, crc)
		sections = append(sections, section{".gnu_debuglink", elf.SHT_PROGBITS, link.Bytes()})
	}

	shstrtab := []byte{0}
	names := make([]uint32, len(sections)+1)
	for i, s := range sections {
		names[i] = uint32(len(shstrtab))
		shstrtab = append(append(shstrtab, s.name...), 0)
	}
	names[len(sections)] = uint32(len(shstrtab))
	shstrtab = append(append(shstrtab, ".shstrtab"...), 0)
	sections = append(sections, section{".shstrtab", elf.SHT_STRTAB, shstrtab})

	var data bytes.Buffer
	offsets := make([]uint64, len(sections))
	for i, s := range sections {
		offsets[i] = 64 + uint64(data.Len())
		data.Write(s.data)
	}
	data.Write(make([]byte, (8-data.Len()%8)%8))
	shoff := 64 + uint64(data.Len())

	var out bytes.Buffer
	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     shoff,
		Ehsize:    64,
		Phentsize: 56,
		Shentsize: 64,
		Shnum:     uint16(len(sections) + 1),
		Shstrndx:  uint16(len(sections)),
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	binary.Write(&out, le, hdr)
	out.Write(data.Bytes())

	binary.Write(&out, le, elf.Section64{})
	for i, s := range sections {
		binary.Write(&out, le, elf.Section64{
			Name:      names[i],
			Type:      uint32(s.typ),
			Off:       offsets[i],
			Size:      uint64(len(s.data)),
			Addralign: 1,
		})
	}
	return out.Bytes()
}

// PE builds a PE32+ image whose debug directory holds one RSDS record.
func PE(guid [16]byte, age uint32, pdbPath string) []byte {
	const (
		peOffset   = 0x40
		rawOffset  = 0x200
		sectionRVA = 0x1000
		fileSize   = 0x400
	)
	le := binary.LittleEndian
	out := make([]byte, fileSize)
	out[0], out[1] = 'M', 'Z'
	le.PutUint32(out[0x3c:], peOffset)
	copy(out[peOffset:], "PE\x00\x00")

	var hdrs bytes.Buffer
	binary.Write(&hdrs, le, pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_AMD64,
		NumberOfSections:     1,
		SizeOfOptionalHeader: uint16(binary.Size(pe.OptionalHeader64{})),
	})
	oh := pe.OptionalHeader64{
		Magic:               0x20b,
		SectionAlignment:    0x1000,
		FileAlignment:       0x200,
		NumberOfRvaAndSizes: 16,
	}
	oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_DEBUG] = pe.DataDirectory{VirtualAddress: sectionRVA, Size: 28}
	binary.Write(&hdrs, le, oh)
	sh := pe.SectionHeader32{
		VirtualSize:      0x200,
		VirtualAddress:   sectionRVA,
		SizeOfRawData:    0x200,
		PointerToRawData: rawOffset,
	}
	copy(sh.Name[:], ".rdata")
	binary.Write(&hdrs, le, sh)
	copy(out[peOffset+4:], hdrs.Bytes())

	rec := rawOffset + 28
	dir := out[rawOffset:]
	le.PutUint32(dir[12:], 2) // IMAGE_DEBUG_TYPE_CODEVIEW
	le.PutUint32(dir[16:], uint32(24+len(pdbPath)+1))
	le.PutUint32(dir[20:], sectionRVA+28)
	le.PutUint32(dir[24:], uint32(rec))

	copy(out[rec:], "RSDS")
	copy(out[rec+4:], guid[:])
	le.PutUint32(out[rec+20:], age)
	copy(out[rec+24:], pdbPath)
	return out
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o755))
	return path
}

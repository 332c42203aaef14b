package locate

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies a descriptor variant. Lower values are tried first.
type Kind int

const (
	KindNone Kind = iota
	KindMachOUUID
	KindPDB
	KindBuildID
	KindDebugLink
)

func (k Kind) String() string {
	switch k {
	case KindMachOUUID:
		return "dsym"
	case KindPDB:
		return "pdb"
	case KindBuildID:
		return "build-id"
	case KindDebugLink:
		return "debuglink"
	}
	return "none"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	for c := KindNone; c <= KindDebugLink; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown strategy %q", text)
}

// Descriptor is a pointer to separate debug information recorded in a
// binary. The set of variants is closed: MachOUUID, PDBInfo, BuildID and
// GNUDebugLink.
type Descriptor interface {
	Kind() Kind
	descriptor()
}

// MachOUUID is the LC_UUID of a Mach-O image.
type MachOUUID [16]byte

// PDBInfo is the CodeView RSDS record of a PE image. GUID is kept in its
// on-disk layout.
type PDBInfo struct {
	Path []byte
	GUID [16]byte
	Age  uint32
}

// BuildID is an ELF NT_GNU_BUILD_ID.
type BuildID []byte

// GNUDebugLink is the content of an ELF .gnu_debuglink section.
type GNUDebugLink struct {
	Filename []byte
	CRC      uint32
}

func (MachOUUID) Kind() Kind    { return KindMachOUUID }
func (PDBInfo) Kind() Kind      { return KindPDB }
func (BuildID) Kind() Kind      { return KindBuildID }
func (GNUDebugLink) Kind() Kind { return KindDebugLink }

func (MachOUUID) descriptor()    {}
func (PDBInfo) descriptor()      {}
func (BuildID) descriptor()      {}
func (GNUDebugLink) descriptor() {}

func (u MachOUUID) String() string { return strings.ToUpper(uuid.UUID(u).String()) }

func (b BuildID) String() string { return hex.EncodeToString(b) }

// prioritize orders descs by Kind and keeps the first descriptor of each kind.
func prioritize(descs []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(descs))
	seen := make(map[Kind]bool, len(descs))
	for _, d := range descs {
		if d == nil || seen[d.Kind()] {
			continue
		}
		seen[d.Kind()] = true
		out = append(out, d)
	}
	slices.SortStableFunc(out, func(a, b Descriptor) int { return int(a.Kind()) - int(b.Kind()) })
	return out
}

package locate

import (
	"fmt"

	"github.com/vietanhduong/debugfind/pkg/objfile"
)

// Inspect reads the debug descriptors recorded in the binary at path.
func Inspect(path string) ([]Descriptor, error) {
	id, err := objfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", path, err)
	}
	return Descriptors(id), nil
}

// Descriptors converts the debug pointers of a parsed binary.
func Descriptors(id *objfile.Identity) []Descriptor {
	var out []Descriptor
	if id.MachOUUID != nil {
		out = append(out, MachOUUID(*id.MachOUUID))
	}
	if cv := id.CodeView; cv != nil {
		out = append(out, PDBInfo{Path: cv.Path, GUID: cv.GUID, Age: cv.Age})
	}
	if len(id.BuildID) > 0 {
		out = append(out, BuildID(id.BuildID))
	}
	if dl := id.DebugLink; dl != nil {
		out = append(out, GNUDebugLink{Filename: dl.Filename, CRC: dl.CRC})
	}
	return out
}

// LocateFile inspects the binary at path and resolves its debug file.
func (l *Locator) LocateFile(path string) (Result, error) {
	descs, err := Inspect(path)
	if err != nil {
		return Result{}, err
	}
	return l.Locate(descs, path)
}

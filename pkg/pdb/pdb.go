package pdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	bufra "github.com/avvmoto/buf-readerat"
	"github.com/google/uuid"
)

// Stream indices
const (
	StreamPDB = 1 // PDB info stream
)

// Size of the fixed PDB info stream header.
const infoHeaderSize = 28

var ErrNoInfoStream = errors.New("PDB info stream not found")

// Info is the identity recorded in the PDB info stream.
type Info struct {
	Version   uint32
	Signature uint32
	Age       uint32
	GUID      [16]byte
}

// UUID returns the GUID in RFC 4122 byte order.
func (i *Info) UUID() uuid.UUID { return GUID(i.GUID) }

// File is an opened MSF container.
type File struct {
	r       io.ReaderAt
	closer  io.Closer
	sb      *superBlock
	streams []stream
}

// OpenFile opens the PDB at path and parses its stream directory.
func OpenFile(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os open %s: %w", path, err)
	}
	f, err := NewFile(bufra.NewBufReaderAt(fd, 4096))
	if err != nil {
		fd.Close()
		return nil, err
	}
	f.closer = fd
	return f, nil
}

// NewFile parses an MSF container from r.
func NewFile(r io.ReaderAt) (*File, error) {
	sb, err := readSuperBlock(r)
	if err != nil {
		return nil, err
	}
	f := &File{r: r, sb: sb}
	if err = f.readStreamDirectory(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) NumStreams() int { return len(f.streams) }

func (f *File) Info() (*Info, error) {
	if len(f.streams) <= StreamPDB || f.streams[StreamPDB].size < infoHeaderSize {
		return nil, ErrNoInfoStream
	}
	data, err := f.readStream(StreamPDB, infoHeaderSize)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Version:   binary.LittleEndian.Uint32(data[0:]),
		Signature: binary.LittleEndian.Uint32(data[4:]),
		Age:       binary.LittleEndian.Uint32(data[8:]),
	}
	copy(info.GUID[:], data[12:28])
	return info, nil
}

func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// GUID converts a GUID in its Windows memory layout (first three fields
// little-endian) to RFC 4122 byte order.
func GUID(raw [16]byte) uuid.UUID {
	var id uuid.UUID
	id[0], id[1], id[2], id[3] = raw[3], raw[2], raw[1], raw[0]
	id[4], id[5] = raw[5], raw[4]
	id[6], id[7] = raw[7], raw[6]
	copy(id[8:], raw[8:])
	return id
}

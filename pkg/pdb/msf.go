// Package pdb reads the identity of a Program Database: the MSF 7.00
// container and its PDB info stream.
package pdb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MSF 7.00 magic signature
var msfMagic = []byte("Microsoft C/C++ MSF 7.00\r\n\x1aDS\x00\x00\x00")

const superBlockSize = 56

const unusedStream = 0xFFFFFFFF

var (
	ErrBadMagic  = errors.New("invalid MSF magic: not a PDB file")
	ErrMalformed = errors.New("malformed MSF container")
)

type superBlock struct {
	Magic             [32]byte
	BlockSize         uint32
	FreeBlockMapBlock uint32
	NumBlocks         uint32
	NumDirectoryBytes uint32
	Unknown           uint32
	BlockMapAddr      uint32
}

func (sb *superBlock) numDirectoryBlocks() uint64 {
	return blockCount(sb.NumDirectoryBytes, sb.BlockSize)
}

// capacity is the number of bytes addressed by the container.
func (sb *superBlock) capacity() uint64 {
	return uint64(sb.NumBlocks) * uint64(sb.BlockSize)
}

func blockCount(size, blockSize uint32) uint64 {
	return (uint64(size) + uint64(blockSize) - 1) / uint64(blockSize)
}

func (sb *superBlock) validate() error {
	if !bytes.Equal(sb.Magic[:], msfMagic) {
		return ErrBadMagic
	}
	switch sb.BlockSize {
	case 512, 1024, 2048, 4096:
	default:
		return fmt.Errorf("%w: block size %d", ErrMalformed, sb.BlockSize)
	}
	if sb.FreeBlockMapBlock != 1 && sb.FreeBlockMapBlock != 2 {
		return fmt.Errorf("%w: free block map block %d", ErrMalformed, sb.FreeBlockMapBlock)
	}
	if sb.NumDirectoryBytes == 0 || sb.BlockMapAddr >= sb.NumBlocks ||
		uint64(sb.NumDirectoryBytes) > sb.capacity() {
		return fmt.Errorf("%w: stream directory out of range", ErrMalformed)
	}
	// The block map must fit in the single block at BlockMapAddr.
	if sb.numDirectoryBlocks()*4 > uint64(sb.BlockSize) {
		return fmt.Errorf("%w: stream directory too large (%d bytes)", ErrMalformed, sb.NumDirectoryBytes)
	}
	return nil
}

type stream struct {
	size   uint32
	blocks []uint32
}

func readSuperBlock(r io.ReaderAt) (*superBlock, error) {
	var sb superBlock
	if err := binary.Read(io.NewSectionReader(r, 0, superBlockSize), binary.LittleEndian, &sb); err != nil {
		return nil, fmt.Errorf("read superblock: %w", err)
	}
	if err := sb.validate(); err != nil {
		return nil, err
	}
	return &sb, nil
}

func (f *File) readBlock(idx uint32, p []byte) error {
	if idx >= f.sb.NumBlocks {
		return fmt.Errorf("%w: block %d beyond %d blocks", ErrMalformed, idx, f.sb.NumBlocks)
	}
	if n, err := f.r.ReadAt(p, int64(idx)*int64(f.sb.BlockSize)); n < len(p) {
		return fmt.Errorf("read block %d: %w", idx, err)
	}
	return nil
}

func (f *File) readStreamDirectory() error {
	bs := f.sb.BlockSize

	blockMap := make([]uint32, f.sb.numDirectoryBlocks())
	raw := make([]byte, len(blockMap)*4)
	if err := f.readBlock(f.sb.BlockMapAddr, raw); err != nil {
		return fmt.Errorf("read block map: %w", err)
	}
	for i := range blockMap {
		blockMap[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}

	dir := make([]byte, f.sb.NumDirectoryBytes)
	for i, idx := range blockMap {
		start := uint32(i) * bs
		end := min(start+bs, uint32(len(dir)))
		if err := f.readBlock(idx, dir[start:end]); err != nil {
			return fmt.Errorf("read directory: %w", err)
		}
	}
	return f.parseStreamDirectory(dir)
}

func (f *File) parseStreamDirectory(dir []byte) error {
	next := func() (uint32, error) {
		if len(dir) < 4 {
			return 0, fmt.Errorf("%w: truncated stream directory", ErrMalformed)
		}
		v := binary.LittleEndian.Uint32(dir)
		dir = dir[4:]
		return v, nil
	}

	n, err := next()
	if err != nil {
		return err
	}
	if uint64(n)*4 > uint64(len(dir)) {
		return fmt.Errorf("%w: %d streams in a %d byte directory", ErrMalformed, n, len(dir))
	}

	f.streams = make([]stream, n)
	for i := range f.streams {
		if f.streams[i].size, err = next(); err != nil {
			return err
		}
	}
	for i := range f.streams {
		s := &f.streams[i]
		if s.size == unusedStream {
			s.size = 0
			continue
		}
		if uint64(s.size) > f.sb.capacity() {
			return fmt.Errorf("%w: stream %d size %d exceeds container", ErrMalformed, i, s.size)
		}
		s.blocks = make([]uint32, blockCount(s.size, f.sb.BlockSize))
		for j := range s.blocks {
			if s.blocks[j], err = next(); err != nil {
				return err
			}
		}
	}
	return nil
}

// readStream returns at most limit bytes from the head of stream idx.
func (f *File) readStream(idx int, limit uint32) ([]byte, error) {
	if idx < 0 || idx >= len(f.streams) {
		return nil, fmt.Errorf("stream index %d out of range [0, %d)", idx, len(f.streams))
	}
	s := f.streams[idx]
	size := min(s.size, limit)
	out := make([]byte, size)
	bs := f.sb.BlockSize
	for i, off := 0, uint32(0); off < size; i, off = i+1, off+bs {
		if i >= len(s.blocks) {
			return nil, fmt.Errorf("%w: stream %d has %d blocks for %d bytes", ErrMalformed, idx, len(s.blocks), s.size)
		}
		end := min(off+bs, size)
		if err := f.readBlock(s.blocks[i], out[off:end]); err != nil {
			return nil, fmt.Errorf("read stream %d: %w", idx, err)
		}
	}
	return out, nil
}

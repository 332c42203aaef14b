// Package pdbtest writes minimal PDB files for tests.
package pdbtest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const blockSize = 512

var magic = []byte("Microsoft C/C++ MSF 7.00\r\n\x1aDS\x00\x00\x00")

// Bytes builds a six block MSF container: superblock, two free block maps,
// the block map, the stream directory and a PDB info stream holding guid and age.
func Bytes(guid [16]byte, age uint32) []byte {
	const numBlocks = 6
	buf := make([]byte, numBlocks*blockSize)
	le := binary.LittleEndian

	// block 0: superblock
	copy(buf, magic)
	le.PutUint32(buf[32:], blockSize)
	le.PutUint32(buf[36:], 1) // free block map block
	le.PutUint32(buf[40:], numBlocks)
	le.PutUint32(buf[44:], 16) // directory bytes: count + 2 sizes + 1 block
	le.PutUint32(buf[52:], 3)  // block map address

	// block 3: block map
	le.PutUint32(buf[3*blockSize:], 4)

	// block 4: stream directory
	dir := buf[4*blockSize:]
	le.PutUint32(dir[0:], 2)  // streams
	le.PutUint32(dir[4:], 0)  // stream 0 size
	le.PutUint32(dir[8:], 28) // stream 1 size
	le.PutUint32(dir[12:], 5) // stream 1 block

	// block 5: PDB info stream
	info := buf[5*blockSize:]
	le.PutUint32(info[0:], 20000404)
	le.PutUint32(info[4:], 0x5f000000)
	le.PutUint32(info[8:], age)
	copy(info[12:], guid[:])
	return buf
}

// Write writes a PDB to path, creating parent directories.
func Write(t testing.TB, path string, guid [16]byte, age uint32) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, Bytes(guid, age), 0o644))
	return path
}

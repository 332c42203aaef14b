package pdb

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietanhduong/debugfind/pkg/pdb/pdbtest"
)

var testGUID = [16]byte{
	0x78, 0x56, 0x34, 0x12, 0xbc, 0x9a, 0xf0, 0xde,
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
}

func TestGUID(t *testing.T) {
	id := GUID(testGUID)
	assert.Equal(t, uuid.MustParse("12345678-9abc-def0-0102-030405060708"), id)
}

func TestFile_Info(t *testing.T) {
	path := pdbtest.Write(t, filepath.Join(t.TempDir(), "app.pdb"), testGUID, 3)

	f, err := OpenFile(path)
	require.NoError(t, err, "Failed to open pdb")
	t.Cleanup(func() { f.Close() })

	assert.Equal(t, 2, f.NumStreams())
	info, err := f.Info()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), info.Age)
	assert.Equal(t, uint32(20000404), info.Version)
	assert.Equal(t, testGUID, info.GUID)
	assert.Equal(t, "12345678-9abc-def0-0102-030405060708", info.UUID().String())
}

func TestNewFile_Malformed(t *testing.T) {
	valid := pdbtest.Bytes(testGUID, 1)

	testcases := []struct {
		name   string
		data   func() []byte
		expect error
	}{
		{
			name:   "TEST FAILURE: not a pdb",
			data:   func() []byte { return bytes.Repeat([]byte{0x7f}, 1024) },
			expect: ErrBadMagic,
		},
		{
			name: "TEST FAILURE: bad block size",
			data: func() []byte {
				b := bytes.Clone(valid)
				b[32] = 0x33
				return b
			},
			expect: ErrMalformed,
		},
		{
			name: "TEST FAILURE: block map beyond file",
			data: func() []byte {
				b := bytes.Clone(valid)
				b[52] = 0x40
				return b
			},
			expect: ErrMalformed,
		},
		{
			name: "TEST FAILURE: stream count overflows directory",
			data: func() []byte {
				b := bytes.Clone(valid)
				b[4*512] = 0xff
				return b
			},
			expect: ErrMalformed,
		},
		{
			name: "TEST FAILURE: stream size overflows block count",
			data: func() []byte {
				b := bytes.Clone(valid)
				binary.LittleEndian.PutUint32(b[4*512+8:], 0xFFFFFFF0)
				return b
			},
			expect: ErrMalformed,
		},
		{
			name: "TEST FAILURE: directory larger than container",
			data: func() []byte {
				b := bytes.Clone(valid)
				binary.LittleEndian.PutUint32(b[44:], 0xFFFFFFFF)
				return b
			},
			expect: ErrMalformed,
		},
	}
	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFile(bytes.NewReader(tt.data()))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expect)
		})
	}
}

func TestFile_TruncatedInfo(t *testing.T) {
	data := pdbtest.Bytes(testGUID, 1)
	path := filepath.Join(t.TempDir(), "short.pdb")
	require.NoError(t, os.WriteFile(path, data[:5*512+8], 0o644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Info()
	assert.Error(t, err)
}

func TestFile_NoInfoStream(t *testing.T) {
	data := pdbtest.Bytes(testGUID, 1)
	data[4*512] = 1 // one stream only

	f, err := NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = f.Info()
	assert.ErrorIs(t, err, ErrNoInfoStream)
}

func TestFile_readStream_MissingBlocks(t *testing.T) {
	f, err := NewFile(bytes.NewReader(pdbtest.Bytes(testGUID, 1)))
	require.NoError(t, err)
	f.streams[StreamPDB].blocks = nil
	_, err = f.Info()
	assert.ErrorIs(t, err, ErrMalformed)
}

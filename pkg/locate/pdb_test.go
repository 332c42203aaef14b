package locate

import (
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietanhduong/debugfind/pkg/pdb/pdbtest"
)

func Test_LocatePDB(t *testing.T) {
	info := PDBInfo{GUID: guidA, Age: 3}

	testcases := []struct {
		name  string
		setup func(t *testing.T, dir string) (bin string, info PDBInfo, want string)
		opts  func(dir string) []Option
	}{
		{
			name: "module directory convention",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				unsetenv(t, envSymbolPath)
				unsetenv(t, envAltSymbolPath)
				bin := writeFile(t, filepath.Join(dir, "bin", "app.exe"), []byte("MZ"))
				want := pdbtest.Write(t, filepath.Join(dir, "bin", "app.pdb"), guidA, 3)
				pdbtest.Write(t, filepath.Join(dir, "bin", "exe", "app.pdb"), guidA, 3)
				pdbtest.Write(t, filepath.Join(dir, "bin", "symbols", "exe", "app.pdb"), guidA, 3)
				i := info
				i.Path = []byte(filepath.Join(dir, "missing", "app.pdb"))
				return bin, i, want
			},
		},
		{
			name: "embedded path",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				bin := writeFile(t, filepath.Join(dir, "bin", "app.exe"), []byte("MZ"))
				want := pdbtest.Write(t, filepath.Join(dir, "build", "app.pdb"), guidA, 3)
				pdbtest.Write(t, filepath.Join(dir, "bin", "app.pdb"), guidA, 3)
				i := info
				i.Path = []byte(want)
				return bin, i, want
			},
		},
		{
			name: "embedded path with wrong age is skipped",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				unsetenv(t, envSymbolPath)
				unsetenv(t, envAltSymbolPath)
				bin := writeFile(t, filepath.Join(dir, "bin", "app.exe"), []byte("MZ"))
				stale := pdbtest.Write(t, filepath.Join(dir, "build", "app.pdb"), guidA, 2)
				want := pdbtest.Write(t, filepath.Join(dir, "bin", "exe", "app.pdb"), guidA, 3)
				i := info
				i.Path = []byte(stale)
				return bin, i, want
			},
		},
		{
			name: "malformed embedded pdb is skipped",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				unsetenv(t, envSymbolPath)
				unsetenv(t, envAltSymbolPath)
				bin := writeFile(t, filepath.Join(dir, "bin", "app.exe"), []byte("MZ"))
				bad := pdbtest.Bytes(guidA, 3)
				binary.LittleEndian.PutUint32(bad[4*512+8:], 0xFFFFFFF0) // info stream size
				corrupt := writeFile(t, filepath.Join(dir, "build", "app.pdb"), bad)
				want := pdbtest.Write(t, filepath.Join(dir, "bin", "app.pdb"), guidA, 3)
				i := info
				i.Path = []byte(corrupt)
				return bin, i, want
			},
		},
		{
			name: "symbol path order with servers skipped",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				bin := writeFile(t, filepath.Join(dir, "bin", "app.dll"), []byte("MZ"))
				pdbtest.Write(t, filepath.Join(dir, "sym1", "app.pdb"), guidB, 3)
				want := pdbtest.Write(t, filepath.Join(dir, "sym2", "symbols", "dll", "app.pdb"), guidA, 3)
				pdbtest.Write(t, filepath.Join(dir, "bin", "app.pdb"), guidA, 3)
				t.Setenv(envSymbolPath, strings.Join([]string{
					`srv*C:\symbols*https://msdl.microsoft.com/download/symbols`,
					filepath.Join(dir, "sym1"),
					"",
					"CACHE*" + filepath.Join(dir, "bin"),
					filepath.Join(dir, "nonexistent"),
				}, ";"))
				t.Setenv(envAltSymbolPath, filepath.Join(dir, "sym2"))
				return bin, info, want
			},
		},
		{
			name: "configured search path before module directory",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				unsetenv(t, envSymbolPath)
				unsetenv(t, envAltSymbolPath)
				bin := writeFile(t, filepath.Join(dir, "bin", "app.exe"), []byte("MZ"))
				want := pdbtest.Write(t, filepath.Join(dir, "extra", "app.pdb"), guidA, 3)
				pdbtest.Write(t, filepath.Join(dir, "bin", "app.pdb"), guidA, 3)
				return bin, info, want
			},
			opts: func(dir string) []Option {
				return []Option{WithPDBSearchPaths(filepath.Join(dir, "extra"))}
			},
		},
		{
			name: "binary without extension",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				unsetenv(t, envSymbolPath)
				unsetenv(t, envAltSymbolPath)
				bin := writeFile(t, filepath.Join(dir, "bin", "app"), []byte("MZ"))
				pdbtest.Write(t, filepath.Join(dir, "bin", "app.pdb"), guidA, 3)
				return bin, info, ""
			},
		},
		{
			name: "guid mismatch",
			setup: func(t *testing.T, dir string) (string, PDBInfo, string) {
				unsetenv(t, envSymbolPath)
				unsetenv(t, envAltSymbolPath)
				bin := writeFile(t, filepath.Join(dir, "bin", "app.exe"), []byte("MZ"))
				pdbtest.Write(t, filepath.Join(dir, "bin", "app.pdb"), guidB, 3)
				writeFile(t, filepath.Join(dir, "bin", "exe", "app.pdb"), []byte("not a pdb"))
				return bin, info, ""
			},
		},
	}
	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			dir := tempDir(t)
			bin, info, want := tt.setup(t, dir)
			var opts []Option
			if tt.opts != nil {
				opts = tt.opts(dir)
			}
			l := New(opts...)
			got, err := l.LocatePDB(bin, info)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// probing again gives the same answer
			again, err := l.LocatePDB(bin, info)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func Test_LocatePDB_BadModulePath(t *testing.T) {
	unsetenv(t, envSymbolPath)
	unsetenv(t, envAltSymbolPath)
	dir := tempDir(t)
	_, err := New().LocatePDB(filepath.Join(dir, "gone", "app.exe"), PDBInfo{GUID: guidA, Age: 1})
	assert.ErrorIs(t, err, ErrBadPath)
}

func Test_pdbCandidates(t *testing.T) {
	dir := filepath.FromSlash("/sym")
	testcases := []struct {
		name   string
		expect []string
	}{
		{
			name: "app.exe",
			expect: []string{
				filepath.FromSlash("/sym/app.pdb"),
				filepath.FromSlash("/sym/exe/app.pdb"),
				filepath.FromSlash("/sym/symbols/exe/app.pdb"),
			},
		},
		{
			name: "lib.v2.dll",
			expect: []string{
				filepath.FromSlash("/sym/lib.v2.pdb"),
				filepath.FromSlash("/sym/dll/lib.v2.pdb"),
				filepath.FromSlash("/sym/symbols/dll/lib.v2.pdb"),
			},
		},
		{name: "app"},
		{name: "app."},
		{name: ".profile"},
	}
	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, pdbCandidates(dir, tt.name))
		})
	}
}

func Test_splitSearchPath(t *testing.T) {
	assert.Equal(t, []string{`C:\a`, "srv*x", `D:\b`}, splitSearchPath(`C:\a;;srv*x;D:\b;`))
	assert.Empty(t, splitSearchPath(""))
	assert.Empty(t, splitSearchPath(";;"))
}

func Test_isSymbolServer(t *testing.T) {
	for _, p := range []string{"srv*", `SRV*C:\sym*https://example.com`, "cache*", `Cache*D:\cache`} {
		assert.True(t, isSymbolServer(p), p)
	}
	for _, p := range []string{`C:\srv`, "server*", "/tmp/cache", "cachedir"} {
		assert.False(t, isSymbolServer(p), p)
	}
}

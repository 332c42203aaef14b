//go:build linux

package main

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietanhduong/debugfind/pkg/config"
	"github.com/vietanhduong/debugfind/pkg/locate"
	"github.com/vietanhduong/debugfind/pkg/objfile/objtest"
)

func fakeProcess(t *testing.T, host string, pid int, maps string) string {
	t.Helper()
	dir := filepath.Join(host, "proc", fmt.Sprint(pid))
	writeFile(t, filepath.Join(dir, "maps"), []byte(maps))
	return filepath.Join(dir, "root")
}

func Test_resolvePids(t *testing.T) {
	host := t.TempDir()
	debugDir := t.TempDir()
	const maps = `00400000-00452000 r-xp 00000000 08:01 1234                               /app
00651000-00652000 rw-p 00051000 08:01 1234                               /app
7f0000000000-7f0000020000 r-xp 00000000 08:01 5678                       /lib/libfoo.so
7ffd55b49000-7ffd55b4b000 r-xp 00000000 00:00 0                          [vdso]
`
	for _, pid := range []int{100, 200} {
		root := fakeProcess(t, host, pid, maps)
		objtest.WriteFile(t, filepath.Join(root, "app"), objtest.ELF([]byte{0xab, 0xcd}, "", 0))
		objtest.WriteFile(t, filepath.Join(root, "lib", "libfoo.so"), objtest.ELF([]byte{0x01, 0x02}, "", 0))
	}
	debug := writeFile(t, filepath.Join(debugDir, ".build-id", "ab", "cd.debug"), []byte("x"))

	cfg := &config.Config{
		DebugDirs: []string{debugDir},
		VerifyCRC: true,
		ProcPath:  "/proc",
		HostPath:  host,
		Jobs:      2,
	}
	entries, err := resolvePids(locate.New(cfg.LocatorOptions()...), cfg, []int{100, 200})
	require.NoError(t, err)

	want := []entry{
		{Pid: 100, Binary: "/app", DebugFile: debug, Strategy: locate.KindBuildID},
		{Pid: 100, Binary: "/lib/libfoo.so"},
		{Pid: 200, Binary: "/app", DebugFile: debug, Strategy: locate.KindBuildID},
		{Pid: 200, Binary: "/lib/libfoo.so"},
	}
	assert.Equal(t, want, entries)
}

func Test_resolvePids_NoProcess(t *testing.T) {
	cfg := &config.Config{ProcPath: "/proc", HostPath: t.TempDir(), Jobs: 1}
	_, err := resolvePids(locate.New(), cfg, []int{4242})
	require.Error(t, err)
}

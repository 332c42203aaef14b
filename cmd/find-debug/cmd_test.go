package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietanhduong/debugfind/pkg/locate"
	"github.com/vietanhduong/debugfind/pkg/objfile/objtest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func Test_Command(t *testing.T) {
	dir := t.TempDir()
	debugDir := t.TempDir()
	found := objtest.WriteFile(t, filepath.Join(dir, "found"), objtest.ELF([]byte{0x12, 0x34, 0x56}, "", 0))
	debug := writeFile(t, filepath.Join(debugDir, ".build-id", "12", "3456.debug"), []byte("x"))
	missing := objtest.WriteFile(t, filepath.Join(dir, "missing"), objtest.ELF([]byte{0x99, 0x88}, "", 0))
	script := writeFile(t, filepath.Join(dir, "script.sh"), []byte("#!/bin/sh\n"))

	t.Run("TEST SUCCESS: text output", func(t *testing.T) {
		out, err := run(t, "--debug-dirs", debugDir, found, missing, script)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, found+": "+debug+" (build-id)", lines[0])
		assert.Equal(t, missing+": not found", lines[1])
		assert.True(t, strings.HasPrefix(lines[2], script+": error: "), lines[2])
	})

	t.Run("TEST SUCCESS: json output", func(t *testing.T) {
		out, err := run(t, "--debug-dirs", debugDir, "-o", "json", found)
		require.NoError(t, err)
		var e entry
		require.NoError(t, json.Unmarshal([]byte(out), &e))
		assert.Equal(t, entry{Binary: found, DebugFile: debug, Strategy: locate.KindBuildID}, e)
	})

	t.Run("TEST FAILURE: fail missing", func(t *testing.T) {
		_, err := run(t, "--debug-dirs", debugDir, "--fail-missing", found, missing)
		assert.ErrorIs(t, err, errMissing)
	})

	t.Run("TEST FAILURE: no input", func(t *testing.T) {
		_, err := run(t)
		assert.ErrorContains(t, err, "required")
	})

	t.Run("TEST FAILURE: invalid output", func(t *testing.T) {
		_, err := run(t, "-o", "yaml", found)
		assert.ErrorContains(t, err, "invalid --output")
	})
}

func Test_entryString(t *testing.T) {
	assert.Equal(t, "[42] /bin/ls: not found", entry{Pid: 42, Binary: "/bin/ls"}.String())
	assert.Equal(t, "app: app.pdb (pdb)", entry{Binary: "app", DebugFile: "app.pdb", Strategy: locate.KindPDB}.String())
}

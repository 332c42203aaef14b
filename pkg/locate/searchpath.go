package locate

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	envSymbolPath    = "_NT_SYMBOL_PATH"
	envAltSymbolPath = "_NT_ALT_SYMBOL_PATH"
)

// splitSearchPath splits a semicolon separated symbol path, dropping empty
// elements.
func splitSearchPath(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ";") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envSearchPath(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	return splitSearchPath(v)
}

// isSymbolServer reports whether a symbol path element is a symbol server or
// cache directive rather than a directory.
func isSymbolServer(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "srv*") || strings.HasPrefix(lower, "cache*")
}

// pdbCandidates returns dir/base.pdb, dir/ext/base.pdb and
// dir/symbols/ext/base.pdb for a module named base.ext. A module without an
// extension yields nothing.
func pdbCandidates(dir, name string) []string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" || base == "" {
		return nil
	}
	pdb := base + ".pdb"
	return []string{
		filepath.Join(dir, pdb),
		filepath.Join(dir, ext, pdb),
		filepath.Join(dir, "symbols", ext, pdb),
	}
}

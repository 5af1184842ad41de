// Small validation helpers for command-line and environment-variable arguments that name
// filesystem locations.
package options

import (
	"fmt"
	"io/fs"
	"os"
	"path"
)

// RequireDirectory checks that optval is non-empty and names an existing directory, returning the
// cleaned path.  Used by dbpath when validating a candidate root directory (DB_DIR, DB, db, .).
func RequireDirectory(optval, optname string) (string, error) {
	if optval == "" {
		return "", fmt.Errorf("required argument: %s", optname)
	}

	optval = path.Clean(optval)
	info, err := os.DirFS(optval).(fs.StatFS).Stat(".")
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("bad %s directory %s", optname, optval)
	}

	return optval, nil
}

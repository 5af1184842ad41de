// Package dbpath implements the File Search / Path Resolver of spec.md §4.6: given a logical
// database name and a date, it produces an ordered list of candidate filesystem paths, the first
// existing one of which the caller should open.
package dbpath

import (
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"detectordb/internal/filesys"
	"detectordb/internal/options"
)

// dateLayout is the on-disk directory-name format, "YYYYMMDD".
const dateLayout = "20060102"

// Candidates returns the ordered candidate path list for name as of date, per spec.md §4.6.
//
// If name contains a '/', it is returned verbatim as the sole candidate (step 1). Otherwise the
// database root directory is chosen by trying, in order, $DB_DIR, then the literal directories
// "DB" and "db", then "." (step 2); within it, date subdirectories (exactly 8 decimal digits) and
// an optional DEFAULT directory are enumerated, and the date subdirectory governing date is
// selected (steps 3-4); the candidates are then emitted in the fixed order of step 6.
func Candidates(name string, date time.Time) ([]string, error) {
	if strings.ContainsRune(name, '/') {
		return []string{name}, nil
	}

	filename := normalizeFilename(name)

	root, err := chooseRoot()
	if err != nil {
		return []string{path.Join(".", filename)}, nil
	}

	dateDirs, hasDefault, err := filesys.EnumerateDateDirs(root)
	if err != nil {
		return []string{path.Join(".", filename)}, nil
	}

	selected := selectDateDir(dateDirs, date)

	candidates := []string{path.Join(".", filename)}
	if selected != "" {
		candidates = append(candidates, path.Join(root, selected, filename))
	}
	if hasDefault {
		candidates = append(candidates, path.Join(root, "DEFAULT", filename))
	}
	candidates = append(candidates, path.Join(root, filename))
	return candidates, nil
}

// normalizeFilename applies spec.md §4.6 step 5: prepend "db_" if absent, append ".dat" if
// absent.
func normalizeFilename(name string) string {
	if !strings.HasPrefix(name, "db_") {
		name = "db_" + name
	}
	if !strings.HasSuffix(name, ".dat") {
		name += ".dat"
	}
	return name
}

// chooseRoot tries $DB_DIR, then the literal relative directories "DB" and "db", then ".", in
// order, returning the first that names an openable directory. Only DB_DIR is an environment
// variable; "DB" and "db" are directory names to probe directly (spec.md §4.6 step 2).
func chooseRoot() (string, error) {
	if dir, err := options.RequireDirectory(os.Getenv("DB_DIR"), "DB_DIR"); err == nil {
		return dir, nil
	}
	for _, candidate := range []string{"DB", "db", "."} {
		if dir, err := options.RequireDirectory(candidate, candidate); err == nil {
			return dir, nil
		}
	}
	return "", os.ErrNotExist
}

// selectDateDir picks the date directory d (already sorted ascending by EnumerateDateDirs) such
// that d <= date < next(d); per spec.md §9's open question, a date preceding the earliest
// directory selects none rather than falling back to the earliest.
func selectDateDir(dateDirs []string, date time.Time) string {
	if len(dateDirs) == 0 {
		return ""
	}
	stamp := date.Format(dateLayout)
	idx := sort.Search(len(dateDirs), func(i int) bool { return dateDirs[i] > stamp })
	if idx == 0 {
		return ""
	}
	return dateDirs[idx-1]
}

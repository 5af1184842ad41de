// Filesystem helpers used by dbpath (date-directory enumeration under a database root) and by
// tests across this module (temp-directory fixtures).
package filesys

import (
	"os"
	"path"
	"regexp"
	"sort"
)

// dateDirName matches an 8-decimal-digit directory name, e.g. "20050615", per spec §4.6 step 3.
var dateDirName = regexp.MustCompile(`^\d{8}$`)

// EnumerateDateDirs lists the immediate subdirectories of root whose names are exactly 8 decimal
// digits, sorted ascending, plus whether a "DEFAULT" subdirectory exists.
func EnumerateDateDirs(root string) (dateDirs []string, hasDefault bool, err error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, false, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "DEFAULT" {
			hasDefault = true
			continue
		}
		if dateDirName.MatchString(name) {
			dateDirs = append(dateDirs, name)
		}
	}
	sort.Strings(dateDirs)
	return
}

// TestFile describes a file to materialize under a temp directory in PopulateTestData.
type TestFile struct {
	Dir  string
	Name string
	Data []byte
}

// PopulateTestData creates a fresh temp directory and populates it with the given files (and their
// parent directories).  The caller should os.RemoveAll the returned directory when done, normally
// via defer.  On error, no directory is left behind.
func PopulateTestData(tag string, data ...TestFile) (string, error) {
	tempdir, err := os.MkdirTemp("", tag+"_test")
	if err != nil {
		return "", err
	}
	for _, d := range data {
		err = os.MkdirAll(path.Join(tempdir, d.Dir), 0700)
		if err != nil {
			os.RemoveAll(tempdir)
			return "", err
		}
		err = os.WriteFile(path.Join(tempdir, d.Dir, d.Name), d.Data, 0600)
		if err != nil {
			os.RemoveAll(tempdir)
			return "", err
		}
	}
	return tempdir, nil
}

// Package iniconfig wraps github.com/lars-t-hansen/ini to read the per-user daemon/CLI defaults
// file for the commands in cmd/, the way sonalyze's common/inifile.go reads ~/.sonalyze. This is
// pure ambient configuration; it never feeds into the core resolver's own file format (spec.md
// §6's grammar is unrelated to ini syntax).
package iniconfig

import (
	"errors"
	"os"
	"path"

	ini "github.com/lars-t-hansen/ini"
)

var (
	parser  = ini.NewParser()
	section = parser.AddSection("detectordb")

	// DefaultDBDir reads a "db-dir" setting. Nothing in this module applies it: dbpath chooses
	// its root from $DB_DIR, DB, db and . only.
	DefaultDBDir = section.AddString("db-dir")
	// DefaultAuditURI, if present, is used by cmd/dbserve when -audit-uri is not given.
	DefaultAuditURI = section.AddString("audit-uri")
	// DefaultKafkaBroker, if present, is used by cmd/dbserve when -kafka is not given.
	DefaultKafkaBroker = section.AddString("kafka-broker")
)

var store *ini.Store

// Load reads ~/.detectordb, if present, populating the package-level Field defaults above. It is
// safe to call more than once; the last call wins. A missing file is not an error.
func Load() error {
	home := os.Getenv("HOME")
	if home == "" {
		return nil
	}
	fn := path.Join(path.Clean(home), ".detectordb")
	input, err := os.Open(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer input.Close()
	s, err := parser.Parse(input)
	if err != nil {
		return err
	}
	store = s
	return nil
}

// ApplyDefault sets *sp to f's configured value, expanding environment variables, when *sp is
// currently empty and f is present in the loaded file.
func ApplyDefault(sp *string, f *ini.Field) bool {
	if *sp != "" || store == nil || !f.Present(store) {
		return false
	}
	*sp = os.ExpandEnv(f.StringVal(store))
	return true
}

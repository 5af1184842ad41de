// Package dbvalue implements the Value Resolver of spec.md §4.3: a single-pass scan of a file
// that returns the text assigned to a key under the date stamp that is most-recent-but-not-after
// the requested date.
package dbvalue

import (
	"errors"
	"io"
	"time"

	"detectordb/dberr"
	"detectordb/dbline"
	"detectordb/dbmetrics"
	"detectordb/dbsubst"
	"detectordb/dbtag"
	"detectordb/internal/status"
)

// Sentinel is the minimum timestamp a date stamp can carry (spec.md §3).
var Sentinel = time.Date(1995, time.January, 1, 0, 0, 0, 0, time.Local)

// LoadValue scans r from its current position for key's value as of date (callers such as
// dbrequest seek r to the start first), applying expand (use
// dbsubst.NoOp{} if the caller has no text-variable substitution) and logging malformed date
// stamps through logger (nil is accepted).
//
// It returns the resolved text and true, or "", false with err == dberr.ErrNotFound if the scan
// completes without an honored match. Any other non-nil err is an I/O error from r.
func LoadValue(r io.Reader, date time.Time, key string, expand dbsubst.Expander, logger status.Logger) (string, bool, error) {
	lr, err := dbline.NewReader(r)
	if err != nil {
		return "", false, dberr.Wrap(dberr.IOError, "reading database file", err)
	}
	return LoadValueFrom(lr, date, key, expand, logger)
}

// LoadValueFromReader is LoadValue's counterpart for a caller that already holds a *dbline.Reader
// positioned where the scan should start (e.g. dbseek.LoadFromSection, after seeking to a
// section). It always uses a no-op Expander; callers needing substitution should call
// LoadValueFrom directly.
func LoadValueFromReader(lr *dbline.Reader, date time.Time, key string, logger status.Logger) (string, bool, error) {
	return LoadValueFrom(lr, date, key, dbsubst.NoOp{}, logger)
}

// ErrNotFoundForSection is returned by dbseek.LoadFromSection when the named section itself
// cannot be located. It is the same value as dberr.ErrNotFound (returned when the section was
// found but the key was not), so the two cases cannot be told apart by the error alone; both
// satisfy IsNotFound.
var ErrNotFoundForSection = dberr.ErrNotFound

// LoadValueFrom runs the Value Resolver algorithm against an already-open line reader, starting
// from its current position rather than rewinding to the start of the file. This is the shared
// core between LoadValue (which scans a freshly buffered copy of its reader) and section-scoped
// lookups that have already seeked past a header.
func LoadValueFrom(lr *dbline.Reader, date time.Time, key string, expand dbsubst.Expander, logger status.Logger) (string, bool, error) {
	if expand == nil {
		expand = dbsubst.NoOp{}
	}

	currentStamp := Sentinel
	lastHonoredStamp := Sentinel
	ignore := false
	found := false
	var text string

	for {
		line, ok := lr.ReadLine()
		if !ok {
			break
		}
		for _, expanded := range expand.Expand(line) {
			if !ignore {
				switch result, value := dbtag.MatchKey(expanded, key); result {
				case 1:
					lastHonoredStamp = currentStamp
					found = true
					text = value
					continue
				}
			}
			if stamp, ok := dbtag.ParseDateStamp(expanded, logger); ok {
				currentStamp = stamp
				ignore = currentStamp.After(date) || currentStamp.Before(lastHonoredStamp)
			}
		}
	}

	dbmetrics.RecordLookup(found)
	if !found {
		return "", false, dberr.ErrNotFound
	}
	return text, true, nil
}

// IsNotFound reports whether err is dbvalue/dberr's not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, dberr.ErrNotFound)
}

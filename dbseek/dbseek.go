// Package dbseek implements the seek helpers of spec.md §4.7: positioning a file at a named
// configuration section, or at the date-appropriate point within one, without running a full
// Value Resolver scan.
package dbseek

import (
	"io"
	"regexp"
	"strings"
	"time"

	"detectordb/dbline"
	"detectordb/dbtag"
	"detectordb/dbvalue"
	"detectordb/internal/status"
)

var bracketRe = regexp.MustCompile(`\[([^\]]*)\]`)

// normalizeBracket collapses internal whitespace runs to nothing, matching the "whitespace-
// compressed occurrence" comparison of spec.md §4.7.
func normalizeBracket(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// SeekConfig scans lr forward for a section tag matching "[label=tag]" (or "[tag]" if label is
// empty), comparing bracket contents with whitespace compressed out. On success it leaves lr
// positioned just after that line and returns true. If endOnTag is set and a non-matching section
// tag is encountered first, the scan stops there and lr is rewound to where it started. lr is
// also rewound on any other failure (no match before EOF).
func SeekConfig(lr *dbline.Reader, tag, label string, endOnTag bool) bool {
	start := lr.Pos()
	var want string
	if label == "" {
		want = normalizeBracket(tag)
	} else {
		want = normalizeBracket(label + "=" + tag)
	}

	for {
		line, ok := lr.ReadLine()
		if !ok {
			break
		}
		m := bracketRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if normalizeBracket(m[1]) == want {
			return true
		}
		if endOnTag && dbtag.IsSectionTag(line) {
			break
		}
	}
	lr.SeekTo(start)
	return false
}

// SeekDate scans lr forward recording the position immediately after each date stamp that is <=
// date and >= lastHonored, mirroring the Value Resolver's own stamp-admission rule (spec.md §4.3)
// without also matching keys. It stops at EOF or, if endOnTag is set, at the first non-date
// section tag. It leaves lr positioned after the best (latest-admitted) stamp found, or rewinds to
// its starting position if none was admitted.
func SeekDate(lr *dbline.Reader, date, lastHonored time.Time, endOnTag bool, logger status.Logger) (newLastHonored time.Time, found bool) {
	start := lr.Pos()
	best := start
	newLastHonored = lastHonored

	for {
		pos := lr.Pos()
		line, ok := lr.ReadLine()
		if !ok {
			break
		}
		if stamp, ok := dbtag.ParseDateStamp(line, logger); ok {
			if !stamp.After(date) && !stamp.Before(newLastHonored) {
				newLastHonored = stamp
				best = lr.Pos()
				found = true
			}
			continue
		}
		if endOnTag && dbtag.IsSectionTag(line) {
			lr.SeekTo(pos)
			break
		}
	}

	if !found {
		lr.SeekTo(start)
		return lastHonored, false
	}
	lr.SeekTo(best)
	return newLastHonored, true
}

// LoadFromSection is a convenience composing SeekConfig and dbvalue.LoadValue: it positions at the
// named section, then resolves key within the remainder of the file as of date. This is not part
// of the original seek-helper pair; it is a natural composition the distillation omitted but
// original_source's callers rely on routinely (every configuration lookup is section-scoped).
func LoadFromSection(r io.ReadSeeker, label, tag, key string, date time.Time, logger status.Logger) (string, bool, error) {
	lr, err := dbline.NewReader(r)
	if err != nil {
		return "", false, err
	}
	if !SeekConfig(lr, tag, label, false) {
		return "", false, dbvalueNotFound()
	}
	return dbvalue.LoadValueFromReader(lr, date, key, logger)
}

func dbvalueNotFound() error {
	return dbvalue.ErrNotFoundForSection
}

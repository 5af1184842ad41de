// Package dbtag implements the pure predicates/parsers of spec.md §4.2 that classify a logical
// Line as a date stamp, a section tag, or a key=value assignment. None of these touch the file
// position; they operate on an already-assembled Line string.
package dbtag

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"detectordb/internal/status"
)

// sectionTagRe matches ".*[.+].*" with at least one non-"]" character inside the brackets, per
// spec.md §4.2.2.
var sectionTagRe = regexp.MustCompile(`\[[^\]]+\]`)

// IsSectionTag reports whether line contains a bracketed region with at least one character in
// it. Used to bound sub-scans (dbseek).
func IsSectionTag(line string) bool {
	return sectionTagRe.MatchString(line)
}

// dateContentRe matches the content of a date-stamp bracket: "yyyy-mm-dd hh:mi:ss" optionally
// followed by a numeric %z-style timezone offset such as "+0100" or "-0530".
var dateContentRe = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})\s+(\d{2}):(\d{2}):(\d{2})(?:\s+([+-]\d{4}))?$`)

// ParseDateStamp attempts to recognize line as a date-stamp line "[ yyyy-mm-dd hh:mi:ss ]"
// (spec.md §4.2.1). It succeeds only if the bracketed region is long enough to plausibly hold a
// timestamp (rbrk > lbrk+11) and the content inside parses cleanly; years before 1995 are rejected
// outright (not a warning -- this mirrors genuinely non-timestamp bracket content, e.g. a plain
// section tag that happens to contain digits). Malformed bracket content that is long enough to
// look like an attempt at a timestamp produces a suppressible warning through logger (nil is
// accepted and means "no logging") and a failed recognition, never an abort of the caller's scan.
func ParseDateStamp(line string, logger status.Logger) (time.Time, bool) {
	lbrk := strings.IndexByte(line, '[')
	if lbrk < 0 {
		return time.Time{}, false
	}
	rbrkRel := strings.IndexByte(line[lbrk+1:], ']')
	if rbrkRel < 0 {
		return time.Time{}, false
	}
	rbrk := lbrk + 1 + rbrkRel
	if rbrk <= lbrk+11 {
		return time.Time{}, false
	}

	content := strings.TrimSpace(line[lbrk+1 : rbrk])
	m := dateContentRe.FindStringSubmatch(content)
	if m == nil {
		if logger != nil {
			logger.Warningf("malformed date stamp: %q", line)
		}
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(m[1])
	if year < 1995 {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	if m[7] == "" {
		return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local), true
	}

	offset := m[7]
	sign := 1
	if offset[0] == '-' {
		sign = -1
	}
	oh, _ := strconv.Atoi(offset[1:3])
	om, _ := strconv.Atoi(offset[3:5])
	loc := time.FixedZone("", sign*(oh*3600+om*60))
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	return t.In(time.Local), true
}

// findAssignmentEq locates the first "real" assignment '=' in line: one that is not part of "==",
// "!=", "<=", or ">=" (spec.md §4.2.3). Returns ok=false if none exists.
func findAssignmentEq(line string) (idx int, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != '=' {
			continue
		}
		if i > 0 {
			switch line[i-1] {
			case '!', '<', '>', '=':
				continue
			}
		}
		if i+1 < len(line) && line[i+1] == '=' {
			continue
		}
		return i, true
	}
	return 0, false
}

// IsAssignment reports whether line is an assignment: it has a "real" '=' with at least one
// non-whitespace character to its left (spec.md §4.2.3).
func IsAssignment(line string) bool {
	idx, ok := findAssignmentEq(line)
	if !ok {
		return false
	}
	return strings.TrimSpace(line[:idx]) != ""
}

// MatchKey is the key matcher of spec.md §4.2.4. It returns:
//
//	 0, ""    -- line has no assignment '=' at all
//	-1, ""    -- line is an assignment but the left side does not equal key
//	+1, value -- line assigns to key; value is the right side with leading whitespace stripped
func MatchKey(line, key string) (result int, value string) {
	idx, ok := findAssignmentEq(line)
	if !ok {
		return 0, ""
	}
	left := strings.TrimSpace(line[:idx])
	if left != key {
		return -1, ""
	}
	return 1, strings.TrimLeft(line[idx+1:], " ")
}

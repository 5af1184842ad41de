package dbvalue

import (
	"strings"
	"testing"
	"time"
)

func parseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

func TestLatestStampWins(t *testing.T) {
	content := "[ 2000-01-01 00:00:00 ]\nx = 1\n[ 2010-06-15 12:00:00 ]\nx = 2\n"

	v, found, err := LoadValue(strings.NewReader(content), parseDate(t, "2015-01-01 00:00:00"), "x", nil, nil)
	if err != nil || !found || v != "2" {
		t.Fatalf("2015 lookup: v=%q found=%v err=%v", v, found, err)
	}

	v, found, err = LoadValue(strings.NewReader(content), parseDate(t, "2005-01-01 00:00:00"), "x", nil, nil)
	if err != nil || !found || v != "1" {
		t.Fatalf("2005 lookup: v=%q found=%v err=%v", v, found, err)
	}

	_, found, err = LoadValue(strings.NewReader(content), parseDate(t, "1999-01-01 00:00:00"), "x", nil, nil)
	if found || !IsNotFound(err) {
		t.Fatalf("1999 lookup: found=%v err=%v, want NotFound", found, err)
	}
}

func TestEqualStampLastWins(t *testing.T) {
	content := "[ 2010-06-15 12:00:00 ]\nx = 1\nx = 2\n"
	v, found, err := LoadValue(strings.NewReader(content), parseDate(t, "2020-01-01 00:00:00"), "x", nil, nil)
	if err != nil || !found || v != "2" {
		t.Fatalf("v=%q found=%v err=%v", v, found, err)
	}
}

func TestStampRewindIgnoresOlderBlock(t *testing.T) {
	// A later physical block stamped earlier than the already-honored stamp must not overwrite
	// the value honored under the newer stamp (spec.md §4.3's rationale paragraph).
	content := "[ 2010-01-01 00:00:00 ]\nx = new\n[ 2000-01-01 00:00:00 ]\nx = old\n"
	v, found, err := LoadValue(strings.NewReader(content), parseDate(t, "2020-01-01 00:00:00"), "x", nil, nil)
	if err != nil || !found || v != "new" {
		t.Fatalf("v=%q found=%v err=%v, want %q", v, found, err, "new")
	}
}

func TestNotFoundWhenKeyAbsent(t *testing.T) {
	content := "[ 2000-01-01 00:00:00 ]\ny = 1\n"
	_, found, err := LoadValue(strings.NewReader(content), parseDate(t, "2020-01-01 00:00:00"), "x", nil, nil)
	if found || !IsNotFound(err) {
		t.Fatalf("found=%v err=%v, want NotFound", found, err)
	}
}

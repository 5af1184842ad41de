package dbseek

import (
	"strings"
	"testing"
	"time"

	"detectordb/dbline"
)

func TestSeekConfigFindsLabeledSection(t *testing.T) {
	content := "[other]\nignored = 1\n[unit=u1]\nx = 1\n"
	lr, err := dbline.NewReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !SeekConfig(lr, "u1", "unit", false) {
		t.Fatalf("expected to find section")
	}
	line, ok := lr.ReadLine()
	if !ok || line != "x = 1" {
		t.Fatalf("positioned wrong: line=%q ok=%v", line, ok)
	}
}

func TestSeekConfigRewindsOnFailure(t *testing.T) {
	content := "[other]\nx = 1\n"
	lr, err := dbline.NewReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	start := lr.Pos()
	if SeekConfig(lr, "u1", "unit", false) {
		t.Fatalf("expected not to find section")
	}
	if lr.Pos() != start {
		t.Fatalf("did not rewind on failure")
	}
}

func TestSeekConfigEndOnTagStopsAtNonMatchingSection(t *testing.T) {
	content := "[unit=u1]\nx = 1\n[unit=u2]\ny = 1\n"
	lr, err := dbline.NewReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !SeekConfig(lr, "u1", "unit", true) {
		t.Fatalf("expected to find first section")
	}
	// Now scanning for a section that doesn't exist should stop at [unit=u2] and rewind.
	start := lr.Pos()
	if SeekConfig(lr, "u3", "unit", true) {
		t.Fatalf("expected not to find u3")
	}
	if lr.Pos() != start {
		t.Fatalf("did not rewind after end-on-tag stop")
	}
}

func TestLoadFromSection(t *testing.T) {
	content := "[unit=u1]\nx = 1\n[unit=u2]\nx = 2\n"
	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	v, found, err := LoadFromSection(strings.NewReader(content), "unit", "u2", "x", date, nil)
	if err != nil || !found || v != "2" {
		t.Fatalf("v=%q found=%v err=%v", v, found, err)
	}
}

func TestNormalizeBracket(t *testing.T) {
	if got := normalizeBracket("  unit = u1  "); got != "unit=u1" {
		t.Errorf("got %q", got)
	}
}

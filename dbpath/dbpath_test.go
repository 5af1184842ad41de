package dbpath

import (
	"os"
	"path"
	"testing"
	"time"

	"detectordb/internal/filesys"
)

func TestCandidatesPassthroughForPathWithSlash(t *testing.T) {
	c, err := Candidates("some/where/db_cal.dat", time.Now())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(c) != 1 || c[0] != "some/where/db_cal.dat" {
		t.Fatalf("got %v", c)
	}
}

func TestCandidatesBeginAndEnd(t *testing.T) {
	dir, err := filesys.PopulateTestData("dbpath",
		filesys.TestFile{Dir: "20000101", Name: "db_cal.dat", Data: []byte("x")},
		filesys.TestFile{Dir: "20100615", Name: "db_cal.dat", Data: []byte("x")},
		filesys.TestFile{Dir: "DEFAULT", Name: "db_cal.dat", Data: []byte("x")},
		filesys.TestFile{Dir: ".", Name: "db_cal.dat", Data: []byte("x")},
	)
	if err != nil {
		t.Fatalf("PopulateTestData: %v", err)
	}
	defer os.RemoveAll(dir)

	t.Setenv("DB_DIR", dir)
	date := time.Date(2015, 1, 1, 0, 0, 0, 0, time.Local)

	candidates, err := Candidates("cal", date)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(candidates) < 2 {
		t.Fatalf("got %v", candidates)
	}
	if candidates[0] != path.Join(".", "db_cal.dat") {
		t.Errorf("first candidate = %q", candidates[0])
	}
	last := candidates[len(candidates)-1]
	if last != path.Join(dir, "db_cal.dat") {
		t.Errorf("last candidate = %q, want %q", last, path.Join(dir, "db_cal.dat"))
	}
	found2010 := false
	for _, c := range candidates {
		if c == path.Join(dir, "20100615", "db_cal.dat") {
			found2010 = true
		}
	}
	if !found2010 {
		t.Errorf("expected the 2010-06-15 date directory to be selected, got %v", candidates)
	}
}

func TestSelectDateDirBeforeEarliestSelectsNone(t *testing.T) {
	dirs := []string{"20000101", "20100615"}
	if got := selectDateDir(dirs, time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local)); got != "" {
		t.Errorf("got %q, want none", got)
	}
}

func TestSelectDateDirAfterLatestSelectsLatest(t *testing.T) {
	dirs := []string{"20000101", "20100615"}
	if got := selectDateDir(dirs, time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local)); got != "20100615" {
		t.Errorf("got %q, want 20100615", got)
	}
}

func TestNormalizeFilename(t *testing.T) {
	cases := map[string]string{
		"cal":          "db_cal.dat",
		"db_cal":       "db_cal.dat",
		"cal.dat":      "db_cal.dat",
		"db_cal.dat":   "db_cal.dat",
	}
	for in, want := range cases {
		if got := normalizeFilename(in); got != want {
			t.Errorf("normalizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

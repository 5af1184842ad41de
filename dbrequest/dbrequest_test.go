package dbrequest

import (
	"strings"
	"testing"
	"time"
)

func openMem(content string) *strings.Reader {
	return strings.NewReader(content)
}

func parseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

func TestHierarchicalLookupSucceedsWithPositiveSearch(t *testing.T) {
	f := openMem("L.nw = 7\n")
	date := parseDate(t, "2020-01-01 00:00:00")

	var nw int32
	requests := []Item{{Name: "nw", Destination: &nw, Type: TypeInt32}}
	ctx := NewLoadContext("test", nil, nil)

	status := LoadDatabase(f, date, requests, "L.vdc.u1.", 1, ctx)
	if status != 0 {
		t.Fatalf("status=%d, want 0", status)
	}
	if nw != 7 {
		t.Fatalf("nw=%d, want 7", nw)
	}
}

func TestHierarchicalLookupFailsWithInsufficientBudget(t *testing.T) {
	f := openMem("L.nw = 7\n")
	date := parseDate(t, "2020-01-01 00:00:00")

	var nw int32
	requests := []Item{{Name: "nw", Destination: &nw, Type: TypeInt32}}
	ctx := NewLoadContext("test", nil, nil)

	status := LoadDatabase(f, date, requests, "L.vdc.u1.", -1, ctx)
	if status == 0 {
		t.Fatalf("expected failure, got success with nw=%d", nw)
	}
}

func TestOptionalMissingKeySucceedsSilently(t *testing.T) {
	f := openMem("x = 1\n")
	date := parseDate(t, "2020-01-01 00:00:00")

	var missing int32 = -99
	requests := []Item{{Name: "y", Destination: &missing, Type: TypeInt32, Optional: true}}
	ctx := NewLoadContext("test", nil, nil)

	status := LoadDatabase(f, date, requests, "", 0, ctx)
	if status != 0 {
		t.Fatalf("status=%d, want 0", status)
	}
	if missing != -99 {
		t.Fatalf("destination was touched: %d", missing)
	}
}

func TestRequiredMissingKeyReturnsIndexPlusOne(t *testing.T) {
	f := openMem("x = 1\n")
	date := parseDate(t, "2020-01-01 00:00:00")

	var x, y int32
	requests := []Item{
		{Name: "x", Destination: &x, Type: TypeInt32},
		{Name: "y", Destination: &y, Type: TypeInt32},
	}
	ctx := NewLoadContext("test", nil, nil)

	status := LoadDatabase(f, date, requests, "", 0, ctx)
	if status != 2 {
		t.Fatalf("status=%d, want 2", status)
	}
	if x != 1 {
		t.Fatalf("earlier item should remain populated: x=%d", x)
	}
}

func TestMatrixAndArrayTypes(t *testing.T) {
	f := openMem("m = 1 2 3 4 5 6\nv = 10 20 30\n")
	date := parseDate(t, "2020-01-01 00:00:00")

	var m [][]int32
	var v []int32
	requests := []Item{
		{Name: "m", Destination: &m, Type: TypeIntMatrix32, Nelem: 3},
		{Name: "v", Destination: &v, Type: TypeIntArray32},
	}
	ctx := NewLoadContext("test", nil, nil)

	status := LoadDatabase(f, date, requests, "", 0, ctx)
	if status != 0 {
		t.Fatalf("status=%d", status)
	}
	if len(m) != 2 || len(m[0]) != 3 {
		t.Fatalf("m=%v", m)
	}
	if len(v) != 3 {
		t.Fatalf("v=%v", v)
	}
}

func TestArrayLengthMismatch(t *testing.T) {
	f := openMem("v = 10 20 30\n")
	date := parseDate(t, "2020-01-01 00:00:00")

	var v []int32
	requests := []Item{{Name: "v", Destination: &v, Type: TypeIntArray32, Nelem: 4}}
	ctx := NewLoadContext("test", nil, nil)

	status := LoadDatabase(f, date, requests, "", 0, ctx)
	if status >= 0 {
		t.Fatalf("status=%d, want a negative array-length-mismatch code", status)
	}
}

func TestChopAndDots(t *testing.T) {
	if got := chop("L.vdc.u1."); got != "L.vdc." {
		t.Errorf("chop: got %q", got)
	}
	if got := chop(""); got != "" {
		t.Errorf("chop empty: got %q", got)
	}
	if got := dots("L.vdc.u1."); got != 3 {
		t.Errorf("dots: got %d", got)
	}
}

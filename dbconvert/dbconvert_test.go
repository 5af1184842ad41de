package dbconvert

import (
	"reflect"
	"testing"
)

func TestConvertIntRangeChecks(t *testing.T) {
	if v, err := ConvertInt[uint8]("255"); err != nil || v != 255 {
		t.Fatalf("255: v=%v err=%v", v, err)
	}
	if _, err := ConvertInt[uint8]("256"); err == nil {
		t.Fatalf("256: expected error")
	}
	if _, err := ConvertInt[uint8]("-1"); err == nil {
		t.Fatalf("-1: expected error")
	}
	if v, err := ConvertInt[int8]("-128"); err != nil || v != -128 {
		t.Fatalf("-128: v=%v err=%v", v, err)
	}
	if _, err := ConvertInt[int8]("128"); err == nil {
		t.Fatalf("128: expected error")
	}
}

func TestConvertIntRejectsTrailingGarbage(t *testing.T) {
	if _, err := ConvertInt[int32]("12x"); err == nil {
		t.Fatalf("expected error for trailing garbage")
	}
	if _, err := ConvertInt[int32](""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if v, err := ConvertInt[int32]("12  "); err != nil || v != 12 {
		t.Fatalf("trailing whitespace should be allowed: v=%v err=%v", v, err)
	}
}

func TestConvertFloat(t *testing.T) {
	if v, err := ConvertFloat[float64]("3.5"); err != nil || v != 3.5 {
		t.Fatalf("v=%v err=%v", v, err)
	}
	if _, err := ConvertFloat[float64]("abc"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConvertIntArrayAbortsOnFieldFailure(t *testing.T) {
	_, err := ConvertIntArray[int32]("1 2 x 4")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestReshapeInt(t *testing.T) {
	m, err := ReshapeInt[int32]("1 2 3 4 5 6", 3)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	want := [][]int32{{1, 2, 3}, {4, 5, 6}}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %v, want %v", m, want)
	}

	if _, err := ReshapeInt[int32]("1 2 3 4 5", 3); err == nil {
		t.Fatalf("expected matrix column mismatch error")
	}
}

func TestConvertString(t *testing.T) {
	v, err := ConvertString("hello world")
	if err != nil || v != "hello world" {
		t.Fatalf("v=%q err=%v", v, err)
	}
}

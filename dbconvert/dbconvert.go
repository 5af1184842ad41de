// Package dbconvert implements the Typed Converters of spec.md §4.4: generic, range-checked
// conversion from a resolved text value to a numeric scalar, vector, or matrix, plus the
// pass-through string converters. Every converter here is driven by a Go type parameter rather
// than a runtime type tag; dbrequest's dispatch switch instantiates the one matching each request
// item's declared type, following the "numeric-trait bound on a generic function instantiation"
// design note.
package dbconvert

import (
	"strconv"
	"strings"

	"detectordb/dberr"
)

// Integer is the set of scalar types the integer converters accept.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Float is the set of scalar types the floating-point converters accept.
type Float interface {
	~float32 | ~float64
}

// bounds returns the inclusive [min, max] range of T, and whether T is unsigned. max is
// meaningless (and unchecked by the caller) for the two widest unsigned types, whose range is the
// full span strconv.ParseUint(_, 10, 64) already enforces.
func bounds[T Integer]() (min, max int64, unsigned, widestUnsigned bool) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return -1 << 7, 1<<7 - 1, false, false
	case int16:
		return -1 << 15, 1<<15 - 1, false, false
	case int32:
		return -1 << 31, 1<<31 - 1, false, false
	case int64, int:
		return -1 << 63, 1<<63 - 1, false, false
	case uint8:
		return 0, 1<<8 - 1, true, false
	case uint16:
		return 0, 1<<16 - 1, true, false
	case uint32:
		return 0, 1<<32 - 1, true, false
	case uint64, uint:
		return 0, 0, true, true
	default:
		return 0, 0, false, false
	}
}

// ConvertInt parses s (already trimmed by the Line Reader, but may carry trailing whitespace of
// its own within an array field) as a base-10 integer in T's range, per spec.md §4.4 step 3: the
// whole fragment must be consumed up to optional trailing whitespace, and out-of-range values
// fail.
func ConvertInt[T Integer](s string) (T, error) {
	field := strings.TrimRight(s, " \t")
	if field == "" {
		return 0, dberr.New(dberr.ConversionError, s)
	}
	min, max, unsigned, widestUnsigned := bounds[T]()
	if unsigned {
		u, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return 0, dberr.New(dberr.ConversionError, s)
		}
		if !widestUnsigned && u > uint64(max) {
			return 0, dberr.New(dberr.ConversionError, s)
		}
		return T(u), nil
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, dberr.New(dberr.ConversionError, s)
	}
	if n < min || n > max {
		return 0, dberr.New(dberr.ConversionError, s)
	}
	return T(n), nil
}

// ConvertFloat parses s as a base-10 floating-point literal of T's width.
func ConvertFloat[T Float](s string) (T, error) {
	field := strings.TrimRight(s, " \t")
	if field == "" {
		return 0, dberr.New(dberr.ConversionError, s)
	}
	var bitSize int
	switch any(T(0)).(type) {
	case float32:
		bitSize = 32
	default:
		bitSize = 64
	}
	f, err := strconv.ParseFloat(field, bitSize)
	if err != nil {
		return 0, dberr.New(dberr.ConversionError, s)
	}
	return T(f), nil
}

// fields splits s on runs of whitespace, as required for array and matrix conversion (spec.md
// §4.4: "splits on whitespace, pre-counts fields").
func fields(s string) []string {
	return strings.Fields(s)
}

// ConvertIntArray converts every whitespace-separated field of s to T. Any field failure aborts
// the whole array with an error carrying the original, un-truncated value string, per spec.md
// §4.4 ("an error whose text is the original full value string, not the failing token").
func ConvertIntArray[T Integer](s string) ([]T, error) {
	toks := fields(s)
	out := make([]T, len(toks))
	for i, tok := range toks {
		v, err := ConvertInt[T](tok)
		if err != nil {
			return nil, dberr.New(dberr.ConversionError, s)
		}
		out[i] = v
	}
	return out, nil
}

// ConvertFloatArray is ConvertIntArray's floating-point counterpart.
func ConvertFloatArray[T Float](s string) ([]T, error) {
	toks := fields(s)
	out := make([]T, len(toks))
	for i, tok := range toks {
		v, err := ConvertFloat[T](tok)
		if err != nil {
			return nil, dberr.New(dberr.ConversionError, s)
		}
		out[i] = v
	}
	return out, nil
}

// ReshapeInt converts s to an array and reshapes it row-major into ncols columns, per spec.md
// §4.4's matrix rule: the array length must be evenly divisible by ncols.
func ReshapeInt[T Integer](s string, ncols int) ([][]T, error) {
	flat, err := ConvertIntArray[T](s)
	if err != nil {
		return nil, err
	}
	return reshape(flat, ncols)
}

// ReshapeFloat is ReshapeInt's floating-point counterpart.
func ReshapeFloat[T Float](s string, ncols int) ([][]T, error) {
	flat, err := ConvertFloatArray[T](s)
	if err != nil {
		return nil, err
	}
	return reshape(flat, ncols)
}

func reshape[T any](flat []T, ncols int) ([][]T, error) {
	if ncols <= 0 || len(flat)%ncols != 0 {
		return nil, dberr.New(dberr.MatrixColumnMismatch, "")
	}
	nrows := len(flat) / ncols
	out := make([][]T, nrows)
	for r := 0; r < nrows; r++ {
		out[r] = flat[r*ncols : (r+1)*ncols]
	}
	return out, nil
}

// ConvertString returns s verbatim, per spec.md §4.4 ("the text value is returned verbatim").
func ConvertString(s string) (string, error) {
	return s, nil
}

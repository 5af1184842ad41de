// Package dbrequest implements the Request Loader of spec.md §4.5: it drives the Value Resolver
// and Typed Converters for each item of a caller-supplied request list, including hierarchical
// prefix fallback ("search up").
package dbrequest

import (
	"io"
	"strings"
	"time"

	"detectordb/dbconvert"
	"detectordb/dberr"
	"detectordb/dbmetrics"
	"detectordb/dbsubst"
	"detectordb/dbvalue"
	"detectordb/internal/status"
)

// Type selects the conversion pipeline for one request Item, per spec.md §3's "type selects the
// conversion pipeline (scalar numeric of 8 widths/signedness, float/double/long-double, plain
// string, text-buffer string, vector of numeric, matrix of numeric)".
type Type int

const (
	TypeInt8 Type = iota
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeString     // text value: destination is *string, value copied verbatim
	TypeIntArray8  // []int8, etc.: destination is *[]T
	TypeIntArray16
	TypeIntArray32
	TypeIntArray64
	TypeUintArray8
	TypeUintArray16
	TypeUintArray32
	TypeUintArray64
	TypeFloatArray32
	TypeFloatArray64
	TypeIntMatrix8 // [][]T: destination is *[][]T, nelem holds ncols
	TypeIntMatrix16
	TypeIntMatrix32
	TypeIntMatrix64
	TypeUintMatrix8
	TypeUintMatrix16
	TypeUintMatrix32
	TypeUintMatrix64
	TypeFloatMatrix32
	TypeFloatMatrix64
)

// Item is one entry of a request list, spec.md §3's "DBRequest item".
type Item struct {
	Name        string
	Destination any // *T, *[]T, *[][]T, or *string depending on Type; nil means "skip"
	Nelem       int // scalar: 0 or 1; array: expected length (0 = unconstrained); matrix: ncols
	Type        Type
	Optional    bool
	Descript    string
	SearchLevel int // per-item override of the loader's global_search; 0 means "use global"
}

// LoadContext replaces the per-thread mutable state of spec.md §3/§9 (error-text buffer,
// recursion depth, loaded prefix) with an explicit value threaded by the caller, per the REDESIGN
// FLAG resolution recorded in SPEC_FULL.md §11. A LoadContext is not safe for concurrent use by
// multiple goroutines; create one per call to LoadDatabase.
type LoadContext struct {
	Here         string
	Logger       status.Logger
	Expand       dbsubst.Expander
	loadedPrefix string
	depth        int
}

// NewLoadContext builds a LoadContext for a top-level load. here is the diagnostic location label
// (spec.md §7); logger and expand may be nil (status.Default() and dbsubst.NoOp{} are used).
func NewLoadContext(here string, logger status.Logger, expand dbsubst.Expander) *LoadContext {
	if expand == nil {
		expand = dbsubst.NoOp{}
	}
	if logger == nil {
		logger = status.Default()
	}
	return &LoadContext{Here: here, Logger: logger, Expand: expand}
}

// LoadDatabase drives the resolver and converters for every item in requests, in order, against
// an io.ReadSeeker opened by the caller (spec.md §4.5). r must support Seek so the file can be
// rewound for each item's resolver scan, and for each hierarchical fallback attempt.
//
// Returns 0 on full success. On the first item that is not optional and cannot be resolved (at
// any fallback level), returns 1+index of that item and leaves items after it unpopulated;
// earlier items' destinations, already populated, are left as written (spec.md §7: "a failure
// short-circuits the request iteration; prior items already populated remain populated").
func LoadDatabase(r io.ReadSeeker, date time.Time, requests []Item, prefix string, globalSearch int, ctx *LoadContext) int {
	ctx.loadedPrefix = prefix
	ctx.depth++
	defer func() {
		ctx.depth--
		if ctx.depth == 0 {
			ctx.loadedPrefix = ""
		}
	}()

	for i, item := range requests {
		if item.Destination == nil {
			continue
		}
		key := prefix + item.Name
		text, found, err := lookup(r, date, key, ctx)
		if err != nil {
			ctx.Logger.Warningf("%s: %s: %v", ctx.Here, key, err)
			return dberr.MustCode(err)
		}

		if !found {
			searchLevel := item.SearchLevel
			if searchLevel == 0 {
				searchLevel = globalSearch
			}
			if searchLevel != 0 && prefix != "" {
				text, found = searchUp(r, date, item, prefix, searchLevel, ctx)
			}
		}

		if !found {
			if item.Optional {
				continue
			}
			ctx.Logger.Warningf("%s", status.FormatMissingKey(ctx.Here, ctx.loadedPrefix, item.Name, item.Descript))
			return i + 1
		}

		if code := store(item, text); code != 0 {
			return code
		}
	}
	return 0
}

// lookup resolves key as of date, rewinding r first (the Value Resolver always scans from the
// start of the file, spec.md §4.3).
func lookup(r io.ReadSeeker, date time.Time, key string, ctx *LoadContext) (string, bool, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", false, dberr.Wrap(dberr.IOError, key, err)
	}
	text, found, err := dbvalue.LoadValue(r, date, key, ctx.Expand, ctx.Logger)
	if err != nil {
		if dbvalue.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return text, found, nil
}

// chop removes the last dotted component of prefix: "L.vdc.u1." -> "L.vdc.". The empty prefix
// chops to itself.
func chop(prefix string) string {
	trimmed := strings.TrimSuffix(prefix, ".")
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return ""
	}
	return trimmed[:idx+1]
}

// dots counts the dotted components of prefix ("L.vdc.u1." has 3).
func dots(prefix string) int {
	if prefix == "" {
		return 0
	}
	return strings.Count(prefix, ".")
}

// searchUp implements spec.md §4.5's hierarchical fallback as an iterative loop (per the
// REDESIGN FLAG resolution in SPEC_FULL.md §11: avoid deep call chains), ascending the dotted
// prefix chain and re-running the resolver for item.Name alone at each level until the budget
// (effectiveSearch) is exhausted or a match is found.
func searchUp(r io.ReadSeeker, date time.Time, item Item, prefix string, effectiveSearch int, ctx *LoadContext) (string, bool) {
	search := effectiveSearch
	for prefix != "" && search != 0 {
		newPrefix := chop(prefix)
		newLevel := dots(newPrefix) + 1

		if search > 0 && newLevel < search {
			break
		}

		dbmetrics.RecordFallbackAttempt()
		key := newPrefix + item.Name
		text, found, err := lookup(r, date, key, ctx)
		if err == nil && found {
			return text, true
		}

		if search < 0 {
			search++
		}
		prefix = newPrefix
	}
	return "", false
}

// store dispatches item's Type to the matching Typed Converter and writes the result into
// item.Destination, applying the array-length check of spec.md §4.5: when an array item has a
// non-zero Nelem and the value has a different number of fields, the converted slice (whose
// length is the actual count) is still written to the destination and -130 is returned.
// item.Nelem itself is not updated. Returns 0 on success or a negative dberr.Code on failure.
func store(item Item, text string) int {
	switch item.Type {
	case TypeInt8:
		return storeScalar(item, dbconvert.ConvertInt[int8], text)
	case TypeInt16:
		return storeScalar(item, dbconvert.ConvertInt[int16], text)
	case TypeInt32:
		return storeScalar(item, dbconvert.ConvertInt[int32], text)
	case TypeInt64:
		return storeScalar(item, dbconvert.ConvertInt[int64], text)
	case TypeUint8:
		return storeScalar(item, dbconvert.ConvertInt[uint8], text)
	case TypeUint16:
		return storeScalar(item, dbconvert.ConvertInt[uint16], text)
	case TypeUint32:
		return storeScalar(item, dbconvert.ConvertInt[uint32], text)
	case TypeUint64:
		return storeScalar(item, dbconvert.ConvertInt[uint64], text)
	case TypeFloat32:
		return storeScalar(item, dbconvert.ConvertFloat[float32], text)
	case TypeFloat64:
		return storeScalar(item, dbconvert.ConvertFloat[float64], text)
	case TypeString:
		dst, ok := item.Destination.(*string)
		if !ok {
			return int(dberr.UnsupportedType)
		}
		*dst = text
		return 0
	case TypeIntArray8:
		return storeSlice(item, dbconvert.ConvertIntArray[int8], text)
	case TypeIntArray16:
		return storeSlice(item, dbconvert.ConvertIntArray[int16], text)
	case TypeIntArray32:
		return storeSlice(item, dbconvert.ConvertIntArray[int32], text)
	case TypeIntArray64:
		return storeSlice(item, dbconvert.ConvertIntArray[int64], text)
	case TypeUintArray8:
		return storeSlice(item, dbconvert.ConvertIntArray[uint8], text)
	case TypeUintArray16:
		return storeSlice(item, dbconvert.ConvertIntArray[uint16], text)
	case TypeUintArray32:
		return storeSlice(item, dbconvert.ConvertIntArray[uint32], text)
	case TypeUintArray64:
		return storeSlice(item, dbconvert.ConvertIntArray[uint64], text)
	case TypeFloatArray32:
		return storeSlice(item, dbconvert.ConvertFloatArray[float32], text)
	case TypeFloatArray64:
		return storeSlice(item, dbconvert.ConvertFloatArray[float64], text)
	case TypeIntMatrix8:
		return storeMatrix(item, dbconvert.ReshapeInt[int8], text)
	case TypeIntMatrix16:
		return storeMatrix(item, dbconvert.ReshapeInt[int16], text)
	case TypeIntMatrix32:
		return storeMatrix(item, dbconvert.ReshapeInt[int32], text)
	case TypeIntMatrix64:
		return storeMatrix(item, dbconvert.ReshapeInt[int64], text)
	case TypeUintMatrix8:
		return storeMatrix(item, dbconvert.ReshapeInt[uint8], text)
	case TypeUintMatrix16:
		return storeMatrix(item, dbconvert.ReshapeInt[uint16], text)
	case TypeUintMatrix32:
		return storeMatrix(item, dbconvert.ReshapeInt[uint32], text)
	case TypeUintMatrix64:
		return storeMatrix(item, dbconvert.ReshapeInt[uint64], text)
	case TypeFloatMatrix32:
		return storeMatrix(item, dbconvert.ReshapeFloat[float32], text)
	case TypeFloatMatrix64:
		return storeMatrix(item, dbconvert.ReshapeFloat[float64], text)
	default:
		return int(dberr.UnsupportedType)
	}
}

func storeScalar[T any](item Item, convert func(string) (T, error), text string) int {
	dst, ok := item.Destination.(*T)
	if !ok {
		return int(dberr.UnsupportedType)
	}
	v, err := convert(text)
	if err != nil {
		dbmetrics.RecordConversionError()
		return int(dberr.ConversionError)
	}
	*dst = v
	return 0
}

func storeSlice[T any](item Item, convert func(string) ([]T, error), text string) int {
	dst, ok := item.Destination.(*[]T)
	if !ok {
		return int(dberr.UnsupportedType)
	}
	v, err := convert(text)
	if err != nil {
		dbmetrics.RecordConversionError()
		return int(dberr.ConversionError)
	}
	*dst = v
	if item.Nelem != 0 && len(v) != item.Nelem {
		return int(dberr.ArrayLengthMismatch)
	}
	return 0
}

func storeMatrix[T any](item Item, reshape func(string, int) ([][]T, error), text string) int {
	dst, ok := item.Destination.(*[][]T)
	if !ok {
		return int(dberr.UnsupportedType)
	}
	v, err := reshape(text, item.Nelem)
	if err != nil {
		dbmetrics.RecordConversionError()
		return dberr.MustCode(err)
	}
	*dst = v
	return 0
}

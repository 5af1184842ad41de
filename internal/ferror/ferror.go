// Package ferror provides the fatal-on-condition helpers used by the command-line entry point
// cmd/dbdump. Library packages (dbline, dbvalue, dbconvert, dbrequest, ...) never
// call these -- they always return an error instead, so that this behavior stays confined to
// top-level tools the way it is in every teacher command in this codebase.
package ferror

import (
	"fmt"
	"os"
)

func Assert(cond bool, msg string) {
	if !cond {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
		os.Exit(1)
	}
}

func Check(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", msg, err.Error())
		os.Exit(1)
	}
}

// Checkf is Check with a formatted message, for call sites that want to name the value that
// failed (a candidate path, a logical database name) rather than just the operation.
func Checkf(err error, format string, args ...any) {
	if err != nil {
		Check(err, fmt.Sprintf(format, args...))
	}
}

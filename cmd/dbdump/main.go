// dbdump resolves a single key from a detectordb database and prints it, or resolves every
// candidate path for a logical name without opening any of them. It exists to exercise
// load_database from the command line during development; it is not part of the core engine.
//
// Usage:
//
//	dbdump -name cal -key L.vdc.u1.gain -date "2015-01-01 00:00:00"
//	dbdump -paths -name cal -date "2015-01-01 00:00:00"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"detectordb/dbpath"
	"detectordb/dbrequest"
	"detectordb/internal/ferror"
)

const dateLayout = "2006-01-02 15:04:05"

func main() {
	name := flag.String("name", "", "logical database name")
	key := flag.String("key", "", "key to resolve (omit with -paths)")
	prefix := flag.String("prefix", "", "dotted key prefix")
	dateStr := flag.String("date", "", "request date, \"YYYY-MM-DD HH:MI:SS\"")
	search := flag.Int("search", 0, "global hierarchical search level")
	showPaths := flag.Bool("paths", false, "print candidate paths and exit")
	flag.Parse()

	ferror.Assert(*name != "", "-name is required")
	ferror.Assert(*dateStr != "", "-date is required")

	date, err := time.ParseInLocation(dateLayout, *dateStr, time.Local)
	ferror.Check(err, "parsing -date")

	candidates, err := dbpath.Candidates(*name, date)
	ferror.Checkf(err, "resolving candidate paths for %q", *name)

	if *showPaths {
		for _, c := range candidates {
			fmt.Println(c)
		}
		return
	}

	ferror.Assert(*key != "", "-key is required unless -paths is given")

	var f *os.File
	for _, c := range candidates {
		f, err = os.Open(c)
		if err == nil {
			break
		}
	}
	if f == nil {
		log.Fatalf("no candidate path exists: %v", candidates)
	}
	defer f.Close()

	var value string
	requests := []dbrequest.Item{
		{Name: *key, Destination: &value, Type: dbrequest.TypeString},
	}
	ctx := dbrequest.NewLoadContext("dbdump", nil, nil)
	status := dbrequest.LoadDatabase(f, date, requests, *prefix, *search, ctx)
	if status != 0 {
		log.Fatalf("load_database failed: status %d", status)
	}
	fmt.Println(value)
}

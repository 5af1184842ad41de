// Package dbhttp exposes a small introspection API over a detectordb database root: given a
// logical name and a date, it reports the ordered candidate paths the engine would try, or runs a
// single-key load_database lookup (SPEC_FULL.md §9 item 3's GET /resolve) without a local client.
// It is read-only and diagnostic; it is never on the path that a library caller's own
// load_database call takes. Built with github.com/danielgtaylor/huma/v2 on a chi router, both
// named in sonalyze's own go.mod alongside this module's other domain dependencies.
package dbhttp

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"detectordb/dbaudit"
	"detectordb/dbmetrics"
	"detectordb/dbpath"
	"detectordb/dbrequest"
	"detectordb/dbwatch"
)

// PathQuery is the input to GET /v1/path.
type PathQuery struct {
	Name string `query:"name" doc:"logical database name, e.g. \"cal\"" required:"true"`
	Date string `query:"date" doc:"RFC3339 date-time to resolve against" required:"true"`
}

// PathResult is the output of GET /v1/path.
type PathResult struct {
	Body struct {
		Candidates []string `json:"candidates"`
	}
}

// ResolveQuery is the input to GET /resolve.
type ResolveQuery struct {
	Name   string `query:"name" doc:"logical database name, e.g. \"cal\"" required:"true"`
	Date   string `query:"date" doc:"RFC3339 date-time to resolve against" required:"true"`
	Key    string `query:"key" doc:"key to resolve" required:"true"`
	Prefix string `query:"prefix" doc:"dotted key prefix"`
}

// ResolveResult is the output of GET /resolve.
type ResolveResult struct {
	Body struct {
		Found bool   `json:"found"`
		Value string `json:"value,omitempty"`
	}
}

// Observers bundles the optional write-only domain-stack sinks a resolve lookup reports to. Both
// fields may be nil; a nil field is simply skipped, the way dbserve treats a sink it failed to
// open as "disabled" rather than fatal.
type Observers struct {
	Audit *dbaudit.Sink
	Watch *dbwatch.Publisher
}

// NewRouter builds a chi router serving the introspection and resolve API plus a Prometheus
// /metrics endpoint. obs may be nil (or have nil fields) to run with no audit/change-notification
// sinks wired in.
func NewRouter(obs *Observers) *chi.Mux {
	if obs == nil {
		obs = &Observers{}
	}
	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("detectordb", "1.0.0"))

	huma.Register(api, huma.Operation{
		OperationID: "resolve-path",
		Method:      http.MethodGet,
		Path:        "/v1/path",
		Summary:     "Resolve the candidate file paths for a logical database name and date",
	}, func(ctx context.Context, in *PathQuery) (*PathResult, error) {
		date, err := time.Parse(time.RFC3339, in.Date)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid date", err)
		}
		candidates, err := dbpath.Candidates(in.Name, date)
		if err != nil {
			return nil, huma.Error500InternalServerError("path resolution failed", err)
		}
		out := &PathResult{}
		out.Body.Candidates = candidates
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve",
		Method:      http.MethodGet,
		Path:        "/resolve",
		Summary:     "Resolve a single key against a detectordb database as of a date",
	}, func(ctx context.Context, in *ResolveQuery) (*ResolveResult, error) {
		date, err := time.Parse(time.RFC3339, in.Date)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid date", err)
		}
		candidates, err := dbpath.Candidates(in.Name, date)
		if err != nil {
			return nil, huma.Error500InternalServerError("path resolution failed", err)
		}

		var f *os.File
		for _, c := range candidates {
			if opened, openErr := os.Open(c); openErr == nil {
				f = opened
				break
			}
		}
		if f == nil {
			return nil, huma.Error404NotFound("no candidate database file exists")
		}
		defer f.Close()

		var value string
		requests := []dbrequest.Item{
			{Name: in.Key, Destination: &value, Type: dbrequest.TypeString},
		}
		lctx := dbrequest.NewLoadContext("dbhttp", nil, nil)
		result := dbrequest.LoadDatabase(f, date, requests, in.Prefix, 0, lctx)

		out := &ResolveResult{}
		out.Body.Found = result == 0
		if out.Body.Found {
			out.Body.Value = value
		}

		// Audit and change-notification are write-only side channels; a failure here never
		// fails the lookup itself.
		key := in.Prefix + in.Key
		if obs.Audit != nil {
			_ = obs.Audit.Record(ctx, dbaudit.Record{
				Here: "dbhttp", Key: key, Date: date, Found: out.Body.Found, Value: value,
			})
		}
		if obs.Watch != nil && !out.Body.Found {
			obs.Watch.Publish(ctx, dbwatch.Event{Kind: dbwatch.KindMiss, Key: key}, nil)
		}

		return out, nil
	})

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeMetrics(w)
	})

	return router
}

func writeMetrics(w io.Writer) {
	dbmetrics.WritePrometheus(w)
}

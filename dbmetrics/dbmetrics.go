// Package dbmetrics exposes Prometheus-style counters for the request loader and resolver using
// github.com/VictoriaMetrics/metrics, the counters/gauges library named in the pack's dKV module
// (ValentinKolb-dKV/go.mod). Like dbaudit and dbwatch, these are write-only observers: nothing
// here is consulted by a lookup, so instrumenting every call site costs nothing in resolver
// correctness.
package dbmetrics

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

var (
	lookupsTotal     = metrics.NewCounter(`detectordb_lookups_total`)
	lookupsFound     = metrics.NewCounter(`detectordb_lookups_found_total`)
	lookupsNotFound  = metrics.NewCounter(`detectordb_lookups_not_found_total`)
	fallbackAttempts = metrics.NewCounter(`detectordb_search_up_attempts_total`)
	conversionErrors = metrics.NewCounter(`detectordb_conversion_errors_total`)
)

// RecordLookup increments the lookup counters for one Value Resolver call.
func RecordLookup(found bool) {
	lookupsTotal.Inc()
	if found {
		lookupsFound.Inc()
	} else {
		lookupsNotFound.Inc()
	}
}

// RecordFallbackAttempt increments the hierarchical-fallback attempt counter once per ascension.
func RecordFallbackAttempt() {
	fallbackAttempts.Inc()
}

// RecordConversionError increments the typed-converter error counter.
func RecordConversionError() {
	conversionErrors.Inc()
}

// WritePrometheus writes the current metric set in the Prometheus text exposition format, for
// dbhttp's /metrics endpoint.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}

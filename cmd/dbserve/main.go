// dbserve runs the introspection and resolve HTTP API (dbhttp) over a detectordb database root,
// optionally publishing change-notification events to Kafka (dbwatch) and recording every
// resolved lookup to Postgres (dbaudit). It is a thin demonstration daemon, not part of the core
// engine; real embedders of this module call dbrequest.LoadDatabase directly.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"detectordb/dbaudit"
	"detectordb/dbhttp"
	"detectordb/dbwatch"
	"detectordb/internal/httpsrv"
	"detectordb/internal/iniconfig"
	"detectordb/internal/status"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	logTag := flag.String("syslog-tag", "", "if set, also log to syslog under this tag")
	auditURI := flag.String("audit-uri", "", "Postgres connection URI for the audit sink")
	kafkaBroker := flag.String("kafka", "", "Kafka broker for change-notification events")
	kafkaTopic := flag.String("kafka-topic", "detectordb-events", "Kafka topic for change-notification events")
	flag.Parse()

	if err := iniconfig.Load(); err != nil {
		status.Default().Warningf("reading ~/.detectordb: %v", err)
	}
	iniconfig.ApplyDefault(auditURI, iniconfig.DefaultAuditURI)
	iniconfig.ApplyDefault(kafkaBroker, iniconfig.DefaultKafkaBroker)

	if *logTag != "" {
		status.Start(*logTag)
	}

	ctx := context.Background()
	obs := &dbhttp.Observers{}

	if *auditURI != "" {
		sink, err := dbaudit.Open(ctx, *auditURI)
		if err != nil {
			status.Default().Errorf("audit sink disabled: %v", err)
		} else {
			obs.Audit = sink
			defer sink.Close(ctx)
		}
	}

	if *kafkaBroker != "" {
		pub, err := dbwatch.NewPublisher(*kafkaBroker, *kafkaTopic)
		if err != nil {
			status.Default().Errorf("change-notification publisher disabled: %v", err)
		} else {
			obs.Watch = pub
			defer pub.Close(ctx)
		}
	}

	router := dbhttp.NewRouter(obs)

	programFailed := false
	srv := httpsrv.New(*addr, router, nil, func(err error) {
		programFailed = true
	})
	go srv.Start()

	// Wait here until we're stopped by SIGHUP (manual) or SIGTERM (from OS during shutdown),
	// mirroring sonalyzed's own wait-for-signal-then-shutdown daemon loop.
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, syscall.SIGHUP, syscall.SIGTERM)
	<-stopSignal
	srv.Stop()

	if programFailed {
		os.Exit(1)
	}
}

// Package dbaudit is a write-only audit sink recording every resolved configuration lookup to a
// Postgres/Timescale table, the way sonalyze/db/timescaledb.go opens a single long-lived
// connection guarded by a mutex for safe concurrent use. It never feeds back into a lookup -- it
// has no Read path -- so it stays outside the "no caching across loads" non-goal: what it stores
// is history, not a cache.
package dbaudit

import (
	"context"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Record is one audited lookup: the fully qualified key, the request date, whether it resolved,
// and the resolved text (empty on a miss).
type Record struct {
	Here       string    `cbor:"here"`
	Key        string    `cbor:"key"`
	Date       time.Time `cbor:"date"`
	Found      bool      `cbor:"found"`
	Value      string    `cbor:"value"`
	RecordedAt time.Time `cbor:"recorded_at"`
}

// Sink owns a single pgx connection, like sonalyze's databaseConnection: the connection is not
// thread-safe, so every write acquires lock.
type Sink struct {
	connection *pgx.Conn
	lock       sync.Mutex
}

// Open connects to uri and ensures the audit table exists.
func Open(ctx context.Context, uri string) (*Sink, error) {
	conn, err := pgx.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	s := &Sink{connection: conn}
	const ddl = `
CREATE TABLE IF NOT EXISTS detectordb_audit (
	id BIGSERIAL PRIMARY KEY,
	recorded_at TIMESTAMPTZ NOT NULL,
	payload BYTEA NOT NULL
)`
	if _, err := s.exec(ctx, ddl); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Sink) exec(ctx context.Context, q string, args ...any) (pgconn.CommandTag, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.connection.Exec(ctx, q, args...)
}

// Record CBOR-encodes rec and appends it to the audit table. Encoding failures and write failures
// are both returned to the caller; dbhttp's resolve handler discards the error and continues
// rather than failing a lookup over a broken audit sink.
func (s *Sink) Record(ctx context.Context, rec Record) error {
	rec.RecordedAt = time.Now()
	payload, err := cbor.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, `INSERT INTO detectordb_audit (recorded_at, payload) VALUES ($1, $2)`,
		rec.RecordedAt, payload)
	return err
}

// Close releases the underlying connection.
func (s *Sink) Close(ctx context.Context) error {
	return s.connection.Close(ctx)
}

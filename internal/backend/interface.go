// Package backend defines the Backend Client adapter (C7): submitting
// already-transformed SQL to a configured data store and deriving wire-level
// field descriptors and row values from whatever that store returns.
//
// A Backend is opened once at startup from Config and shared read-only by
// every connection's dispatcher (§5: "Backend client: exclusive to the
// process; internally serializes concurrent callers with its own
// pool/lock; callers do not coordinate").
package backend

import (
	"context"
	"time"
)

// FieldDescriptor describes one column of a result set in terms the wire
// protocol can encode: a name and the Postgres wire type OID to report to
// the client. TypeOID is always a Postgres OID, even when DriverName is
// "snowflake" — the client always sees a Postgres-shaped response.
type FieldDescriptor struct {
	Name    string
	TypeOID uint32
}

// Row is one row of result values, already encoded as the wire's text
// values per column (nil means SQL NULL). Encoding happens here, in the
// backend adapter, because only the adapter knows each driver's native
// value types (§4.6).
type Row [][]byte

// Response is the result of executing one statement.
type Response struct {
	Fields       []FieldDescriptor
	Rows         []Row
	RowsAffected int64
	CommandTag   string
}

// Backend is the capability set a data store adapter must implement (§9:
// "capability sets over {execute}"; kept minimal on purpose — the hot path
// is the transformer, not the backend, so no generic/boxing concerns here).
type Backend interface {
	// Execute submits already-dialect-translated, already-transformed SQL
	// text (one or more statements joined by ";\n", per §4.4) and returns
	// one Response per statement actually executed. The dispatcher uses
	// only the first and surfaces it to the client (§4.4).
	Execute(ctx context.Context, sql string) ([]Response, error)

	// DriverName identifies the backend for logging and error messages.
	DriverName() string

	// Close releases pooled connections. Called once at process shutdown.
	Close()
}

// ConnectionConfig holds the settings common to opening any backend.
type ConnectionConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Pushkarm029/postgres-proxy-server/internal/backend"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

func init() {
	backend.Register("postgres", Open)
}

// Backend implements backend.Backend against a real PostgreSQL server. It
// is the direct-passthrough case: the client already speaks Postgres's
// wire protocol and dialect, so dialect translation (C2) is a no-op and
// type OIDs come straight from the driver's reported column types.
type Backend struct {
	db  *sql.DB
	cfg backend.ConnectionConfig
}

// Open dials PostgreSQL via pgx's database/sql driver and verifies
// connectivity before returning.
func Open(ctx context.Context, cfg backend.ConnectionConfig) (backend.Backend, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Backend{db: db, cfg: cfg}, nil
}

// DriverName identifies this backend for logging and error messages.
func (b *Backend) DriverName() string { return "postgres" }

// Close releases the pooled connections.
func (b *Backend) Close() {
	if b.db != nil {
		b.db.Close()
	}
}

// Execute runs sql as one or more ";\n"-separated statements and returns a
// Response per statement, in order (§4.4). Every statement is run in
// sequence on the same pooled connection acquisition, so later statements
// see session state that earlier ones left behind.
func (b *Backend) Execute(ctx context.Context, sqlText string) ([]backend.Response, error) {
	if b.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.QueryTimeout)
		defer cancel()
	}

	conn, err := b.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquire connection: %w", err)
	}
	defer conn.Close()

	statements := splitStatements(sqlText)
	responses := make([]backend.Response, 0, len(statements))
	for _, stmt := range statements {
		resp, err := execOne(ctx, conn, stmt)
		if err != nil {
			return responses, fmt.Errorf("postgres: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func execOne(ctx context.Context, conn *sql.Conn, stmt string) (backend.Response, error) {
	rows, err := conn.QueryContext(ctx, stmt)
	if err != nil {
		return backend.Response{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return backend.Response{}, fmt.Errorf("columns: %w", err)
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return backend.Response{}, fmt.Errorf("column types: %w", err)
	}

	fields := make([]backend.FieldDescriptor, len(cols))
	for i, c := range cols {
		fields[i] = backend.FieldDescriptor{
			Name:    c,
			TypeOID: TypeOID(colTypes[i].DatabaseTypeName()),
		}
	}

	var resultRows []backend.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return backend.Response{}, fmt.Errorf("scan: %w", err)
		}
		resultRows = append(resultRows, backend.EncodeRow(values))
	}
	if err := rows.Err(); err != nil {
		return backend.Response{}, fmt.Errorf("row iteration: %w", err)
	}

	return backend.Response{
		Fields:     fields,
		Rows:       resultRows,
		CommandTag: "SELECT",
	}, nil
}

// splitStatements splits a ";\n"-joined batch of statements (§4.4) back
// into individual statement strings, dropping empty trailing fragments.
func splitStatements(sqlText string) []string {
	parts := strings.Split(sqlText, ";\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return []string{sqlText}
	}
	return out
}

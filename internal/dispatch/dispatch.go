// Package dispatch implements the Query Dispatcher (C5): the per-query
// orchestration spec.md §4.4 describes as `handle(sql_text) → wire_response`
// — parse, transform, special-case information_schema.tables, submit to the
// backend, and translate every failure through the C6 error taxonomy.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Pushkarm029/postgres-proxy-server/internal/apperr"
	"github.com/Pushkarm029/postgres-proxy-server/internal/backend"
	"github.com/Pushkarm029/postgres-proxy-server/internal/sqlast"
	"github.com/Pushkarm029/postgres-proxy-server/internal/transform"
)

// tableNameOID is the Postgres OID for `text`, used for the single
// synthesized column of an intercepted information_schema.tables query
// (spec.md §6: "a single-column text result named table_name").
const tableNameOID = 25

// Dispatcher sequences one client query through parse → transform →
// execute for a single backend (spec.md §9: "all transformer state is
// stack-local to a single handle invocation" — Dispatcher itself holds no
// per-query state, so it is safe to share across every connection).
type Dispatcher struct {
	transformer  *transform.Transformer
	backend      backend.Backend
	queryTimeout time.Duration
}

func New(transformer *transform.Transformer, be backend.Backend, queryTimeout time.Duration) *Dispatcher {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &Dispatcher{transformer: transformer, backend: be, queryTimeout: queryTimeout}
}

// Result is what the wire server (A4) encodes back to the client: either a
// real backend Response or a dispatcher-synthesized one (information_schema
// interception never touches the backend).
type Result struct {
	Response     backend.Response
	OriginalSQL  string
	RewrittenSQL string
}

// Handle implements spec.md §4.4's handle(sql_text) operation.
func (d *Dispatcher) Handle(ctx context.Context, sqlText string) (*Result, error) {
	tree, err := sqlast.Parse(sqlText)
	if err != nil {
		return nil, err
	}

	rewritten, err := d.transformer.Transform(ctx, tree)
	if err != nil {
		var infoSchema *apperr.InformationSchemaResult
		if errors.As(err, &infoSchema) {
			return &Result{Response: synthesizeTableList(infoSchema.Names), OriginalSQL: sqlText}, nil
		}
		return nil, err
	}

	rewrittenSQL, err := sqlast.Deparse(rewritten)
	if err != nil {
		return nil, err
	}

	execCtx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	defer cancel()

	responses, err := d.backend.Execute(execCtx, rewrittenSQL)
	if err != nil {
		return nil, apperr.Backend(err.Error())
	}
	if len(responses) == 0 {
		return &Result{Response: backend.Response{}, OriginalSQL: sqlText, RewrittenSQL: rewrittenSQL}, nil
	}
	// Only the first statement's result is returned to the client (§4.4:
	// "multi-statement input is allowed in the text but this core batches
	// them as one script on the backend").
	return &Result{Response: responses[0], OriginalSQL: sqlText, RewrittenSQL: rewrittenSQL}, nil
}

// synthesizeTableList builds the in-process result for an intercepted
// `information_schema.tables` query, one row per known semantic model name
// (spec.md §4.4, §6).
func synthesizeTableList(names []string) backend.Response {
	rows := make([]backend.Row, len(names))
	for i, name := range names {
		rows[i] = backend.EncodeRow([]any{name})
	}
	return backend.Response{
		Fields: []backend.FieldDescriptor{{Name: "table_name", TypeOID: tableNameOID}},
		Rows:   rows,
	}
}

// SplitForLog returns a compact, single-line rendering of sqlText suitable
// for audit-event fields, collapsing internal whitespace.
func SplitForLog(sqlText string) string {
	return strings.Join(strings.Fields(sqlText), " ")
}

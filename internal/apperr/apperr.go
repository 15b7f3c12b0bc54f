// Package apperr implements the Error Surface (C6): the query-pipeline
// error taxonomy from spec.md §7, and its translation to PostgreSQL
// SQLSTATE error codes at the wire boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, matched with errors.Is/errors.As at the wire
// boundary (SPEC_FULL §7's ambient rule: sentinels wrapped with %w, never
// string-matched).
var (
	// ErrSqlParse: input is not valid SQL for the dialect.
	ErrSqlParse = errors.New("sql parse error")
	// ErrPermissionDenied: a non-Query top-level statement was submitted.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrMeasureNotFound: a measure name is missing in its owning model.
	ErrMeasureNotFound = errors.New("measure not found")
	// ErrModelNotFound: the driving table has no semantic model.
	ErrModelNotFound = errors.New("semantic model not found")
	// ErrColumnNotFound: a projected identifier is not a dimension of its model.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidMeasureFunction: MEASURE(...) is malformed.
	ErrInvalidMeasureFunction = errors.New("invalid measure function")
	// ErrUnsupportedSqlConstruct: e.g. wildcard mixed with other projections.
	ErrUnsupportedSqlConstruct = errors.New("unsupported sql construct")
	// ErrCycleDetected: derived/ratio measure references form a cycle.
	ErrCycleDetected = errors.New("cycle detected in measure rendering")
	// ErrBackend: the backend data store rejected or failed the query.
	ErrBackend = errors.New("backend error")
)

// SQLSTATE class for every wire error in this taxonomy (§7: "carry SQLSTATE
// class ERROR"). PostgreSQL's generic "internal_error" class; this proxy
// does not attempt finer-grained SQLSTATE mapping per kind.
const SQLStateError = "XX000"

// Error wraps a sentinel kind with a human-readable message, the shape C6
// hands to the wire server.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newErr(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func SqlParse(detail string) *Error {
	return newErr(ErrSqlParse, "sql parse error: %s", detail)
}

func PermissionDenied(stmtKind string) *Error {
	return newErr(ErrPermissionDenied, "permission denied: %s statements are not permitted (read-only proxy)", stmtKind)
}

func MeasureNotFound(name, model string) *Error {
	return newErr(ErrMeasureNotFound, "measure %q not found in model %q", name, model)
}

func ModelNotFound(table string) *Error {
	return newErr(ErrModelNotFound, "no semantic model named %q", table)
}

func ColumnNotFound(col, model string) *Error {
	return newErr(ErrColumnNotFound, "column %q not found in model %q", col, model)
}

func InvalidMeasureFunction(detail string) *Error {
	return newErr(ErrInvalidMeasureFunction, "invalid MEASURE(...) call: %s", detail)
}

func UnsupportedSqlConstruct(detail string) *Error {
	return newErr(ErrUnsupportedSqlConstruct, "unsupported SQL construct: %s", detail)
}

func CycleDetected(chain []string) *Error {
	return newErr(ErrCycleDetected, "cycle detected while rendering measure chain: %v", chain)
}

func Backend(detail string) *Error {
	return newErr(ErrBackend, "backend error: %s", detail)
}

// InformationSchemaResult is not a wire error: it is the sentinel C5 uses
// to short-circuit the backend and synthesize a result set in-process
// (§7: "handled in dispatcher, becomes a normal result"). It satisfies the
// error interface only so the transformer can return it through the same
// `transform(stmt_list) → stmt_list | TransformError` contract as every
// other failure; C5 must type-assert for it before treating anything else
// as a genuine error.
type InformationSchemaResult struct {
	Names []string
}

func (e *InformationSchemaResult) Error() string {
	return fmt.Sprintf("information_schema.tables intercepted (%d models)", len(e.Names))
}

// ClassOf returns the human-readable error-class name used in audit events
// (A3) for a wire error: "" if err is nil, and "UnknownError" if err is not
// one of this taxonomy's kinds (InformationSchemaResult included).
func ClassOf(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrSqlParse):
		return "SqlParseError"
	case errors.Is(err, ErrPermissionDenied):
		return "PermissionDenied"
	case errors.Is(err, ErrMeasureNotFound):
		return "MeasureNotFound"
	case errors.Is(err, ErrModelNotFound):
		return "ModelNotFound"
	case errors.Is(err, ErrColumnNotFound):
		return "ColumnNotFound"
	case errors.Is(err, ErrInvalidMeasureFunction):
		return "InvalidMeasureFunction"
	case errors.Is(err, ErrUnsupportedSqlConstruct):
		return "UnsupportedSqlConstruct"
	case errors.Is(err, ErrCycleDetected):
		return "CycleDetected"
	case errors.Is(err, ErrBackend):
		return "BackendError"
	default:
		return "UnknownError"
	}
}

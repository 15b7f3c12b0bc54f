// Package dialect implements Dialect Mapping (C2): the small per-backend
// table of parser dialect selection and function-name translation that C4
// consults while rewriting a query (spec.md §4.2).
package dialect

import "strings"

// Name identifies which backend's dialect rules apply.
type Name string

const (
	Postgres  Name = "postgres"
	Snowflake Name = "snowflake"
)

// Dialect is the opaque per-backend handle C3/C4 consult. It carries no
// parser state of its own — pg_query_go/v5 parses and deparses standard
// PostgreSQL syntax regardless of backend (every dialect difference this
// proxy cares about is function-name substitution applied post-parse, per
// spec.md §4.2), so DialectHandle exists to satisfy C3's contract and to
// let C4 select the right function-mapping table.
type Dialect struct {
	name Name
	fns  map[string]string
}

// For returns the Dialect for a DATA_STORE driver name ("postgres" or
// "snowflake"); unrecognized names fall back to Postgres's identity
// mapping, matching the original source's own PostgresMapping default.
func For(driver string) Dialect {
	switch Name(strings.ToLower(driver)) {
	case Snowflake:
		return Dialect{name: Snowflake, fns: snowflakeFunctionMap}
	default:
		return Dialect{name: Postgres, fns: nil}
	}
}

// DialectHandle is the opaque token C3 threads through parse/deparse calls.
func (d Dialect) DialectHandle() Name {
	return d.name
}

// MapFunction returns the backend-specific replacement for a zero-argument
// function call whose serialized source text is fnText, or ("", false) if
// no mapping applies and the call should be left unchanged (spec.md §4.2:
// "other names pass through").
func (d Dialect) MapFunction(fnText string) (string, bool) {
	if d.fns == nil {
		return "", false
	}
	mapped, ok := d.fns[strings.ToLower(fnText)]
	return mapped, ok
}

// snowflakeFunctionMap is grounded on the original source's
// SnowflakeMapping::map_function — currently a single entry, but kept as a
// table (rather than an if/else) since the original leaves room for more.
// Values are the replacement's serialized call text, trailing "()"
// included. Callers that build a zero-arg call node must strip that "()"
// first: left in the name it would be quoted as part of the identifier and
// produce a doubled call like `"CURRENT_TIMESTAMP()"()` once deparsed.
var snowflakeFunctionMap = map[string]string{
	"now()": "CURRENT_TIMESTAMP()",
}

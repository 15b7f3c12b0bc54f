// Package sqlast is the thin glue around the AST Parser/Unparser (C3):
// parse SQL text to the real PostgreSQL parse tree and serialize it back.
// Per spec.md §2, C3 is "(library)" sized — this file is intentionally
// small, since pg_query_go/v5 (a Go binding to the actual libpg_query
// grammar) does the parsing and deparsing work itself.
package sqlast

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	"github.com/Pushkarm029/postgres-proxy-server/internal/apperr"
)

// Tree is one parsed SQL text: zero or more top-level statements, matching
// spec.md §4.4's "split on `;`, parse and transform each independently".
type Tree struct {
	Result *pg_query.ParseResult
}

// Stmts returns the top-level raw statements of the tree, in source order.
func (t *Tree) Stmts() []*pg_query.RawStmt {
	return t.Result.GetStmts()
}

// Parse parses sqlText into an AST. The backend dialect does not affect
// parsing: every dialect this proxy supports accepts standard PostgreSQL
// syntax for the read-only query shapes in scope (spec.md §4.2's dialect
// differences are function-name substitutions applied after parsing, not
// grammar differences). A parse failure is reported as apperr.SqlParse
// (spec.md §4.3: "Parse with dialect. SqlParseError on failure").
func Parse(sqlText string) (*Tree, error) {
	result, err := pg_query.Parse(sqlText)
	if err != nil {
		return nil, apperr.SqlParse(err.Error())
	}
	return &Tree{Result: result}, nil
}

// Deparse serializes a (possibly rewritten) tree back to SQL text.
func Deparse(t *Tree) (string, error) {
	out, err := pg_query.Deparse(t.Result)
	if err != nil {
		return "", fmt.Errorf("deparse: %w", err)
	}
	return out, nil
}

// ParseExpr parses a single SELECT-list expression fragment by wrapping it
// in "SELECT <fragment>" and extracting the resulting sole projection's
// value expression, per spec.md §4.3 step 5 (used when substituting a
// rendered measure SQL fragment back into the AST as an expression node).
func ParseExpr(fragment string) (*pg_query.Node, error) {
	result, err := pg_query.Parse("SELECT " + fragment)
	if err != nil {
		return nil, apperr.SqlParse(fmt.Sprintf("rendered measure fragment: %s", err))
	}
	stmts := result.GetStmts()
	if len(stmts) != 1 {
		return nil, apperr.SqlParse("rendered measure fragment did not parse to exactly one statement")
	}
	selectStmt := stmts[0].GetStmt().GetSelectStmt()
	if selectStmt == nil || len(selectStmt.GetTargetList()) != 1 {
		return nil, apperr.SqlParse("rendered measure fragment did not parse to a single projection")
	}
	target := selectStmt.GetTargetList()[0].GetResTarget()
	if target == nil || target.GetVal() == nil {
		return nil, apperr.SqlParse("rendered measure fragment produced no expression")
	}
	return target.GetVal(), nil
}

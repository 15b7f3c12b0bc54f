package sqlast

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// NewString wraps a bare identifier/literal string as a Node, the building
// block ColumnRef.Fields and FuncCall.Funcname are made of.
func NewString(s string) *pg_query.Node {
	return &pg_query.Node{Node: &pg_query.Node_String_{String_: &pg_query.String{Sval: s}}}
}

// NewStar builds the unqualified `*` marker node.
func NewStar() *pg_query.Node {
	return &pg_query.Node{Node: &pg_query.Node_AStar{AStar: &pg_query.A_Star{}}}
}

// NewColumnRef builds a (possibly qualified) column reference from its dotted
// parts, e.g. NewColumnRef("department_level_1") or NewColumnRef("t", "id").
func NewColumnRef(parts ...string) *pg_query.Node {
	fields := make([]*pg_query.Node, len(parts))
	for i, p := range parts {
		fields[i] = NewString(p)
	}
	return &pg_query.Node{Node: &pg_query.Node_ColumnRef{ColumnRef: &pg_query.ColumnRef{Fields: fields, Location: -1}}}
}

// NewZeroArgFuncCall builds a bare `name()` call node, the shape C2's
// function mapping always substitutes in (spec.md §4.2).
func NewZeroArgFuncCall(name string) *pg_query.Node {
	return &pg_query.Node{Node: &pg_query.Node_FuncCall{FuncCall: &pg_query.FuncCall{
		Funcname: []*pg_query.Node{NewString(name)},
		Location: -1,
	}}}
}

// NewResTarget builds a projection-list entry. An empty name leaves the
// item unaliased.
func NewResTarget(name string, val *pg_query.Node) *pg_query.Node {
	return &pg_query.Node{Node: &pg_query.Node_ResTarget{ResTarget: &pg_query.ResTarget{
		Name:     name,
		Val:      val,
		Location: -1,
	}}}
}

// ColumnRefParts returns the dotted identifier parts of a ColumnRef node,
// or nil if node is not a plain (non-star) column reference.
func ColumnRefParts(node *pg_query.Node) []string {
	ref := node.GetColumnRef()
	if ref == nil {
		return nil
	}
	parts := make([]string, 0, len(ref.GetFields()))
	for _, f := range ref.GetFields() {
		s := f.GetString_()
		if s == nil {
			return nil // contains a Star or indirection this helper doesn't model
		}
		parts = append(parts, s.GetSval())
	}
	return parts
}

// IsWildcard reports whether node is `*` (bare) or `t.*` (qualified), and if
// qualified, returns the qualifying table name.
func IsWildcard(node *pg_query.Node) (qualifier string, ok bool) {
	ref := node.GetColumnRef()
	if ref == nil {
		return "", false
	}
	fields := ref.GetFields()
	if len(fields) == 0 {
		return "", false
	}
	last := fields[len(fields)-1]
	if last.GetAStar() == nil {
		return "", false
	}
	if len(fields) == 1 {
		return "", true
	}
	if s := fields[0].GetString_(); s != nil {
		return s.GetSval(), true
	}
	return "", false
}

// FuncCallSimpleName returns a FuncCall's name when it is a single,
// unqualified identifier (e.g. "measure", not "pg_catalog.measure"), which
// is the only shape spec.md §4.3 recognizes for MEASURE(...).
func FuncCallSimpleName(f *pg_query.FuncCall) (string, bool) {
	names := f.GetFuncname()
	if len(names) != 1 {
		return "", false
	}
	s := names[0].GetString_()
	if s == nil {
		return "", false
	}
	return s.GetSval(), true
}

// RangeVarParts returns the (possibly empty) schema and the relation name of
// a plain table reference, or ok=false if node is not a RangeVar (e.g. it is
// a subquery or joined relation).
func RangeVarParts(node *pg_query.Node) (schema, relation string, ok bool) {
	rv := node.GetRangeVar()
	if rv == nil {
		return "", "", false
	}
	return rv.GetSchemaname(), rv.GetRelname(), true
}

// IsInformationSchemaTables reports whether a FROM-clause relation is the
// two-part identifier information_schema.tables, case-insensitively
// (spec.md §4.3 step 1).
func IsInformationSchemaTables(node *pg_query.Node) bool {
	schema, relation, ok := RangeVarParts(node)
	if !ok {
		return false
	}
	return strings.EqualFold(schema, "information_schema") && strings.EqualFold(relation, "tables")
}

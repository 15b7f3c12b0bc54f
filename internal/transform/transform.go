// Package transform implements the Query Transformer (C4): the recursive
// AST rewrite that expands MEASURE(...) calls, checks projected columns
// against the semantic model, expands wildcards, applies dialect function
// mapping, and rejects anything that is not a read query (spec.md §4.3).
package transform

import (
	"context"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	"github.com/Pushkarm029/postgres-proxy-server/internal/apperr"
	"github.com/Pushkarm029/postgres-proxy-server/internal/dialect"
	"github.com/Pushkarm029/postgres-proxy-server/internal/semantic"
	"github.com/Pushkarm029/postgres-proxy-server/internal/sqlast"
)

// Transformer holds the two collaborators C4 needs: the semantic model
// catalog (C1) and the backend's dialect mapping (C2). Both are resolved
// once at startup and never change thereafter (spec.md §9: "No global
// mutable state"), so a Transformer is safe to share across connections.
type Transformer struct {
	store   semantic.Store
	dialect dialect.Dialect
}

func New(store semantic.Store, d dialect.Dialect) *Transformer {
	return &Transformer{store: store, dialect: d}
}

// env is the per-call, read-only handle threaded through the recursion —
// never mutated, so concurrent Transform calls never interfere.
type env struct {
	ctx     context.Context
	store   semantic.Store
	dialect dialect.Dialect
}

// selCtx additionally carries the driving model resolved for the SELECT
// currently being rewritten; constructed fresh by every transformSelect
// call, including nested ones reached through a subquery or EXISTS.
type selCtx struct {
	*env
	drivingName  string
	drivingModel *semantic.SemanticModel
}

// Transform rewrites every top-level statement in tree in place and
// returns it. The only accepted statement kind is a read Query; anything
// else fails with PermissionDenied (spec.md §4.3's public contract).
func (tr *Transformer) Transform(ctx context.Context, tree *sqlast.Tree) (*sqlast.Tree, error) {
	e := &env{ctx: ctx, store: tr.store, dialect: tr.dialect}
	for _, raw := range tree.Stmts() {
		stmt := raw.GetStmt()
		sel := stmt.GetSelectStmt()
		if sel == nil {
			return nil, apperr.PermissionDenied(stmtKindName(stmt))
		}
		if err := transformQuery(e, sel); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// transformQuery rewrites a query's body and every CTE it defines.
func transformQuery(e *env, q *pg_query.SelectStmt) error {
	if err := transformSetExpr(e, q); err != nil {
		return err
	}
	for _, cteNode := range q.GetWithClause().GetCtes() {
		cte := cteNode.GetCommonTableExpr()
		if cte == nil {
			continue
		}
		if subQ := cte.GetCtequery().GetSelectStmt(); subQ != nil {
			if err := transformQuery(e, subQ); err != nil {
				return err
			}
		}
	}
	return nil
}

// transformSetExpr dispatches on whether this body is a set operation
// (UNION/INTERSECT/EXCEPT) or a plain SELECT.
func transformSetExpr(e *env, s *pg_query.SelectStmt) error {
	if s.GetOp() != pg_query.SetOperation_SETOP_NONE {
		if err := transformSetExpr(e, s.GetLarg()); err != nil {
			return err
		}
		return transformSetExpr(e, s.GetRarg())
	}
	return transformSelect(e, s)
}

// transformSelect implements spec.md §4.3's transform_select: resolve the
// driving model, rewrite the projection list, and recurse into HAVING.
func transformSelect(e *env, sel *pg_query.SelectStmt) error {
	from := sel.GetFromClause()
	if len(from) == 0 {
		// No driving table: a bare column reference or an unqualified
		// MEASURE(...) below fails with ModelNotFound("") since there is
		// nothing to resolve against; table-qualified references are still
		// looked up in the store by their qualifier.
		sc := &selCtx{env: e}
		return rewriteProjections(sc, sel)
	}

	if sqlast.IsInformationSchemaTables(from[0]) {
		return &apperr.InformationSchemaResult{Names: e.store.ListModels(e.ctx)}
	}

	drivingName, ok := drivingTableName(from[0])
	if !ok {
		return apperr.UnsupportedSqlConstruct("FROM clause does not resolve to a plain table reference")
	}
	model, err := e.store.GetModel(e.ctx, drivingName)
	if err != nil {
		return err
	}
	sc := &selCtx{env: e, drivingName: drivingName, drivingModel: model}

	if err := rewriteProjections(sc, sel); err != nil {
		return err
	}

	if sel.GetHavingClause() != nil {
		rewritten, err := rewriteExpr(sc, sel.GetHavingClause())
		if err != nil {
			return err
		}
		sel.HavingClause = rewritten
	}
	// QUALIFY is a Snowflake-only clause with no equivalent in the standard
	// PostgreSQL grammar pg_query_go parses (see DESIGN.md): there is no
	// AST node to rewrite here, so it is left to implementers extending C4
	// beyond this core, per spec.md §4.3 note on WHERE/GROUP BY.
	return nil
}

// drivingTableName extracts the rightmost identifier of a FROM-clause
// relation per spec.md §4.3 step 2 ("the rightmost identifier of the first
// FROM relation").
func drivingTableName(node *pg_query.Node) (string, bool) {
	_, relation, ok := sqlast.RangeVarParts(node)
	if !ok || relation == "" {
		return "", false
	}
	return relation, true
}

// rewriteProjections rewrites sel's target list in place.
func rewriteProjections(sc *selCtx, sel *pg_query.SelectStmt) error {
	targets := sel.GetTargetList()

	if len(targets) == 1 {
		if qualifier, isWildcard := sqlast.IsWildcard(targets[0].GetResTarget().GetVal()); isWildcard {
			expanded, err := expandWildcard(sc, qualifier)
			if err != nil {
				return err
			}
			sel.TargetList = expanded
			return nil
		}
	}
	for _, t := range targets {
		if _, isWildcard := sqlast.IsWildcard(t.GetResTarget().GetVal()); isWildcard {
			return apperr.UnsupportedSqlConstruct("wildcard `*` may only appear as the sole projection item")
		}
	}

	for _, t := range targets {
		rt := t.GetResTarget()
		if err := rewriteProjectionItem(sc, rt); err != nil {
			return err
		}
	}
	return nil
}

// expandWildcard replaces `*` or `t.*` with one dimension column per
// dimension of the referenced model, in declaration order (spec.md §4.3
// step 3).
func expandWildcard(sc *selCtx, qualifier string) ([]*pg_query.Node, error) {
	model := sc.drivingModel
	if qualifier != "" && qualifier != sc.drivingName {
		m, err := sc.store.GetModel(sc.ctx, qualifier)
		if err != nil {
			return nil, err
		}
		model = m
	}
	if model == nil {
		return nil, apperr.ModelNotFound(qualifier)
	}
	out := make([]*pg_query.Node, 0, len(model.Dimensions))
	for _, d := range model.Dimensions {
		out = append(out, sqlast.NewResTarget("", sqlast.NewColumnRef(d.Name)))
	}
	return out, nil
}

// rewriteProjectionItem rewrites a single non-wildcard projection entry,
// applying the column-existence check and MEASURE aliasing rules of
// spec.md §4.3 step 3's ExprWithAlias/UnnamedExpr cases.
func rewriteProjectionItem(sc *selCtx, rt *pg_query.ResTarget) error {
	original := rt.GetVal()
	hadOwnAlias := rt.GetName() != ""

	if err := checkColumnExistence(sc, original); err != nil {
		return err
	}

	measureName, isMeasure := measureCallName(original)

	rewritten, err := rewriteExpr(sc, original)
	if err != nil {
		return err
	}
	rt.Val = rewritten

	if isMeasure && !hadOwnAlias {
		rt.Name = measureName
	}
	return nil
}

// checkColumnExistence implements spec.md §4.3 step 3's per-item column
// check: a bare Identifier(c) must be a dimension of the driving model; a
// CompoundIdentifier([t, c]) must be a dimension of model t.
func checkColumnExistence(sc *selCtx, original *pg_query.Node) error {
	parts := sqlast.ColumnRefParts(original)
	switch len(parts) {
	case 0:
		return nil // not a column reference at all (literal, function, etc.)
	case 1:
		if sc.drivingModel == nil {
			return apperr.ModelNotFound(sc.drivingName)
		}
		if !sc.drivingModel.HasDimension(parts[0]) {
			return apperr.ColumnNotFound(parts[0], sc.drivingName)
		}
		return nil
	case 2:
		table, col := parts[0], parts[1]
		model := sc.drivingModel
		if table != sc.drivingName {
			m, err := sc.store.GetModel(sc.ctx, table)
			if err != nil {
				return err
			}
			model = m
		}
		if model == nil || !model.HasDimension(col) {
			return apperr.ColumnNotFound(col, table)
		}
		return nil
	default:
		return apperr.UnsupportedSqlConstruct("column reference has more than two dotted parts")
	}
}

// measureCallName reports whether original is a MEASURE(...) call and, if
// so, the alias that should be applied when the projection item has no
// alias of its own (spec.md §4.3: "measure_name_from_args(f)").
func measureCallName(original *pg_query.Node) (string, bool) {
	f := original.GetFuncCall()
	if f == nil {
		return "", false
	}
	name, ok := sqlast.FuncCallSimpleName(f)
	if !ok || !strings.EqualFold(name, "measure") {
		return "", false
	}
	_, measure, err := parseMeasureArgs(f)
	if err != nil {
		return "", false
	}
	return measure, true
}

// rewriteExpr is spec.md §4.3's rewrite_expr: structural recursion that
// only descends into the handful of node kinds that can contain a measure
// reference, function-mapping candidate, or nested query.
func rewriteExpr(sc *selCtx, node *pg_query.Node) (*pg_query.Node, error) {
	if node == nil {
		return nil, nil
	}

	if f := node.GetFuncCall(); f != nil {
		if name, ok := sqlast.FuncCallSimpleName(f); ok && strings.EqualFold(name, "measure") {
			return rewriteMeasure(sc, f)
		}
		if len(f.GetArgs()) == 0 {
			if name, ok := sqlast.FuncCallSimpleName(f); ok {
				if mapped, found := sc.dialect.MapFunction(strings.ToLower(name) + "()"); found {
					return sqlast.NewZeroArgFuncCall(strings.TrimSuffix(mapped, "()")), nil
				}
			}
		}
		return node, nil
	}

	if a := node.GetAExpr(); a != nil {
		l, err := rewriteExpr(sc, a.GetLexpr())
		if err != nil {
			return nil, err
		}
		r, err := rewriteExpr(sc, a.GetRexpr())
		if err != nil {
			return nil, err
		}
		a.Lexpr = l
		a.Rexpr = r
		return node, nil
	}

	if sub := node.GetSubLink(); sub != nil {
		if sub.GetSubLinkType() == pg_query.SubLinkType_EXISTS_SUBLINK {
			if q := sub.GetSubselect().GetSelectStmt(); q != nil {
				if err := transformQuery(sc.env, q); err != nil {
					return nil, err
				}
			}
		}
		return node, nil
	}

	// Identifiers, literals, CASE, CAST, and everything else: unchanged.
	// Their children are not traversed deeper in this core (spec.md §4.3).
	return node, nil
}

// rewriteMeasure implements spec.md §4.3's rewrite_measure: resolve the
// referenced measure, render it to SQL, and splice the rendered expression
// in place of the MEASURE(...) call.
func rewriteMeasure(sc *selCtx, f *pg_query.FuncCall) (*pg_query.Node, error) {
	table, measureName, err := parseMeasureArgs(f)
	if err != nil {
		return nil, err
	}
	if table == "" {
		table = sc.drivingName
	}

	model := sc.drivingModel
	if table != sc.drivingName {
		m, err := sc.store.GetModel(sc.ctx, table)
		if err != nil {
			return nil, err
		}
		model = m
	}
	if model == nil {
		return nil, apperr.ModelNotFound(table)
	}

	measure, err := model.GetMeasure(measureName)
	if err != nil {
		return nil, err
	}

	fragment, err := semantic.Render(measure, model, true)
	if err != nil {
		return nil, err
	}
	return sqlast.ParseExpr(fragment)
}

// parseMeasureArgs implements spec.md §4.3's rewrite_measure step 1: the
// sole argument must be Identifier(name) or CompoundIdentifier([table,
// name]).
func parseMeasureArgs(f *pg_query.FuncCall) (table, measure string, err error) {
	args := f.GetArgs()
	if len(args) != 1 {
		return "", "", apperr.InvalidMeasureFunction("MEASURE(...) takes exactly one argument")
	}
	parts := sqlast.ColumnRefParts(args[0])
	switch len(parts) {
	case 1:
		return "", parts[0], nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", apperr.InvalidMeasureFunction("MEASURE(...) argument must be a column reference")
	}
}

// stmtKindName names a non-Query top-level statement for the
// PermissionDenied message (spec.md §4.3: "All other kinds ... fail with
// PermissionDenied").
func stmtKindName(stmt *pg_query.Node) string {
	switch {
	case stmt.GetInsertStmt() != nil:
		return "INSERT"
	case stmt.GetUpdateStmt() != nil:
		return "UPDATE"
	case stmt.GetDeleteStmt() != nil:
		return "DELETE"
	case stmt.GetCreateStmt() != nil:
		return "CREATE TABLE"
	case stmt.GetDropStmt() != nil:
		return "DROP"
	case stmt.GetAlterTableStmt() != nil:
		return "ALTER TABLE"
	case stmt.GetTransactionStmt() != nil:
		return "transaction control"
	case stmt.GetVacuumStmt() != nil:
		return "VACUUM"
	case stmt.GetExplainStmt() != nil:
		return "EXPLAIN"
	default:
		return fmt.Sprintf("%T", stmt.GetNode())
	}
}

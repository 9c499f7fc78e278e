package moderator

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type (
	// tPredicate is a single "Column Operator Value" condition.
	tPredicate struct {
		Column   string
		Value    any
		Operator Operator
	}

	// tConjunction is a list of predicates joined by AND.
	tConjunction []tPredicate

	// tDNF is a disjunctive normal form: conjunctions joined by OR.
	//
	//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
	tDNF []tConjunction
)

// toGORMExpression renders the predicate as "Column Operator ?" bound to Value.
func (p tPredicate) toGORMExpression() clause.Expression {
	return clause.Expr{
		SQL:  fmt.Sprintf("%s %s ?", p.Column, p.Operator),
		Vars: []any{p.Value},
	}
}

func (p tPredicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Column, p.Operator, p.Value)
}

// toGORMExpression joins predicates with AND. A single predicate is returned
// unwrapped; an empty conjunction yields nil.
func (c tConjunction) toGORMExpression() clause.Expression {
	switch len(c) {
	case 0:
		return nil
	case 1:
		return c[0].toGORMExpression()
	}

	return clause.And(lo.Map(c, func(p tPredicate, _ int) clause.Expression {
		return p.toGORMExpression()
	})...)
}

func (c tConjunction) String() string {
	if len(c) == 0 {
		return ""
	}

	parts := lo.Map(c, func(p tPredicate, _ int) string { return p.String() })

	return "(" + strings.Join(parts, " AND ") + ")"
}

// toGORMExpression joins the non-empty conjunctions with OR. Returns nil when
// there is nothing to filter by.
func (d tDNF) toGORMExpression() clause.Expression {
	exprs := lo.FilterMap(d, func(c tConjunction, _ int) (clause.Expression, bool) {
		expr := c.toGORMExpression()
		return expr, expr != nil
	})

	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}

	return clause.Or(exprs...)
}

// String renders the DNF with inlined values. Intended for logs only, never
// for building queries.
func (d tDNF) String() string {
	parts := lo.FilterMap(d, func(c tConjunction, _ int) (string, bool) {
		s := c.String()
		return s, s != ""
	})
	if len(parts) == 0 {
		return "TRUE"
	}

	return strings.Join(parts, " OR ")
}

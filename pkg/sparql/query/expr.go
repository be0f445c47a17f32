package query

import (
	"strings"
	"time"
)

// Expr is a filter expression.
//
// Constructors return nil when they have nothing to filter,
// and nil expressions are skipped by Or, And and Filter.
type Expr interface {
	expr() string
}

type rawExpr string

func (r rawExpr) expr() string {
	return string(r)
}

// Raw expression written in SPARQL.
func Raw(s string) Expr {
	return rawExpr(s)
}

func binary(op string, a, b Term) Expr {
	return rawExpr(a.String() + " " + op + " " + b.String())
}

func Eq(a, b Term) Expr { return binary("=", a, b) }
func Ne(a, b Term) Expr { return binary("!=", a, b) }
func Ge(a, b Term) Expr { return binary(">=", a, b) }
func Le(a, b Term) Expr { return binary("<=", a, b) }
func Gt(a, b Term) Expr { return binary(">", a, b) }
func Lt(a, b Term) Expr { return binary("<", a, b) }

// Regex matches str(v) with pattern, case-insensitively.
//
// Empty pattern gives nil.
func Regex(v Var, pattern string) Expr {
	if pattern == "" {
		return nil
	}
	return rawExpr("regex(str(" + v.String() + "), " + Literal(pattern).String() + `, "i")`)
}

func nonNil(es []Expr) []string {
	ss := make([]string, 0, len(es))
	for _, e := range es {
		if e != nil {
			ss = append(ss, e.expr())
		}
	}
	return ss
}

func Or(es ...Expr) Expr {
	ss := nonNil(es)
	switch len(ss) {
	case 0:
		return nil
	case 1:
		return rawExpr(ss[0])
	}
	return rawExpr("(" + strings.Join(ss, " || ") + ")")
}

func And(es ...Expr) Expr {
	ss := nonNil(es)
	switch len(ss) {
	case 0:
		return nil
	case 1:
		return rawExpr(ss[0])
	}
	return rawExpr("(" + strings.Join(ss, " && ") + ")")
}

func Not(e Expr) Expr {
	if e == nil {
		return nil
	}
	return rawExpr("!(" + e.expr() + ")")
}

// In tests v is one of terms. No terms gives nil.
func In(v Var, terms ...Term) Expr {
	if len(terms) == 0 {
		return nil
	}
	ss := make([]string, len(terms))
	for i, t := range terms {
		ss[i] = t.String()
	}
	return rawExpr(v.String() + " IN (" + strings.Join(ss, ", ") + ")")
}

// STRSTARTS(STR(?v), "prefix")
func StrStarts(v Var, prefix string) Expr {
	return rawExpr("STRSTARTS(STR(" + v.String() + "), " + Literal(prefix).String() + ")")
}

func Bound(v Var) Expr {
	return rawExpr("bound(" + v.String() + ")")
}

// LangFilter passes literals without language tag, or tagged with lang.
//
// Empty lang gives nil.
func LangFilter(v Var, lang string) Expr {
	if lang == "" {
		return nil
	}
	return rawExpr(
		`(lang(` + v.String() + `) = "" || langMatches(lang(` + v.String() + `), ` + Literal(lang).String() + `))`,
	)
}

// IntervalDateRange passes resources whose [startVar, endVar] interval intersects [start, end].
//
// Unbound endVar means the interval is not ended.
// nil start or end means unlimited on that side; both nil gives nil.
func IntervalDateRange(startVar Var, start *time.Time, endVar Var, end *time.Time) Expr {
	var afterStart, beforeEnd Expr
	if start != nil {
		afterStart = Or(Ge(endVar, DateLiteral(*start)), Not(Bound(endVar)))
	}
	if end != nil {
		beforeEnd = Le(startVar, DateLiteral(*end))
	}
	return And(afterStart, beforeEnd)
}

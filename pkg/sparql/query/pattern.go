package query

import (
	"strings"
)

// Pattern is a part of group graph pattern.
type Pattern interface {
	render(b *strings.Builder, indent string)
}

// Triple pattern. Predicate may be a Path.
type Triple struct {
	S, P, O Term
}

func T(s, p, o Term) Triple {
	return Triple{S: s, P: p, O: o}
}

func (t Triple) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString(t.S.String())
	b.WriteString(" ")
	b.WriteString(t.P.String())
	b.WriteString(" ")
	b.WriteString(t.O.String())
	b.WriteString(" .\n")
}

func renderGroup(b *strings.Builder, indent string, ps []Pattern) {
	b.WriteString("{\n")
	for _, p := range ps {
		p.render(b, indent+"  ")
	}
	b.WriteString(indent + "}")
}

func compact(ps []Pattern) []Pattern {
	out := make([]Pattern, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

type keywordGroup struct {
	keyword  string
	patterns []Pattern
}

func (g keywordGroup) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	if g.keyword != "" {
		b.WriteString(g.keyword + " ")
	}
	renderGroup(b, indent, g.patterns)
	b.WriteString("\n")
}

// OPTIONAL { ... }
func Optional(ps ...Pattern) Pattern {
	ps = compact(ps)
	if len(ps) == 0 {
		return nil
	}
	return keywordGroup{keyword: "OPTIONAL", patterns: ps}
}

// { ... }
func Group(ps ...Pattern) Pattern {
	return keywordGroup{patterns: compact(ps)}
}

// GRAPH g { ... }
func Graph(g Term, ps ...Pattern) Pattern {
	return keywordGroup{keyword: "GRAPH " + g.String(), patterns: compact(ps)}
}

// InGraph is Graph when g is not empty, otherwise a plain group.
func InGraph(g IRI, ps ...Pattern) Pattern {
	if g == "" {
		return Group(ps...)
	}
	return Graph(g, ps...)
}

type union [][]Pattern

func (u union) render(b *strings.Builder, indent string) {
	for i, g := range u {
		if i == 0 {
			b.WriteString(indent)
		} else {
			b.WriteString(" UNION ")
		}
		renderGroup(b, indent, g)
	}
	b.WriteString("\n")
}

// { ... } UNION { ... } ...
func Union(groups ...[]Pattern) Pattern {
	u := make(union, 0, len(groups))
	for _, g := range groups {
		if g = compact(g); len(g) != 0 {
			u = append(u, g)
		}
	}
	switch len(u) {
	case 0:
		return nil
	case 1:
		return Group(u[0]...)
	}
	return u
}

type values struct {
	v     Var
	terms []Term
}

func (vs values) render(b *strings.Builder, indent string) {
	b.WriteString(indent + "VALUES " + vs.v.String() + " {")
	for _, t := range vs.terms {
		b.WriteString(" " + t.String())
	}
	b.WriteString(" }\n")
}

// VALUES ?v { ... }
func Values(v Var, terms ...Term) Pattern {
	return values{v: v, terms: terms}
}

type filter struct {
	e Expr
}

func (f filter) render(b *strings.Builder, indent string) {
	b.WriteString(indent + "FILTER(" + f.e.expr() + ")\n")
}

// FILTER(e). nil e gives nil.
func Filter(e Expr) Pattern {
	if e == nil {
		return nil
	}
	return filter{e: e}
}

type existence struct {
	not      bool
	patterns []Pattern
}

func (ex existence) render(b *strings.Builder, indent string) {
	b.WriteString(indent + "FILTER ")
	if ex.not {
		b.WriteString("NOT ")
	}
	b.WriteString("EXISTS ")
	renderGroup(b, indent, ex.patterns)
	b.WriteString("\n")
}

// FILTER EXISTS { ... }
func Exists(ps ...Pattern) Pattern {
	return existence{patterns: compact(ps)}
}

// FILTER NOT EXISTS { ... }
func NotExists(ps ...Pattern) Pattern {
	return existence{not: true, patterns: compact(ps)}
}

type bind struct {
	e  Expr
	as Var
}

func (bd bind) render(b *strings.Builder, indent string) {
	b.WriteString(indent + "BIND(" + bd.e.expr() + " AS " + bd.as.String() + ")\n")
}

// BIND(e AS ?as)
func Bind(e Expr, as Var) Pattern {
	return bind{e: e, as: as}
}

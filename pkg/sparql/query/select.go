package query

import (
	"sort"
	"strconv"
	"strings"
)

// Projection is an item of SELECT clause.
type Projection interface {
	projection() string
}

type aggregate struct {
	expr string
	as   Var
}

func (a aggregate) projection() string {
	return "(" + a.expr + " AS " + a.as.String() + ")"
}

// (COUNT(DISTINCT ?v) AS ?as)
func Count(v Var, as Var) Projection {
	return aggregate{expr: "COUNT(DISTINCT " + v.String() + ")", as: as}
}

// (GROUP_CONCAT(DISTINCT ?v; SEPARATOR="sep") AS ?as)
func GroupConcat(v Var, sep string, as Var) Projection {
	return aggregate{
		expr: "GROUP_CONCAT(DISTINCT " + v.String() + "; SEPARATOR=" + Literal(sep).String() + ")",
		as:   as,
	}
}

// (MIN(?v) AS ?as)
func Min(v Var, as Var) Projection {
	return aggregate{expr: "MIN(" + v.String() + ")", as: as}
}

// (MAX(?v) AS ?as)
func Max(v Var, as Var) Projection {
	return aggregate{expr: "MAX(" + v.String() + ")", as: as}
}

type OrderBy struct {
	Field Var
	Desc  bool
}

func (o OrderBy) String() string {
	if o.Desc {
		return "DESC(" + o.Field.String() + ")"
	}
	return "ASC(" + o.Field.String() + ")"
}

type prologue struct {
	prefixes map[string]string
}

func (p *prologue) setPrefix(name, ns string) {
	if p.prefixes == nil {
		p.prefixes = map[string]string{}
	}
	p.prefixes[name] = ns
}

func (p prologue) render(b *strings.Builder) {
	names := make([]string, 0, len(p.prefixes))
	for n := range p.prefixes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		b.WriteString("PREFIX " + n + ": " + IRI(p.prefixes[n]).String() + "\n")
	}
}

func (p prologue) clone() prologue {
	if p.prefixes == nil {
		return prologue{}
	}
	m := make(map[string]string, len(p.prefixes))
	for k, v := range p.prefixes {
		m[k] = v
	}
	return prologue{prefixes: m}
}

// Select is a SELECT query under construction.
type Select struct {
	prologue
	distinct    bool
	projections []Projection
	from        []IRI
	where       []Pattern
	groupBy     []Var
	orderBy     []OrderBy
	limit       int
	offset      int
}

// NewSelect starts a SELECT query. No projections means `SELECT *`.
func NewSelect(ps ...Projection) *Select {
	return &Select{projections: ps}
}

func (s *Select) Prefix(name, ns string) *Select {
	s.setPrefix(name, ns)
	return s
}

func (s *Select) Prefixes(m map[string]string) *Select {
	for n, ns := range m {
		s.setPrefix(n, ns)
	}
	return s
}

func (s *Select) Distinct() *Select {
	s.distinct = true
	return s
}

// Project appends projections.
func (s *Select) Project(ps ...Projection) *Select {
	s.projections = append(s.projections, ps...)
	return s
}

// Projected tells v is projected as a plain variable.
func (s *Select) Projected(v Var) bool {
	for _, p := range s.projections {
		if pv, ok := p.(Var); ok && pv == v {
			return true
		}
	}
	return false
}

func (s *Select) From(g IRI) *Select {
	if g != "" {
		s.from = append(s.from, g)
	}
	return s
}

// Where appends patterns. nil patterns are skipped.
func (s *Select) Where(ps ...Pattern) *Select {
	s.where = append(s.where, compact(ps)...)
	return s
}

// Filter appends FILTER(e). nil e is skipped.
func (s *Select) Filter(e Expr) *Select {
	return s.Where(Filter(e))
}

func (s *Select) GroupBy(vs ...Var) *Select {
	s.groupBy = append(s.groupBy, vs...)
	return s
}

func (s *Select) OrderBy(os ...OrderBy) *Select {
	s.orderBy = append(s.orderBy, os...)
	return s
}

// Limit sets LIMIT. Non-positive n removes it.
func (s *Select) Limit(n int) *Select {
	s.limit = n
	return s
}

// Offset sets OFFSET. Non-positive n removes it.
func (s *Select) Offset(n int) *Select {
	s.offset = n
	return s
}

// Clone returns a copy which can be modified independently.
func (s *Select) Clone() *Select {
	return &Select{
		prologue:    s.prologue.clone(),
		distinct:    s.distinct,
		projections: append([]Projection{}, s.projections...),
		from:        append([]IRI{}, s.from...),
		where:       append([]Pattern{}, s.where...),
		groupBy:     append([]Var{}, s.groupBy...),
		orderBy:     append([]OrderBy{}, s.orderBy...),
		limit:       s.limit,
		offset:      s.offset,
	}
}

// AsCount returns a query counting distinct bindings of v as ?as,
// with the same dataset and where clause.
func (s *Select) AsCount(v Var, as Var) *Select {
	c := s.Clone()
	c.distinct = false
	c.projections = []Projection{Count(v, as)}
	c.groupBy = nil
	c.orderBy = nil
	c.limit = 0
	c.offset = 0
	return c
}

// Paged returns a query whose page is a slice of distinct bindings of v,
// rather than a slice of rows.
//
// Distinct values of v are sorted and sliced in a subquery, each order key
// aggregated per v (MIN for ascending, MAX for descending).
// The returned query joins the subquery with the where clause of s,
// and sorts rows in the same order. v is the last order key in both.
func (s *Select) Paged(v Var, orderBy []OrderBy, limit, offset int) *Select {
	keys := &Select{
		projections: []Projection{v},
		where:       append([]Pattern{}, s.where...),
		groupBy:     []Var{v},
		limit:       limit,
		offset:      offset,
	}
	outerOrder := make([]OrderBy, 0, len(orderBy)+1)
	for _, o := range orderBy {
		if o.Field == v {
			continue
		}
		key := Var(string(o.Field) + "_key")
		if o.Desc {
			keys.projections = append(keys.projections, Max(o.Field, key))
		} else {
			keys.projections = append(keys.projections, Min(o.Field, key))
		}
		outerOrder = append(outerOrder, OrderBy{Field: key, Desc: o.Desc})
	}
	last := OrderBy{Field: v}
	for _, o := range orderBy {
		if o.Field == v {
			last.Desc = o.Desc
		}
	}
	outerOrder = append(outerOrder, last)
	keys.orderBy = outerOrder

	p := s.Clone()
	p.where = append([]Pattern{subSelect{keys}}, p.where...)
	p.orderBy = append([]OrderBy{}, outerOrder...)
	p.limit = 0
	p.offset = 0
	return p
}

// subSelect is a nested SELECT query as a group pattern.
type subSelect struct {
	q *Select
}

func (sub subSelect) render(b *strings.Builder, indent string) {
	b.WriteString(indent + "{\n")
	for _, line := range strings.Split(strings.TrimRight(sub.q.String(), "\n"), "\n") {
		b.WriteString(indent + "  " + line + "\n")
	}
	b.WriteString(indent + "}\n")
}

func renderFrom(b *strings.Builder, from []IRI) {
	for _, f := range from {
		b.WriteString("FROM " + f.String() + "\n")
	}
}

func (s *Select) String() string {
	b := new(strings.Builder)
	s.prologue.render(b)

	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(s.projections) == 0 {
		b.WriteString("*")
	} else {
		ps := make([]string, len(s.projections))
		for i, p := range s.projections {
			ps[i] = p.projection()
		}
		b.WriteString(strings.Join(ps, " "))
	}
	b.WriteString("\n")
	renderFrom(b, s.from)

	b.WriteString("WHERE ")
	renderGroup(b, "", s.where)
	b.WriteString("\n")

	if len(s.groupBy) != 0 {
		vs := make([]string, len(s.groupBy))
		for i, v := range s.groupBy {
			vs[i] = v.String()
		}
		b.WriteString("GROUP BY " + strings.Join(vs, " ") + "\n")
	}
	if len(s.orderBy) != 0 {
		os := make([]string, len(s.orderBy))
		for i, o := range s.orderBy {
			os[i] = o.String()
		}
		b.WriteString("ORDER BY " + strings.Join(os, " ") + "\n")
	}
	if 0 < s.limit {
		b.WriteString("LIMIT " + strconv.Itoa(s.limit) + "\n")
	}
	if 0 < s.offset {
		b.WriteString("OFFSET " + strconv.Itoa(s.offset) + "\n")
	}
	return b.String()
}

// Ask is an ASK query under construction.
type Ask struct {
	prologue
	from  []IRI
	where []Pattern
}

func NewAsk(ps ...Pattern) *Ask {
	return &Ask{where: compact(ps)}
}

func (a *Ask) Prefixes(m map[string]string) *Ask {
	for n, ns := range m {
		a.setPrefix(n, ns)
	}
	return a
}

func (a *Ask) From(g IRI) *Ask {
	if g != "" {
		a.from = append(a.from, g)
	}
	return a
}

func (a *Ask) Where(ps ...Pattern) *Ask {
	a.where = append(a.where, compact(ps)...)
	return a
}

func (a *Ask) Filter(e Expr) *Ask {
	return a.Where(Filter(e))
}

func (a *Ask) String() string {
	b := new(strings.Builder)
	a.prologue.render(b)
	b.WriteString("ASK\n")
	renderFrom(b, a.from)
	b.WriteString("WHERE ")
	renderGroup(b, "", a.where)
	b.WriteString("\n")
	return b.String()
}

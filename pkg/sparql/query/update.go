package query

import (
	"strings"
)

// Update is a sequence of update operations, sent as one request.
type Update struct {
	prologue
	ops []string
}

func NewUpdate() *Update {
	return &Update{}
}

func (u *Update) Prefixes(m map[string]string) *Update {
	for n, ns := range m {
		u.setPrefix(n, ns)
	}
	return u
}

// Empty tells u has no operations.
func (u *Update) Empty() bool {
	return len(u.ops) == 0
}

func triplesAsPatterns(ts []Triple) []Pattern {
	ps := make([]Pattern, len(ts))
	for i := range ts {
		ps[i] = ts[i]
	}
	return ps
}

func quads(b *strings.Builder, graph IRI, ps []Pattern) {
	if graph == "" {
		renderGroup(b, "", ps)
		return
	}
	b.WriteString("{\n")
	Graph(graph, ps...).render(b, "  ")
	b.WriteString("}")
}

// INSERT DATA { GRAPH <graph> { triples } }. Empty graph means the default graph.
//
// No triples makes no operation.
func (u *Update) InsertData(graph IRI, ts ...Triple) *Update {
	if len(ts) == 0 {
		return u
	}
	b := new(strings.Builder)
	b.WriteString("INSERT DATA ")
	quads(b, graph, triplesAsPatterns(ts))
	u.ops = append(u.ops, b.String())
	return u
}

// DELETE DATA { GRAPH <graph> { triples } }
func (u *Update) DeleteData(graph IRI, ts ...Triple) *Update {
	if len(ts) == 0 {
		return u
	}
	b := new(strings.Builder)
	b.WriteString("DELETE DATA ")
	quads(b, graph, triplesAsPatterns(ts))
	u.ops = append(u.ops, b.String())
	return u
}

// DELETE WHERE { GRAPH <graph> { triples } }
func (u *Update) DeleteWhere(graph IRI, ts ...Triple) *Update {
	if len(ts) == 0 {
		return u
	}
	b := new(strings.Builder)
	b.WriteString("DELETE WHERE ")
	quads(b, graph, triplesAsPatterns(ts))
	u.ops = append(u.ops, b.String())
	return u
}

// DELETE { del } INSERT { ins } WHERE { where }
//
// Empty del or ins are omitted.
func (u *Update) DeleteInsertWhere(del []Pattern, ins []Pattern, where ...Pattern) *Update {
	del, ins = compact(del), compact(ins)
	if len(del) == 0 && len(ins) == 0 {
		return u
	}
	b := new(strings.Builder)
	if len(del) != 0 {
		b.WriteString("DELETE ")
		renderGroup(b, "", del)
		b.WriteString("\n")
	}
	if len(ins) != 0 {
		b.WriteString("INSERT ")
		renderGroup(b, "", ins)
		b.WriteString("\n")
	}
	b.WriteString("WHERE ")
	renderGroup(b, "", compact(where))
	u.ops = append(u.ops, b.String())
	return u
}

// CLEAR SILENT GRAPH <g>
func (u *Update) ClearGraph(g IRI) *Update {
	u.ops = append(u.ops, "CLEAR SILENT GRAPH "+g.String())
	return u
}

// CLEAR ALL
func (u *Update) ClearAll() *Update {
	u.ops = append(u.ops, "CLEAR ALL")
	return u
}

// MOVE SILENT GRAPH <from> TO GRAPH <to>
func (u *Update) Move(from, to IRI) *Update {
	u.ops = append(u.ops, "MOVE SILENT GRAPH "+from.String()+" TO GRAPH "+to.String())
	return u
}

func (u *Update) String() string {
	b := new(strings.Builder)
	u.prologue.render(b)
	b.WriteString(strings.Join(u.ops, " ;\n"))
	return b.String()
}

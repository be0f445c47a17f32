// Package shacl generates SHACL shapes from model indexes.
package shacl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	strs "github.com/opensilex/phis/pkg/utils/strings"
)

// Shapes are triples of a sh:NodeShape per index.
//
// Each shape has sh:targetClass, and a property shape per mapped field with
//
//   - sh:minCount 1, if required
//   - sh:maxCount 1, if single-valued and not language-tagged
//   - sh:datatype, for typed literals
//   - sh:nodeKind sh:IRI, for URIs
func Shapes(indexes ...*mapper.Index) []query.Triple {
	ts := []query.Triple{}
	iri := func(s string) query.Term { return query.IRI(s) }
	for _, ix := range indexes {
		name := strs.LocalName(ix.Class.Type)
		shape := query.BNode(name + "Shape")
		ts = append(ts,
			query.T(shape, iri(ontology.RDFType), iri(ontology.SHNodeShape)),
			query.T(shape, iri(ontology.SHTargetClass), iri(ix.Class.Type)),
		)
		for _, f := range ix.Fields {
			if f.Inverse {
				continue
			}
			prop := query.BNode(name + "_" + string(f.Var))
			ts = append(ts,
				query.T(shape, iri(ontology.SHProperty), prop),
				query.T(prop, iri(ontology.SHPath), iri(f.Property)),
			)
			if f.Required {
				ts = append(ts, query.T(prop, iri(ontology.SHMinCount), query.IntLiteral(1)))
			}
			if !f.List && !f.Lang {
				ts = append(ts, query.T(prop, iri(ontology.SHMaxCount), query.IntLiteral(1)))
			}
			if dt := f.Datatype(); dt != "" {
				ts = append(ts, query.T(prop, iri(ontology.SHDatatype), iri(dt)))
			}
			if f.Kind == mapper.KindURI {
				ts = append(ts, query.T(prop, iri(ontology.SHNodeKind), iri(ontology.SHIRI)))
			}
		}
	}
	return ts
}

// Generate renders shapes as a Turtle document.
func Generate(indexes ...*mapper.Index) string {
	b := new(strings.Builder)
	prefixes := ontology.Prefixes()
	names := make([]string, 0, len(prefixes))
	for n := range prefixes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(b, "@prefix %s: <%s> .\n", n, prefixes[n])
	}

	term := func(t query.Term) string {
		if i, ok := t.(query.IRI); ok {
			if c := ontology.Compact(string(i)); c != string(i) {
				return c
			}
		}
		return t.String()
	}

	var subject query.Term
	for _, t := range Shapes(indexes...) {
		if subject == nil || subject.String() != t.S.String() {
			if subject != nil {
				b.WriteString(" .\n")
			}
			b.WriteString("\n" + term(t.S) + "\n")
			subject = t.S
		} else {
			b.WriteString(" ;\n")
		}
		b.WriteString("  " + term(t.P) + " " + term(t.O))
	}
	if subject != nil {
		b.WriteString(" .\n")
	}
	return b.String()
}

// Enable replaces shapes in the RDF4J shape graph with shapes of indexes.
// The repository validates following updates against them.
func Enable(ctx context.Context, s *sparql.Service, indexes ...*mapper.Index) error {
	g := query.IRI(ontology.SHACLShapeGraph)
	return s.ExecuteUpdate(ctx, query.NewUpdate().ClearGraph(g).InsertData(g, Shapes(indexes...)...))
}

// Disable removes all shapes.
func Disable(ctx context.Context, s *sparql.Service) error {
	return s.ExecuteUpdate(ctx, query.NewUpdate().ClearGraph(query.IRI(ontology.SHACLShapeGraph)))
}

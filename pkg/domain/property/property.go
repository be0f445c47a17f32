// Package property reads and writes free statements about resources,
// which are not mapped to fields of their models.
package property

import (
	"context"

	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
)

// Property is a statement `<subject> <Relation> Value`.
//
// When RDFType is set, Value is a resource of that type. Otherwise Value is a literal.
type Property struct {
	RDFType  mapper.URI `json:"rdfType,omitempty"`
	Relation mapper.URI `json:"relation"`
	Value    string     `json:"value"`
}

// untyped resources are read back with this type.
const untyped = mapper.URI(ontology.OWLNamedIndividual)

func (p Property) object() query.Term {
	if p.RDFType != "" {
		return query.IRI(p.Value)
	}
	return query.Literal(p.Value)
}

// Triples are statements of ps about subject, with rdf:type of resource values.
func Triples(subject mapper.URI, ps []Property) []query.Triple {
	ts := []query.Triple{}
	for _, p := range ps {
		ts = append(ts, query.T(subject.IRI(), p.Relation.IRI(), p.object()))
		if p.RDFType != "" && p.RDFType != untyped {
			ts = append(ts, query.T(query.IRI(p.Value), query.IRI(ontology.RDFType), p.RDFType.IRI()))
		}
	}
	return ts
}

// Excluding gives predicates which are not properties: rdf:type, mapped properties of ix and extras.
func Excluding(ix *mapper.Index, extras ...string) []query.Term {
	ps := []query.Term{query.IRI(ontology.RDFType)}
	for _, f := range ix.Fields {
		if !f.Inverse {
			ps = append(ps, query.IRI(f.Property))
		}
	}
	for _, e := range extras {
		ps = append(ps, query.IRI(e))
	}
	return ps
}

// Load queries properties of subjects, other than excluded predicates.
func Load(ctx context.Context, s *sparql.Service, subjects []mapper.URI, excluded []query.Term) (map[mapper.URI][]Property, error) {
	found := map[mapper.URI][]Property{}
	if len(subjects) == 0 {
		return found, nil
	}
	uri, rel, val, typ := mapper.VarURI, query.Var("relation"), query.Var("value"), query.Var("valueType")
	q := query.NewSelect(uri, rel, val, typ).Distinct().Where(
		query.Values(uri, query.IRIs(subjects)...),
		query.T(uri, rel, val),
		query.Optional(query.T(val, query.IRI(ontology.RDFType), typ)),
		query.Filter(query.Not(query.In(rel, excluded...))),
	)
	res, err := s.ExecuteSelect(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, b := range res.Bindings {
		u, _ := b.Value("uri")
		found[mapper.URI(u)] = append(found[mapper.URI(u)], of(b))
	}
	return found, nil
}

func of(b csparql.Binding) Property {
	r, _ := b.Value("relation")
	v, _ := b.Value("value")
	p := Property{Relation: mapper.URI(r), Value: v}
	if t, ok := b.Value("valueType"); ok {
		p.RDFType = mapper.URI(t)
	} else if b["value"].IsURI() {
		p.RDFType = untyped
	}
	return p
}

// Replace appends to u operations removing all properties of subject (in any graph),
// and inserting ps into graph.
func Replace(u *query.Update, graph mapper.URI, subject mapper.URI, excluded []query.Term, ps []Property) *query.Update {
	g, p, o := query.Var("g"), query.Var("p"), query.Var("o")
	old := query.Graph(g, query.T(subject.IRI(), p, o))
	u.DeleteInsertWhere(
		[]query.Pattern{old}, nil,
		old, query.Filter(query.Not(query.In(p, excluded...))),
	)
	return u.InsertData(graph.IRI(), Triples(subject, ps)...)
}

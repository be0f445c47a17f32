package mapper

import (
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql/query"
)

// Reserved variables of the queries built by Index.
const (
	VarURI      = query.Var("uri")
	VarType     = query.Var("rdfType")
	VarTypeName = query.Var("rdfTypeName")
	VarValue    = query.Var("value")
)

func (f Field) pattern(subject query.Term, o query.Term) query.Triple {
	if f.Inverse {
		return query.T(o, query.IRI(f.Property), subject)
	}
	return query.T(subject, query.IRI(f.Property), o)
}

// Pattern is the triple pattern binding f.Var for ?uri.
func (f Field) Pattern() query.Triple {
	return f.pattern(VarURI, f.Var)
}

// SelectQuery is a select over all single-valued fields of the model, with ?uri and ?rdfType.
//
// Required fields are matched as plain patterns, and others in OPTIONAL.
// Language-tagged fields are filtered with lang.
//
// Patterns on fields are in graph, unless graph is empty.
// ?rdfType is the class of the index or one of its subclasses.
func (ix *Index) SelectQuery(graph URI, lang string) *query.Select {
	singles := ix.Singles()
	proj := []query.Projection{VarURI, VarType}
	for _, f := range singles {
		proj = append(proj, f.Var)
	}

	inGraph := []query.Pattern{query.T(VarURI, query.IRI(ontology.RDFType), VarType)}
	for _, f := range singles {
		var lf query.Pattern
		if f.Lang {
			lf = query.Filter(query.LangFilter(f.Var, lang))
		}
		if f.Required {
			inGraph = append(inGraph, f.Pattern(), lf)
		} else {
			inGraph = append(inGraph, query.Optional(f.Pattern(), lf))
		}
	}

	q := query.NewSelect(proj...).Distinct()
	if graph == "" {
		q.Where(inGraph...)
	} else {
		q.Where(query.Graph(graph.IRI(), inGraph...))
	}
	return q.Where(
		query.T(VarType, query.SubClassOfStar(), query.IRI(ix.Class.Type)),
	)
}

// ListQuery selects ?uri and ?value of list field f for the resources.
func (ix *Index) ListQuery(graph URI, f Field, uris []URI, lang string) *query.Select {
	ps := []query.Pattern{
		query.Values(VarURI, query.IRIs(uris)...),
		f.pattern(VarURI, VarValue),
	}
	if f.Lang {
		ps = append(ps, query.Filter(query.LangFilter(VarValue, lang)))
	}
	q := query.NewSelect(VarURI, VarValue).Distinct()
	if graph == "" {
		return q.Where(ps...)
	}
	return q.Where(query.Graph(graph.IRI(), ps...))
}

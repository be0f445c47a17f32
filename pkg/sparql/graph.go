package sparql

import (
	"context"
	"strconv"
	"strings"

	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
)

// ClearGraph removes all triples in graph.
func (s *Service) ClearGraph(ctx context.Context, graph mapper.URI) error {
	return s.ExecuteUpdate(ctx, query.NewUpdate().ClearGraph(graph.IRI()))
}

// RenameGraph moves all triples from a graph to another, replacing its content.
func (s *Service) RenameGraph(ctx context.Context, from, to mapper.URI) error {
	return s.ExecuteUpdate(ctx, query.NewUpdate().Move(from.IRI(), to.IRI()))
}

// Clear removes all triples in the repository.
func (s *Service) Clear(ctx context.Context) error {
	return s.ExecuteUpdate(ctx, query.NewUpdate().ClearAll())
}

// Statement is a triple as found in query results.
type Statement struct {
	Subject   csparql.Term
	Predicate csparql.Term
	Object    csparql.Term
}

// String renders the statement as a N-Triples line, without the line break.
func (st Statement) String() string {
	return ntriple(st.Subject) + " " + ntriple(st.Predicate) + " " + ntriple(st.Object) + " ."
}

func ntriple(t csparql.Term) string {
	switch t.Type {
	case csparql.TermURI:
		return "<" + t.Value + ">"
	case csparql.TermBNode:
		return "_:" + t.Value
	}
	lit := strconv.Quote(t.Value)
	switch {
	case t.Lang != "":
		return lit + "@" + strings.ToLower(t.Lang)
	case t.Datatype != "":
		return lit + "^^<" + t.Datatype + ">"
	}
	return lit
}

// GraphStatements lists all triples in graph.
func (s *Service) GraphStatements(ctx context.Context, graph mapper.URI) ([]Statement, error) {
	sv, pv, ov := query.Var("s"), query.Var("p"), query.Var("o")
	q := query.NewSelect(sv, pv, ov).Where(query.Graph(graph.IRI(), query.T(sv, pv, ov)))
	res, err := s.ExecuteSelect(ctx, q)
	if err != nil {
		return nil, err
	}
	sts := make([]Statement, 0, len(res.Bindings))
	for _, b := range res.Bindings {
		sts = append(sts, Statement{Subject: b["s"], Predicate: b["p"], Object: b["o"]})
	}
	return sts, nil
}

package sparql

import (
	"context"

	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/sparql/tree"
)

// TreeQuery describes a hierarchy to be searched.
type TreeQuery struct {
	// Root of the hierarchy. When empty, every node matching Class is searched.
	Root mapper.URI

	// Nodes are instances of Class (or its subclasses). When empty, any resources linked by ParentPath.
	Class mapper.URI

	// ParentPath links a node to its parent: `?node <ParentPath> ?parent`.
	// For example, rdfs:subClassOf for class hierarchies, or ^oeso:hasPart for compositions.
	ParentPath query.Term

	// Graph where nodes and links are. Empty means all graphs.
	Graph mapper.URI

	Lang        string
	ExcludeRoot bool

	// nodes reported as selected
	Selection []mapper.URI

	// Filter adds patterns on ?uri, ?rdfType, ?name and ?parent.
	Filter func(*query.Select)
}

// SearchResourceTree queries nodes of hierarchy, and builds tree of them.
func (s *Service) SearchResourceTree(ctx context.Context, tq TreeQuery) (*tree.Tree, error) {
	node, typ, name, parent := mapper.VarURI, mapper.VarType, query.Var("name"), query.Var("parent")
	lang := s.Lang(tq.Lang)

	ps := []query.Pattern{}
	if tq.Root != "" {
		ps = append(ps, query.T(node, query.Path("("+tq.ParentPath.String()+")*"), tq.Root.IRI()))
	}
	if tq.Class != "" {
		ps = append(ps,
			query.T(node, query.IRI(ontology.RDFType), typ),
			query.T(typ, query.SubClassOfStar(), tq.Class.IRI()),
		)
	} else {
		ps = append(ps, query.Optional(query.T(node, query.IRI(ontology.RDFType), typ)))
	}
	ps = append(ps,
		query.Optional(
			query.T(node, query.IRI(ontology.RDFSLabel), name),
			query.Filter(query.LangFilter(name, lang)),
		),
		query.Optional(query.T(node, tq.ParentPath, parent)),
	)

	q := query.NewSelect(node, typ, name, parent).Distinct()
	if tq.Graph != "" {
		q.Where(query.Graph(tq.Graph.IRI(), ps...))
	} else {
		q.Where(ps...)
	}
	if tq.Filter != nil {
		tq.Filter(q)
	}

	res, err := s.ExecuteSelect(ctx, q)
	if err != nil {
		return nil, err
	}

	nodes := map[mapper.URI]*tree.Node{}
	order := []mapper.URI{}
	parents := map[mapper.URI]mapper.URI{}
	get := func(u mapper.URI) *tree.Node {
		n, ok := nodes[u]
		if !ok {
			n = &tree.Node{URI: u}
			nodes[u] = n
			order = append(order, u)
		}
		return n
	}
	for _, b := range res.Bindings {
		u, _ := b.Value("uri")
		n := get(mapper.URI(u))
		if t, ok := b.Value("rdfType"); ok && n.Type == "" {
			n.Type = mapper.URI(t)
		}
		if l, ok := b.Value("name"); ok && (n.Name == "" || b["name"].Lang != "") {
			n.Name = l
		}
		if p, ok := b.Value("parent"); ok && p != u {
			if _, already := parents[n.URI]; !already {
				parents[n.URI] = mapper.URI(p)
			}
		}
	}
	for child, p := range parents {
		// parents out of the searched nodes are cut off.
		if pn, ok := nodes[p]; ok {
			nodes[child].Parent = pn
		}
	}

	t := tree.New(tq.Selection, tq.Root, tq.ExcludeRoot)
	for _, u := range order {
		t.AddTree(nodes[u])
	}
	return t, nil
}

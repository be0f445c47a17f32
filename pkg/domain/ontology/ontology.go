// Package ontology browses classes of the vocabularies loaded in the triplestore.
package ontology

import (
	"context"
	"sort"

	xe "github.com/opensilex/phis/pkg/errors"
	voc "github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/sparql/tree"
)

// ClassModel is an OWL class.
type ClassModel struct {
	mapper.Resource
	Name    string     `json:"name,omitempty" sparql:"rdfs:label,lang"`
	Comment string     `json:"comment,omitempty" sparql:"rdfs:comment,lang"`
	Parent  mapper.URI `json:"parent,omitempty" sparql:"rdfs:subClassOf"`
}

func (*ClassModel) Class() mapper.ClassInfo {
	return mapper.ClassInfo{Type: voc.OWLClass}
}

type Interface interface {
	GetClass(ctx context.Context, uri mapper.URI, lang string) (*ClassModel, error)

	// SearchSubClasses is the tree of subclasses of parent.
	SearchSubClasses(ctx context.Context, parent mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error)

	// SearchLabels finds resources whose label matches label (regex),
	// among instances of rdfType when it is not empty.
	//
	// Returns:
	//
	// - map[mapper.URI][]string: all labels of each found resource, sorted.
	SearchLabels(ctx context.Context, label string, rdfType mapper.URI) (map[mapper.URI][]string, error)
}

type dao struct {
	sparql *sparql.Service
}

func New(s *sparql.Service) Interface {
	return &dao{sparql: s}
}

func (d *dao) GetClass(ctx context.Context, uri mapper.URI, lang string) (*ClassModel, error) {
	return sparql.GetByURI[ClassModel](ctx, d.sparql, uri, lang)
}

func (d *dao) SearchSubClasses(ctx context.Context, parent mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error) {
	ok, err := d.sparql.ExistURI(ctx, parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xe.Wrap(sparql.NotFound(parent))
	}
	return d.sparql.SearchResourceTree(ctx, sparql.TreeQuery{
		Root:        parent,
		ParentPath:  query.IRI(voc.RDFSSubClassOf),
		Lang:        lang,
		ExcludeRoot: excludeRoot,
	})
}

func (d *dao) SearchLabels(ctx context.Context, label string, rdfType mapper.URI) (map[mapper.URI][]string, error) {
	uri, l := mapper.VarURI, query.Var("label")
	q := query.NewSelect(uri, l).Distinct().Where(
		query.T(uri, query.IRI(voc.RDFSLabel), l),
	)
	q.Filter(query.Regex(l, label))
	if rdfType != "" {
		q.Where(query.T(uri, query.TypeOrSubType(), rdfType.IRI()))
	}
	res, err := d.sparql.ExecuteSelect(ctx, q.Limit(d.sparql.PageSize(0)))
	if err != nil {
		return nil, err
	}

	found := map[mapper.URI][]string{}
	for _, b := range res.Bindings {
		u, _ := b.Value("uri")
		v, _ := b.Value("label")
		found[mapper.URI(u)] = append(found[mapper.URI(u)], v)
	}
	for _, ls := range found {
		sort.Strings(ls)
	}
	return found, nil
}

// Package infrastructure manages research infrastructures, their facilities and teams.
package infrastructure

import (
	"context"

	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/sparql/tree"
)

type Infrastructure struct {
	mapper.Resource
	Label string `json:"name" sparql:"rdfs:label,required,lang"`

	// the infrastructure which has this as its part
	Parent mapper.URI `json:"parent,omitempty" sparql:"oeso:hasPart,inverse"`
}

func (*Infrastructure) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OESOInfrastructure,
		Graph:  "set/infrastructures",
		Prefix: "infrastructure",
	}
}

func (i *Infrastructure) URISegments() []string {
	return []string{i.Label}
}

type SearchParams struct {
	// regex on URI and label
	URI   string
	Label string

	// infrastructures of the type or its subclasses
	RDFType mapper.URI

	Lang     string
	Page     int
	PageSize int
}

type Interface interface {
	Get(ctx context.Context, uri mapper.URI, lang string) (*Infrastructure, error)
	Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Infrastructure], error)

	// Tree is the hierarchy of infrastructures under root, or all hierarchies when root is empty.
	Tree(ctx context.Context, root mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error)

	// Create registers infrastructures, with labels in lang.
	//
	// Returns:
	//
	// - error: ErrNotFoundURI when a parent does not exist, ErrInvalidType when rdfType is
	// not an infrastructure type.
	Create(ctx context.Context, lang string, is ...*Infrastructure) error
}

type dao struct {
	sparql *sparql.Service
}

func New(s *sparql.Service) Interface {
	return &dao{sparql: s}
}

func (d *dao) Get(ctx context.Context, uri mapper.URI, lang string) (*Infrastructure, error) {
	return sparql.GetByURI[Infrastructure](ctx, d.sparql, uri, lang)
}

func (d *dao) Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Infrastructure], error) {
	return sparql.Search[Infrastructure](ctx, d.sparql, sparql.SearchParams{
		Lang: params.Lang,
		Filter: func(q *query.Select) {
			q.Filter(query.Regex(mapper.VarURI, params.URI))
			q.Filter(query.Regex("name", params.Label))
			if params.RDFType != "" {
				q.Where(query.T(mapper.VarType, query.SubClassOfStar(), params.RDFType.IRI()))
			}
		},
		OrderBy:  []query.OrderBy{{Field: "name"}},
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

func (d *dao) Tree(ctx context.Context, root mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error) {
	if root != "" {
		exists, err := sparql.URIExists[Infrastructure](ctx, d.sparql, root)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, xe.Wrap(sparql.NotFound(root))
		}
	}
	ix := mapper.For[Infrastructure]()
	return d.sparql.SearchResourceTree(ctx, sparql.TreeQuery{
		Root:        root,
		Class:       ontology.OESOInfrastructure,
		ParentPath:  query.Inverse(ontology.OESOHasPart),
		Graph:       d.sparql.Graph(ix.Class.Graph),
		Lang:        lang,
		ExcludeRoot: excludeRoot,
	})
}

func (d *dao) Create(ctx context.Context, lang string, is ...*Infrastructure) error {
	return d.sparql.InTx(ctx, func(tx *sparql.Service) error {
		for _, i := range is {
			if i.Type == "" {
				return xe.Wrapf(sparql.ErrRequired, "rdfType")
			}
			ok, err := tx.IsSubClassOf(ctx, i.Type, ontology.OESOInfrastructure)
			if err != nil {
				return err
			}
			if !ok {
				return xe.Wrapf(sparql.ErrInvalidType, "%s", i.Type)
			}
			if i.Parent == "" {
				continue
			}
			exists, err := sparql.URIExists[Infrastructure](ctx, tx, i.Parent)
			if err != nil {
				return err
			}
			if !exists {
				return xe.Wrap(sparql.NotFound(i.Parent))
			}
		}
		return sparql.Create(ctx, tx, lang, is...)
	})
}

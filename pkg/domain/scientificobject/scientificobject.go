// Package scientificobject manages scientific objects: plants, plots, pots... observed in experiments.
package scientificobject

import (
	"context"
	"time"

	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/experiment"
	"github.com/opensilex/phis/pkg/domain/property"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/uri"
	"github.com/opensilex/phis/pkg/utils"
)

const (
	uriLetter = "o"
	uriDigits = 6
)

type ScientificObject struct {
	mapper.Resource
	Alias      string     `json:"alias,omitempty" sparql:"rdfs:label"`
	Experiment mapper.URI `json:"experiment,omitempty" sparql:"oeso:participatesIn"`
	IsPartOf   mapper.URI `json:"isPartOf,omitempty" sparql:"oeso:isPartOf"`

	// WKT
	Geometry   string              `json:"geometry,omitempty" sparql:"-"`
	Properties []property.Property `json:"properties" sparql:"-"`
}

func (*ScientificObject) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OESOScientificObject,
		Graph:  "set/scientific-objects",
		Prefix: "so",
	}
}

// Objects of an experiment live in the experiment's graph.
func (so *ScientificObject) InstanceGraph() mapper.URI {
	return so.Experiment
}

type SearchParams struct {
	// regex on URI
	URI        string
	Experiment mapper.URI
	// regex on alias
	Alias   string
	RDFType mapper.URI

	Page     int
	PageSize int
}

type Interface interface {
	Get(ctx context.Context, uri mapper.URI) (*ScientificObject, error)
	Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*ScientificObject], error)

	// CheckAndInsert checks objects and registers all of them, or none.
	//
	// Returns:
	//
	// - []mapper.URI: generated URIs, in the order of sos.
	//
	// - error: *results.CheckError when checks fail.
	CheckAndInsert(ctx context.Context, sos []*ScientificObject) ([]mapper.URI, error)

	// Update replaces objects with sos, including their properties and geometry.
	//
	// Returns:
	//
	// - error: *results.CheckError when checks fail, including unknown URIs.
	Update(ctx context.Context, sos []*ScientificObject) error
}

type Option func(*dao)

func WithClock(now func() time.Time) Option {
	return func(d *dao) {
		d.now = now
	}
}

type dao struct {
	sparql *sparql.Service
	now    func() time.Time
}

func New(s *sparql.Service, opts ...Option) Interface {
	d := &dao{sparql: s, now: time.Now}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *dao) Get(ctx context.Context, uri mapper.URI) (*ScientificObject, error) {
	so, err := sparql.GetByURI[ScientificObject](ctx, d.sparql, uri, "")
	if err != nil {
		return nil, err
	}
	if err := d.loadExtras(ctx, []*ScientificObject{so}); err != nil {
		return nil, err
	}
	return so, nil
}

func (d *dao) Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*ScientificObject], error) {
	found, err := sparql.Search[ScientificObject](ctx, d.sparql, sparql.SearchParams{
		Filter: func(q *query.Select) {
			q.Filter(query.Regex(mapper.VarURI, params.URI))
			q.Filter(query.Regex("alias", params.Alias))
			if params.Experiment != "" {
				q.Filter(query.Eq(query.Var("experiment"), params.Experiment.IRI()))
			}
			if params.RDFType != "" {
				q.Where(query.T(mapper.VarType, query.SubClassOfStar(), params.RDFType.IRI()))
			}
		},
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		return found, err
	}
	if err := d.loadExtras(ctx, found.Items); err != nil {
		return found, err
	}
	return found, nil
}

func excluded() []query.Term {
	return property.Excluding(mapper.For[ScientificObject](), ontology.OESOHasGeometry)
}

// loadExtras fills geometry and properties of sos.
func (d *dao) loadExtras(ctx context.Context, sos []*ScientificObject) error {
	if len(sos) == 0 {
		return nil
	}
	uris := utils.Map(sos, func(so *ScientificObject) mapper.URI { return so.URI })
	props, err := property.Load(ctx, d.sparql, uris, excluded())
	if err != nil {
		return err
	}
	byURI := utils.ToMap(sos, func(so *ScientificObject) mapper.URI { return so.URI })
	for _, so := range sos {
		so.Properties = append([]property.Property{}, props[so.URI]...)
	}

	uri, geo := mapper.VarURI, query.Var("geometry")
	q := query.NewSelect(uri, geo).Distinct().Where(
		query.Values(uri, query.IRIs(uris)...),
		query.T(uri, query.IRI(ontology.OESOHasGeometry), geo),
	)
	res, err := d.sparql.ExecuteSelect(ctx, q)
	if err != nil {
		return err
	}
	for _, b := range res.Bindings {
		u, _ := b.Value("uri")
		if so, ok := byURI[mapper.URI(u)]; ok {
			so.Geometry, _ = b.Value("geometry")
		}
	}
	return nil
}

func geometryTriples(so *ScientificObject) []query.Triple {
	if so.Geometry == "" {
		return nil
	}
	return []query.Triple{query.T(
		so.URI.IRI(), query.IRI(ontology.OESOHasGeometry), query.TypedLiteral(so.Geometry, ontology.GeoWKTLiteral),
	)}
}

func (d *dao) check(ctx context.Context, cr *results.CheckResult, so *ScientificObject) error {
	if so.Type == "" {
		cr.Failf("Missing field", "rdfType is required")
	} else if ok, err := d.sparql.IsSubClassOf(ctx, so.Type, ontology.OESOScientificObject); err != nil {
		return err
	} else if !ok {
		cr.Failf("Wrong value", "%s is not a scientific object type", so.Type)
	}

	if so.Experiment != "" {
		ok, err := sparql.URIExists[experiment.Experiment](ctx, d.sparql, so.Experiment)
		if err != nil {
			return err
		}
		if !ok {
			cr.Failf("Unknown URI", "experiment %s does not exist", so.Experiment)
		}
	}
	if so.IsPartOf != "" {
		ok, err := d.sparql.ExistURI(ctx, so.IsPartOf)
		if err != nil {
			return err
		}
		if !ok {
			cr.Failf("Unknown URI", "%s does not exist", so.IsPartOf)
		}
	}
	for _, p := range so.Properties {
		if p.Relation == "" {
			cr.Failf("Missing field", "relation of property %q is required", p.Value)
		}
	}
	return nil
}

func (d *dao) CheckAndInsert(ctx context.Context, sos []*ScientificObject) ([]mapper.URI, error) {
	cr := new(results.CheckResult)
	for _, so := range sos {
		if err := d.check(ctx, cr, so); err != nil {
			return nil, err
		}
	}
	if err := cr.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	ix := mapper.For[ScientificObject]()
	uris := make([]mapper.URI, len(sos))
	err := d.sparql.InTx(ctx, func(tx *sparql.Service) error {
		year := d.now().Year()
		count, err := tx.CountInstances(
			ctx, ontology.OESOScientificObject, uri.YearSequencePrefix(tx.BaseURI(), year, uriLetter),
		)
		if err != nil {
			return err
		}
		for i, so := range sos {
			so.URI = mapper.URI(uri.ForYearSequence(tx.BaseURI(), year, uriLetter, uriDigits, count+1+i))
			uris[i] = so.URI
		}
		if err := sparql.Create(ctx, tx, "", sos...); err != nil {
			return err
		}
		u := query.NewUpdate()
		for _, so := range sos {
			ts := append(geometryTriples(so), property.Triples(so.URI, so.Properties)...)
			u.InsertData(tx.GraphOf(ix, so).IRI(), ts...)
		}
		return tx.ExecuteUpdate(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return uris, nil
}

func (d *dao) Update(ctx context.Context, sos []*ScientificObject) error {
	cr := new(results.CheckResult)
	for _, so := range sos {
		exists, err := sparql.URIExists[ScientificObject](ctx, d.sparql, so.URI)
		if err != nil {
			return err
		}
		if !exists {
			cr.Failf("Unknown URI", "%s", so.URI)
			continue
		}
		if err := d.check(ctx, cr, so); err != nil {
			return err
		}
	}
	if err := cr.Err(); err != nil {
		return xe.Wrap(err)
	}

	ix := mapper.For[ScientificObject]()
	return d.sparql.InTx(ctx, func(tx *sparql.Service) error {
		if err := sparql.Update(ctx, tx, "", sos...); err != nil {
			return err
		}
		u := query.NewUpdate()
		for _, so := range sos {
			graph := tx.GraphOf(ix, so)
			property.Replace(u, graph, so.URI, property.Excluding(ix), so.Properties)
			u.InsertData(graph.IRI(), geometryTriples(so)...)
		}
		return tx.ExecuteUpdate(ctx, u)
	})
}

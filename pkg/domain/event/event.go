// Package event manages events: things happening to resources at an instant.
package event

import (
	"context"
	"time"

	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/property"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/utils"
)

// Event is an instance of a subclass of oeso:Event. Its Type must be set.
type Event struct {
	mapper.Resource
	Date        time.Time           `json:"date" sparql:"time:hasTime,required"`
	Description string              `json:"description,omitempty" sparql:"rdfs:comment"`
	Concerns    []mapper.URI        `json:"concernedItems" sparql:"oeso:concerns"`
	Properties  []property.Property `json:"properties" sparql:"-"`
}

func (*Event) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OESOEvent,
		Graph:  "events",
		Prefix: "event",
	}
}

type SearchParams struct {
	// regex on URI
	URI string

	// events of the type or its subclasses
	RDFType mapper.URI

	// events concerning one of them
	Concerns []mapper.URI

	// closed interval. nil means unlimited.
	StartDate *time.Time
	EndDate   *time.Time

	Page     int
	PageSize int
}

type Interface interface {
	Get(ctx context.Context, uri mapper.URI) (*Event, error)

	// Search finds events, latest first.
	Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Event], error)

	// Create checks events and registers all of them, or none.
	//
	// Returns:
	//
	// - []mapper.URI: generated URIs, in the order of es.
	//
	// - error: *results.CheckError when checks fail.
	Create(ctx context.Context, es []*Event) ([]mapper.URI, error)
}

type dao struct {
	sparql *sparql.Service
}

func New(s *sparql.Service) Interface {
	return &dao{sparql: s}
}

func (d *dao) Get(ctx context.Context, uri mapper.URI) (*Event, error) {
	e, err := sparql.GetByURI[Event](ctx, d.sparql, uri, "")
	if err != nil {
		return nil, err
	}
	if err := d.loadProperties(ctx, []*Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (d *dao) Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Event], error) {
	date := query.Var("date")
	found, err := sparql.Search[Event](ctx, d.sparql, sparql.SearchParams{
		Filter: func(q *query.Select) {
			q.Filter(query.Regex(mapper.VarURI, params.URI))
			if params.RDFType != "" {
				q.Where(query.T(mapper.VarType, query.SubClassOfStar(), params.RDFType.IRI()))
			}
			if len(params.Concerns) != 0 {
				concerned := query.Var("concerned")
				q.Where(
					query.Values(concerned, query.IRIs(params.Concerns)...),
					query.T(mapper.VarURI, query.IRI(ontology.OESOConcerns), concerned),
				)
			}
			if params.StartDate != nil {
				q.Filter(query.Ge(date, query.DateTimeLiteral(*params.StartDate)))
			}
			if params.EndDate != nil {
				q.Filter(query.Le(date, query.DateTimeLiteral(*params.EndDate)))
			}
		},
		OrderBy:  []query.OrderBy{{Field: date, Desc: true}},
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		return found, err
	}
	if err := d.loadProperties(ctx, found.Items); err != nil {
		return found, err
	}
	return found, nil
}

func (d *dao) loadProperties(ctx context.Context, es []*Event) error {
	props, err := property.Load(
		ctx, d.sparql,
		utils.Map(es, func(e *Event) mapper.URI { return e.URI }),
		property.Excluding(mapper.For[Event]()),
	)
	if err != nil {
		return err
	}
	for _, e := range es {
		e.Properties = append([]property.Property{}, props[e.URI]...)
	}
	return nil
}

func (d *dao) check(ctx context.Context, cr *results.CheckResult, e *Event) error {
	if e.Type == "" {
		cr.Failf("Missing field", "rdfType is required")
	} else if ok, err := d.sparql.IsSubClassOf(ctx, e.Type, ontology.OESOEvent); err != nil {
		return err
	} else if !ok {
		cr.Failf("Wrong value", "%s is not an event type", e.Type)
	}

	if e.Date.IsZero() {
		cr.Failf("Missing field", "date is required")
	}
	if len(e.Concerns) == 0 {
		cr.Failf("Missing field", "at least one concerned item is required")
	}
	for _, c := range e.Concerns {
		ok, err := d.sparql.ExistURI(ctx, c)
		if err != nil {
			return err
		}
		if !ok {
			cr.Failf("Unknown URI", "concerned item %s does not exist", c)
		}
	}
	for _, p := range e.Properties {
		if p.Relation == "" {
			cr.Failf("Missing field", "relation of property %q is required", p.Value)
		}
	}
	return nil
}

func (d *dao) Create(ctx context.Context, es []*Event) ([]mapper.URI, error) {
	cr := new(results.CheckResult)
	for _, e := range es {
		if err := d.check(ctx, cr, e); err != nil {
			return nil, err
		}
	}
	if err := cr.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	ix := mapper.For[Event]()
	err := d.sparql.InTx(ctx, func(tx *sparql.Service) error {
		for _, e := range es {
			e.URI = ""
		}
		if err := sparql.Create(ctx, tx, "", es...); err != nil {
			return err
		}
		u := query.NewUpdate()
		for _, e := range es {
			u.InsertData(tx.GraphOf(ix, e).IRI(), property.Triples(e.URI, e.Properties)...)
		}
		return tx.ExecuteUpdate(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return utils.Map(es, func(e *Event) mapper.URI { return e.URI }), nil
}

// Package annotation manages Web Annotations on resources.
package annotation

import (
	"context"
	"time"

	"github.com/opensilex/phis/pkg/api/types/results"
	kdb "github.com/opensilex/phis/pkg/db"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
)

type Annotation struct {
	mapper.Resource
	Created     time.Time    `json:"creationDate" sparql:"dcterms:created,required"`
	Creator     mapper.URI   `json:"creator" sparql:"dcterms:creator,required"`
	MotivatedBy mapper.URI   `json:"motivatedBy" sparql:"oa:motivatedBy,required"`
	BodyValues  []string     `json:"bodyValues" sparql:"oa:bodyValue"`
	Targets     []mapper.URI `json:"targets" sparql:"oa:hasTarget"`
}

func (*Annotation) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OAAnnotation,
		Graph:  "annotations",
		Prefix: "annotation",
	}
}

type SearchParams struct {
	URI         mapper.URI
	Creator     mapper.URI
	Target      mapper.URI
	MotivatedBy mapper.URI

	// regex on body values
	BodyValue string

	Page     int
	PageSize int
}

type Interface interface {
	Get(ctx context.Context, uri mapper.URI) (*Annotation, error)

	// Search finds annotations, latest first.
	Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Annotation], error)

	// CheckAndInsert registers annotations created now by creator.
	//
	// Returns:
	//
	// - []mapper.URI: URIs of created annotations
	//
	// - error: *results.CheckError when checks fail.
	CheckAndInsert(ctx context.Context, as []*Annotation, creator kdb.User) ([]mapper.URI, error)
}

type Option func(*dao)

func WithClock(now func() time.Time) Option {
	return func(d *dao) {
		d.now = now
	}
}

type dao struct {
	sparql *sparql.Service
	users  kdb.UserInterface
	now    func() time.Time
}

func New(s *sparql.Service, users kdb.UserInterface, opts ...Option) Interface {
	d := &dao{sparql: s, users: users, now: time.Now}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *dao) Get(ctx context.Context, uri mapper.URI) (*Annotation, error) {
	return sparql.GetByURI[Annotation](ctx, d.sparql, uri, "")
}

func (d *dao) Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Annotation], error) {
	uri := mapper.VarURI
	return sparql.Search[Annotation](ctx, d.sparql, sparql.SearchParams{
		Filter: func(q *query.Select) {
			if params.URI != "" {
				q.Where(query.Values(uri, params.URI.IRI()))
			}
			if params.Creator != "" {
				q.Filter(query.Eq(query.Var("creator"), params.Creator.IRI()))
			}
			if params.MotivatedBy != "" {
				q.Filter(query.Eq(query.Var("motivatedBy"), params.MotivatedBy.IRI()))
			}
			if params.Target != "" {
				q.Where(query.T(uri, query.IRI(ontology.OAHasTarget), params.Target.IRI()))
			}
			if params.BodyValue != "" {
				body := query.Var("body")
				q.Where(query.T(uri, query.IRI(ontology.OABodyValue), body))
				q.Filter(query.Regex(body, params.BodyValue))
			}
		},
		OrderBy:  []query.OrderBy{{Field: "creationDate", Desc: true}},
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

func (d *dao) check(ctx context.Context, cr *results.CheckResult, a *Annotation) error {
	if a.MotivatedBy == "" {
		cr.Failf("Missing field", "motivatedBy is required")
	} else if ok, err := d.sparql.IsInstanceOf(ctx, a.MotivatedBy, ontology.OAMotivation); err != nil {
		return err
	} else if !ok {
		cr.Failf("Wrong value", "%s is not a motivation", a.MotivatedBy)
	}

	if len(a.Targets) == 0 {
		cr.Failf("Missing field", "at least one target is required")
	}
	for _, t := range a.Targets {
		ok, err := d.sparql.ExistURI(ctx, t)
		if err != nil {
			return err
		}
		if !ok {
			cr.Failf("Unknown URI", "target %s does not exist", t)
		}
	}
	return nil
}

func (d *dao) CheckAndInsert(ctx context.Context, as []*Annotation, creator kdb.User) ([]mapper.URI, error) {
	cr := new(results.CheckResult)
	known, err := d.users.Exists(ctx, creator.URI)
	if err != nil {
		return nil, err
	}
	if !known {
		cr.Failf("Unknown URI", "creator %s is not a known user", creator.URI)
	}
	for _, a := range as {
		if err := d.check(ctx, cr, a); err != nil {
			return nil, err
		}
	}
	if err := cr.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	now := d.now().UTC().Truncate(time.Second)
	for _, a := range as {
		a.URI = ""
		a.Created = now
		a.Creator = mapper.URI(creator.URI)
	}
	if err := sparql.Create(ctx, d.sparql, "", as...); err != nil {
		return nil, err
	}
	uris := make([]mapper.URI, len(as))
	for i, a := range as {
		uris[i] = a.URI
	}
	return uris, nil
}

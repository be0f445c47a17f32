// Package vector manages vectors: things carrying sensors (UAVs, field robots, gantries...).
package vector

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
	"github.com/opensilex/phis/pkg/uri"
)

const (
	uriLetter = "v"
	uriDigits = 4
)

// Vector is an instance of a subclass of oeso:Vector. Its Type must be set.
type Vector struct {
	mapper.Resource
	Label          string     `json:"label,omitempty" sparql:"rdfs:label"`
	Brand          string     `json:"brand" sparql:"oeso:hasBrand,required"`
	SerialNumber   string     `json:"serialNumber,omitempty" sparql:"oeso:hasSerialNumber"`
	InServiceDate  *time.Time `json:"inServiceDate,omitempty" sparql:"oeso:inServiceDate,date"`
	DateOfPurchase *time.Time `json:"dateOfPurchase,omitempty" sparql:"oeso:dateOfPurchase,date"`

	// email of the user in charge
	PersonInCharge string `json:"personInCharge,omitempty" sparql:"oeso:personInCharge"`
}

func (*Vector) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OESOVector,
		Graph:  "vectors",
		Prefix: "vector",
	}
}

type SearchParams struct {
	// regex on URI, label, brand and serial number
	URI          string
	Label        string
	Brand        string
	SerialNumber string

	// vectors of the type or its subclasses
	RDFType mapper.URI

	InServiceDate  *time.Time
	DateOfPurchase *time.Time
	PersonInCharge string

	Page     int
	PageSize int
}

type Interface interface {
	Get(ctx context.Context, uri mapper.URI) (*Vector, error)
	Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Vector], error)

	// CheckAndInsert checks vectors and registers all of them, or none.
	//
	// Returns:
	//
	// - []mapper.URI: generated URIs, in the order of vs.
	//
	// - error: *results.CheckError when checks fail.
	CheckAndInsert(ctx context.Context, vs []*Vector) ([]mapper.URI, error)

	// CheckAndUpdate checks vectors and updates all of them, or none.
	//
	// Returns:
	//
	// - error: *results.CheckError when checks fail, including unknown URIs.
	CheckAndUpdate(ctx context.Context, vs []*Vector) error
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

func (d *dao) Get(ctx context.Context, uri mapper.URI) (*Vector, error) {
	return sparql.GetByURI[Vector](ctx, d.sparql, uri, "")
}

func (d *dao) Search(ctx context.Context, params SearchParams) (sparql.ListWithPagination[*Vector], error) {
	return sparql.Search[Vector](ctx, d.sparql, sparql.SearchParams{
		Filter: func(q *query.Select) {
			q.Filter(query.Regex(mapper.VarURI, params.URI))
			q.Filter(query.Regex("label", params.Label))
			q.Filter(query.Regex("brand", params.Brand))
			q.Filter(query.Regex("serialNumber", params.SerialNumber))
			if params.RDFType != "" {
				q.Where(query.T(mapper.VarType, query.SubClassOfStar(), params.RDFType.IRI()))
			}
			if params.InServiceDate != nil {
				q.Filter(query.Eq(query.Var("inServiceDate"), query.DateLiteral(*params.InServiceDate)))
			}
			if params.DateOfPurchase != nil {
				q.Filter(query.Eq(query.Var("dateOfPurchase"), query.DateLiteral(*params.DateOfPurchase)))
			}
			if params.PersonInCharge != "" {
				q.Filter(query.Eq(query.Var("personInCharge"), query.Literal(params.PersonInCharge)))
			}
		},
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

// check validates a vector and collects failures in cr.
func (d *dao) check(ctx context.Context, cr *results.CheckResult, v *Vector) error {
	ix := mapper.For[Vector]()
	if err := ix.Validate(v); err != nil {
		cr.Failf("Missing field", "%s", err)
	}

	if v.Type == "" {
		cr.Failf("Missing field", "rdfType is required")
	} else if ok, err := d.sparql.IsSubClassOf(ctx, v.Type, ontology.OESOVector); err != nil {
		return err
	} else if !ok {
		cr.Failf("Wrong value", "%s is not a vector type", v.Type)
	}

	if v.PersonInCharge != "" {
		ok, err := d.users.ExistsEmail(ctx, v.PersonInCharge)
		if err != nil {
			return err
		}
		if !ok {
			cr.Failf("Unknown user", "%s is not a known user", v.PersonInCharge)
		}
	}
	return nil
}

func (d *dao) CheckAndInsert(ctx context.Context, vs []*Vector) ([]mapper.URI, error) {
	cr := new(results.CheckResult)
	for _, v := range vs {
		if err := d.check(ctx, cr, v); err != nil {
			return nil, err
		}
	}
	if err := cr.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	uris := make([]mapper.URI, len(vs))
	err := d.sparql.InTx(ctx, func(tx *sparql.Service) error {
		next := map[int]int{}
		for i, v := range vs {
			year := d.now().Year()
			if v.InServiceDate != nil {
				year = v.InServiceDate.Year()
			}
			n, ok := next[year]
			if !ok {
				count, err := tx.CountInstances(
					ctx, ontology.OESOVector, uri.YearSequencePrefix(tx.BaseURI(), year, uriLetter),
				)
				if err != nil {
					return err
				}
				n = count + 1
			}
			next[year] = n + 1
			v.URI = mapper.URI(uri.ForYearSequence(tx.BaseURI(), year, uriLetter, uriDigits, n))
			uris[i] = v.URI
		}
		return sparql.Create(ctx, tx, "", vs...)
	})
	if err != nil {
		return nil, err
	}
	return uris, nil
}

func (d *dao) CheckAndUpdate(ctx context.Context, vs []*Vector) error {
	cr := new(results.CheckResult)
	for _, v := range vs {
		exists, err := sparql.URIExists[Vector](ctx, d.sparql, v.URI)
		if err != nil {
			return err
		}
		if !exists {
			cr.Failf("Unknown URI", "%s", v.URI)
			continue
		}
		if err := d.check(ctx, cr, v); err != nil {
			return err
		}
	}
	if err := cr.Err(); err != nil {
		return xe.Wrap(err)
	}
	return sparql.Update(ctx, d.sparql, "", vs...)
}

// Package experiment manages experiments.
//
// An experiment is readable by administrators, by anyone when it is public,
// by its supervisors and by members of its groups.
package experiment

import (
	"context"
	"fmt"
	"time"

	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/project"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/utils"
)

type Experiment struct {
	mapper.Resource
	Label                 string       `json:"label" sparql:"rdfs:label,required"`
	Projects              []mapper.URI `json:"projects" sparql:"oeso:hasProject"`
	StartDate             time.Time    `json:"startDate" sparql:"oeso:startDate,required,date"`
	EndDate               *time.Time   `json:"endDate,omitempty" sparql:"oeso:endDate,date"`
	Objective             string       `json:"objective,omitempty" sparql:"oeso:hasObjective"`
	Comment               string       `json:"comment,omitempty" sparql:"rdfs:comment"`
	Campaign              *int         `json:"campaign,omitempty" sparql:"oeso:hasCampaign"`
	Keywords              []string     `json:"keywords" sparql:"oeso:hasKeyword"`
	ScientificSupervisors []mapper.URI `json:"scientificSupervisors" sparql:"oeso:hasScientificSupervisor"`
	TechnicalSupervisors  []mapper.URI `json:"technicalSupervisors" sparql:"oeso:hasTechnicalSupervisor"`
	Groups                []mapper.URI `json:"groups" sparql:"oeso:hasGroup"`
	Infrastructures       []mapper.URI `json:"infrastructures" sparql:"oeso:hasInfrastructure"`
	Installations         []mapper.URI `json:"installations" sparql:"oeso:hasDevice"`
	Species               []mapper.URI `json:"species" sparql:"oeso:hasSpecies"`
	IsPublic              bool         `json:"isPublic" sparql:"oeso:isPublic"`
	Variables             []mapper.URI `json:"variables" sparql:"oeso:measures"`
	Sensors               []mapper.URI `json:"sensors" sparql:"oeso:hasSensor"`
	Factors               []mapper.URI `json:"factors" sparql:"oeso:studyEffectOf"`
}

func (*Experiment) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OESOExperiment,
		Graph:  "set/experiments",
		Prefix: "xp",
	}
}

func (x *Experiment) URISegments() []string {
	return []string{fmt.Sprint(x.StartDate.Year()), x.Label}
}

// ReadableBy tells user can read the experiment.
func (x *Experiment) ReadableBy(user kdb.User) bool {
	return x.IsPublic || x.WritableBy(user)
}

// WritableBy tells user can modify or delete the experiment.
//
// Being public does not grant writing.
func (x *Experiment) WritableBy(user kdb.User) bool {
	if user.Admin {
		return true
	}
	me := mapper.URI(user.URI)
	for _, sv := range [][]mapper.URI{x.ScientificSupervisors, x.TechnicalSupervisors} {
		for _, s := range sv {
			if s == me {
				return true
			}
		}
	}
	return user.InGroup(utils.Map(x.Groups, func(g mapper.URI) string { return string(g) })...)
}

type SearchParams struct {
	Label    string
	Projects []mapper.URI
	Campaign *int

	// experiments running in [StartDate, EndDate]
	StartDate *time.Time
	EndDate   *time.Time

	// experiments on one of Species
	Species []mapper.URI

	IsPublic *bool

	// ended experiments have an end date before today.
	IsEnded *bool

	OrderBy  []query.OrderBy
	Page     int
	PageSize int
}

type Interface interface {
	// Create registers experiments.
	//
	// Returns:
	//
	// - error: ErrNotFoundURI when one of projects does not exist.
	Create(ctx context.Context, user kdb.User, xps ...*Experiment) error
	Update(ctx context.Context, user kdb.User, xp *Experiment) error
	Delete(ctx context.Context, user kdb.User, uri mapper.URI) error
	Get(ctx context.Context, user kdb.User, uri mapper.URI) (*Experiment, error)
	GetList(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*Experiment, error)
	Search(ctx context.Context, user kdb.User, params SearchParams) (sparql.ListWithPagination[*Experiment], error)

	// ValidateAccess tells the user can access the experiment.
	//
	// Returns:
	//
	// - error: ErrNotFoundURI when it does not exist. ErrForbiddenURIAccess when it is not readable.
	//
	// Update and Delete require more: the user should supervise the experiment or be in one of its groups.
	ValidateAccess(ctx context.Context, user kdb.User, uri mapper.URI) error
}

type Option func(*dao)

// WithClock replaces the clock telling today.
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

// readableBy matches experiments readable by user.
func readableBy(user kdb.User) query.Pattern {
	return memberOf(user, true)
}

// writableBy matches experiments which user supervises or shares a group with.
func writableBy(user kdb.User) query.Pattern {
	return memberOf(user, false)
}

func memberOf(user kdb.User, orPublic bool) query.Pattern {
	uri, u := mapper.VarURI, query.IRI(user.URI)
	alts := [][]query.Pattern{
		{query.T(uri, query.IRI(ontology.OESOHasScientificSupervisor), u)},
		{query.T(uri, query.IRI(ontology.OESOHasTechnicalSupervisor), u)},
	}
	if orPublic {
		alts = append([][]query.Pattern{
			{query.T(uri, query.IRI(ontology.OESOIsPublic), query.BoolLiteral(true))},
		}, alts...)
	}
	if len(user.Groups) != 0 {
		g := query.Var("userGroup")
		alts = append(alts, []query.Pattern{
			query.Values(g, query.IRIs(user.Groups)...),
			query.T(uri, query.IRI(ontology.OESOHasGroup), g),
		})
	}
	return query.Exists(query.Union(alts...))
}

func (d *dao) checkProjects(ctx context.Context, s *sparql.Service, xps []*Experiment) error {
	checked := map[mapper.URI]bool{}
	for _, x := range xps {
		for _, p := range x.Projects {
			if checked[p] {
				continue
			}
			exists, err := sparql.URIExists[project.Project](ctx, s, p)
			if err != nil {
				return err
			}
			if !exists {
				return xe.Wrap(sparql.NotFound(p))
			}
			checked[p] = true
		}
	}
	return nil
}

func (d *dao) Create(ctx context.Context, user kdb.User, xps ...*Experiment) error {
	return d.sparql.InTx(ctx, func(tx *sparql.Service) error {
		if err := d.checkProjects(ctx, tx, xps); err != nil {
			return err
		}
		return sparql.Create(ctx, tx, user.Language, xps...)
	})
}

func (d *dao) Update(ctx context.Context, user kdb.User, xp *Experiment) error {
	if err := d.validate(ctx, user, xp.URI, writableBy); err != nil {
		return err
	}
	return d.sparql.InTx(ctx, func(tx *sparql.Service) error {
		if err := d.checkProjects(ctx, tx, []*Experiment{xp}); err != nil {
			return err
		}
		return sparql.Update(ctx, tx, user.Language, xp)
	})
}

func (d *dao) Delete(ctx context.Context, user kdb.User, uri mapper.URI) error {
	if err := d.validate(ctx, user, uri, writableBy); err != nil {
		return err
	}
	return sparql.Delete[Experiment](ctx, d.sparql, uri)
}

func (d *dao) Get(ctx context.Context, user kdb.User, uri mapper.URI) (*Experiment, error) {
	xp, err := sparql.GetByURI[Experiment](ctx, d.sparql, uri, user.Language)
	if err != nil {
		return nil, err
	}
	if !xp.ReadableBy(user) {
		return nil, xe.Wrap(sparql.Forbidden(uri))
	}
	return xp, nil
}

func (d *dao) GetList(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*Experiment, error) {
	xps, err := sparql.GetListByURIs[Experiment](ctx, d.sparql, uris, user.Language)
	if err != nil {
		return nil, err
	}
	return utils.Filter(xps, func(x *Experiment) bool { return x.ReadableBy(user) }), nil
}

func (d *dao) Search(ctx context.Context, user kdb.User, params SearchParams) (sparql.ListWithPagination[*Experiment], error) {
	uri := mapper.VarURI
	endDate := query.Var("endDate")
	today := d.now()

	return sparql.Search[Experiment](ctx, d.sparql, sparql.SearchParams{
		Lang: user.Language,
		Filter: func(q *query.Select) {
			q.Filter(query.Regex("label", params.Label))
			if len(params.Projects) != 0 {
				p := query.Var("project")
				q.Where(query.Exists(
					query.Values(p, query.IRIs(params.Projects)...),
					query.T(uri, query.IRI(ontology.OESOHasProject), p),
				))
			}
			if len(params.Species) != 0 {
				sp := query.Var("oneOfSpecies")
				q.Where(query.Exists(
					query.Values(sp, query.IRIs(params.Species)...),
					query.T(uri, query.IRI(ontology.OESOHasSpecies), sp),
				))
			}
			if params.Campaign != nil {
				q.Filter(query.Eq(query.Var("campaign"), query.IntLiteral(*params.Campaign)))
			}
			q.Filter(query.IntervalDateRange("startDate", params.StartDate, endDate, params.EndDate))
			if params.IsPublic != nil {
				q.Filter(query.Eq(query.Var("isPublic"), query.BoolLiteral(*params.IsPublic)))
			}
			if params.IsEnded != nil {
				ended := query.And(query.Bound(endDate), query.Lt(endDate, query.DateLiteral(today)))
				if *params.IsEnded {
					q.Filter(ended)
				} else {
					q.Filter(query.Not(ended))
				}
			}
			if !user.Admin {
				q.Where(readableBy(user))
			}
		},
		OrderBy:  params.OrderBy,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

func (d *dao) ValidateAccess(ctx context.Context, user kdb.User, uri mapper.URI) error {
	return d.validate(ctx, user, uri, readableBy)
}

func (d *dao) validate(ctx context.Context, user kdb.User, uri mapper.URI, allowed func(kdb.User) query.Pattern) error {
	exists, err := sparql.URIExists[Experiment](ctx, d.sparql, uri)
	if err != nil {
		return err
	}
	if !exists {
		return xe.Wrap(sparql.NotFound(uri))
	}
	if user.Admin {
		return nil
	}
	ok, err := d.sparql.ExecuteAsk(ctx, query.NewAsk(
		query.Values(mapper.VarURI, uri.IRI()),
		allowed(user),
	))
	if err != nil {
		return err
	}
	if !ok {
		return xe.Wrap(sparql.Forbidden(uri))
	}
	return nil
}

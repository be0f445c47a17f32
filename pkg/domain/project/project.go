// Package project manages research projects.
//
// Projects are visible to administrators and to their contacts
// (coordinators, scientific and administrative contacts).
package project

import (
	"context"
	"time"

	kdb "github.com/opensilex/phis/pkg/db"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
)

type Project struct {
	mapper.Resource
	Label                  string       `json:"label" sparql:"rdfs:label,required"`
	Shortname              string       `json:"shortname,omitempty" sparql:"oeso:hasShortname"`
	FinancialFunding       string       `json:"financialFunding,omitempty" sparql:"oeso:hasFinancialFunding"`
	Description            string       `json:"description,omitempty" sparql:"dcterms:description"`
	Objective              string       `json:"objective,omitempty" sparql:"oeso:hasObjective"`
	StartDate              time.Time    `json:"startDate" sparql:"oeso:startDate,required,date"`
	EndDate                *time.Time   `json:"endDate,omitempty" sparql:"oeso:endDate,date"`
	Keywords               []string     `json:"keywords" sparql:"oeso:hasKeyword"`
	HomePage               mapper.URI   `json:"homePage,omitempty" sparql:"foaf:homepage"`
	AdministrativeContacts []mapper.URI `json:"administrativeContacts" sparql:"oeso:hasAdministrativeContact"`
	Coordinators           []mapper.URI `json:"coordinators" sparql:"oeso:hasCoordinator"`
	ScientificContacts     []mapper.URI `json:"scientificContacts" sparql:"oeso:hasScientificContact"`
	RelatedProjects        []mapper.URI `json:"relatedProjects" sparql:"oeso:hasRelatedProject"`

	// experiments having this project. Experiments own the link (oeso:hasProject).
	Experiments []mapper.URI `json:"experiments" sparql:"-"`
}

func (*Project) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OESOProject,
		Graph:  "set/projects",
		Prefix: "project",
	}
}

func (p *Project) URISegments() []string {
	if p.Shortname != "" {
		return []string{p.Shortname}
	}
	return []string{p.Label}
}

type SearchParams struct {
	// regex on label or shortname
	Label string

	// regex on financial funding
	FinancialFunding string

	// projects running in [StartDate, EndDate]
	StartDate *time.Time
	EndDate   *time.Time

	OrderBy  []query.OrderBy
	Page     int
	PageSize int
}

type Interface interface {
	Create(ctx context.Context, user kdb.User, projects ...*Project) error

	// Update replaces the project.
	//
	// Returns:
	//
	// - error: ErrNotFoundURI or ErrForbiddenURIAccess (see ValidateAccess)
	Update(ctx context.Context, user kdb.User, p *Project) error
	Delete(ctx context.Context, user kdb.User, uri mapper.URI) error
	Get(ctx context.Context, user kdb.User, uri mapper.URI) (*Project, error)

	// GetList returns projects in the order of uris. Unknown URIs are skipped.
	GetList(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*Project, error)
	Search(ctx context.Context, user kdb.User, params SearchParams) (sparql.ListWithPagination[*Project], error)

	// ValidateAccess tells the user can read and write the project.
	//
	// Returns:
	//
	// - error: ErrNotFoundURI when the project does not exist.
	// ErrForbiddenURIAccess when the user is neither an administrator nor one of its contacts.
	ValidateAccess(ctx context.Context, user kdb.User, uri mapper.URI) error
}

type dao struct {
	sparql *sparql.Service
}

func New(s *sparql.Service) Interface {
	return &dao{sparql: s}
}

// contactOf matches projects where user is a contact.
func contactOf(user kdb.User) query.Pattern {
	u := query.IRI(user.URI)
	return query.Exists(query.Union(
		[]query.Pattern{query.T(mapper.VarURI, query.IRI(ontology.OESOHasCoordinator), u)},
		[]query.Pattern{query.T(mapper.VarURI, query.IRI(ontology.OESOHasScientificContact), u)},
		[]query.Pattern{query.T(mapper.VarURI, query.IRI(ontology.OESOHasAdministrativeContact), u)},
	))
}

func (d *dao) Create(ctx context.Context, user kdb.User, projects ...*Project) error {
	return sparql.Create(ctx, d.sparql, user.Language, projects...)
}

func (d *dao) Update(ctx context.Context, user kdb.User, p *Project) error {
	if err := d.ValidateAccess(ctx, user, p.URI); err != nil {
		return err
	}
	return sparql.Update(ctx, d.sparql, user.Language, p)
}

func (d *dao) Delete(ctx context.Context, user kdb.User, uri mapper.URI) error {
	if err := d.ValidateAccess(ctx, user, uri); err != nil {
		return err
	}
	return sparql.Delete[Project](ctx, d.sparql, uri)
}

func (d *dao) Get(ctx context.Context, user kdb.User, uri mapper.URI) (*Project, error) {
	if err := d.ValidateAccess(ctx, user, uri); err != nil {
		return nil, err
	}
	p, err := sparql.GetByURI[Project](ctx, d.sparql, uri, user.Language)
	if err != nil {
		return nil, err
	}
	if err := d.loadExperiments(ctx, []*Project{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *dao) GetList(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*Project, error) {
	ps, err := sparql.GetListByURIs[Project](ctx, d.sparql, uris, user.Language)
	if err != nil {
		return nil, err
	}
	if !user.Admin {
		visible := make([]*Project, 0, len(ps))
		for _, p := range ps {
			if p.hasContact(mapper.URI(user.URI)) {
				visible = append(visible, p)
			}
		}
		ps = visible
	}
	if err := d.loadExperiments(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (p *Project) hasContact(user mapper.URI) bool {
	for _, cs := range [][]mapper.URI{p.Coordinators, p.ScientificContacts, p.AdministrativeContacts} {
		for _, c := range cs {
			if c == user {
				return true
			}
		}
	}
	return false
}

func (d *dao) Search(ctx context.Context, user kdb.User, params SearchParams) (sparql.ListWithPagination[*Project], error) {
	shortname, label := query.Var("shortname"), query.Var("label")
	result, err := sparql.Search[Project](ctx, d.sparql, sparql.SearchParams{
		Lang: user.Language,
		Filter: func(q *query.Select) {
			q.Filter(query.Or(query.Regex(shortname, params.Label), query.Regex(label, params.Label)))
			q.Filter(query.Regex("financialFunding", params.FinancialFunding))
			q.Filter(query.IntervalDateRange("startDate", params.StartDate, "endDate", params.EndDate))
			if !user.Admin {
				q.Where(contactOf(user))
			}
		},
		OrderBy:  params.OrderBy,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		return result, err
	}
	if err := d.loadExperiments(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

func (d *dao) ValidateAccess(ctx context.Context, user kdb.User, uri mapper.URI) error {
	exists, err := sparql.URIExists[Project](ctx, d.sparql, uri)
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
		contactOf(user),
	))
	if err != nil {
		return err
	}
	if !ok {
		return xe.Wrap(sparql.Forbidden(uri))
	}
	return nil
}

// loadExperiments fills Experiments with experiments having the projects.
func (d *dao) loadExperiments(ctx context.Context, ps []*Project) error {
	if len(ps) == 0 {
		return nil
	}
	byURI := map[mapper.URI]*Project{}
	uris := []mapper.URI{}
	for _, p := range ps {
		byURI[p.URI] = p
		uris = append(uris, p.URI)
		p.Experiments = []mapper.URI{}
	}

	xp := query.Var("experiment")
	res, err := d.sparql.ExecuteSelect(ctx, query.NewSelect(mapper.VarURI, xp).Distinct().Where(
		query.Values(mapper.VarURI, query.IRIs(uris)...),
		query.T(xp, query.IRI(ontology.OESOHasProject), mapper.VarURI),
	))
	if err != nil {
		return err
	}
	for _, b := range res.Bindings {
		u, _ := b.Value("uri")
		x, _ := b.Value("experiment")
		if p, ok := byURI[mapper.URI(u)]; ok {
			p.Experiments = append(p.Experiments, mapper.URI(x))
		}
	}
	return nil
}

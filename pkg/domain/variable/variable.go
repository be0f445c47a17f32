// Package variable manages variables and their components (entities, qualities, methods and units).
package variable

import (
	"context"
	"sort"

	kdb "github.com/opensilex/phis/pkg/db"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
)

type SearchParams struct {
	// regex on name
	Name string

	OrderBy  []query.OrderBy
	Page     int
	PageSize int
}

// Store is the data access of one kind of model.
type Store[T any, P mapper.PModel[T]] struct {
	sparql *sparql.Service

	// check is run in the transaction before creation and update.
	check func(ctx context.Context, tx *sparql.Service, ms []P) error

	// variables refer the model with usedBy. Empty for variables themselves.
	usedBy string
}

func (s *Store[T, P]) Create(ctx context.Context, user kdb.User, ms ...P) error {
	return s.sparql.InTx(ctx, func(tx *sparql.Service) error {
		if s.check != nil {
			if err := s.check(ctx, tx, ms); err != nil {
				return err
			}
		}
		return sparql.Create(ctx, tx, user.Language, ms...)
	})
}

func (s *Store[T, P]) Update(ctx context.Context, user kdb.User, m P) error {
	return s.sparql.InTx(ctx, func(tx *sparql.Service) error {
		if s.check != nil {
			if err := s.check(ctx, tx, []P{m}); err != nil {
				return err
			}
		}
		return sparql.Update(ctx, tx, user.Language, m)
	})
}

// Delete removes the model.
//
// Returns:
//
// - error: ErrNotFoundURI when it does not exist. ErrInUse when a variable refers it.
func (s *Store[T, P]) Delete(ctx context.Context, uri mapper.URI) error {
	return s.sparql.InTx(ctx, func(tx *sparql.Service) error {
		if s.usedBy != "" {
			used, err := tx.ExecuteAsk(ctx, query.NewAsk(
				query.T(query.Var("variable"), query.IRI(s.usedBy), uri.IRI()),
			))
			if err != nil {
				return err
			}
			if used {
				return xe.Wrap(sparql.InUse(uri))
			}
		}
		return sparql.Delete[T, P](ctx, tx, uri)
	})
}

func (s *Store[T, P]) Get(ctx context.Context, user kdb.User, uri mapper.URI) (P, error) {
	return sparql.GetByURI[T, P](ctx, s.sparql, uri, user.Language)
}

func (s *Store[T, P]) GetList(ctx context.Context, user kdb.User, uris []mapper.URI) ([]P, error) {
	return sparql.GetListByURIs[T, P](ctx, s.sparql, uris, user.Language)
}

func (s *Store[T, P]) Search(ctx context.Context, user kdb.User, params SearchParams) (sparql.ListWithPagination[P], error) {
	return sparql.Search[T, P](ctx, s.sparql, sparql.SearchParams{
		Lang: user.Language,
		Filter: func(q *query.Select) {
			q.Filter(query.Regex("name", params.Name))
		},
		OrderBy:  params.OrderBy,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

type DAO struct {
	Variables *Store[Variable, *Variable]
	Entities  *Store[Entity, *Entity]
	Qualities *Store[Quality, *Quality]
	Methods   *Store[Method, *Method]
	Units     *Store[Unit, *Unit]

	sparql *sparql.Service
}

func New(s *sparql.Service) *DAO {
	return &DAO{
		Variables: &Store[Variable, *Variable]{sparql: s, check: checkComponents},
		Entities:  &Store[Entity, *Entity]{sparql: s, usedBy: ontology.OESOHasEntity},
		Qualities: &Store[Quality, *Quality]{sparql: s, usedBy: ontology.OESOHasQuality},
		Methods:   &Store[Method, *Method]{sparql: s, usedBy: ontology.OESOHasMethod},
		Units:     &Store[Unit, *Unit]{sparql: s, usedBy: ontology.OESOHasUnit},
		sparql:    s,
	}
}

func exists[T any, P mapper.PModel[T]](ctx context.Context, tx *sparql.Service, uri mapper.URI) error {
	ok, err := sparql.URIExists[T, P](ctx, tx, uri)
	if err != nil {
		return err
	}
	if !ok {
		return xe.Wrap(sparql.NotFound(uri))
	}
	return nil
}

// checkComponents tells entity, quality, method and unit of variables exist.
func checkComponents(ctx context.Context, tx *sparql.Service, vs []*Variable) error {
	for _, v := range vs {
		if err := exists[Entity](ctx, tx, v.Entity); err != nil {
			return err
		}
		if err := exists[Quality](ctx, tx, v.Quality); err != nil {
			return err
		}
		if err := exists[Method](ctx, tx, v.Method); err != nil {
			return err
		}
		if err := exists[Unit](ctx, tx, v.Unit); err != nil {
			return err
		}
	}
	return nil
}

// Trait is a trait referred by variables.
type Trait struct {
	URI       mapper.URI   `json:"traitDbId"`
	Name      string       `json:"name,omitempty"`
	Variables []mapper.URI `json:"observationVariables"`
}

// Traits lists traits referred by variables, ordered by URI.
// When traitURI is not empty, only the trait is searched.
//
// Returns the traits in the page and the total count of traits.
func (d *DAO) Traits(ctx context.Context, traitURI mapper.URI, page, pageSize int) ([]Trait, int, error) {
	v, trait, name := query.Var("variable"), query.Var("trait"), query.Var("traitName")
	ps := []query.Pattern{
		query.T(v, query.TypeOrSubType(), query.IRI(ontology.OESOVariable)),
		query.T(v, query.IRI(ontology.OESOHasTraitURI), trait),
		query.Optional(query.T(v, query.IRI(ontology.OESOHasTraitName), name)),
	}
	if traitURI != "" {
		ps = append([]query.Pattern{query.Values(trait, traitURI.IRI())}, ps...)
	}
	q := query.NewSelect(trait, name, v).Distinct().Where(
		query.Graph(d.sparql.Graph(graph).IRI(), ps...),
	)
	res, err := d.sparql.ExecuteSelect(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	byURI := map[mapper.URI]*Trait{}
	for _, b := range res.Bindings {
		t, _ := b.Value("trait")
		tr, ok := byURI[mapper.URI(t)]
		if !ok {
			tr = &Trait{URI: mapper.URI(t), Variables: []mapper.URI{}}
			byURI[tr.URI] = tr
		}
		if n, ok := b.Value("traitName"); ok && tr.Name == "" {
			tr.Name = n
		}
		if vu, ok := b.Value("variable"); ok {
			tr.Variables = append(tr.Variables, mapper.URI(vu))
		}
	}

	traits := make([]Trait, 0, len(byURI))
	for _, tr := range byURI {
		traits = append(traits, *tr)
	}
	sort.Slice(traits, func(i, j int) bool { return traits[i].URI < traits[j].URI })

	total := len(traits)
	pageSize = d.sparql.PageSize(pageSize)
	from := min(max(page, 0)*pageSize, total)
	to := min(from+pageSize, total)
	return traits[from:to], total, nil
}

// Package brapi serves the subset of the Breeding API (BrAPI v1) backed by phis.
package brapi

import (
	"context"

	"github.com/opensilex/phis/pkg/domain/variable"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/utils"
)

const (
	DatatypeJSON = "json"
	Version1_1   = "1.1"
	Version1_2   = "1.2"
)

// Call is an implemented BrAPI call.
type Call struct {
	Call      string   `json:"call"`
	Datatypes []string `json:"datatypes"`
	Methods   []string `json:"methods"`
	Versions  []string `json:"versions"`
}

var calls = []Call{
	{Call: "calls", Datatypes: []string{DatatypeJSON}, Methods: []string{"GET"}, Versions: []string{Version1_1, Version1_2}},
	{Call: "traits", Datatypes: []string{DatatypeJSON}, Methods: []string{"GET"}, Versions: []string{Version1_1, Version1_2}},
	{Call: "traits/{traitDbId}", Datatypes: []string{DatatypeJSON}, Methods: []string{"GET"}, Versions: []string{Version1_1, Version1_2}},
}

// TraitSource finds traits. It is implemented by *variable.DAO.
type TraitSource interface {
	Traits(ctx context.Context, traitURI mapper.URI, page, pageSize int) ([]variable.Trait, int, error)
}

type Service struct {
	traits TraitSource
}

func New(traits TraitSource) *Service {
	return &Service{traits: traits}
}

// Calls lists implemented calls, supporting datatype when it is not empty.
func (s *Service) Calls(datatype string) []Call {
	if datatype == "" {
		return append([]Call{}, calls...)
	}
	return utils.Filter(calls, func(c Call) bool {
		_, ok := utils.First(c.Datatypes, func(d string) bool { return d == datatype })
		return ok
	})
}

// Traits lists traits with their observation variables.
func (s *Service) Traits(ctx context.Context, page, pageSize int) (sparql.ListWithPagination[variable.Trait], error) {
	found, total, err := s.traits.Traits(ctx, "", page, pageSize)
	if err != nil {
		return sparql.ListWithPagination[variable.Trait]{}, err
	}
	return sparql.ListWithPagination[variable.Trait]{
		Items: found, Page: page, PageSize: pageSize, Total: total,
	}, nil
}

// Trait finds a trait by its id, the trait URI.
//
// Returns:
//
// - error: ErrNotFoundURI when no variables refer the trait.
func (s *Service) Trait(ctx context.Context, traitDbID mapper.URI) (variable.Trait, error) {
	found, _, err := s.traits.Traits(ctx, traitDbID, 0, 1)
	if err != nil {
		return variable.Trait{}, err
	}
	if len(found) == 0 {
		return variable.Trait{}, xe.Wrap(sparql.NotFound(traitDbID))
	}
	return found[0], nil
}

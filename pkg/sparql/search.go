package sparql

import (
	"context"

	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	xe "github.com/opensilex/phis/pkg/errors"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/utils"
)

// ListWithPagination is a page of search result.
type ListWithPagination[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

func (l ListWithPagination[T]) TotalPages() int {
	if l.PageSize <= 0 {
		return 0
	}
	return (l.Total + l.PageSize - 1) / l.PageSize
}

// Map converts items of the page.
func MapList[T any, R any](l ListWithPagination[T], fn func(T) R) ListWithPagination[R] {
	return ListWithPagination[R]{
		Items:    utils.Map(l.Items, fn),
		Page:     l.Page,
		PageSize: l.PageSize,
		Total:    l.Total,
	}
}

// SearchParams are parameters of Search.
type SearchParams struct {
	// language of tagged fields. Empty means the default language.
	Lang string

	// Filter adds patterns and filters to the select query of the model.
	// Variables of fields are named after fields (see mapper).
	Filter func(*query.Select)

	// OrderBy are the sort keys. Field names are variables of the model, "uri" or "rdfType".
	// Empty means ordering by uri.
	OrderBy []query.OrderBy

	// 0-origin page number. Negative is 0.
	Page int

	// Non-positive is the default page size.
	PageSize int
}

// ValidateOrder tells all order keys are fields of the model.
func ValidateOrder(ix *mapper.Index, orderBy []query.OrderBy) error {
	for _, o := range orderBy {
		switch o.Field {
		case mapper.VarURI, mapper.VarType:
			continue
		}
		if f, ok := ix.Field(o.Field); !ok || f.List {
			return xe.Wrapf(ErrInvalidOrderField, "%s", o.Field)
		}
	}
	return nil
}

// Search queries models with pagination.
func Search[T any, P mapper.PModel[T]](ctx context.Context, s *Service, params SearchParams) (ListWithPagination[P], error) {
	ix := mapper.For[T, P]()
	lang := s.Lang(params.Lang)
	page := max(params.Page, 0)
	pageSize := s.PageSize(params.PageSize)
	result := ListWithPagination[P]{Items: []P{}, Page: page, PageSize: pageSize}

	if err := ValidateOrder(ix, params.OrderBy); err != nil {
		return result, err
	}

	graph := classGraph[T, P](s, ix)
	q := ix.SelectQuery(graph, lang)
	if params.Filter != nil {
		params.Filter(q)
	}

	total, err := s.ExecuteCount(ctx, q.AsCount(mapper.VarURI, "count"))
	if err != nil {
		return result, err
	}
	result.Total = total
	if total == 0 || total <= page*pageSize {
		return result, nil
	}

	orderBy := params.OrderBy
	if len(orderBy) == 0 {
		orderBy = []query.OrderBy{{Field: mapper.VarURI}}
	}
	res, err := s.ExecuteSelect(ctx, q.Paged(mapper.VarURI, orderBy, pageSize, page*pageSize))
	if err != nil {
		return result, err
	}
	items, err := decodeAll[T, P](ix, res.Bindings)
	if err != nil {
		return result, err
	}
	if err := s.complete(ctx, ix, graph, lang, asModels(items)); err != nil {
		return result, err
	}
	result.Items = items
	return result, nil
}

// decodeAll decodes bindings into models. Bindings of an already decoded URI are skipped.
func decodeAll[T any, P mapper.PModel[T]](ix *mapper.Index, bindings []csparql.Binding) ([]P, error) {
	seen := map[string]bool{}
	ms := []P{}
	for _, b := range bindings {
		u, ok := b.Value("uri")
		if !ok || seen[u] {
			continue
		}
		seen[u] = true
		m := P(new(T))
		if err := ix.Decode(m, b); err != nil {
			return nil, xe.Wrap(err)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func asModels[P mapper.Model](ps []P) []mapper.Model {
	ms := make([]mapper.Model, len(ps))
	for i := range ps {
		ms[i] = ps[i]
	}
	return ms
}

// complete loads list fields and rdf:type labels of models.
func (s *Service) complete(ctx context.Context, ix *mapper.Index, graph mapper.URI, lang string, models []mapper.Model) error {
	if len(models) == 0 {
		return nil
	}
	byURI := map[mapper.URI]mapper.Model{}
	uris := []mapper.URI{}
	types := []mapper.URI{}
	for _, m := range models {
		r := m.Res()
		byURI[r.URI] = m
		uris = append(uris, r.URI)
		if r.Type != "" {
			types = append(types, r.Type)
		}
	}

	for _, f := range ix.Lists() {
		for _, chunk := range utils.Chunk(uris, valuesChunkSize) {
			res, err := s.ExecuteSelect(ctx, ix.ListQuery(graph, f, chunk, lang))
			if err != nil {
				return err
			}
			for _, b := range res.Bindings {
				u, _ := b.Value("uri")
				v, _ := b.Value("value")
				m, ok := byURI[mapper.URI(u)]
				if !ok {
					continue
				}
				if err := ix.Append(m, f, v); err != nil {
					return xe.Wrap(err)
				}
			}
		}
	}

	labels, err := s.Labels(ctx, utils.Unique(types), lang)
	if err != nil {
		return err
	}
	for _, m := range models {
		r := m.Res()
		if l, ok := labels[r.Type]; ok {
			r.TypeLabel = l
		}
	}
	return nil
}

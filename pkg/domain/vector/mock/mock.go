package mock

import (
	"context"
	"errors"

	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/vector"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type MockVectors struct {
	Impl struct {
		Get            func(ctx context.Context, uri mapper.URI) (*vector.Vector, error)
		Search         func(ctx context.Context, params vector.SearchParams) (sparql.ListWithPagination[*vector.Vector], error)
		CheckAndInsert func(ctx context.Context, vs []*vector.Vector) ([]mapper.URI, error)
		CheckAndUpdate func(ctx context.Context, vs []*vector.Vector) error
	}
	Calls struct {
		Get            mocks.CallLog[mapper.URI]
		Search         mocks.CallLog[vector.SearchParams]
		CheckAndInsert mocks.CallLog[[]*vector.Vector]
		CheckAndUpdate mocks.CallLog[[]*vector.Vector]
	}
}

var _ vector.Interface = &MockVectors{}

func New() *MockVectors {
	return &MockVectors{}
}

func (m *MockVectors) Get(ctx context.Context, uri mapper.URI) (*vector.Vector, error) {
	m.Calls.Get = append(m.Calls.Get, uri)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockVectors) Search(ctx context.Context, params vector.SearchParams) (sparql.ListWithPagination[*vector.Vector], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockVectors) CheckAndInsert(ctx context.Context, vs []*vector.Vector) ([]mapper.URI, error) {
	m.Calls.CheckAndInsert = append(m.Calls.CheckAndInsert, vs)
	if m.Impl.CheckAndInsert != nil {
		return m.Impl.CheckAndInsert(ctx, vs)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockVectors) CheckAndUpdate(ctx context.Context, vs []*vector.Vector) error {
	m.Calls.CheckAndUpdate = append(m.Calls.CheckAndUpdate, vs)
	if m.Impl.CheckAndUpdate != nil {
		return m.Impl.CheckAndUpdate(ctx, vs)
	}
	panic(errors.New("it should no be called"))
}

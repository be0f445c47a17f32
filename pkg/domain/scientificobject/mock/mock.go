package mock

import (
	"context"
	"errors"

	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/scientificobject"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type MockScientificObjects struct {
	Impl struct {
		Get            func(ctx context.Context, uri mapper.URI) (*scientificobject.ScientificObject, error)
		Search         func(ctx context.Context, params scientificobject.SearchParams) (sparql.ListWithPagination[*scientificobject.ScientificObject], error)
		CheckAndInsert func(ctx context.Context, sos []*scientificobject.ScientificObject) ([]mapper.URI, error)
		Update         func(ctx context.Context, sos []*scientificobject.ScientificObject) error
	}
	Calls struct {
		Get            mocks.CallLog[mapper.URI]
		Search         mocks.CallLog[scientificobject.SearchParams]
		CheckAndInsert mocks.CallLog[[]*scientificobject.ScientificObject]
		Update         mocks.CallLog[[]*scientificobject.ScientificObject]
	}
}

var _ scientificobject.Interface = &MockScientificObjects{}

func New() *MockScientificObjects {
	return &MockScientificObjects{}
}

func (m *MockScientificObjects) Get(ctx context.Context, uri mapper.URI) (*scientificobject.ScientificObject, error) {
	m.Calls.Get = append(m.Calls.Get, uri)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockScientificObjects) Search(ctx context.Context, params scientificobject.SearchParams) (sparql.ListWithPagination[*scientificobject.ScientificObject], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockScientificObjects) CheckAndInsert(ctx context.Context, sos []*scientificobject.ScientificObject) ([]mapper.URI, error) {
	m.Calls.CheckAndInsert = append(m.Calls.CheckAndInsert, sos)
	if m.Impl.CheckAndInsert != nil {
		return m.Impl.CheckAndInsert(ctx, sos)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockScientificObjects) Update(ctx context.Context, sos []*scientificobject.ScientificObject) error {
	m.Calls.Update = append(m.Calls.Update, sos)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, sos)
	}
	panic(errors.New("it should no be called"))
}

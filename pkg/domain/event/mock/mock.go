package mock

import (
	"context"
	"errors"

	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/event"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type MockEvents struct {
	Impl struct {
		Get    func(ctx context.Context, uri mapper.URI) (*event.Event, error)
		Search func(ctx context.Context, params event.SearchParams) (sparql.ListWithPagination[*event.Event], error)
		Create func(ctx context.Context, es []*event.Event) ([]mapper.URI, error)
	}
	Calls struct {
		Get    mocks.CallLog[mapper.URI]
		Search mocks.CallLog[event.SearchParams]
		Create mocks.CallLog[[]*event.Event]
	}
}

var _ event.Interface = &MockEvents{}

func New() *MockEvents {
	return &MockEvents{}
}

func (m *MockEvents) Get(ctx context.Context, uri mapper.URI) (*event.Event, error) {
	m.Calls.Get = append(m.Calls.Get, uri)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockEvents) Search(ctx context.Context, params event.SearchParams) (sparql.ListWithPagination[*event.Event], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockEvents) Create(ctx context.Context, es []*event.Event) ([]mapper.URI, error) {
	m.Calls.Create = append(m.Calls.Create, es)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, es)
	}
	panic(errors.New("it should no be called"))
}

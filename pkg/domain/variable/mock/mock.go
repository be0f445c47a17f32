package mock

import (
	"context"
	"errors"

	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/variable"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type UserAndURI struct {
	User kdb.User
	URI  mapper.URI
}

// MockStore mocks *variable.Store of models P.
type MockStore[P mapper.Model] struct {
	Impl struct {
		Create func(ctx context.Context, user kdb.User, ms ...P) error
		Update func(ctx context.Context, user kdb.User, m P) error
		Delete func(ctx context.Context, uri mapper.URI) error
		Get    func(ctx context.Context, user kdb.User, uri mapper.URI) (P, error)
		Search func(ctx context.Context, user kdb.User, params variable.SearchParams) (sparql.ListWithPagination[P], error)
	}
	Calls struct {
		Create mocks.CallLog[[]P]
		Update mocks.CallLog[P]
		Delete mocks.CallLog[mapper.URI]
		Get    mocks.CallLog[UserAndURI]
		Search mocks.CallLog[variable.SearchParams]
	}
}

func New[P mapper.Model]() *MockStore[P] {
	return &MockStore[P]{}
}

func (m *MockStore[P]) Create(ctx context.Context, user kdb.User, ms ...P) error {
	m.Calls.Create = append(m.Calls.Create, ms)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, user, ms...)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockStore[P]) Update(ctx context.Context, user kdb.User, model P) error {
	m.Calls.Update = append(m.Calls.Update, model)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, user, model)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockStore[P]) Delete(ctx context.Context, uri mapper.URI) error {
	m.Calls.Delete = append(m.Calls.Delete, uri)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockStore[P]) Get(ctx context.Context, user kdb.User, uri mapper.URI) (P, error) {
	m.Calls.Get = append(m.Calls.Get, UserAndURI{User: user, URI: uri})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, user, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockStore[P]) Search(ctx context.Context, user kdb.User, params variable.SearchParams) (sparql.ListWithPagination[P], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, user, params)
	}
	panic(errors.New("it should no be called"))
}

package mock

import (
	"context"
	"errors"

	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/experiment"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type UserAndURI struct {
	User kdb.User
	URI  mapper.URI
}

type MockExperiments struct {
	Impl struct {
		Create         func(ctx context.Context, user kdb.User, xps ...*experiment.Experiment) error
		Update         func(ctx context.Context, user kdb.User, xp *experiment.Experiment) error
		Delete         func(ctx context.Context, user kdb.User, uri mapper.URI) error
		Get            func(ctx context.Context, user kdb.User, uri mapper.URI) (*experiment.Experiment, error)
		GetList        func(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*experiment.Experiment, error)
		Search         func(ctx context.Context, user kdb.User, params experiment.SearchParams) (sparql.ListWithPagination[*experiment.Experiment], error)
		ValidateAccess func(ctx context.Context, user kdb.User, uri mapper.URI) error
	}
	Calls struct {
		Create         mocks.CallLog[[]*experiment.Experiment]
		Update         mocks.CallLog[*experiment.Experiment]
		Delete         mocks.CallLog[UserAndURI]
		Get            mocks.CallLog[UserAndURI]
		GetList        mocks.CallLog[[]mapper.URI]
		Search         mocks.CallLog[experiment.SearchParams]
		ValidateAccess mocks.CallLog[UserAndURI]
	}
}

var _ experiment.Interface = &MockExperiments{}

func New() *MockExperiments {
	return &MockExperiments{}
}

func (m *MockExperiments) Create(ctx context.Context, user kdb.User, xps ...*experiment.Experiment) error {
	m.Calls.Create = append(m.Calls.Create, xps)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, user, xps...)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockExperiments) Update(ctx context.Context, user kdb.User, xp *experiment.Experiment) error {
	m.Calls.Update = append(m.Calls.Update, xp)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, user, xp)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockExperiments) Delete(ctx context.Context, user kdb.User, uri mapper.URI) error {
	m.Calls.Delete = append(m.Calls.Delete, UserAndURI{User: user, URI: uri})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, user, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockExperiments) Get(ctx context.Context, user kdb.User, uri mapper.URI) (*experiment.Experiment, error) {
	m.Calls.Get = append(m.Calls.Get, UserAndURI{User: user, URI: uri})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, user, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockExperiments) GetList(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*experiment.Experiment, error) {
	m.Calls.GetList = append(m.Calls.GetList, uris)
	if m.Impl.GetList != nil {
		return m.Impl.GetList(ctx, user, uris)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockExperiments) Search(ctx context.Context, user kdb.User, params experiment.SearchParams) (sparql.ListWithPagination[*experiment.Experiment], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, user, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockExperiments) ValidateAccess(ctx context.Context, user kdb.User, uri mapper.URI) error {
	m.Calls.ValidateAccess = append(m.Calls.ValidateAccess, UserAndURI{User: user, URI: uri})
	if m.Impl.ValidateAccess != nil {
		return m.Impl.ValidateAccess(ctx, user, uri)
	}
	panic(errors.New("it should no be called"))
}

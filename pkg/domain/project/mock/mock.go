package mock

import (
	"context"
	"errors"

	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/project"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type UserAndURI struct {
	User kdb.User
	URI  mapper.URI
}

type MockProjects struct {
	Impl struct {
		Create         func(ctx context.Context, user kdb.User, projects ...*project.Project) error
		Update         func(ctx context.Context, user kdb.User, p *project.Project) error
		Delete         func(ctx context.Context, user kdb.User, uri mapper.URI) error
		Get            func(ctx context.Context, user kdb.User, uri mapper.URI) (*project.Project, error)
		GetList        func(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*project.Project, error)
		Search         func(ctx context.Context, user kdb.User, params project.SearchParams) (sparql.ListWithPagination[*project.Project], error)
		ValidateAccess func(ctx context.Context, user kdb.User, uri mapper.URI) error
	}
	Calls struct {
		Create         mocks.CallLog[[]*project.Project]
		Update         mocks.CallLog[*project.Project]
		Delete         mocks.CallLog[UserAndURI]
		Get            mocks.CallLog[UserAndURI]
		GetList        mocks.CallLog[[]mapper.URI]
		Search         mocks.CallLog[project.SearchParams]
		ValidateAccess mocks.CallLog[UserAndURI]
	}
}

var _ project.Interface = &MockProjects{}

func New() *MockProjects {
	return &MockProjects{}
}

func (m *MockProjects) Create(ctx context.Context, user kdb.User, projects ...*project.Project) error {
	m.Calls.Create = append(m.Calls.Create, projects)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, user, projects...)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockProjects) Update(ctx context.Context, user kdb.User, p *project.Project) error {
	m.Calls.Update = append(m.Calls.Update, p)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, user, p)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockProjects) Delete(ctx context.Context, user kdb.User, uri mapper.URI) error {
	m.Calls.Delete = append(m.Calls.Delete, UserAndURI{User: user, URI: uri})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, user, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockProjects) Get(ctx context.Context, user kdb.User, uri mapper.URI) (*project.Project, error) {
	m.Calls.Get = append(m.Calls.Get, UserAndURI{User: user, URI: uri})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, user, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockProjects) GetList(ctx context.Context, user kdb.User, uris []mapper.URI) ([]*project.Project, error) {
	m.Calls.GetList = append(m.Calls.GetList, uris)
	if m.Impl.GetList != nil {
		return m.Impl.GetList(ctx, user, uris)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockProjects) Search(ctx context.Context, user kdb.User, params project.SearchParams) (sparql.ListWithPagination[*project.Project], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, user, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockProjects) ValidateAccess(ctx context.Context, user kdb.User, uri mapper.URI) error {
	m.Calls.ValidateAccess = append(m.Calls.ValidateAccess, UserAndURI{User: user, URI: uri})
	if m.Impl.ValidateAccess != nil {
		return m.Impl.ValidateAccess(ctx, user, uri)
	}
	panic(errors.New("it should no be called"))
}

package mock

import (
	"context"
	"errors"

	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/annotation"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type Insertion struct {
	Annotations []*annotation.Annotation
	Creator     kdb.User
}

type MockAnnotations struct {
	Impl struct {
		Get            func(ctx context.Context, uri mapper.URI) (*annotation.Annotation, error)
		Search         func(ctx context.Context, params annotation.SearchParams) (sparql.ListWithPagination[*annotation.Annotation], error)
		CheckAndInsert func(ctx context.Context, as []*annotation.Annotation, creator kdb.User) ([]mapper.URI, error)
	}
	Calls struct {
		Get            mocks.CallLog[mapper.URI]
		Search         mocks.CallLog[annotation.SearchParams]
		CheckAndInsert mocks.CallLog[Insertion]
	}
}

var _ annotation.Interface = &MockAnnotations{}

func New() *MockAnnotations {
	return &MockAnnotations{}
}

func (m *MockAnnotations) Get(ctx context.Context, uri mapper.URI) (*annotation.Annotation, error) {
	m.Calls.Get = append(m.Calls.Get, uri)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockAnnotations) Search(ctx context.Context, params annotation.SearchParams) (sparql.ListWithPagination[*annotation.Annotation], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockAnnotations) CheckAndInsert(ctx context.Context, as []*annotation.Annotation, creator kdb.User) ([]mapper.URI, error) {
	m.Calls.CheckAndInsert = append(m.Calls.CheckAndInsert, Insertion{Annotations: as, Creator: creator})
	if m.Impl.CheckAndInsert != nil {
		return m.Impl.CheckAndInsert(ctx, as, creator)
	}
	panic(errors.New("it should no be called"))
}

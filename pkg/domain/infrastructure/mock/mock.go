package mock

import (
	"context"
	"errors"

	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/infrastructure"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/tree"
)

type URIAndLang struct {
	URI  mapper.URI
	Lang string
}

type TreeArgs struct {
	Root        mapper.URI
	ExcludeRoot bool
	Lang        string
}

type Creation struct {
	Lang            string
	Infrastructures []*infrastructure.Infrastructure
}

type MockInfrastructures struct {
	Impl struct {
		Get    func(ctx context.Context, uri mapper.URI, lang string) (*infrastructure.Infrastructure, error)
		Search func(ctx context.Context, params infrastructure.SearchParams) (sparql.ListWithPagination[*infrastructure.Infrastructure], error)
		Tree   func(ctx context.Context, root mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error)
		Create func(ctx context.Context, lang string, is ...*infrastructure.Infrastructure) error
	}
	Calls struct {
		Get    mocks.CallLog[URIAndLang]
		Search mocks.CallLog[infrastructure.SearchParams]
		Tree   mocks.CallLog[TreeArgs]
		Create mocks.CallLog[Creation]
	}
}

var _ infrastructure.Interface = &MockInfrastructures{}

func New() *MockInfrastructures {
	return &MockInfrastructures{}
}

func (m *MockInfrastructures) Get(ctx context.Context, uri mapper.URI, lang string) (*infrastructure.Infrastructure, error) {
	m.Calls.Get = append(m.Calls.Get, URIAndLang{URI: uri, Lang: lang})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, uri, lang)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockInfrastructures) Search(ctx context.Context, params infrastructure.SearchParams) (sparql.ListWithPagination[*infrastructure.Infrastructure], error) {
	m.Calls.Search = append(m.Calls.Search, params)
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, params)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockInfrastructures) Tree(ctx context.Context, root mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error) {
	m.Calls.Tree = append(m.Calls.Tree, TreeArgs{Root: root, ExcludeRoot: excludeRoot, Lang: lang})
	if m.Impl.Tree != nil {
		return m.Impl.Tree(ctx, root, excludeRoot, lang)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockInfrastructures) Create(ctx context.Context, lang string, is ...*infrastructure.Infrastructure) error {
	m.Calls.Create = append(m.Calls.Create, Creation{Lang: lang, Infrastructures: is})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, lang, is...)
	}
	panic(errors.New("it should no be called"))
}

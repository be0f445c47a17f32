package mocks

import (
	"context"
	"errors"

	kdb "github.com/opensilex/phis/pkg/db"
)

type GroupInterface struct {
	Impl struct {
		Create    func(ctx context.Context, param kdb.GroupParam) (kdb.Group, error)
		AddMember func(ctx context.Context, groupURI string, userURI string) error
		Get       func(ctx context.Context, uri string) (kdb.Group, error)
		Search    func(ctx context.Context, name string, page, pageSize int) ([]kdb.Group, int, error)
	}
	Calls struct {
		Create    CallLog[kdb.GroupParam]
		AddMember CallLog[struct{ GroupURI, UserURI string }]
		Get       CallLog[string]
		Search    CallLog[struct {
			Name     string
			Page     int
			PageSize int
		}]
	}
}

func NewGroupInterface() *GroupInterface {
	return &GroupInterface{}
}

var _ kdb.GroupInterface = &GroupInterface{}

func (m *GroupInterface) Create(ctx context.Context, param kdb.GroupParam) (kdb.Group, error) {
	m.Calls.Create = append(m.Calls.Create, param)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, param)
	}
	panic(errors.New("it should no be called"))
}

func (m *GroupInterface) AddMember(ctx context.Context, groupURI string, userURI string) error {
	m.Calls.AddMember = append(m.Calls.AddMember, struct{ GroupURI, UserURI string }{groupURI, userURI})
	if m.Impl.AddMember != nil {
		return m.Impl.AddMember(ctx, groupURI, userURI)
	}
	panic(errors.New("it should no be called"))
}

func (m *GroupInterface) Get(ctx context.Context, uri string) (kdb.Group, error) {
	m.Calls.Get = append(m.Calls.Get, uri)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *GroupInterface) Search(ctx context.Context, name string, page, pageSize int) ([]kdb.Group, int, error) {
	m.Calls.Search = append(m.Calls.Search, struct {
		Name     string
		Page     int
		PageSize int
	}{Name: name, Page: page, PageSize: pageSize})
	if m.Impl.Search != nil {
		return m.Impl.Search(ctx, name, page, pageSize)
	}
	panic(errors.New("it should no be called"))
}

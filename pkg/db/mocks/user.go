package mocks

import (
	"context"
	"errors"

	kdb "github.com/opensilex/phis/pkg/db"
)

type UserInterface struct {
	Impl struct {
		Get         func(ctx context.Context, uri string) (kdb.User, error)
		GetByEmail  func(ctx context.Context, email string) (kdb.User, error)
		Exists      func(ctx context.Context, uri string) (bool, error)
		ExistsEmail func(ctx context.Context, email string) (bool, error)
		Create      func(ctx context.Context, param kdb.UserParam) (kdb.User, error)
		Search      func(ctx context.Context, name string, page, pageSize int) ([]kdb.User, int, error)
		Groups      func(ctx context.Context, userURI string) ([]string, error)
	}
	Calls struct {
		Get         CallLog[string]
		GetByEmail  CallLog[string]
		Exists      CallLog[string]
		ExistsEmail CallLog[string]
		Create      CallLog[kdb.UserParam]
		Search      CallLog[struct {
			Name     string
			Page     int
			PageSize int
		}]
		Groups CallLog[string]
	}
}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

var _ kdb.UserInterface = &UserInterface{}

func (m *UserInterface) Get(ctx context.Context, uri string) (kdb.User, error) {
	m.Calls.Get = append(m.Calls.Get, uri)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *UserInterface) GetByEmail(ctx context.Context, email string) (kdb.User, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, email)
	if m.Impl.GetByEmail != nil {
		return m.Impl.GetByEmail(ctx, email)
	}
	panic(errors.New("it should no be called"))
}

func (m *UserInterface) Exists(ctx context.Context, uri string) (bool, error) {
	m.Calls.Exists = append(m.Calls.Exists, uri)
	if m.Impl.Exists != nil {
		return m.Impl.Exists(ctx, uri)
	}
	panic(errors.New("it should no be called"))
}

func (m *UserInterface) ExistsEmail(ctx context.Context, email string) (bool, error) {
	m.Calls.ExistsEmail = append(m.Calls.ExistsEmail, email)
	if m.Impl.ExistsEmail != nil {
		return m.Impl.ExistsEmail(ctx, email)
	}
	panic(errors.New("it should no be called"))
}

func (m *UserInterface) Create(ctx context.Context, param kdb.UserParam) (kdb.User, error) {
	m.Calls.Create = append(m.Calls.Create, param)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, param)
	}
	panic(errors.New("it should no be called"))
}

func (m *UserInterface) Search(ctx context.Context, name string, page, pageSize int) ([]kdb.User, int, error) {
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

func (m *UserInterface) Groups(ctx context.Context, userURI string) ([]string, error) {
	m.Calls.Groups = append(m.Calls.Groups, userURI)
	if m.Impl.Groups != nil {
		return m.Impl.Groups(ctx, userURI)
	}
	panic(errors.New("it should no be called"))
}

package mocks

import (
	"context"

	kdb "github.com/opensilex/phis/pkg/db"
)

type Database struct {
	UserInterface   *UserInterface
	GroupInterface  *GroupInterface
	SchemaInterface *SchemaInterface

	PingErr error
}

func NewDatabase() *Database {
	return &Database{
		UserInterface:   NewUserInterface(),
		GroupInterface:  NewGroupInterface(),
		SchemaInterface: NewSchemaInterface(),
	}
}

var _ kdb.Database = &Database{}

func (m *Database) Users() kdb.UserInterface {
	return m.UserInterface
}

func (m *Database) Groups() kdb.GroupInterface {
	return m.GroupInterface
}

func (m *Database) Schema() kdb.SchemaInterface {
	return m.SchemaInterface
}

func (m *Database) Ping(context.Context) error {
	return m.PingErr
}

func (m *Database) Close() error {
	return nil
}

type SchemaInterface struct {
	Impl struct {
		Version func(context.Context) (int, error)
		Upgrade func(context.Context) error
		Latest  func() (int, error)
	}
}

func NewSchemaInterface() *SchemaInterface {
	return &SchemaInterface{}
}

func (m *SchemaInterface) Version(ctx context.Context) (int, error) {
	if m.Impl.Version != nil {
		return m.Impl.Version(ctx)
	}
	panic("it should no be called")
}

func (m *SchemaInterface) Upgrade(ctx context.Context) error {
	if m.Impl.Upgrade != nil {
		return m.Impl.Upgrade(ctx)
	}
	panic("it should no be called")
}

func (m *SchemaInterface) Latest() (int, error) {
	if m.Impl.Latest != nil {
		return m.Impl.Latest()
	}
	panic("it should no be called")
}

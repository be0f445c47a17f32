package postgres

import (
	"context"

	kdb "github.com/opensilex/phis/pkg/db"
	kpggroup "github.com/opensilex/phis/pkg/db/postgres/group"
	kpool "github.com/opensilex/phis/pkg/db/postgres/pool"
	kpgschema "github.com/opensilex/phis/pkg/db/postgres/schema"
	kpguser "github.com/opensilex/phis/pkg/db/postgres/user"
	xe "github.com/opensilex/phis/pkg/errors"
)

type phisDBPostgres struct {
	pool   kpool.Pool
	users  kdb.UserInterface
	groups kdb.GroupInterface
	schema kdb.SchemaInterface
}

// New connects to url.
func New(ctx context.Context, url string) (kdb.Database, error) {
	p, err := kpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return Wrap(p), nil
}

// Wrap builds stores on p.
func Wrap(p kpool.Pool) kdb.Database {
	return &phisDBPostgres{
		pool:   p,
		users:  kpguser.New(p),
		groups: kpggroup.New(p),
		schema: kpgschema.New(p),
	}
}

func (k *phisDBPostgres) Users() kdb.UserInterface {
	return k.users
}

func (k *phisDBPostgres) Groups() kdb.GroupInterface {
	return k.groups
}

func (k *phisDBPostgres) Schema() kdb.SchemaInterface {
	return k.schema
}

func (k *phisDBPostgres) Ping(ctx context.Context) error {
	return xe.Wrap(k.pool.Ping(ctx))
}

func (k *phisDBPostgres) Close() error {
	k.pool.Close()
	return nil
}

package group

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	kdb "github.com/opensilex/phis/pkg/db"
	pgerrors "github.com/opensilex/phis/pkg/db/postgres/errors"
	kpool "github.com/opensilex/phis/pkg/db/postgres/pool"
	xe "github.com/opensilex/phis/pkg/errors"
)

type pgGroup struct {
	pool kpool.Pool
}

var _ kdb.GroupInterface = &pgGroup{}

func New(pool kpool.Pool) kdb.GroupInterface {
	return &pgGroup{pool: pool}
}

func (m *pgGroup) Create(ctx context.Context, param kdb.GroupParam) (kdb.Group, error) {
	g := kdb.Group{Members: []string{}}
	if err := m.pool.QueryRow(
		ctx,
		`
		INSERT INTO "group" ("uri", "name", "description") VALUES ($1, $2, $3)
		RETURNING "uri", "name", "description"
		`,
		param.URI, param.Name, param.Description,
	).Scan(&g.URI, &g.Name, &g.Description); err != nil {
		return g, xe.Wrap(pgerrors.AsConflict(err, "group", param.Name))
	}
	return g, nil
}

func (m *pgGroup) AddMember(ctx context.Context, groupURI string, userURI string) error {
	_, err := m.pool.Exec(
		ctx,
		`
		INSERT INTO "group_member" ("group_uri", "user_uri") VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		`,
		groupURI, userURI,
	)
	if pgerrors.IsForeignKeyViolation(err) {
		return xe.Wrap(pgerrors.Missing{Table: "group or user", Identity: groupURI + ", " + userURI})
	}
	return xe.Wrap(err)
}

func (m *pgGroup) Get(ctx context.Context, uri string) (kdb.Group, error) {
	g := kdb.Group{}
	err := m.pool.QueryRow(
		ctx, `SELECT "uri", "name", "description" FROM "group" WHERE "uri" = $1`, uri,
	).Scan(&g.URI, &g.Name, &g.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return g, xe.Wrap(pgerrors.Missing{Table: "group", Identity: uri})
	} else if err != nil {
		return g, xe.Wrap(err)
	}

	rows, err := m.pool.Query(
		ctx,
		`SELECT "user_uri" FROM "group_member" WHERE "group_uri" = $1 ORDER BY "user_uri"`,
		uri,
	)
	if err != nil {
		return g, xe.Wrap(err)
	}
	defer rows.Close()

	g.Members = []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return g, xe.Wrap(err)
		}
		g.Members = append(g.Members, u)
	}
	return g, xe.Wrap(rows.Err())
}

func (m *pgGroup) Search(ctx context.Context, name string, page, pageSize int) ([]kdb.Group, int, error) {
	where := `WHERE $1 = '' OR strpos(lower("name"), lower($1)) > 0`

	var total int
	if err := m.pool.QueryRow(
		ctx, `SELECT count(*) FROM "group" `+where, name,
	).Scan(&total); err != nil {
		return nil, 0, xe.Wrap(err)
	}

	rows, err := m.pool.Query(
		ctx,
		`SELECT "uri", "name", "description" FROM "group" `+where+` ORDER BY "name" LIMIT $2 OFFSET $3`,
		name, pageSize, page*pageSize,
	)
	if err != nil {
		return nil, 0, xe.Wrap(err)
	}
	defer rows.Close()

	groups := []kdb.Group{}
	for rows.Next() {
		g := kdb.Group{}
		if err := rows.Scan(&g.URI, &g.Name, &g.Description); err != nil {
			return nil, 0, xe.Wrap(err)
		}
		groups = append(groups, g)
	}
	return groups, total, xe.Wrap(rows.Err())
}

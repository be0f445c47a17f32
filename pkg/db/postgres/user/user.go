package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	kdb "github.com/opensilex/phis/pkg/db"
	pgerrors "github.com/opensilex/phis/pkg/db/postgres/errors"
	kpool "github.com/opensilex/phis/pkg/db/postgres/pool"
	xe "github.com/opensilex/phis/pkg/errors"
)

type pgUser struct {
	pool kpool.Pool
}

var _ kdb.UserInterface = &pgUser{}

func New(pool kpool.Pool) kdb.UserInterface {
	return &pgUser{pool: pool}
}

const columns = `"uri", "email", "first_name", "family_name", "admin", "language", "password_hash"`

func scan(row pgx.Row, u *kdb.User) error {
	return row.Scan(
		&u.URI, &u.Email, &u.FirstName, &u.FamilyName, &u.Admin, &u.Language, &u.PasswordHash,
	)
}

func (m *pgUser) get(ctx context.Context, column string, value string) (kdb.User, error) {
	u := kdb.User{}
	err := scan(
		m.pool.QueryRow(ctx, `SELECT `+columns+` FROM "user" WHERE "`+column+`" = $1`, value),
		&u,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, xe.Wrap(pgerrors.Missing{Table: "user", Identity: value})
	} else if err != nil {
		return u, xe.Wrap(err)
	}

	groups, err := m.Groups(ctx, u.URI)
	if err != nil {
		return u, err
	}
	u.Groups = groups
	return u, nil
}

func (m *pgUser) Get(ctx context.Context, uri string) (kdb.User, error) {
	return m.get(ctx, "uri", uri)
}

func (m *pgUser) GetByEmail(ctx context.Context, email string) (kdb.User, error) {
	return m.get(ctx, "email", email)
}

func (m *pgUser) exists(ctx context.Context, column string, value string) (bool, error) {
	var exists bool
	err := m.pool.QueryRow(
		ctx, `SELECT EXISTS (SELECT 1 FROM "user" WHERE "`+column+`" = $1)`, value,
	).Scan(&exists)
	return exists, xe.Wrap(err)
}

func (m *pgUser) Exists(ctx context.Context, uri string) (bool, error) {
	return m.exists(ctx, "uri", uri)
}

func (m *pgUser) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return m.exists(ctx, "email", email)
}

func (m *pgUser) Create(ctx context.Context, param kdb.UserParam) (kdb.User, error) {
	lang := param.Language
	if lang == "" {
		lang = "en"
	}
	u := kdb.User{}
	err := scan(
		m.pool.QueryRow(
			ctx,
			`
			INSERT INTO "user" (`+columns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+columns,
			param.URI, param.Email, param.FirstName, param.FamilyName,
			param.Admin, lang, param.PasswordHash,
		),
		&u,
	)
	if err != nil {
		return u, xe.Wrap(pgerrors.AsConflict(err, "user", param.Email))
	}
	u.Groups = []string{}
	return u, nil
}

func (m *pgUser) Search(ctx context.Context, name string, page, pageSize int) ([]kdb.User, int, error) {
	where := `
	WHERE $1 = ''
		OR strpos(lower("first_name" || ' ' || "family_name"), lower($1)) > 0
		OR strpos(lower("email"), lower($1)) > 0
	`

	var total int
	if err := m.pool.QueryRow(
		ctx, `SELECT count(*) FROM "user" `+where, name,
	).Scan(&total); err != nil {
		return nil, 0, xe.Wrap(err)
	}

	rows, err := m.pool.Query(
		ctx,
		`SELECT `+columns+` FROM "user" `+where+` ORDER BY "email" LIMIT $2 OFFSET $3`,
		name, pageSize, page*pageSize,
	)
	if err != nil {
		return nil, 0, xe.Wrap(err)
	}
	defer rows.Close()

	users := []kdb.User{}
	for rows.Next() {
		u := kdb.User{}
		if err := scan(rows, &u); err != nil {
			return nil, 0, xe.Wrap(err)
		}
		users = append(users, u)
	}
	return users, total, xe.Wrap(rows.Err())
}

func (m *pgUser) Groups(ctx context.Context, userURI string) ([]string, error) {
	rows, err := m.pool.Query(
		ctx,
		`SELECT "group_uri" FROM "group_member" WHERE "user_uri" = $1 ORDER BY "group_uri"`,
		userURI,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	groups := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, xe.Wrap(err)
		}
		groups = append(groups, g)
	}
	return groups, xe.Wrap(rows.Err())
}

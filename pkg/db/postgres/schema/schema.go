// Package schema upgrades the database schema with the SQL files embedded in this package.
//
// Files are in sql/{version}/*.sql, applied in lexical order of names.
package schema

import (
	"cmp"
	"context"
	"embed"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	kdb "github.com/opensilex/phis/pkg/db"
	kpool "github.com/opensilex/phis/pkg/db/postgres/pool"
	xe "github.com/opensilex/phis/pkg/errors"
)

//go:embed sql
var embedded embed.FS

type pgSchema struct {
	pool       kpool.Pool
	repository fs.FS
}

var _ kdb.SchemaInterface = &pgSchema{}

// New creates a schema of embedded SQL files.
func New(pool kpool.Pool) *pgSchema {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err) // embedded directory always exists.
	}
	return NewWithRepository(pool, sub)
}

// NewWithRepository creates a schema of SQL files in repository.
//
// Each version is a directory named with an integer, containing .sql files.
func NewWithRepository(pool kpool.Pool, repository fs.FS) *pgSchema {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	Version int
	Files   []string
}

func (v version) Apply(ctx context.Context, repository fs.FS, conn kpool.Queryer) error {
	for _, f := range v.Files {
		query, err := fs.ReadFile(repository, f)
		if err != nil {
			return xe.Wrap(err)
		}
		if _, err := conn.Exec(ctx, string(query)); err != nil {
			return xe.WrapWithNote(f, err)
		}
	}
	return nil
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.pool)
}

// currentVersion does not touch "schema_version" unless it exists,
// so that it can be called in a transaction.
func currentVersion(ctx context.Context, conn kpool.Queryer) (int, error) {
	var exists bool
	if err := conn.QueryRow(
		ctx, `SELECT to_regclass('"schema_version"') IS NOT NULL`,
	).Scan(&exists); err != nil {
		return -1, xe.Wrap(err)
	}
	if !exists {
		return 0, nil
	}

	var version *int
	if err := conn.QueryRow(
		ctx, `SELECT max("version") FROM "schema_version"`,
	).Scan(&version); err != nil {
		return -1, xe.Wrap(err)
	}
	if version == nil {
		return 0, nil
	}
	return *version, nil
}

func (s *pgSchema) Latest() (int, error) {
	vs, err := Versions(s.repository)
	if err != nil {
		return -1, err
	}
	if len(vs) == 0 {
		return 0, nil
	}
	return vs[len(vs)-1], nil
}

func (s *pgSchema) Upgrade(ctx context.Context) error {
	vs, err := versions(s.repository)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('schema_version'))`); err != nil {
		return xe.Wrap(err)
	}

	current, err := currentVersion(ctx, tx)
	if err != nil {
		return err
	}

	for _, v := range vs {
		if v.Version <= current {
			continue
		}
		if err := v.Apply(ctx, s.repository, tx); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM "schema_version"`); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx, `INSERT INTO "schema_version" ("version") VALUES ($1)`, v.Version,
		); err != nil {
			return xe.Wrap(err)
		}
	}

	return xe.Wrap(tx.Commit(ctx))
}

// Versions lists version numbers in repository, in ascending order.
func Versions(repository fs.FS) ([]int, error) {
	vs, err := versions(repository)
	if err != nil {
		return nil, err
	}
	nums := make([]int, len(vs))
	for i := range vs {
		nums[i] = vs[i].Version
	}
	return nums, nil
}

func versions(repository fs.FS) ([]version, error) {
	dir, err := fs.ReadDir(repository, ".")
	if err != nil {
		return nil, xe.Wrap(err)
	}

	vs := make([]version, 0, len(dir))
	for _, entry := range dir {
		if !entry.IsDir() {
			continue
		}
		n, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		files, err := fs.ReadDir(repository, entry.Name())
		if err != nil {
			return nil, xe.Wrap(err)
		}
		v := version{Version: n}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
				continue
			}
			v.Files = append(v.Files, path.Join(entry.Name(), f.Name()))
		}
		slices.Sort(v.Files)
		vs = append(vs, v)
	}
	slices.SortFunc(vs, func(i, j version) int { return cmp.Compare(i.Version, j.Version) })
	return vs, nil
}

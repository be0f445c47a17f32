// Package testenv connects tests to a PostgreSQL given by environment variable.
package testenv

import (
	"context"
	"os"
	"testing"

	"github.com/opensilex/phis/pkg/db/postgres/pool"
)

// EnvURI names the environment variable holding the connection string of the test database.
const EnvURI = "PHIS_TEST_POSTGRES_URI"

// GetPool connects to the test database, or skips t when it is not configured.
//
// Tables are truncated before returning and after t.
func GetPool(ctx context.Context, t *testing.T) pool.Pool {
	t.Helper()
	url := os.Getenv(EnvURI)
	if url == "" {
		t.Skipf("%s is not set", EnvURI)
	}

	p, err := pool.Connect(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		ClearTables(context.Background(), p, t)
		p.Close()
	})
	ClearTables(ctx, p, t)
	return p
}

// ClearTables truncates all tables in the public schema, except "schema_version".
func ClearTables(ctx context.Context, p pool.Queryer, t *testing.T) {
	t.Helper()
	if _, err := p.Exec(ctx, `
	DO $$
	DECLARE r record;
	BEGIN
		FOR r IN SELECT tablename FROM pg_tables
			WHERE schemaname = 'public' AND tablename <> 'schema_version'
		LOOP
			EXECUTE 'TRUNCATE TABLE ' || quote_ident(r.tablename) || ' CASCADE';
		END LOOP;
	END $$;
	`); err != nil {
		t.Fatal(err)
	}
}

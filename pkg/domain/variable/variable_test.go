package variable_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	"github.com/opensilex/phis/pkg/conn/sparql/mocks"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/variable"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

const base = "http://example.com/demo"

var admin = kdb.User{URI: base + "/users/admin", Admin: true}

func TestDelete_ComponentInUse(t *testing.T) {
	ctx := context.Background()
	entity := mapper.URI(base + "/variable/entity/leaf")

	t.Run("entity referred by a variable is not deleted", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return true, nil }
		testee := variable.New(sparql.NewService(conn, base))

		if err := testee.Entities.Delete(ctx, entity); !errors.Is(err, sparql.ErrInUse) {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(conn.Calls.Update) != 0 {
			t.Errorf("nothing should be deleted: %v", conn.Calls.Update)
		}
		if q := conn.Calls.Ask[0]; !strings.Contains(q, "?variable <"+ontology.OESOHasEntity+"> <"+string(entity)+">") {
			t.Errorf("unexpected query:\n%s", q)
		}
	})

	t.Run("unused entity is deleted", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) {
			// in use? no. exists? yes.
			return !strings.Contains(q, "?variable"), nil
		}
		conn.Impl.Update = func(ctx context.Context, u string) error { return nil }
		testee := variable.New(sparql.NewService(conn, base))

		if err := testee.Entities.Delete(ctx, entity); err != nil {
			t.Fatal(err)
		}
		if len(conn.Calls.Update) != 1 || !conn.Committed() {
			t.Errorf("unexpected calls: %+v", conn.Calls)
		}
	})
}

func TestCreateVariable_MissingComponent(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) {
		return !strings.Contains(q, "/variable/unit/"), nil
	}
	testee := variable.New(sparql.NewService(conn, base))

	v := &variable.Variable{
		Name:    "leaf height",
		Entity:  base + "/variable/entity/leaf",
		Quality: base + "/variable/quality/height",
		Method:  base + "/variable/method/ruler",
		Unit:    base + "/variable/unit/cm",
	}
	err := testee.Variables.Create(context.Background(), admin, v)
	if !errors.Is(err, sparql.ErrNotFoundURI) || !strings.Contains(err.Error(), "/variable/unit/cm") {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.Calls.Update) != 0 {
		t.Errorf("nothing should be inserted: %v", conn.Calls.Update)
	}
}

func TestCreateVariable_RequiredComponents(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return true, nil }
	testee := variable.New(sparql.NewService(conn, base))

	err := testee.Variables.Create(context.Background(), admin, &variable.Variable{Name: "no components"})
	if !errors.Is(err, sparql.ErrRequired) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSearch(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Select = mocks.Router(
		mocks.Route{Contains: "COUNT(", Results: mocks.Rows(map[string]string{"count": "1"})},
		mocks.Route{Contains: "SELECT DISTINCT ?uri ?rdfType", Results: mocks.Rows(map[string]string{
			"uri": base + "/variable/unit/cm", "rdfType": ontology.OESOUnit, "name": "centimeter", "symbol": "cm",
		})},
	)
	testee := variable.New(sparql.NewService(conn, base))

	got, err := testee.Units.Search(context.Background(), admin, variable.SearchParams{Name: "centi"})
	if err != nil {
		t.Fatal(err)
	}
	expected := []*variable.Unit{
		{
			Resource: mapper.Resource{URI: base + "/variable/unit/cm", Type: ontology.OESOUnit},
			Name:     "centimeter",
			Symbol:   "cm",
		},
	}
	if diff := cmp.Diff(expected, got.Items); diff != "" {
		t.Errorf("units (-expected, +actual) = %s", diff)
	}
	if q := conn.Calls.Select[0]; !strings.Contains(q, `regex(str(?name), "centi", "i")`) ||
		!strings.Contains(q, "GRAPH <"+base+"/variable>") {
		t.Errorf("unexpected query:\n%s", q)
	}
}

func TestTraits(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Select = func(ctx context.Context, q string) (*csparql.Results, error) {
		return mocks.Rows(
			map[string]string{"trait": "http://t/b", "variable": base + "/variable/v3"},
			map[string]string{"trait": "http://t/a", "traitName": "A", "variable": base + "/variable/v1"},
			map[string]string{"trait": "http://t/a", "traitName": "A", "variable": base + "/variable/v2"},
			map[string]string{"trait": "http://t/c", "traitName": "C", "variable": base + "/variable/v4"},
		), nil
	}
	testee := variable.New(sparql.NewService(conn, base))

	got, total, err := testee.Traits(context.Background(), "", 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	expected := []variable.Trait{
		{URI: "http://t/a", Name: "A", Variables: []mapper.URI{base + "/variable/v1", base + "/variable/v2"}},
		{URI: "http://t/b", Variables: []mapper.URI{base + "/variable/v3"}},
	}
	if total != 3 {
		t.Errorf("unexpected total: %d", total)
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("traits (-expected, +actual) = %s", diff)
	}

	got, _, err = testee.Traits(context.Background(), "http://t/c", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].URI != "http://t/c" {
		t.Errorf("unexpected second page: %+v", got)
	}
	if q := conn.Calls.Select[1]; !strings.Contains(q, "VALUES ?trait { <http://t/c> }") {
		t.Errorf("unexpected query:\n%s", q)
	}
}

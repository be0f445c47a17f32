package sparql_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	"github.com/opensilex/phis/pkg/conn/sparql/mocks"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/sparql/tree"
)

type thing struct {
	mapper.Resource
	Label string   `json:"label" sparql:"rdfs:label,required,lang"`
	Tags  []string `json:"tags" sparql:"oeso:hasKeyword"`
}

func (*thing) Class() mapper.ClassInfo {
	return mapper.ClassInfo{
		Type:   ontology.OESO + "Thing",
		Graph:  "set/things",
		Prefix: "thing",
	}
}

func (t *thing) URISegments() []string {
	return []string{t.Label}
}

const base = "http://example.com/demo"

func newService(conn csparql.Conn) *sparql.Service {
	return sparql.NewService(conn, base+"/", sparql.WithLanguage("fr"), sparql.WithPageSize(2, 10))
}

func TestService_Settings(t *testing.T) {
	s := newService(mocks.NewConn())

	if got := s.BaseURI(); got != base {
		t.Errorf("unexpected base uri: %s", got)
	}
	if got := s.Lang(""); got != "fr" {
		t.Errorf("unexpected default language: %s", got)
	}
	if got := s.Lang("en"); got != "en" {
		t.Errorf("unexpected language: %s", got)
	}
	for in, expected := range map[int]int{-1: 2, 0: 2, 5: 5, 11: 10} {
		if got := s.PageSize(in); got != expected {
			t.Errorf("PageSize(%d) = %d, expected %d", in, got, expected)
		}
	}
	if got := s.Graph("set/things"); got != base+"/set/things" {
		t.Errorf("unexpected graph: %s", got)
	}
	if got := s.Graph("http://other.example.com/g"); got != "http://other.example.com/g" {
		t.Errorf("unexpected graph: %s", got)
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("it generates URI and inserts in a transaction", func(t *testing.T) {
		conn := mocks.NewConn()
		asked := 0
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) {
			asked += 1
			// the first candidate is used.
			return asked == 1, nil
		}
		conn.Impl.Update = func(ctx context.Context, u string) error { return nil }

		m := &thing{Label: "Blé dur", Tags: []string{"wheat"}}
		if err := sparql.Create(ctx, newService(conn), "", m); err != nil {
			t.Fatal(err)
		}
		if m.URI != base+"/thing/ble_dur-2" {
			t.Errorf("unexpected uri: %s", m.URI)
		}
		if !conn.Committed() {
			t.Errorf("transaction is not committed: %+v", conn.Calls)
		}
		if len(conn.Calls.Update) != 1 {
			t.Fatalf("unexpected updates: %v", conn.Calls.Update)
		}
		u := conn.Calls.Update[0]
		for _, part := range []string{
			"INSERT DATA",
			"GRAPH <" + base + "/set/things>",
			"<" + base + `/thing/ble_dur-2> <http://www.w3.org/2000/01/rdf-schema#label> "Blé dur"@fr .`,
			`<http://www.opensilex.org/vocabulary/oeso#hasKeyword> "wheat" .`,
		} {
			if !strings.Contains(u, part) {
				t.Errorf("update does not contain %s:\n%s", part, u)
			}
		}
	})

	t.Run("it fails when given URI exists", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return true, nil }

		m := &thing{Resource: mapper.Resource{URI: base + "/thing/x"}, Label: "x"}
		err := sparql.Create(ctx, newService(conn), "", m)
		if !errors.Is(err, sparql.ErrAlreadyExists) {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(conn.Calls.Update) != 0 || conn.Calls.Rollback != 1 {
			t.Errorf("unexpected calls: %+v", conn.Calls)
		}
	})

	t.Run("it fails when same URI is given twice", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return false, nil }

		a := &thing{Resource: mapper.Resource{URI: base + "/thing/x"}, Label: "x"}
		b := &thing{Resource: mapper.Resource{URI: base + "/thing/x"}, Label: "y"}
		if err := sparql.Create(ctx, newService(conn), "", a, b); !errors.Is(err, sparql.ErrAlreadyExists) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("it fails without transaction when required field is missing", func(t *testing.T) {
		conn := mocks.NewConn()
		err := sparql.Create(ctx, newService(conn), "", &thing{})
		if !errors.Is(err, sparql.ErrRequired) {
			t.Fatalf("unexpected error: %v", err)
		}
		if conn.Calls.Begin != 0 {
			t.Errorf("transaction should not be began")
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("it deletes and inserts in a transaction", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return true, nil }
		conn.Impl.Update = func(ctx context.Context, u string) error { return nil }

		m := &thing{Resource: mapper.Resource{URI: base + "/thing/x"}, Label: "x"}
		if err := sparql.Update(ctx, newService(conn), "en", m); err != nil {
			t.Fatal(err)
		}
		if !conn.Committed() || len(conn.Calls.Update) != 1 {
			t.Fatalf("unexpected calls: %+v", conn.Calls)
		}
		u := conn.Calls.Update[0]
		del, ins := strings.Index(u, "DELETE {"), strings.Index(u, "INSERT DATA")
		if del < 0 || ins < 0 || ins < del {
			t.Errorf("unexpected update:\n%s", u)
		}
		if !strings.Contains(u, `"x"@en`) {
			t.Errorf("label should be tagged with en:\n%s", u)
		}
	})

	t.Run("it fails for unknown URI", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) { return false, nil }

		m := &thing{Resource: mapper.Resource{URI: base + "/thing/x"}, Label: "x"}
		err := sparql.Update(ctx, newService(conn), "", m)
		if !errors.Is(err, sparql.ErrNotFoundURI) {
			t.Fatalf("unexpected error: %v", err)
		}
		uerr := new(sparql.URIError)
		if !errors.As(err, &uerr) || uerr.URI != m.URI {
			t.Errorf("unexpected error: %v", err)
		}
		if conn.Calls.Rollback != 1 {
			t.Errorf("transaction should be rolled back")
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	conn := mocks.NewConn()
	conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) {
		return strings.Contains(q, "/thing/x>"), nil
	}
	conn.Impl.Update = func(ctx context.Context, u string) error { return nil }
	s := newService(conn)

	if err := sparql.Delete[thing](ctx, s, base+"/thing/x"); err != nil {
		t.Fatal(err)
	}
	u := conn.Calls.Update[0]
	if strings.Count(u, "GRAPH ?g") != 4 {
		t.Errorf("resource should be removed from any graph as subject and object:\n%s", u)
	}

	if err := sparql.Delete[thing](ctx, s, base+"/thing/y"); !errors.Is(err, sparql.ErrNotFoundURI) {
		t.Errorf("unexpected error: %v", err)
	}
}

// dispatch answers select queries by their shape.
func dispatch(main, lists, labels *csparql.Results) func(ctx context.Context, q string) (*csparql.Results, error) {
	return func(ctx context.Context, q string) (*csparql.Results, error) {
		switch {
		case strings.Contains(q, "COUNT(DISTINCT ?uri)"):
			return mocks.Rows(map[string]string{"count": "3"}), nil
		case strings.Contains(q, "?value"):
			return lists, nil
		case strings.HasPrefix(q, "SELECT DISTINCT ?uri ?label\n"):
			return labels, nil
		}
		return main, nil
	}
}

func TestGetListByURIs(t *testing.T) {
	ctx := context.Background()
	conn := mocks.NewConn()
	conn.Impl.Select = dispatch(
		mocks.Rows(
			map[string]string{"uri": base + "/thing/b", "rdfType": ontology.OESO + "Thing", "label": "B"},
			map[string]string{"uri": base + "/thing/a", "rdfType": ontology.OESO + "Thing", "label": "A"},
			map[string]string{"uri": base + "/thing/a", "rdfType": ontology.OESO + "Thing", "label": "A (duplicated)"},
		),
		mocks.Rows(
			map[string]string{"uri": base + "/thing/a", "value": "t1"},
			map[string]string{"uri": base + "/thing/a", "value": "t2"},
		),
		mocks.Rows(
			map[string]string{"uri": ontology.OESO + "Thing", "label": "chose"},
		),
	)

	got, err := sparql.GetListByURIs[thing](
		ctx, newService(conn),
		[]mapper.URI{base + "/thing/a", base + "/thing/missing", base + "/thing/b"}, "",
	)
	if err != nil {
		t.Fatal(err)
	}
	expected := []*thing{
		{
			Resource: mapper.Resource{URI: base + "/thing/a", Type: ontology.OESO + "Thing", TypeLabel: "chose"},
			Label:    "A",
			Tags:     []string{"t1", "t2"},
		},
		{
			Resource: mapper.Resource{URI: base + "/thing/b", Type: ontology.OESO + "Thing", TypeLabel: "chose"},
			Label:    "B",
		},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("models (-expected, +actual) = %s", diff)
	}

	main := conn.Calls.Select[0]
	if !strings.Contains(main, "VALUES ?uri { <"+base+"/thing/a> <"+base+"/thing/missing> <"+base+"/thing/b> }") {
		t.Errorf("unexpected query:\n%s", main)
	}
	if !strings.Contains(main, `langMatches(lang(?label), "fr")`) {
		t.Errorf("default language should be used:\n%s", main)
	}
}

func TestGetByURI(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Select = dispatch(mocks.Rows(), mocks.Rows(), mocks.Rows())
	_, err := sparql.GetByURI[thing](context.Background(), newService(conn), base+"/thing/none", "")
	if !errors.Is(err, sparql.ErrNotFoundURI) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("it counts and pages", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Select = dispatch(
			mocks.Rows(
				map[string]string{"uri": base + "/thing/c", "rdfType": ontology.OESO + "Thing", "label": "C"},
			),
			mocks.Rows(),
			mocks.Rows(),
		)

		got, err := sparql.Search[thing](ctx, newService(conn), sparql.SearchParams{
			Filter: func(q *query.Select) {
				q.Filter(query.Regex("label", "c"))
			},
			OrderBy: []query.OrderBy{{Field: "label", Desc: true}},
			Page:    1,
		})
		if err != nil {
			t.Fatal(err)
		}
		if got.Total != 3 || got.Page != 1 || got.PageSize != 2 || got.TotalPages() != 2 {
			t.Errorf("unexpected pagination: %+v", got)
		}
		if len(got.Items) != 1 || got.Items[0].Label != "C" {
			t.Errorf("unexpected items: %+v", got.Items)
		}

		count, page := conn.Calls.Select[0], conn.Calls.Select[1]
		if !strings.Contains(count, `FILTER(regex(str(?label), "c", "i"))`) || strings.Contains(count, "LIMIT") {
			t.Errorf("unexpected count query:\n%s", count)
		}
		for _, part := range []string{
			"SELECT ?uri (MAX(?label) AS ?label_key)",
			"GROUP BY ?uri",
			"LIMIT 2",
			"OFFSET 2",
		} {
			if !strings.Contains(page, part) {
				t.Errorf("page query does not contain %s:\n%s", part, page)
			}
		}
		if !strings.HasSuffix(page, "}\nORDER BY DESC(?label_key) ASC(?uri)\n") {
			t.Errorf("rows are paged, not uris:\n%s", page)
		}
	})

	t.Run("page beyond total does not query items", func(t *testing.T) {
		conn := mocks.NewConn()
		conn.Impl.Select = dispatch(nil, nil, nil)
		got, err := sparql.Search[thing](ctx, newService(conn), sparql.SearchParams{Page: 5})
		if err != nil {
			t.Fatal(err)
		}
		if got.Total != 3 || len(got.Items) != 0 || len(conn.Calls.Select) != 1 {
			t.Errorf("unexpected result: %+v (calls: %v)", got, conn.Calls.Select)
		}
	})

	t.Run("ordering by unknown field is rejected", func(t *testing.T) {
		conn := mocks.NewConn()
		_, err := sparql.Search[thing](ctx, newService(conn), sparql.SearchParams{
			OrderBy: []query.OrderBy{{Field: "tags"}},
		})
		if !errors.Is(err, sparql.ErrInvalidOrderField) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSearchResourceTree(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Select = func(ctx context.Context, q string) (*csparql.Results, error) {
		return mocks.Rows(
			map[string]string{"uri": "http://e/device", "name": "device", "parent": "http://e/thing"},
			map[string]string{"uri": "http://e/sensor", "name": "sensor", "parent": "http://e/device"},
			map[string]string{"uri": "http://e/thing", "name": "thing", "parent": "http://e/top"},
		), nil
	}
	got, err := newService(conn).SearchResourceTree(context.Background(), sparql.TreeQuery{
		Root:       "http://e/thing",
		ParentPath: query.IRI(ontology.RDFSSubClassOf),
		Selection:  []mapper.URI{"http://e/sensor"},
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := []tree.ResourceTreeDTO{
		{
			URI: "http://e/thing", Name: "thing",
			Children: []tree.ResourceTreeDTO{
				{
					URI: "http://e/device", Name: "device", Parent: "http://e/thing",
					Children: []tree.ResourceTreeDTO{
						{URI: "http://e/sensor", Name: "sensor", Parent: "http://e/device", Selected: true, Children: []tree.ResourceTreeDTO{}},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(expected, tree.ToDTO(got, true)); diff != "" {
		t.Errorf("tree (-expected, +actual) = %s", diff)
	}

	q := conn.Calls.Select[0]
	if !strings.Contains(q, "?uri (<http://www.w3.org/2000/01/rdf-schema#subClassOf>)* <http://e/thing> .") {
		t.Errorf("unexpected query:\n%s", q)
	}
}

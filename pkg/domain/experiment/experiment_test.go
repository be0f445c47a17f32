package experiment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/opensilex/phis/pkg/conn/sparql/mocks"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/experiment"
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

const base = "http://example.com/demo"

func TestReadableBy(t *testing.T) {
	xp := experiment.Experiment{
		ScientificSupervisors: []mapper.URI{base + "/users/sci"},
		TechnicalSupervisors:  []mapper.URI{base + "/users/tech"},
		Groups:                []mapper.URI{base + "/groups/g1"},
	}

	for name, testcase := range map[string]struct {
		public   bool
		user     kdb.User
		expected bool
	}{
		"administrator":         {user: kdb.User{URI: base + "/users/x", Admin: true}, expected: true},
		"scientific supervisor": {user: kdb.User{URI: base + "/users/sci"}, expected: true},
		"technical supervisor":  {user: kdb.User{URI: base + "/users/tech"}, expected: true},
		"group member": {
			user:     kdb.User{URI: base + "/users/x", Groups: []string{base + "/groups/g0", base + "/groups/g1"}},
			expected: true,
		},
		"stranger":           {user: kdb.User{URI: base + "/users/x"}, expected: false},
		"stranger on public": {public: true, user: kdb.User{URI: base + "/users/x"}, expected: true},
	} {
		t.Run(name, func(t *testing.T) {
			x := xp
			x.IsPublic = testcase.public
			if got := x.ReadableBy(testcase.user); got != testcase.expected {
				t.Errorf("ReadableBy = %v, expected %v", got, testcase.expected)
			}
		})
	}
}

func TestURISegments(t *testing.T) {
	x := &experiment.Experiment{Label: "Wheat drought", StartDate: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)}
	got := x.URISegments()
	if len(got) != 2 || got[0] != "2021" || got[1] != "Wheat drought" {
		t.Errorf("unexpected segments: %v", got)
	}
}

func TestCreate_UnknownProject(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) {
		return !strings.Contains(q, "/project/unknown"), nil
	}
	testee := experiment.New(sparql.NewService(conn, base))

	xp := &experiment.Experiment{
		Label:     "wheat",
		StartDate: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		Projects:  []mapper.URI{base + "/project/known", base + "/project/unknown"},
	}
	err := testee.Create(context.Background(), kdb.User{Admin: true}, xp)
	var uerr *sparql.URIError
	if !errors.As(err, &uerr) || !errors.Is(err, sparql.ErrNotFoundURI) {
		t.Fatalf("unexpected error: %v", err)
	}
	if uerr.URI != base+"/project/unknown" {
		t.Errorf("unexpected uri in error: %s", uerr.URI)
	}
	if len(conn.Calls.Update) != 0 || conn.Calls.Rollback != 1 {
		t.Errorf("nothing should be inserted: %+v", conn.Calls)
	}
}

func TestSearch(t *testing.T) {
	today := time.Date(2022, 6, 15, 10, 0, 0, 0, time.UTC)
	ended := true
	campaign := 2021

	conn := mocks.NewConn()
	conn.Impl.Select = mocks.Router(
		mocks.Route{Contains: "COUNT(", Results: mocks.Rows(map[string]string{"count": "0"})},
	)
	testee := experiment.New(sparql.NewService(conn, base), experiment.WithClock(func() time.Time { return today }))

	user := kdb.User{URI: base + "/users/alice", Groups: []string{base + "/groups/g1"}}
	got, err := testee.Search(context.Background(), user, experiment.SearchParams{
		Label:    "wheat",
		Projects: []mapper.URI{base + "/project/p1"},
		Campaign: &campaign,
		IsEnded:  &ended,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 0 || len(got.Items) != 0 {
		t.Errorf("unexpected result: %+v", got)
	}

	q := conn.Calls.Select[0]
	for _, part := range []string{
		`regex(str(?label), "wheat", "i")`,
		"VALUES ?project { <" + base + "/project/p1> }",
		`?campaign = "2021"^^<` + ontology.XSDInteger + `>`,
		`(bound(?endDate) && ?endDate < "2022-06-15"^^<` + ontology.XSDDate + `>)`,
		"VALUES ?userGroup { <" + base + "/groups/g1> }",
		"<" + ontology.OESOIsPublic + `> "true"^^<` + ontology.XSDBoolean + ">",
	} {
		if !strings.Contains(q, part) {
			t.Errorf("query does not contain %s:\n%s", part, q)
		}
	}
}

func TestGet_Forbidden(t *testing.T) {
	conn := mocks.NewConn()
	conn.Impl.Select = mocks.Router(
		mocks.Route{Contains: "SELECT DISTINCT ?uri ?rdfType", Results: mocks.Rows(map[string]string{
			"uri": base + "/xp/2021/wheat", "rdfType": ontology.OESOExperiment,
			"label": "wheat", "startDate": "2021-03-01", "isPublic": "false",
		})},
	)
	testee := experiment.New(sparql.NewService(conn, base))

	_, err := testee.Get(context.Background(), kdb.User{URI: base + "/users/x"}, base+"/xp/2021/wheat")
	if !errors.Is(err, sparql.ErrForbiddenURIAccess) {
		t.Errorf("unexpected error: %v", err)
	}

	got, err := testee.Get(context.Background(), kdb.User{Admin: true}, base+"/xp/2021/wheat")
	if err != nil {
		t.Fatal(err)
	}
	if got.Label != "wheat" || got.IsPublic {
		t.Errorf("unexpected experiment: %+v", got)
	}
}

func TestWritableBy(t *testing.T) {
	x := experiment.Experiment{
		IsPublic:              true,
		ScientificSupervisors: []mapper.URI{base + "/users/sci"},
		Groups:                []mapper.URI{base + "/groups/g1"},
	}
	for name, testcase := range map[string]struct {
		user     kdb.User
		expected bool
	}{
		"administrator":         {user: kdb.User{URI: base + "/users/x", Admin: true}, expected: true},
		"scientific supervisor": {user: kdb.User{URI: base + "/users/sci"}, expected: true},
		"group member":          {user: kdb.User{URI: base + "/users/x", Groups: []string{base + "/groups/g1"}}, expected: true},
		"stranger on public":    {user: kdb.User{URI: base + "/users/x"}, expected: false},
	} {
		t.Run(name, func(t *testing.T) {
			if got := x.WritableBy(testcase.user); got != testcase.expected {
				t.Errorf("WritableBy = %v, expected %v", got, testcase.expected)
			}
		})
	}
}

func TestPublicExperimentIsReadOnlyForStrangers(t *testing.T) {
	target := mapper.URI(base + "/xp/2021/wheat")
	stranger := kdb.User{URI: base + "/users/x"}

	// the experiment exists, and is public. stranger is neither supervisor nor member.
	newTestee := func() (experiment.Interface, *mocks.Conn) {
		conn := mocks.NewConn()
		conn.Impl.Ask = func(ctx context.Context, q string) (bool, error) {
			if strings.Contains(q, ontology.OESOHasScientificSupervisor) {
				return strings.Contains(q, ontology.OESOIsPublic), nil
			}
			return true, nil
		}
		return experiment.New(sparql.NewService(conn, base)), conn
	}

	t.Run("it can be read", func(t *testing.T) {
		testee, _ := newTestee()
		if err := testee.ValidateAccess(context.Background(), stranger, target); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("it can not be deleted", func(t *testing.T) {
		testee, conn := newTestee()
		err := testee.Delete(context.Background(), stranger, target)
		if !errors.Is(err, sparql.ErrForbiddenURIAccess) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(conn.Calls.Update) != 0 {
			t.Errorf("experiment is modified: %v", conn.Calls.Update)
		}
	})

	t.Run("it can not be updated", func(t *testing.T) {
		testee, conn := newTestee()
		err := testee.Update(context.Background(), stranger, &experiment.Experiment{
			Resource:  mapper.Resource{URI: target},
			Label:     "wheat",
			StartDate: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
			IsPublic:  true,
		})
		if !errors.Is(err, sparql.ErrForbiddenURIAccess) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(conn.Calls.Update) != 0 || conn.Calls.Begin != 0 {
			t.Errorf("experiment is modified: %+v", conn.Calls)
		}
	})
}

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/opensilex/phis/cmd/phisd/handlers"
	"github.com/opensilex/phis/pkg/api/types/results"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/experiment"
	mockexperiment "github.com/opensilex/phis/pkg/domain/experiment/mock"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/utils/pointer"

	httptestutil "github.com/opensilex/phis/internal/testutils/http"
)

func TestSearchExperimentsHandler(t *testing.T) {
	x1 := &experiment.Experiment{
		Resource:  mapper.Resource{URI: "http://example.com/id/experiment/x1"},
		Label:     "experiment 1",
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("it passes query parameters and responds a page", func(t *testing.T) {
		experiments := mockexperiment.New()
		experiments.Impl.Search = func(_ context.Context, user kdb.User, _ experiment.SearchParams) (sparql.ListWithPagination[*experiment.Experiment], error) {
			if user.URI != alice.URI {
				t.Errorf("unexpected user: %s", user.URI)
			}
			return sparql.ListWithPagination[*experiment.Experiment]{
				Items: []*experiment.Experiment{x1}, Page: 0, PageSize: 10, Total: 11,
			}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(
			e, "/rest/core/experiments?label=exp&projects=http://example.com/id/project/p1,http://example.com/id/project/p2"+
				"&species=http://example.com/id/species/maize&campaign=2020&startDate=2020-01-01&endDate=2020-12-31"+
				"&isPublic=true&isEnded=false&orderBy=startDate=desc&pageSize=10",
		)
		if err := handlers.SearchExperimentsHandler(experiments)(as(c, alice)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status code: %d", resp.Code)
		}

		want := []experiment.SearchParams{{
			Label:     "exp",
			Projects:  []mapper.URI{"http://example.com/id/project/p1", "http://example.com/id/project/p2"},
			Species:   []mapper.URI{"http://example.com/id/species/maize"},
			Campaign:  pointer.Ref(2020),
			StartDate: pointer.Ref(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:   pointer.Ref(time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC)),
			IsPublic:  pointer.Ref(true),
			IsEnded:   pointer.Ref(false),
			OrderBy:   []query.OrderBy{{Field: query.Var("startDate"), Desc: true}},
			PageSize:  10,
		}}
		if diff := cmp.Diff(want, []experiment.SearchParams(experiments.Calls.Search)); diff != "" {
			t.Errorf("unexpected search params (-want +got):\n%s", diff)
		}

		body := results.Response[results.Data[experiment.Experiment]]{}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if len(body.Result.Data) != 1 || body.Result.Data[0].URI != x1.URI {
			t.Errorf("unexpected data: %+v", body.Result.Data)
		}
		wantPagination := &results.Pagination{PageSize: 10, CurrentPage: 0, TotalCount: 11, TotalPages: 2}
		if diff := cmp.Diff(wantPagination, body.Metadata.Pagination); diff != "" {
			t.Errorf("unexpected pagination (-want +got):\n%s", diff)
		}
	})

	for name, target := range map[string]string{
		"campaign which is not a year is 400": "/rest/core/experiments?campaign=spring",
		"broken isPublic is 400":              "/rest/core/experiments?isPublic=maybe",
		"broken endDate is 400":               "/rest/core/experiments?endDate=2020-02-30",
	} {
		t.Run(name, func(t *testing.T) {
			experiments := mockexperiment.New()
			e := echo.New()
			c, _ := httptestutil.Get(e, target)
			err := handlers.SearchExperimentsHandler(experiments)(as(c, alice))
			if code := statusOf(t, err); code != http.StatusBadRequest {
				t.Errorf("unexpected status code: %d", code)
			}
			if experiments.Calls.Search.Times() != 0 {
				t.Error("search is called")
			}
		})
	}

	t.Run("without authentication, it is 401", func(t *testing.T) {
		experiments := mockexperiment.New()
		e := echo.New()
		c, _ := httptestutil.Get(e, "/rest/core/experiments")
		err := handlers.SearchExperimentsHandler(experiments)(c)
		if code := statusOf(t, err); code != http.StatusUnauthorized {
			t.Errorf("unexpected status code: %d", code)
		}
		if experiments.Calls.Search.Times() != 0 {
			t.Error("search is called")
		}
	})
}

func TestGetExperimentHandler(t *testing.T) {
	const uri = mapper.URI("http://example.com/id/experiment/x1")

	t.Run("it reads URL-encoded URI", func(t *testing.T) {
		experiments := mockexperiment.New()
		experiments.Impl.Get = func(_ context.Context, _ kdb.User, u mapper.URI) (*experiment.Experiment, error) {
			return &experiment.Experiment{Resource: mapper.Resource{URI: u}, Label: "experiment 1"}, nil
		}
		e := echo.New()
		c, resp := httptestutil.Get(e, "/rest/core/experiments/"+url.PathEscape(string(uri)))
		c.SetParamNames("uri")
		c.SetParamValues(url.PathEscape(string(uri)))
		if err := handlers.GetExperimentHandler(experiments, "uri")(as(c, alice)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		want := []mockexperiment.UserAndURI{{User: alice, URI: uri}}
		if diff := cmp.Diff(want, []mockexperiment.UserAndURI(experiments.Calls.Get)); diff != "" {
			t.Errorf("unexpected calls (-want +got):\n%s", diff)
		}
		body := results.Response[experiment.Experiment]{}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Result.URI != uri || body.Result.Label != "experiment 1" {
			t.Errorf("unexpected result: %+v", body.Result)
		}
	})

	for name, testcase := range map[string]struct {
		err      error
		wantCode int
	}{
		"unknown experiment is 404":           {err: sparql.NotFound(uri), wantCode: http.StatusNotFound},
		"private experiment of others is 403": {err: sparql.Forbidden(uri), wantCode: http.StatusForbidden},
	} {
		t.Run(name, func(t *testing.T) {
			experiments := mockexperiment.New()
			experiments.Impl.Get = func(context.Context, kdb.User, mapper.URI) (*experiment.Experiment, error) {
				return nil, testcase.err
			}
			e := echo.New()
			c, _ := httptestutil.Get(e, "/rest/core/experiments/x1")
			c.SetParamNames("uri")
			c.SetParamValues(url.PathEscape(string(uri)))
			err := handlers.GetExperimentHandler(experiments, "uri")(as(c, alice))
			if code := statusOf(t, err); code != testcase.wantCode {
				t.Errorf("unexpected status code: actual = %d, expected = %d", code, testcase.wantCode)
			}
		})
	}

	t.Run("without authentication, it is 401", func(t *testing.T) {
		experiments := mockexperiment.New()
		e := echo.New()
		c, _ := httptestutil.Get(e, "/rest/core/experiments/x1")
		c.SetParamNames("uri")
		c.SetParamValues(url.PathEscape(string(uri)))
		err := handlers.GetExperimentHandler(experiments, "uri")(c)
		if code := statusOf(t, err); code != http.StatusUnauthorized {
			t.Errorf("unexpected status code: %d", code)
		}
		if experiments.Calls.Get.Times() != 0 {
			t.Error("get is called")
		}
	})
}

func TestCreateExperimentsHandler(t *testing.T) {
	body := `[{"label": "experiment 1", "startDate": "2020-01-01T00:00:00Z", "projects": ["http://example.com/id/project/p1"]}]`

	t.Run("it creates experiments as the user and responds their URIs", func(t *testing.T) {
		experiments := mockexperiment.New()
		experiments.Impl.Create = func(_ context.Context, user kdb.User, xps ...*experiment.Experiment) error {
			if user.URI != alice.URI {
				t.Errorf("unexpected user: %s", user.URI)
			}
			for _, x := range xps {
				x.URI = "http://example.com/id/experiment/experiment_1"
			}
			return nil
		}
		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/rest/core/experiments", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		if err := handlers.CreateExperimentsHandler(experiments)(as(c, alice)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		if experiments.Calls.Create.Times() != 1 {
			t.Fatalf("unexpected calls: %d", experiments.Calls.Create.Times())
		}
		created := experiments.Calls.Create[0]
		if len(created) != 1 || created[0].Label != "experiment 1" ||
			!cmp.Equal(created[0].Projects, []mapper.URI{"http://example.com/id/project/p1"}) {
			t.Errorf("unexpected experiments: %+v", created)
		}
		got := results.Response[any]{}
		if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"http://example.com/id/experiment/experiment_1"}, got.Metadata.Datafiles); diff != "" {
			t.Errorf("unexpected datafiles (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown project is 404", func(t *testing.T) {
		experiments := mockexperiment.New()
		experiments.Impl.Create = func(context.Context, kdb.User, ...*experiment.Experiment) error {
			return sparql.NotFound("http://example.com/id/project/p1")
		}
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/rest/core/experiments", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		err := handlers.CreateExperimentsHandler(experiments)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusNotFound {
			t.Errorf("unexpected status code: %d", code)
		}
	})

	t.Run("empty list is 400", func(t *testing.T) {
		experiments := mockexperiment.New()
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/rest/core/experiments", strings.NewReader(`[]`),
			httptestutil.ContentType("application/json"),
		)
		err := handlers.CreateExperimentsHandler(experiments)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status code: %d", code)
		}
	})
}

func TestUpdateExperimentHandler(t *testing.T) {
	const uri = mapper.URI("http://example.com/id/experiment/x1")
	body := `{"uri": "` + string(uri) + `", "label": "renamed", "startDate": "2020-01-01T00:00:00Z"}`

	t.Run("it updates the experiment as the user", func(t *testing.T) {
		experiments := mockexperiment.New()
		experiments.Impl.Update = func(context.Context, kdb.User, *experiment.Experiment) error { return nil }
		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/rest/core/experiments", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		if err := handlers.UpdateExperimentHandler(experiments)(as(c, alice)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		if experiments.Calls.Update.Times() != 1 {
			t.Fatalf("unexpected calls: %d", experiments.Calls.Update.Times())
		}
		if x := experiments.Calls.Update[0]; x.URI != uri || x.Label != "renamed" {
			t.Errorf("unexpected experiment: %+v", x)
		}
	})

	t.Run("experiment which the user can only read is 403", func(t *testing.T) {
		experiments := mockexperiment.New()
		experiments.Impl.Update = func(context.Context, kdb.User, *experiment.Experiment) error {
			return sparql.Forbidden(uri)
		}
		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/rest/core/experiments", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		err := handlers.UpdateExperimentHandler(experiments)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusForbidden {
			t.Errorf("unexpected status code: %d", code)
		}
	})

	t.Run("without uri, it is 400", func(t *testing.T) {
		experiments := mockexperiment.New()
		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/rest/core/experiments", strings.NewReader(`{"label": "renamed"}`),
			httptestutil.ContentType("application/json"),
		)
		err := handlers.UpdateExperimentHandler(experiments)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status code: %d", code)
		}
		if experiments.Calls.Update.Times() != 0 {
			t.Error("update is called")
		}
	})
}

func TestDeleteExperimentHandler(t *testing.T) {
	const uri = mapper.URI("http://example.com/id/experiment/x1")

	for name, testcase := range map[string]struct {
		err      error
		wantCode int
	}{
		"it deletes the experiment":         {err: nil, wantCode: http.StatusOK},
		"unknown experiment is 404":         {err: sparql.NotFound(uri), wantCode: http.StatusNotFound},
		"experiment of other groups is 403": {err: sparql.Forbidden(uri), wantCode: http.StatusForbidden},
	} {
		t.Run(name, func(t *testing.T) {
			experiments := mockexperiment.New()
			experiments.Impl.Delete = func(context.Context, kdb.User, mapper.URI) error { return testcase.err }
			e := echo.New()
			c, resp := httptestutil.Delete(e, "/rest/core/experiments/x1")
			c.SetParamNames("uri")
			c.SetParamValues(url.PathEscape(string(uri)))
			err := handlers.DeleteExperimentHandler(experiments, "uri")(as(c, alice))

			code := resp.Code
			if err != nil {
				code = statusOf(t, err)
			}
			if code != testcase.wantCode {
				t.Errorf("unexpected status code: actual = %d, expected = %d", code, testcase.wantCode)
			}
			want := []mockexperiment.UserAndURI{{User: alice, URI: uri}}
			if diff := cmp.Diff(want, []mockexperiment.UserAndURI(experiments.Calls.Delete)); diff != "" {
				t.Errorf("unexpected calls (-want +got):\n%s", diff)
			}
		})
	}
}

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/opensilex/phis/cmd/phisd/handlers"
	"github.com/opensilex/phis/pkg/api/types/results"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/variable"
	mockvariable "github.com/opensilex/phis/pkg/domain/variable/mock"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"

	httptestutil "github.com/opensilex/phis/internal/testutils/http"
)

func TestSearchVariablesHandler(t *testing.T) {
	t.Run("it passes query parameters and responds a page", func(t *testing.T) {
		store := mockvariable.New[*variable.Variable]()
		store.Impl.Search = func(_ context.Context, user kdb.User, _ variable.SearchParams) (sparql.ListWithPagination[*variable.Variable], error) {
			if user.URI != alice.URI {
				t.Errorf("unexpected user: %s", user.URI)
			}
			return sparql.ListWithPagination[*variable.Variable]{
				Items: []*variable.Variable{{
					Resource: mapper.Resource{URI: "http://example.com/id/variable/plant_height"},
					Name:     "plant_height",
				}},
				Page: 0, PageSize: 20, Total: 1,
			}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/rest/core/variables?name=height&orderBy=name=asc")
		if err := handlers.SearchVariablesHandler[*variable.Variable](store)(as(c, alice)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		want := []variable.SearchParams{{
			Name:    "height",
			OrderBy: []query.OrderBy{{Field: query.Var("name")}},
		}}
		if diff := cmp.Diff(want, []variable.SearchParams(store.Calls.Search)); diff != "" {
			t.Errorf("unexpected search params (-want +got):\n%s", diff)
		}
		body := results.Response[results.Data[variable.Variable]]{}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if len(body.Result.Data) != 1 || body.Result.Data[0].Name != "plant_height" {
			t.Errorf("unexpected data: %+v", body.Result.Data)
		}
	})

	t.Run("unknown order field is 400", func(t *testing.T) {
		store := mockvariable.New[*variable.Unit]()
		store.Impl.Search = func(context.Context, kdb.User, variable.SearchParams) (sparql.ListWithPagination[*variable.Unit], error) {
			return sparql.ListWithPagination[*variable.Unit]{}, sparql.ErrInvalidOrderField
		}
		e := echo.New()
		c, _ := httptestutil.Get(e, "/rest/core/variables/units?orderBy=weight=desc")
		err := handlers.SearchVariablesHandler[*variable.Unit](store)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status code: %d", code)
		}
	})

	t.Run("without authentication, it is 401", func(t *testing.T) {
		store := mockvariable.New[*variable.Variable]()
		e := echo.New()
		c, _ := httptestutil.Get(e, "/rest/core/variables")
		err := handlers.SearchVariablesHandler[*variable.Variable](store)(c)
		if code := statusOf(t, err); code != http.StatusUnauthorized {
			t.Errorf("unexpected status code: %d", code)
		}
		if store.Calls.Search.Times() != 0 {
			t.Error("search is called")
		}
	})
}

func TestGetVariableHandler(t *testing.T) {
	const uri = mapper.URI("http://example.com/id/variable/entity/plant")

	for name, testcase := range map[string]struct {
		err      error
		wantCode int
	}{
		"it reads URL-encoded URI": {err: nil, wantCode: http.StatusOK},
		"unknown entity is 404":    {err: sparql.NotFound(uri), wantCode: http.StatusNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			store := mockvariable.New[*variable.Entity]()
			store.Impl.Get = func(_ context.Context, _ kdb.User, u mapper.URI) (*variable.Entity, error) {
				if testcase.err != nil {
					return nil, testcase.err
				}
				return &variable.Entity{Resource: mapper.Resource{URI: u}, Name: "plant"}, nil
			}
			e := echo.New()
			c, resp := httptestutil.Get(e, "/rest/core/variables/entities/plant")
			c.SetParamNames("uri")
			c.SetParamValues(url.PathEscape(string(uri)))
			err := handlers.GetVariableHandler[*variable.Entity](store, "uri")(as(c, alice))

			code := resp.Code
			if err != nil {
				code = statusOf(t, err)
			}
			if code != testcase.wantCode {
				t.Errorf("unexpected status code: actual = %d, expected = %d", code, testcase.wantCode)
			}
			want := []mockvariable.UserAndURI{{User: alice, URI: uri}}
			if diff := cmp.Diff(want, []mockvariable.UserAndURI(store.Calls.Get)); diff != "" {
				t.Errorf("unexpected calls (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateVariablesHandler(t *testing.T) {
	body := `[{"name": "plant_height", "entity": "http://example.com/id/variable/entity/plant", "quality": "http://example.com/id/variable/quality/height", "method": "http://example.com/id/variable/method/ruler", "unit": "http://example.com/id/variable/unit/cm"}]`

	t.Run("it creates variables and responds their URIs", func(t *testing.T) {
		store := mockvariable.New[*variable.Variable]()
		store.Impl.Create = func(_ context.Context, _ kdb.User, ms ...*variable.Variable) error {
			for _, m := range ms {
				m.URI = "http://example.com/id/variable/plant_height"
			}
			return nil
		}
		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/rest/core/variables", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		if err := handlers.CreateVariablesHandler[variable.Variable](store)(as(c, alice)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		if store.Calls.Create.Times() != 1 || len(store.Calls.Create[0]) != 1 ||
			store.Calls.Create[0][0].Unit != "http://example.com/id/variable/unit/cm" {
			t.Errorf("unexpected calls: %+v", store.Calls.Create)
		}
		got := results.Response[any]{}
		if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"http://example.com/id/variable/plant_height"}, got.Metadata.Datafiles); diff != "" {
			t.Errorf("unexpected datafiles (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown unit is 404", func(t *testing.T) {
		store := mockvariable.New[*variable.Variable]()
		store.Impl.Create = func(context.Context, kdb.User, ...*variable.Variable) error {
			return sparql.NotFound("http://example.com/id/variable/unit/cm")
		}
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/rest/core/variables", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		err := handlers.CreateVariablesHandler[variable.Variable](store)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusNotFound {
			t.Errorf("unexpected status code: %d", code)
		}
	})

	t.Run("empty list is 400", func(t *testing.T) {
		store := mockvariable.New[*variable.Variable]()
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/rest/core/variables", strings.NewReader(`[]`),
			httptestutil.ContentType("application/json"),
		)
		err := handlers.CreateVariablesHandler[variable.Variable](store)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status code: %d", code)
		}
	})
}

func TestUpdateVariableHandler(t *testing.T) {
	const uri = mapper.URI("http://example.com/id/variable/method/ruler")

	t.Run("it updates the model", func(t *testing.T) {
		store := mockvariable.New[*variable.Method]()
		store.Impl.Update = func(context.Context, kdb.User, *variable.Method) error { return nil }
		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/rest/core/variables/methods", strings.NewReader(`{"uri": "`+string(uri)+`", "name": "ruler"}`),
			httptestutil.ContentType("application/json"),
		)
		if err := handlers.UpdateVariableHandler[variable.Method](store)(as(c, alice)); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		if store.Calls.Update.Times() != 1 || store.Calls.Update[0].URI != uri || store.Calls.Update[0].Name != "ruler" {
			t.Errorf("unexpected calls: %+v", store.Calls.Update)
		}
	})

	t.Run("without uri, it is 400", func(t *testing.T) {
		store := mockvariable.New[*variable.Method]()
		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/rest/core/variables/methods", strings.NewReader(`{"name": "ruler"}`),
			httptestutil.ContentType("application/json"),
		)
		err := handlers.UpdateVariableHandler[variable.Method](store)(as(c, alice))
		if code := statusOf(t, err); code != http.StatusBadRequest {
			t.Errorf("unexpected status code: %d", code)
		}
		if store.Calls.Update.Times() != 0 {
			t.Error("update is called")
		}
	})
}

func TestDeleteVariableHandler(t *testing.T) {
	const uri = mapper.URI("http://example.com/id/variable/unit/cm")

	for name, testcase := range map[string]struct {
		err      error
		wantCode int
	}{
		"it deletes the unit": {err: nil, wantCode: http.StatusOK},
		"unit in use is 409":  {err: sparql.InUse(uri), wantCode: http.StatusConflict},
		"unknown unit is 404": {err: sparql.NotFound(uri), wantCode: http.StatusNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			store := mockvariable.New[*variable.Unit]()
			store.Impl.Delete = func(context.Context, mapper.URI) error { return testcase.err }
			e := echo.New()
			c, resp := httptestutil.Delete(e, "/rest/core/variables/units/cm")
			c.SetParamNames("uri")
			c.SetParamValues(url.PathEscape(string(uri)))
			err := handlers.DeleteVariableHandler[*variable.Unit](store, "uri")(as(c, alice))

			code := resp.Code
			if err != nil {
				code = statusOf(t, err)
			}
			if code != testcase.wantCode {
				t.Errorf("unexpected status code: actual = %d, expected = %d", code, testcase.wantCode)
			}
			if diff := cmp.Diff([]mapper.URI{uri}, []mapper.URI(store.Calls.Delete)); diff != "" {
				t.Errorf("unexpected calls (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("without authentication, it is 401", func(t *testing.T) {
		store := mockvariable.New[*variable.Unit]()
		e := echo.New()
		c, _ := httptestutil.Delete(e, "/rest/core/variables/units/cm")
		c.SetParamNames("uri")
		c.SetParamValues(url.PathEscape(string(uri)))
		err := handlers.DeleteVariableHandler[*variable.Unit](store, "uri")(c)
		if code := statusOf(t, err); code != http.StatusUnauthorized {
			t.Errorf("unexpected status code: %d", code)
		}
		if store.Calls.Delete.Times() != 0 {
			t.Error("delete is called")
		}
	})
}

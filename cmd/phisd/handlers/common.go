package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/conn/mongo"
	"github.com/opensilex/phis/pkg/dateformat"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/file"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/query"
	"github.com/opensilex/phis/pkg/utils"
)

// HTTPError converts errors from domains into responses.
//
// Errors which are already *echo.HTTPError are returned as they are.
func HTTPError(err error) error {
	if err == nil {
		return nil
	}
	if he := new(echo.HTTPError); errors.As(err, &he) {
		return he
	}
	if ce := new(results.CheckError); errors.As(err, &ce) {
		return ce.HTTPError()
	}

	var ue *sparql.URIError
	see := ""
	if errors.As(err, &ue) {
		see = string(ue.URI)
	}
	switch {
	case errors.Is(err, sparql.ErrNotFoundURI), errors.Is(err, kdb.ErrMissing):
		return apierr.NewErrorMessage(http.StatusNotFound, "not found", apierr.WithSee(see), apierr.WithError(err))
	case errors.Is(err, sparql.ErrForbiddenURIAccess):
		return apierr.NewErrorMessage(
			http.StatusForbidden, "You cannot access this resource.",
			apierr.WithSee(see), apierr.WithError(err),
		)
	case errors.Is(err, sparql.ErrAlreadyExists):
		return apierr.Conflict("already exists", apierr.WithSee(see), apierr.WithError(err))
	case errors.Is(err, sparql.ErrInUse):
		return apierr.Conflict("in use", apierr.WithSee(see), apierr.WithError(err))
	case errors.Is(err, kdb.ErrConflict), errors.Is(err, mongo.ErrDuplicated):
		return apierr.Conflict("conflict", apierr.WithError(err))
	case errors.Is(err, sparql.ErrRequired),
		errors.Is(err, sparql.ErrInvalidType),
		errors.Is(err, sparql.ErrInvalidOrderField),
		errors.Is(err, file.ErrInvalidFilter),
		errors.Is(err, file.ErrNotImage),
		errors.As(err, new(dateformat.ErrInvalidDate)):
		return apierr.BadRequest(err.Error(), err)
	case errors.Is(err, security.ErrInvalidCredentials):
		return apierr.Unauthorized("invalid credentials", err)
	}
	return apierr.InternalServerError(err)
}

// Pagination reads "page" and "pageSize" query parameters.
//
// Missing parameters are 0; pageSize 0 means the default size.
func Pagination(c echo.Context) (page int, pageSize int, err error) {
	page, err = intParam(c, "page")
	if err != nil {
		return 0, 0, err
	}
	pageSize, err = intParam(c, "pageSize")
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func intParam(c echo.Context, name string) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, apierr.BadRequest(name+" should be a non-negative integer", err)
	}
	return n, nil
}

func boolParam(c echo.Context, name string) (*bool, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, apierr.BadRequest(name+" should be true or false", err)
	}
	return &b, nil
}

// dateParam reads a date or date-time query parameter.
// Plain dates are the end of the day when isEndDate.
func dateParam(c echo.Context, name string, isEndDate bool) (*time.Time, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	t, err := dateformat.ParseDateOrDateTime(s, isEndDate)
	if err != nil {
		return nil, apierr.BadRequest(name+" should be a date (yyyy-MM-dd) or a date-time", err)
	}
	return &t, nil
}

// uriParam reads an URL-encoded URI from the path.
func uriParam(c echo.Context, name string) (mapper.URI, error) {
	raw := c.Param(name)
	u, err := url.PathUnescape(raw)
	if err != nil || u == "" {
		return "", apierr.BadRequest(name+" should be an URL-encoded URI", err)
	}
	return mapper.URI(u), nil
}

// uriList reads a query parameter which may be repeated or comma separated.
func uriList(c echo.Context, name string) []mapper.URI {
	uris := []mapper.URI{}
	for _, v := range c.QueryParams()[name] {
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				uris = append(uris, mapper.URI(u))
			}
		}
	}
	return uris
}

// orderBy reads "orderBy" like "label=asc,startDate=desc".
func orderBy(c echo.Context) []query.OrderBy {
	obs := []query.OrderBy{}
	for _, v := range strings.Split(c.QueryParam("orderBy"), ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(v), "=")
		if field == "" {
			continue
		}
		obs = append(obs, query.OrderBy{
			Field: query.Var(field), Desc: strings.EqualFold(dir, "desc"),
		})
	}
	return obs
}

// lang is the "lang" query parameter, or the language of the user.
func lang(c echo.Context) string {
	if l := c.QueryParam("lang"); l != "" {
		return l
	}
	if u, ok := security.UserOf(c); ok {
		return u.Language
	}
	return ""
}

// bindJSON decodes the request body into v.
func bindJSON(c echo.Context, v any) error {
	req := c.Request()
	if ctyp := strings.ToLower(req.Header.Get(echo.HeaderContentType)); !strings.HasPrefix(ctyp, echo.MIMEApplicationJSON) {
		return apierr.BadRequest("unexpected content type. it should be application/json", nil)
	}
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return apierr.BadRequest("can not understand the requested json", err)
	}
	return nil
}

func respondList[T any](c echo.Context, l sparql.ListWithPagination[T]) error {
	return c.JSON(http.StatusOK, results.List(l.Items, l.Page, l.PageSize, l.Total))
}

func respondCreated(c echo.Context, uris []mapper.URI) error {
	return c.JSON(http.StatusCreated, results.Created(
		utils.Map(uris, mapper.URI.String),
		results.Info("Resources created", strconv.Itoa(len(uris))+" resources created"),
	))
}

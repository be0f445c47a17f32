package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/ontology"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/tree"
	"github.com/opensilex/phis/pkg/utils/pointer"
)

// SubClassesHandler responds the tree of subclasses of "parentType" query.
func SubClassesHandler(onto ontology.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		parent := mapper.URI(c.QueryParam("parentType"))
		if parent == "" {
			return apierr.BadRequest("parentType is required", nil)
		}
		excludeRoot, err := boolParam(c, "ignoreRootClasses")
		if err != nil {
			return err
		}
		t, err := onto.SearchSubClasses(c.Request().Context(), parent, pointer.SafeDeref(excludeRoot), lang(c))
		if err != nil {
			return HTTPError(err)
		}
		dtos := tree.ToDTO(t, false)
		return c.JSON(http.StatusOK, results.List(dtos, 0, len(dtos), len(dtos)))
	}
}

type URILabels struct {
	URI    mapper.URI `json:"uri"`
	Labels []string   `json:"labels"`
}

// LabelsHandler responds resources whose labels match "label" query, ordered by URI.
func LabelsHandler(onto ontology.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		label := c.QueryParam("label")
		if label == "" {
			return apierr.BadRequest("label is required", nil)
		}
		found, err := onto.SearchLabels(c.Request().Context(), label, mapper.URI(c.QueryParam("rdfType")))
		if err != nil {
			return HTTPError(err)
		}
		items := make([]URILabels, 0, len(found))
		for u, ls := range found {
			items = append(items, URILabels{URI: u, Labels: ls})
		}
		sort.Slice(items, func(i, j int) bool { return items[i].URI < items[j].URI })
		return c.JSON(http.StatusOK, results.List(items, 0, len(items), len(items)))
	}
}

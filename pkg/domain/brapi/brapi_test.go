package brapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opensilex/phis/pkg/domain/brapi"
	"github.com/opensilex/phis/pkg/domain/variable"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

type traitsFunc func(ctx context.Context, traitURI mapper.URI, page, pageSize int) ([]variable.Trait, int, error)

func (f traitsFunc) Traits(ctx context.Context, traitURI mapper.URI, page, pageSize int) ([]variable.Trait, int, error) {
	return f(ctx, traitURI, page, pageSize)
}

func TestCalls(t *testing.T) {
	testee := brapi.New(nil)

	for name, testcase := range map[string]struct {
		datatype string
		expected []string
	}{
		"all":         {expected: []string{"calls", "traits", "traits/{traitDbId}"}},
		"json":        {datatype: "json", expected: []string{"calls", "traits", "traits/{traitDbId}"}},
		"unsupported": {datatype: "csv", expected: []string{}},
	} {
		t.Run(name, func(t *testing.T) {
			got := []string{}
			for _, c := range testee.Calls(testcase.datatype) {
				got = append(got, c.Call)
			}
			if diff := cmp.Diff(testcase.expected, got); diff != "" {
				t.Errorf("calls (-expected, +actual) = %s", diff)
			}
		})
	}
}

func TestTrait(t *testing.T) {
	trait := variable.Trait{
		URI: "http://example.com/trait/height", Name: "height",
		Variables: []mapper.URI{"http://example.com/demo/id/variable/v1"},
	}
	testee := brapi.New(traitsFunc(func(ctx context.Context, traitURI mapper.URI, page, pageSize int) ([]variable.Trait, int, error) {
		if traitURI == trait.URI {
			return []variable.Trait{trait}, 1, nil
		}
		return []variable.Trait{}, 0, nil
	}))

	got, err := testee.Trait(context.Background(), trait.URI)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(trait, got); diff != "" {
		t.Errorf("trait (-expected, +actual) = %s", diff)
	}

	if _, err := testee.Trait(context.Background(), "http://example.com/trait/none"); !errors.Is(err, sparql.ErrNotFoundURI) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTraits(t *testing.T) {
	testee := brapi.New(traitsFunc(func(ctx context.Context, traitURI mapper.URI, page, pageSize int) ([]variable.Trait, int, error) {
		if traitURI != "" || page != 1 || pageSize != 2 {
			t.Errorf("unexpected args: %q, %d, %d", traitURI, page, pageSize)
		}
		return []variable.Trait{{URI: "http://example.com/trait/c"}}, 3, nil
	}))

	got, err := testee.Traits(context.Background(), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 3 || got.TotalPages() != 2 || len(got.Items) != 1 {
		t.Errorf("unexpected page: %+v", got)
	}
}

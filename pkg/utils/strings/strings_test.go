package strings_test

import (
	"testing"

	kstr "github.com/opensilex/phis/pkg/utils/strings"
)

func TestLocalName(t *testing.T) {
	for iri, expected := range map[string]string{
		"http://www.opensilex.org/vocabulary/oeso#HemisphericalImage": "HemisphericalImage",
		"http://example.com/id/files/f1":                              "f1",
		"f1":                                                          "f1",
		"http://example.com/ns#":                                      "",
	} {
		if got := kstr.LocalName(iri); got != expected {
			t.Errorf("LocalName(%s) = %s, expected %s", iri, got, expected)
		}
	}
}

package strings

import (
	"strings"
)

// LocalName returns the part of an IRI after its last '#', or after its last '/'
// when it has no fragment.
//
// example:
//
//	LocalName("http://www.opensilex.org/vocabulary/oeso#HemisphericalImage") // -> "HemisphericalImage"
//	LocalName("http://example.com/id/files/f1")                              // -> "f1"
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); 0 <= i {
		return iri[i+1:]
	}
	return iri[strings.LastIndex(iri, "/")+1:]
}

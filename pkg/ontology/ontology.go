// Package ontology declares IRIs of the vocabularies used by phis.
package ontology

import "strings"

const (
	OESO      = "http://www.opensilex.org/vocabulary/oeso#"
	RDF       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS      = "http://www.w3.org/2000/01/rdf-schema#"
	OWL       = "http://www.w3.org/2002/07/owl#"
	XSD       = "http://www.w3.org/2001/XMLSchema#"
	DCTerms   = "http://purl.org/dc/terms/"
	FOAF      = "http://xmlns.com/foaf/0.1/"
	OA        = "http://www.w3.org/ns/oa#"
	SHACL     = "http://www.w3.org/ns/shacl#"
	Time      = "http://www.w3.org/2006/time#"
	GeoSPARQL = "http://www.opengis.net/ont/geosparql#"
)

// Prefixes returns the prefix declarations used in queries, keyed by prefix name.
func Prefixes() map[string]string {
	return map[string]string{
		"oeso":    OESO,
		"rdf":     RDF,
		"rdfs":    RDFS,
		"owl":     OWL,
		"xsd":     XSD,
		"dcterms": DCTerms,
		"foaf":    FOAF,
		"oa":      OA,
		"sh":      SHACL,
		"time":    Time,
		"geo":     GeoSPARQL,
	}
}

// Expand replaces known prefix of a prefixed name (like "oeso:Project") with its namespace.
//
// Full IRIs and unknown prefixes are returned as they are.
func Expand(name string) string {
	pfx, local, ok := strings.Cut(name, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return name
	}
	if ns, ok := Prefixes()[pfx]; ok {
		return ns + local
	}
	return name
}

// Compact is the reverse of Expand. IRIs out of known namespaces are returned as they are.
func Compact(iri string) string {
	best, bestNs := "", ""
	for pfx, ns := range Prefixes() {
		if strings.HasPrefix(iri, ns) && len(bestNs) < len(ns) {
			best, bestNs = pfx, ns
		}
	}
	if bestNs == "" {
		return iri
	}
	return best + ":" + strings.TrimPrefix(iri, bestNs)
}

// Package query builds SPARQL queries and updates from typed parts.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/opensilex/phis/pkg/ontology"
)

// Term is a RDF term or a variable in a query.
type Term interface {
	// SPARQL representation
	String() string
}

// IRI is an absolute IRI. It is rendered as <iri>.
type IRI string

func (i IRI) String() string {
	return "<" + string(i) + ">"
}

// Var is a query variable, named without '?'.
type Var string

func (v Var) String() string {
	return "?" + string(v)
}

func (v Var) projection() string {
	return v.String()
}

// Path is a property path written in SPARQL syntax, like `rdf:type/rdfs:subClassOf*`.
//
// Prefixed names in Path must be declared with (*Select).Prefix or known by ontology.Prefixes.
type Path string

func (p Path) String() string {
	return string(p)
}

// `a`, shorthand of rdf:type
const A = Path("a")

// rdf:type/rdfs:subClassOf*
func TypeOrSubType() Path {
	return Path("<" + ontology.RDFType + ">/<" + ontology.RDFSSubClassOf + ">*")
}

// rdfs:subClassOf*
func SubClassOfStar() Path {
	return Path("<" + ontology.RDFSSubClassOf + ">*")
}

// ^iri
func Inverse(i IRI) Path {
	return Path("^" + i.String())
}

type ErrInvalidIRI struct {
	IRI string
}

func (e ErrInvalidIRI) Error() string {
	return fmt.Sprintf("invalid IRI: %q", e.IRI)
}

// ParseIRI checks s can be an IRIREF.
//
// Empty, relative (without scheme) or IRIs containing <>"{}|^` \ or spaces are rejected.
func ParseIRI(s string) (IRI, error) {
	if s == "" || strings.ContainsAny(s, "<>\"{}|^`\\ \t\r\n") {
		return "", ErrInvalidIRI{IRI: s}
	}
	scheme, _, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return "", ErrInvalidIRI{IRI: s}
	}
	for i, r := range scheme {
		alpha := ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		if i == 0 && !alpha {
			return "", ErrInvalidIRI{IRI: s}
		}
		if !alpha && !('0' <= r && r <= '9') && r != '+' && r != '-' && r != '.' {
			return "", ErrInvalidIRI{IRI: s}
		}
	}
	return IRI(s), nil
}

// IRIs converts strings to IRIs without validation.
func IRIs[S ~string](ss []S) []Term {
	ts := make([]Term, len(ss))
	for i := range ss {
		ts[i] = IRI(ss[i])
	}
	return ts
}

// BNode is a blank node label, rendered as _:label.
type BNode string

func (b BNode) String() string {
	return "_:" + string(b)
}

type literal struct {
	value    string
	lang     string
	datatype string
}

func (l literal) String() string {
	s := `"` + escape(l.value) + `"`
	if l.lang != "" {
		return s + "@" + l.lang
	}
	if l.datatype != "" {
		return s + "^^" + IRI(l.datatype).String()
	}
	return s
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escape(s string) string {
	return escaper.Replace(s)
}

// plain string literal
func Literal(s string) Term {
	return literal{value: s}
}

func LangLiteral(s string, lang string) Term {
	return literal{value: s, lang: lang}
}

func TypedLiteral(s string, datatype string) Term {
	return literal{value: s, datatype: datatype}
}

// xsd:date literal of t's date (in t's location).
func DateLiteral(t time.Time) Term {
	return TypedLiteral(t.Format(time.DateOnly), ontology.XSDDate)
}

// xsd:dateTime literal
func DateTimeLiteral(t time.Time) Term {
	return TypedLiteral(t.Format(time.RFC3339), ontology.XSDDateTime)
}

func IntLiteral(i int) Term {
	return TypedLiteral(strconv.Itoa(i), ontology.XSDInteger)
}

func BoolLiteral(b bool) Term {
	return TypedLiteral(strconv.FormatBool(b), ontology.XSDBoolean)
}

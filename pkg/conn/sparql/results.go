package sparql

import (
	"encoding/json"
	"io"

	xe "github.com/opensilex/phis/pkg/errors"
)

const (
	TermURI     = "uri"
	TermLiteral = "literal"
	TermBNode   = "bnode"
)

// Term is a RDF term bound to a variable in query results.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

func (t Term) IsURI() bool {
	return t.Type == TermURI
}

// Binding maps variable names (without '?') to bound terms.
//
// Unbound variables are absent.
type Binding map[string]Term

// Value returns the lexical value of the named variable, and whether it is bound.
func (b Binding) Value(name string) (string, bool) {
	t, ok := b[name]
	if !ok {
		return "", false
	}
	return t.Value, true
}

// Results of SELECT query.
type Results struct {
	Vars     []string
	Bindings []Binding
}

// Values collects the values bound to a variable in all bindings, skipping unbound ones.
func (r *Results) Values(name string) []string {
	if r == nil {
		return nil
	}
	vals := make([]string, 0, len(r.Bindings))
	for _, b := range r.Bindings {
		if v, ok := b.Value(name); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// application/sparql-results+json
type resultsJSON struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results,omitempty"`
	Boolean *bool `json:"boolean,omitempty"`
}

func decodeResults(r io.Reader) (*resultsJSON, error) {
	doc := resultsJSON{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, xe.Wrap(err)
	}
	if doc.Results != nil {
		for _, b := range doc.Results.Bindings {
			for k, t := range b {
				// SPARQL 1.0 JSON results of older servers
				if t.Type == "typed-literal" {
					t.Type = TermLiteral
					b[k] = t
				}
			}
		}
	}
	return &doc, nil
}

func parseSelect(r io.Reader) (*Results, error) {
	doc, err := decodeResults(r)
	if err != nil {
		return nil, err
	}
	res := &Results{Vars: doc.Head.Vars, Bindings: []Binding{}}
	if doc.Results != nil {
		res.Bindings = doc.Results.Bindings
	}
	return res, nil
}

func parseAsk(r io.Reader) (bool, error) {
	doc, err := decodeResults(r)
	if err != nil {
		return false, err
	}
	if doc.Boolean == nil {
		return false, xe.WrapWithNote("response has no boolean", ErrRepository)
	}
	return *doc.Boolean, nil
}

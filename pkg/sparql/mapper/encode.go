package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql/query"
)

var ErrRequired = errors.New("required field is missing")

// RequiredError tells which fields are missing. It unwraps to ErrRequired.
type RequiredError struct {
	URI    URI
	Fields []string
}

func (e *RequiredError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("%s: %s", ErrRequired, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s (of %s)", ErrRequired, strings.Join(e.Fields, ", "), e.URI)
}

func (e *RequiredError) Unwrap() error {
	return ErrRequired
}

func (ix *Index) value(m Model, f Field) reflect.Value {
	return reflect.ValueOf(m).Elem().FieldByIndex(f.index)
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice:
		return v.IsNil() || (v.Kind() == reflect.Slice && v.Len() == 0)
	case reflect.String:
		return v.Len() == 0
	case reflect.Struct:
		if t, ok := v.Interface().(time.Time); ok {
			return t.IsZero()
		}
	}
	return false
}

// Validate reports missing required fields.
func (ix *Index) Validate(m Model) error {
	missing := []string{}
	for _, f := range ix.Fields {
		if f.Required && isEmpty(ix.value(m, f)) {
			missing = append(missing, string(f.Var))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &RequiredError{URI: m.Res().URI, Fields: missing}
}

func (f Field) term(v reflect.Value, lang string) query.Term {
	switch f.Kind {
	case KindURI:
		return query.IRI(v.String())
	case KindString:
		if f.Lang && lang != "" {
			return query.LangLiteral(v.String(), lang)
		}
		return query.Literal(v.String())
	case KindInt:
		return query.IntLiteral(int(v.Int()))
	case KindBool:
		return query.BoolLiteral(v.Bool())
	case KindTime:
		t := v.Interface().(time.Time)
		if f.Date {
			return query.DateLiteral(t)
		}
		return query.DateTimeLiteral(t)
	}
	panic(fmt.Sprintf("mapper: unknown kind %s", f.Kind))
}

// Terms returns the values of field f as RDF terms. Empty field gives no terms.
func (ix *Index) Terms(m Model, f Field, lang string) []query.Term {
	v := ix.value(m, f)
	if isEmpty(v) {
		return nil
	}
	switch {
	case f.List:
		ts := make([]query.Term, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if e := v.Index(i); e.Len() != 0 {
				ts = append(ts, f.term(e, lang))
			}
		}
		return ts
	case f.Pointer:
		return []query.Term{f.term(v.Elem(), lang)}
	}
	return []query.Term{f.term(v, lang)}
}

// TypeOf is the rdf:type of m: its own Type, or the class type.
func (ix *Index) TypeOf(m Model) URI {
	if t := m.Res().Type; t != "" {
		return t
	}
	return URI(ix.Class.Type)
}

// Triples are all triples describing m: its rdf:type and every non-empty field.
//
// Language-tagged fields are tagged with lang.
func (ix *Index) Triples(m Model, lang string) []query.Triple {
	s := m.Res().URI.IRI()
	ts := []query.Triple{
		query.T(s, query.IRI(ontology.RDFType), ix.TypeOf(m).IRI()),
	}
	for _, f := range ix.Fields {
		p := query.IRI(f.Property)
		for _, o := range ix.Terms(m, f, lang) {
			if f.Inverse {
				ts = append(ts, query.T(o, p, s))
			} else {
				ts = append(ts, query.T(s, p, o))
			}
		}
	}
	return ts
}

// DeleteTemplate appends operations to u which remove the rdf:type and
// all mapped properties of the resource from graph, or from any graph when graph is empty.
func (ix *Index) DeleteTemplate(u *query.Update, uri URI, graph URI) *query.Update {
	s := uri.IRI()
	p, o := query.Var("p"), query.Var("o")

	forward := []query.Term{query.IRI(ontology.RDFType)}
	backward := []query.Term{}
	for _, f := range ix.Fields {
		if f.Inverse {
			backward = append(backward, query.IRI(f.Property))
		} else {
			forward = append(forward, query.IRI(f.Property))
		}
	}

	var g query.Term = graph.IRI()
	if graph == "" {
		g = query.Var("g")
	}
	in := func(ps ...query.Pattern) []query.Pattern {
		return []query.Pattern{query.Graph(g, ps...)}
	}

	fw := query.T(s, p, o)
	u.DeleteInsertWhere(in(fw), nil, in(fw, query.Filter(query.In(p, forward...)))...)
	if len(backward) != 0 {
		bw := query.T(o, p, s)
		u.DeleteInsertWhere(in(bw), nil, in(bw, query.Filter(query.In(p, backward...)))...)
	}
	return u
}

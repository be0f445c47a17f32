// Package mapper maps Go structs to RDF resources, driven by `sparql` struct tags.
//
// A model is a struct embedding Resource and implementing Class:
//
//	type Project struct {
//		mapper.Resource
//		Label     string    `json:"label" sparql:"rdfs:label,required,lang"`
//		Shortname string    `json:"shortname" sparql:"oeso:hasShortname"`
//		StartDate time.Time `json:"startDate" sparql:"oeso:startDate,required,date"`
//		Keywords  []string  `json:"keywords" sparql:"oeso:hasKeyword"`
//	}
//
//	func (*Project) Class() mapper.ClassInfo { ... }
//
// Tag options are
//
//   - required: the field must have a value.
//   - lang: the literal is language-tagged.
//   - inverse: the triple is `?value <property> ?uri`.
//   - date: time is xsd:date, not xsd:dateTime.
//
// Variable names in queries are the json names of fields (or the field name in lower camel case).
package mapper

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql/query"
)

// URI of resource.
type URI string

func (u URI) IRI() query.IRI {
	return query.IRI(u)
}

func (u URI) String() string {
	return string(u)
}

// Resource is the identity of a model.
type Resource struct {
	URI       URI    `json:"uri"`
	Type      URI    `json:"rdfType,omitempty"`
	TypeLabel string `json:"rdfTypeName,omitempty"`
}

// Res returns itself. Models get this by embedding Resource.
func (r *Resource) Res() *Resource {
	return r
}

type ClassInfo struct {
	// rdf:type of instances
	Type string

	// named graph, relative to the base URI or absolute
	Graph string

	// path segment of generated URIs
	Prefix string
}

type Model interface {
	Class() ClassInfo
	Res() *Resource
}

// Model implementing Segmenter has URIs generated from its segments.
type Segmenter interface {
	URISegments() []string
}

// Model implementing GraphSelector is stored in the returned graph instead of the class graph,
// when it is not empty.
type GraphSelector interface {
	InstanceGraph() URI
}

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindTime
	KindURI
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindURI:
		return "uri"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is a mapped struct field.
type Field struct {
	Name     string
	Var      query.Var
	Property string
	Kind     Kind
	Pointer  bool
	List     bool
	Required bool
	Lang     bool
	Inverse  bool
	Date     bool

	index []int
}

// Datatype is the xsd datatype of typed literal fields. URIs and strings have none.
func (f Field) Datatype() string {
	switch f.Kind {
	case KindInt:
		return ontology.XSDInteger
	case KindBool:
		return ontology.XSDBoolean
	case KindTime:
		if f.Date {
			return ontology.XSDDate
		}
		return ontology.XSDDateTime
	}
	return ""
}

// Index is the mapping of a model type.
type Index struct {
	Class  ClassInfo
	Fields []Field
	typ    reflect.Type
	byVar  map[query.Var]int
}

// Field looks up field by its variable name.
func (ix *Index) Field(v query.Var) (Field, bool) {
	i, ok := ix.byVar[v]
	if !ok {
		return Field{}, false
	}
	return ix.Fields[i], true
}

// Singles are fields having at most one value.
func (ix *Index) Singles() []Field {
	fs := []Field{}
	for _, f := range ix.Fields {
		if !f.List {
			fs = append(fs, f)
		}
	}
	return fs
}

// Lists are fields having multiple values.
func (ix *Index) Lists() []Field {
	fs := []Field{}
	for _, f := range ix.Fields {
		if f.List {
			fs = append(fs, f)
		}
	}
	return fs
}

// Type is the model struct type.
func (ix *Index) Type() reflect.Type {
	return ix.typ
}

var indexes sync.Map // reflect.Type -> *Index

// PModel is a pointer to model struct T.
type PModel[T any] interface {
	*T
	Model
}

// For returns the index of model T.
//
// It panics when T has malformed tags.
func For[T any, P PModel[T]]() *Index {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if ix, ok := indexes.Load(typ); ok {
		return ix.(*Index)
	}
	ix, err := build(typ, P(new(T)).Class())
	if err != nil {
		panic(err)
	}
	actual, _ := indexes.LoadOrStore(typ, ix)
	return actual.(*Index)
}

var (
	typeResource = reflect.TypeOf(Resource{})
	typeURI      = reflect.TypeOf(URI(""))
	typeTime     = reflect.TypeOf(time.Time{})
)

func build(typ reflect.Type, class ClassInfo) (*Index, error) {
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("mapper: %s is not a struct", typ)
	}
	ix := &Index{Class: class, typ: typ, byVar: map[query.Var]int{}}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.Type == typeResource {
			continue
		}
		tag, ok := sf.Tag.Lookup("sparql")
		if !ok || tag == "-" {
			continue
		}
		f, err := parseField(sf, tag)
		if err != nil {
			return nil, fmt.Errorf("mapper: %s.%s: %w", typ, sf.Name, err)
		}
		switch f.Var {
		case "uri", "rdfType", "rdfTypeName", "value", "count":
			return nil, fmt.Errorf("mapper: %s.%s: variable name %s is reserved", typ, sf.Name, f.Var)
		}
		if _, dup := ix.byVar[f.Var]; dup {
			return nil, fmt.Errorf("mapper: %s.%s: duplicated variable name %s", typ, sf.Name, f.Var)
		}
		ix.byVar[f.Var] = len(ix.Fields)
		ix.Fields = append(ix.Fields, f)
	}
	return ix, nil
}

func parseField(sf reflect.StructField, tag string) (Field, error) {
	parts := strings.Split(tag, ",")
	f := Field{
		Name:     sf.Name,
		Var:      query.Var(varName(sf)),
		Property: ontology.Expand(strings.TrimSpace(parts[0])),
		index:    sf.Index,
	}
	if _, err := query.ParseIRI(f.Property); err != nil {
		return f, err
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "required":
			f.Required = true
		case "lang":
			f.Lang = true
		case "inverse":
			f.Inverse = true
		case "date":
			f.Date = true
		default:
			return f, fmt.Errorf("unknown option %q", opt)
		}
	}

	t := sf.Type
	switch t.Kind() {
	case reflect.Pointer:
		f.Pointer = true
		t = t.Elem()
	case reflect.Slice:
		f.List = true
		t = t.Elem()
	}
	switch {
	case t == typeURI:
		f.Kind = KindURI
	case t == typeTime:
		f.Kind = KindTime
	case t.Kind() == reflect.String:
		f.Kind = KindString
	case t.Kind() == reflect.Int && !f.List:
		f.Kind = KindInt
	case t.Kind() == reflect.Bool && !f.List:
		f.Kind = KindBool
	default:
		return f, fmt.Errorf("unsupported type %s", sf.Type)
	}
	if f.List && f.Kind != KindString && f.Kind != KindURI {
		return f, fmt.Errorf("unsupported type %s", sf.Type)
	}
	if f.Lang && f.Kind != KindString {
		return f, fmt.Errorf("lang option on non-string field")
	}
	if f.Inverse && f.Kind != KindURI {
		return f, fmt.Errorf("inverse option on non-URI field")
	}
	if f.Date && f.Kind != KindTime {
		return f, fmt.Errorf("date option on non-time field")
	}
	return f, nil
}

func varName(sf reflect.StructField) string {
	if j, ok := sf.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(j, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	r, size := utf8.DecodeRuneInString(sf.Name)
	return string(unicode.ToLower(r)) + sf.Name[size:]
}

package mapper

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/opensilex/phis/pkg/conn/sparql"
)

var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02Z07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseTime parses lexical forms of xsd:date and xsd:dateTime.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func (f Field) parse(s string) (reflect.Value, error) {
	switch f.Kind {
	case KindURI:
		return reflect.ValueOf(URI(s)), nil
	case KindString:
		return reflect.ValueOf(s), nil
	case KindInt:
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(i), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil
	case KindTime:
		t, err := ParseTime(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	}
	return reflect.Value{}, fmt.Errorf("mapper: unknown kind %s", f.Kind)
}

// Set sets the value s (lexical form) to single-valued field f of m.
func (ix *Index) Set(m Model, f Field, s string) error {
	val, err := f.parse(s)
	if err != nil {
		return fmt.Errorf("mapper: %s: %w", f.Var, err)
	}
	dest := ix.value(m, f)
	if f.Pointer {
		p := reflect.New(dest.Type().Elem())
		p.Elem().Set(val.Convert(dest.Type().Elem()))
		dest.Set(p)
		return nil
	}
	dest.Set(val.Convert(dest.Type()))
	return nil
}

// Append appends the value s to list field f of m, unless it is already there.
func (ix *Index) Append(m Model, f Field, s string) error {
	dest := ix.value(m, f)
	for i := 0; i < dest.Len(); i++ {
		if dest.Index(i).String() == s {
			return nil
		}
	}
	val, err := f.parse(s)
	if err != nil {
		return fmt.Errorf("mapper: %s: %w", f.Var, err)
	}
	dest.Set(reflect.Append(dest, val.Convert(dest.Type().Elem())))
	return nil
}

// Decode fills m with a binding of the select query of the index.
//
// List fields are left untouched.
func (ix *Index) Decode(m Model, b sparql.Binding) error {
	r := m.Res()
	if v, ok := b.Value("uri"); ok {
		r.URI = URI(v)
	}
	if v, ok := b.Value("rdfType"); ok {
		r.Type = URI(v)
	}
	if v, ok := b.Value("rdfTypeName"); ok {
		r.TypeLabel = v
	}
	for _, f := range ix.Fields {
		if f.List {
			continue
		}
		v, ok := b.Value(string(f.Var))
		if !ok {
			continue
		}
		if err := ix.Set(m, f, v); err != nil {
			return err
		}
	}
	return nil
}

package mock

import (
	"context"
	"errors"

	"github.com/opensilex/phis/pkg/db/mocks"
	"github.com/opensilex/phis/pkg/domain/ontology"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/tree"
)

type URIAndLang struct {
	URI  mapper.URI
	Lang string
}

type SubClassesArgs struct {
	Parent      mapper.URI
	ExcludeRoot bool
	Lang        string
}

type LabelsArgs struct {
	Label   string
	RDFType mapper.URI
}

type MockOntology struct {
	Impl struct {
		GetClass         func(ctx context.Context, uri mapper.URI, lang string) (*ontology.ClassModel, error)
		SearchSubClasses func(ctx context.Context, parent mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error)
		SearchLabels     func(ctx context.Context, label string, rdfType mapper.URI) (map[mapper.URI][]string, error)
	}
	Calls struct {
		GetClass         mocks.CallLog[URIAndLang]
		SearchSubClasses mocks.CallLog[SubClassesArgs]
		SearchLabels     mocks.CallLog[LabelsArgs]
	}
}

var _ ontology.Interface = &MockOntology{}

func New() *MockOntology {
	return &MockOntology{}
}

func (m *MockOntology) GetClass(ctx context.Context, uri mapper.URI, lang string) (*ontology.ClassModel, error) {
	m.Calls.GetClass = append(m.Calls.GetClass, URIAndLang{URI: uri, Lang: lang})
	if m.Impl.GetClass != nil {
		return m.Impl.GetClass(ctx, uri, lang)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockOntology) SearchSubClasses(ctx context.Context, parent mapper.URI, excludeRoot bool, lang string) (*tree.Tree, error) {
	m.Calls.SearchSubClasses = append(m.Calls.SearchSubClasses, SubClassesArgs{Parent: parent, ExcludeRoot: excludeRoot, Lang: lang})
	if m.Impl.SearchSubClasses != nil {
		return m.Impl.SearchSubClasses(ctx, parent, excludeRoot, lang)
	}
	panic(errors.New("it should no be called"))
}

func (m *MockOntology) SearchLabels(ctx context.Context, label string, rdfType mapper.URI) (map[mapper.URI][]string, error) {
	m.Calls.SearchLabels = append(m.Calls.SearchLabels, LabelsArgs{Label: label, RDFType: rdfType})
	if m.Impl.SearchLabels != nil {
		return m.Impl.SearchLabels(ctx, label, rdfType)
	}
	panic(errors.New("it should no be called"))
}

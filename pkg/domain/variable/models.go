package variable

import (
	"github.com/opensilex/phis/pkg/ontology"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

const graph = "variable"

// Variable is a measured trait: an entity, its quality, the method and the unit.
type Variable struct {
	mapper.Resource
	Name      string     `json:"name" sparql:"rdfs:label,required"`
	Comment   string     `json:"comment,omitempty" sparql:"rdfs:comment"`
	LongName  string     `json:"longName,omitempty" sparql:"oeso:hasLongName"`
	Synonym   string     `json:"synonym,omitempty" sparql:"oeso:hasSynonym"`
	Entity    mapper.URI `json:"entity" sparql:"oeso:hasEntity,required"`
	Quality   mapper.URI `json:"quality" sparql:"oeso:hasQuality,required"`
	Method    mapper.URI `json:"method" sparql:"oeso:hasMethod,required"`
	Unit      mapper.URI `json:"unit" sparql:"oeso:hasUnit,required"`
	TraitURI  mapper.URI `json:"traitUri,omitempty" sparql:"oeso:hasTraitUri"`
	TraitName string     `json:"traitName,omitempty" sparql:"oeso:hasTraitName"`
	Dimension string     `json:"dimension,omitempty" sparql:"oeso:hasDimension"`
}

func (*Variable) Class() mapper.ClassInfo {
	return mapper.ClassInfo{Type: ontology.OESOVariable, Graph: graph, Prefix: "variable"}
}

func (v *Variable) URISegments() []string { return []string{v.Name} }

// Entity is what is observed (a plant, a leaf, the soil...).
type Entity struct {
	mapper.Resource
	Name    string `json:"name" sparql:"rdfs:label,required"`
	Comment string `json:"comment,omitempty" sparql:"rdfs:comment"`
}

func (*Entity) Class() mapper.ClassInfo {
	return mapper.ClassInfo{Type: ontology.OESOEntity, Graph: graph, Prefix: "variable/entity"}
}

func (e *Entity) URISegments() []string { return []string{e.Name} }

// Quality is the observed characteristic of an entity (height, color...).
type Quality struct {
	mapper.Resource
	Name    string `json:"name" sparql:"rdfs:label,required"`
	Comment string `json:"comment,omitempty" sparql:"rdfs:comment"`
}

func (*Quality) Class() mapper.ClassInfo {
	return mapper.ClassInfo{Type: ontology.OESOQuality, Graph: graph, Prefix: "variable/quality"}
}

func (q *Quality) URISegments() []string { return []string{q.Name} }

type Method struct {
	mapper.Resource
	Name    string `json:"name" sparql:"rdfs:label,required"`
	Comment string `json:"comment,omitempty" sparql:"rdfs:comment"`
}

func (*Method) Class() mapper.ClassInfo {
	return mapper.ClassInfo{Type: ontology.OESOMethod, Graph: graph, Prefix: "variable/method"}
}

func (m *Method) URISegments() []string { return []string{m.Name} }

type Unit struct {
	mapper.Resource
	Name              string `json:"name" sparql:"rdfs:label,required"`
	Comment           string `json:"comment,omitempty" sparql:"rdfs:comment"`
	Symbol            string `json:"symbol,omitempty" sparql:"oeso:hasSymbol"`
	AlternativeSymbol string `json:"alternativeSymbol,omitempty" sparql:"oeso:hasAlternativeSymbol"`
	Dimension         string `json:"dimension,omitempty" sparql:"oeso:hasDimension"`
}

func (*Unit) Class() mapper.ClassInfo {
	return mapper.ClassInfo{Type: ontology.OESOUnit, Graph: graph, Prefix: "variable/unit"}
}

func (u *Unit) URISegments() []string { return []string{u.Name} }

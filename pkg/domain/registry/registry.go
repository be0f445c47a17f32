// Package registry lists the triplestore models of phis.
package registry

import (
	"github.com/opensilex/phis/pkg/domain/annotation"
	"github.com/opensilex/phis/pkg/domain/event"
	"github.com/opensilex/phis/pkg/domain/experiment"
	"github.com/opensilex/phis/pkg/domain/infrastructure"
	"github.com/opensilex/phis/pkg/domain/project"
	"github.com/opensilex/phis/pkg/domain/scientificobject"
	"github.com/opensilex/phis/pkg/domain/variable"
	"github.com/opensilex/phis/pkg/domain/vector"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

// Indexes of all models stored in the triplestore.
func Indexes() []*mapper.Index {
	return []*mapper.Index{
		mapper.For[project.Project](),
		mapper.For[experiment.Experiment](),
		mapper.For[variable.Variable](),
		mapper.For[variable.Entity](),
		mapper.For[variable.Quality](),
		mapper.For[variable.Method](),
		mapper.For[variable.Unit](),
		mapper.For[vector.Vector](),
		mapper.For[annotation.Annotation](),
		mapper.For[scientificobject.ScientificObject](),
		mapper.For[infrastructure.Infrastructure](),
		mapper.For[event.Event](),
	}
}

// GraphNames are names of graphs holding models, without duplicates.
func GraphNames() []string {
	seen := map[string]bool{}
	names := []string{}
	for _, ix := range Indexes() {
		g := ix.Class.Graph
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		names = append(names, g)
	}
	return names
}

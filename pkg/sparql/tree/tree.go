// Package tree holds hierarchies of resources, such as class hierarchies or
// infrastructures composed of other infrastructures.
package tree

import (
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

// Node is a resource in a hierarchy.
type Node struct {
	URI    mapper.URI
	Type   mapper.URI
	Name   string
	Parent *Node
}

// Tree is a forest of resources, built from candidates knowing their ancestors.
type Tree struct {
	root        mapper.URI
	excludeRoot bool
	selection   map[mapper.URI]bool

	present  map[mapper.URI]bool
	children map[mapper.URI][]*Node // "" is the key of roots
}

// New creates empty tree.
//
// args:
//   - selection: URIs reported as selected by IsSelected.
//   - root: URI of the root resource. It can be empty.
//   - excludeRoot: if true, the root is not included and its children become roots.
func New(selection []mapper.URI, root mapper.URI, excludeRoot bool) *Tree {
	sel := map[mapper.URI]bool{}
	for _, s := range selection {
		sel[s] = true
	}
	return &Tree{
		root:        root,
		excludeRoot: excludeRoot,
		selection:   sel,
		present:     map[mapper.URI]bool{},
		children:    map[mapper.URI][]*Node{},
	}
}

// AddTree adds the candidate and its ancestors, when they are not added yet.
func (t *Tree) AddTree(candidate *Node) {
	if candidate == nil || t.present[candidate.URI] {
		return
	}
	t.present[candidate.URI] = true

	if candidate.Parent == nil || (t.root != "" && candidate.URI == t.root) {
		if !t.excludeRoot {
			t.children[""] = append(t.children[""], candidate)
		}
		return
	}

	parent := candidate.Parent.URI
	if t.excludeRoot && parent == t.root {
		parent = ""
	}
	if parent != "" && !t.present[parent] {
		t.AddTree(candidate.Parent)
	}
	t.children[parent] = append(t.children[parent], candidate)
}

// ListRoots calls fn for each root, in order of addition.
func (t *Tree) ListRoots(fn func(*Node)) {
	for _, n := range t.children[""] {
		fn(n)
	}
}

// ListChildren calls fn for each child of parent, in order of addition.
// nil parent means roots.
func (t *Tree) ListChildren(parent *Node, fn func(*Node)) {
	if parent == nil {
		t.ListRoots(fn)
		return
	}
	for _, n := range t.children[parent.URI] {
		fn(n)
	}
}

func (t *Tree) IsSelected(n *Node) bool {
	return n != nil && t.selection[n.URI]
}

// Contains tells the uri is added to the tree (or is the excluded root).
func (t *Tree) Contains(uri mapper.URI) bool {
	return t.present[uri]
}

// ResourceTreeDTO is a node of tree with its descendants.
type ResourceTreeDTO struct {
	URI      mapper.URI        `json:"uri"`
	Type     mapper.URI        `json:"type,omitempty"`
	Name     string            `json:"name"`
	Parent   mapper.URI        `json:"parent,omitempty"`
	Selected bool              `json:"selected"`
	Children []ResourceTreeDTO `json:"children"`
}

// ToDTO converts tree into list of its roots with their descendants.
//
// When enableSelection is false, no nodes are reported as selected.
func ToDTO(t *Tree, enableSelection bool) []ResourceTreeDTO {
	list := []ResourceTreeDTO{}
	t.ListRoots(func(n *Node) {
		list = append(list, toDTO(t, n, enableSelection))
	})
	return list
}

func toDTO(t *Tree, n *Node, enableSelection bool) ResourceTreeDTO {
	dto := ResourceTreeDTO{
		URI:      n.URI,
		Type:     n.Type,
		Name:     n.Name,
		Selected: enableSelection && t.IsSelected(n),
		Children: []ResourceTreeDTO{},
	}
	t.ListChildren(n, func(c *Node) {
		child := toDTO(t, c, enableSelection)
		child.Parent = n.URI
		dto.Children = append(dto.Children, child)
	})
	return dto
}

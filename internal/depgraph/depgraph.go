// Package depgraph builds a dependency graph over lockfile packages and
// renders inverse dependency trees.
package depgraph

import (
	"fmt"
	"io"
	"sort"

	"github.com/ancients-collective/cratewatch/internal/types"
)

// Node is one package in the graph together with its edges.
type Node struct {
	// Package is the lockfile package this node represents.
	Package types.Package

	dependencies []*Node // packages this node depends on
	dependents   []*Node // packages that depend on this node
}

// Dependents returns the packages that directly depend on this node,
// sorted by name then version.
func (n *Node) Dependents() []*Node {
	deps := make([]*Node, len(n.dependents))
	copy(deps, n.dependents)
	sort.Slice(deps, func(i, j int) bool {
		a, b := deps[i].Package, deps[j].Package
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Version < b.Version
	})
	return deps
}

// Graph is a dependency graph keyed by package identity.
type Graph struct {
	nodes  map[string]*Node
	byName map[string][]*Node
}

// New builds a graph from a lockfile's package list. It fails when a
// dependency reference cannot be resolved to exactly one package — that is
// an internally inconsistent lockfile, not a recoverable condition.
func New(packages []types.Package) (*Graph, error) {
	g := &Graph{
		nodes:  make(map[string]*Node, len(packages)),
		byName: make(map[string][]*Node),
	}

	for _, pkg := range packages {
		id := pkg.Identity()
		if _, exists := g.nodes[id]; exists {
			return nil, fmt.Errorf("duplicate package %s", id)
		}
		node := &Node{Package: pkg}
		g.nodes[id] = node
		g.byName[pkg.Name] = append(g.byName[pkg.Name], node)
	}

	for _, pkg := range packages {
		node := g.nodes[pkg.Identity()]
		for _, dep := range pkg.Dependencies {
			target, err := g.resolve(dep)
			if err != nil {
				return nil, fmt.Errorf("package %s: %w", pkg.Identity(), err)
			}
			node.dependencies = append(node.dependencies, target)
			target.dependents = append(target.dependents, node)
		}
	}

	return g, nil
}

// resolve maps one lockfile dependency string to its node.
func (g *Graph) resolve(dep string) (*Node, error) {
	ref, err := types.ParseDependency(dep)
	if err != nil {
		return nil, err
	}

	candidates := g.byName[ref.Name]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("dependency %q matches no package", dep)
	}

	var matched []*Node
	for _, n := range candidates {
		if ref.Version != "" && n.Package.Version != ref.Version {
			continue
		}
		if ref.Source != "" && n.Package.Source != ref.Source {
			continue
		}
		matched = append(matched, n)
	}

	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return nil, fmt.Errorf("dependency %q matches no package", dep)
	default:
		return nil, fmt.Errorf("dependency %q is ambiguous (%d matches)", dep, len(matched))
	}
}

// NodeOf looks up the node for a package by identity.
func (g *Graph) NodeOf(pkg types.Package) (*Node, bool) {
	n, ok := g.nodes[pkg.Identity()]
	return n, ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// RenderIncoming writes the inverse dependency tree rooted at n: the
// packages reachable by following "depends-on-me" edges, drawn with
// indentation and connector glyphs.
//
//	rand 0.6.5
//	├── app 0.1.0
//	└── tempfile 3.1.0
//	    └── app 0.1.0
func (g *Graph) RenderIncoming(w io.Writer, n *Node) error {
	if _, err := fmt.Fprintln(w, n.Package.String()); err != nil {
		return err
	}
	onPath := map[string]bool{n.Package.Identity(): true}
	return g.renderDependents(w, n, "", onPath)
}

func (g *Graph) renderDependents(w io.Writer, n *Node, prefix string, onPath map[string]bool) error {
	deps := n.Dependents()
	for i, dep := range deps {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(deps)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, connector, dep.Package.String()); err != nil {
			return err
		}

		id := dep.Package.Identity()
		if onPath[id] {
			// Cycle: the package is already on the current path.
			continue
		}
		onPath[id] = true
		if err := g.renderDependents(w, dep, childPrefix, onPath); err != nil {
			return err
		}
		delete(onPath, id)
	}
	return nil
}

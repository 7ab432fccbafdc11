package wsdep

import "sort"

type graphEdge struct {
	from        string
	to          string
	requirement string
}

// DependencyGraph is an immutable, directed labeled graph snapshot built
// from a set of Packages. Nodes are Package names; edges run from a
// depending package to each of its dependencies, labeled with the
// requirement. An edge targeting a name with no corresponding Package node
// is external; building the graph does not require every dependency to
// resolve in-workspace.
//
// The graph holds value-copies of everything it needs to answer queries:
// mutating a source Package after construction never retroactively
// changes a graph already built from it.
type DependencyGraph struct {
	nodes  map[string]*Package
	order  []string
	edges  []graphEdge
	logger Logger
}

// GraphOption configures BuildFromPackages.
type GraphOption func(*DependencyGraph)

// WithLogger attaches a diagnostic logger to the graph. Logging is
// strictly informational: it never changes what BuildFromPackages or any
// query method returns.
func WithLogger(l Logger) GraphOption {
	return func(g *DependencyGraph) {
		if l != nil {
			g.logger = l
		}
	}
}

// BuildFromPackages constructs a DependencyGraph from packages. Two
// packages sharing a name fail construction with *DuplicatePackageError;
// packages themselves are cloned so later mutation of the originals does
// not affect the graph.
func BuildFromPackages(packages []*Package, opts ...GraphOption) (*DependencyGraph, error) {
	g := &DependencyGraph{nodes: make(map[string]*Package), logger: defaultLogger}
	for _, opt := range opts {
		opt(g)
	}
	for _, p := range packages {
		if _, exists := g.nodes[p.Name()]; exists {
			return nil, &DuplicatePackageError{Name: p.Name()}
		}
		g.nodes[p.Name()] = p.Clone()
		g.order = append(g.order, p.Name())
	}
	for _, name := range g.order {
		p := g.nodes[name]
		for _, d := range p.Dependencies() {
			g.edges = append(g.edges, graphEdge{from: name, to: d.Name(), requirement: d.RequirementString()})
		}
	}
	g.logger.Infof("built dependency graph: %d packages, %d edges", len(g.order), len(g.edges))
	return g, nil
}

// Packages returns the graph's package nodes in construction order.
func (g *DependencyGraph) Packages() []*Package {
	out := make([]*Package, 0, len(g.order))
	for _, n := range g.order {
		out = append(out, g.nodes[n])
	}
	return out
}

// HasPackage reports whether name has a package node in the graph.
func (g *DependencyGraph) HasPackage(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// IsInternallyResolvable reports whether every edge in the graph targets
// a package node that exists in the workspace, i.e. no external edges.
func (g *DependencyGraph) IsInternallyResolvable() bool {
	for _, e := range g.edges {
		if !g.HasPackage(e.to) {
			return false
		}
	}
	return true
}

// FindMissingDependencies returns the sorted, deduplicated list of
// dependency names targeted by an external edge.
func (g *DependencyGraph) FindMissingDependencies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.edges {
		if g.HasPackage(e.to) || seen[e.to] {
			continue
		}
		seen[e.to] = true
		out = append(out, e.to)
	}
	sort.Strings(out)
	return out
}

// internalNeighbors returns the internal (package-targeting) edges out of name,
// sorted by target name, for deterministic traversal.
func (g *DependencyGraph) internalNeighbors(name string) []string {
	var out []string
	for _, e := range g.edges {
		if e.from == name && g.HasPackage(e.to) {
			out = append(out, e.to)
		}
	}
	sort.Strings(out)
	return out
}

// DetectCircularDependencies returns one cycle in the graph, rotated to
// start at its lexicographically smallest node name, or ok=false if the
// graph is acyclic. Traversal visits nodes and neighbors in sorted order
// so the result is deterministic regardless of insertion order.
func (g *DependencyGraph) DetectCircularDependencies() (cycle []string, ok bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	var stack []string
	var found []string

	names := append([]string(nil), g.order...)
	sort.Strings(names)

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		stack = append(stack, name)
		for _, nb := range g.internalNeighbors(name) {
			if color[nb] == gray {
				idx := -1
				for i, n := range stack {
					if n == nb {
						idx = i
						break
					}
				}
				found = append([]string(nil), stack[idx:]...)
				return true
			}
			if color[nb] == white {
				if visit(nb) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return false
	}

	for _, n := range names {
		if color[n] == white {
			if visit(n) {
				cycle := rotateToSmallest(found)
				g.logger.Infof("circular dependency detected: %v", cycle)
				return cycle, true
			}
		}
	}
	return nil, false
}

func rotateToSmallest(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	minIdx := 0
	for i, n := range cycle {
		if n < cycle[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[minIdx:]...)
	out = append(out, cycle[:minIdx]...)
	return out
}

// FindVersionConflicts reports, for every dependency name targeted by two
// or more edges with differing requirement text that do not all share a
// common satisfying version, the set of distinct requirements observed.
// Names with no such conflict are absent from the result.
func (g *DependencyGraph) FindVersionConflicts() map[string][]string {
	byName := make(map[string]map[string]bool)
	for _, e := range g.edges {
		set, ok := byName[e.to]
		if !ok {
			set = make(map[string]bool)
			byName[e.to] = set
		}
		set[e.requirement] = true
	}

	conflicts := make(map[string][]string)
	for name, set := range byName {
		if len(set) < 2 {
			continue
		}
		reqs := make([]string, 0, len(set))
		for r := range set {
			reqs = append(reqs, r)
		}
		sort.Strings(reqs)
		if _, ok, err := FindHighestCompatibleVersion(reqs); err != nil || !ok {
			conflicts[name] = reqs
		}
	}
	return conflicts
}

// GetDependents returns the sorted, deduplicated list of package names
// with an outgoing edge to name.
func (g *DependencyGraph) GetDependents(name string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.edges {
		if e.to == name && !seen[e.from] {
			seen[e.from] = true
			out = append(out, e.from)
		}
	}
	sort.Strings(out)
	return out
}

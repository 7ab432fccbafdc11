package wsdep

import "context"

// ManifestStore translates persistent manifests to and from Package. The
// core defines the contract; it is implemented by a collaborator package
// (for example tomlmanifest) that performs the actual file I/O. The core
// itself never reads or writes a manifest file.
type ManifestStore interface {
	Load(ctx context.Context, path string) (*Package, error)
	Save(ctx context.Context, path string, pkg *Package) error
}

// GraphRenderer renders a DependencyGraph to a textual representation
// (for example Graphviz DOT). The core defines the contract; rendering
// and file writing are collaborator responsibilities (for example
// dotrender, plus whatever writes its output to disk).
type GraphRenderer interface {
	Render(g *DependencyGraph) (string, error)
}

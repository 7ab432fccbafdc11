package wsdep

// Package is a workspace member: a name, a version, and an ordered set of
// unique Dependencies. Insertion order is preserved; duplicate dependency
// names are rejected outright.
type Package struct {
	name    string
	version Version
	order   []string
	deps    map[string]Dependency
}

// NewPackage constructs a Package with no dependencies. version must parse
// under the version model.
func NewPackage(name, version string) (*Package, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return &Package{name: name, version: v, deps: make(map[string]Dependency)}, nil
}

// WithRegistry builds a Package whose Dependencies are canonical handles
// obtained from reg, so that later conflict resolution can see every
// package sharing a dependency name through the same registry entries.
func WithRegistry(name, version string, deps []NameRequirement, reg *DependencyRegistry) (*Package, error) {
	pkg, err := NewPackage(name, version)
	if err != nil {
		return nil, err
	}
	for _, nr := range deps {
		d, err := reg.Register(name, nr.Name, nr.Requirement)
		if err != nil {
			return nil, err
		}
		if err := pkg.AddDependency(d); err != nil {
			return nil, err
		}
	}
	return pkg, nil
}

// NameRequirement is a (name, requirement string) pair, the shape callers
// use to describe a dependency before it is registered.
type NameRequirement struct {
	Name        string
	Requirement string
}

// Name returns the package name.
func (p *Package) Name() string { return p.name }

// Version returns the package's current version.
func (p *Package) Version() Version { return p.version }

// UpdateVersion parses and replaces the package's version.
func (p *Package) UpdateVersion(version string) error {
	v, err := ParseVersion(version)
	if err != nil {
		return err
	}
	p.version = v
	return nil
}

// AddDependency adds d, preserving insertion order. It rejects a dependency
// whose name the package already carries with a *DuplicateDependencyError.
func (p *Package) AddDependency(d Dependency) error {
	if _, exists := p.deps[d.name]; exists {
		return &DuplicateDependencyError{Package: p.name, Dependency: d.name}
	}
	p.deps[d.name] = d
	p.order = append(p.order, d.name)
	return nil
}

// RemoveDependency removes the dependency named name, if present. Removing
// an absent name is a no-op, mirroring idempotent set removal.
func (p *Package) RemoveDependency(name string) {
	if _, exists := p.deps[name]; !exists {
		return
	}
	delete(p.deps, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// GetDependency returns the dependency named name and true, or the zero
// value and false if the package carries no such dependency.
func (p *Package) GetDependency(name string) (Dependency, bool) {
	d, ok := p.deps[name]
	return d, ok
}

// Dependencies returns the package's dependencies in insertion order. The
// returned slice is a fresh copy; mutating it does not affect p.
func (p *Package) Dependencies() []Dependency {
	out := make([]Dependency, 0, len(p.order))
	for _, n := range p.order {
		out = append(out, p.deps[n])
	}
	return out
}

// UpdateDependencyRequirement replaces the requirement string of the named
// dependency, rejecting an unknown name with *UnknownDependencyError.
func (p *Package) UpdateDependencyRequirement(name, req string) error {
	d, ok := p.deps[name]
	if !ok {
		return &UnknownDependencyError{Package: p.name, Dependency: name}
	}
	nd, err := d.UpdateRequirement(req)
	if err != nil {
		return err
	}
	p.deps[name] = nd
	return nil
}

// ApplyResolution walks p's dependencies and, for every entry that
// resolveVersionConflicts flagged as needing an update for this package,
// replaces its requirement with the resolved one.
func (p *Package) ApplyResolution(result *ResolutionResult) {
	for _, u := range result.UpdatesRequired {
		if u.PackageName != p.name {
			continue
		}
		// UpdatesRequired entries are generated from requirements this
		// package actually declared, so the name is always present.
		d := p.deps[u.DependencyName]
		nd, err := d.UpdateRequirement(u.NewRequirement)
		if err != nil {
			continue
		}
		p.deps[u.DependencyName] = nd
	}
}

// Clone returns a deep copy of p, independent of further mutation to p.
// Diff and Graph construction use this to hold snapshots.
func (p *Package) Clone() *Package {
	cp := &Package{
		name:    p.name,
		version: p.version,
		order:   append([]string(nil), p.order...),
		deps:    make(map[string]Dependency, len(p.deps)),
	}
	for k, v := range p.deps {
		cp.deps[k] = v
	}
	return cp
}

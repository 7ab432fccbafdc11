package wsdep

// Dependency is a (name, requirement) record. Two Dependencies are equal
// iff both fields are equal; identity inside a DependencyRegistry is
// defined by this pair, never by object identity.
type Dependency struct {
	name string
	req  Requirement
}

// NewDependency parses req and returns a Dependency naming it, or a
// *ParseError if req is malformed.
func NewDependency(name, req string) (Dependency, error) {
	r, err := ParseRequirement(req)
	if err != nil {
		return Dependency{}, err
	}
	return Dependency{name: name, req: r}, nil
}

// Name returns the dependency's name.
func (d Dependency) Name() string { return d.name }

// Requirement returns the dependency's parsed requirement.
func (d Dependency) Requirement() Requirement { return d.req }

// RequirementString returns the dependency's requirement as originally
// written.
func (d Dependency) RequirementString() string { return d.req.String() }

// Equal reports whether d and o name the same dependency under the same
// requirement text.
func (d Dependency) Equal(o Dependency) bool {
	return d.name == o.name && d.req.String() == o.req.String()
}

// Matches delegates to the requirement's Satisfies test.
func (d Dependency) Matches(v Version) bool {
	return d.req.Satisfies(v)
}

// UpdateRequirement returns a copy of d with its requirement replaced by
// req, after validating it. The receiver is never mutated in place;
// Dependency is a value type.
func (d Dependency) UpdateRequirement(req string) (Dependency, error) {
	r, err := ParseRequirement(req)
	if err != nil {
		return Dependency{}, err
	}
	d.req = r
	return d, nil
}

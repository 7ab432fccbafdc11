package wsdep

import "sort"

// UpdateRequired names a single (package, dependency) pair whose recorded
// requirement disagrees with the conflict resolver's chosen requirement.
type UpdateRequired struct {
	PackageName        string
	DependencyName      string
	CurrentRequirement string
	NewRequirement      string
}

// ResolutionResult is the structured output of
// DependencyRegistry.ResolveVersionConflicts. It never aborts partway
// through: every dependency name the registry has seen gets an entry in
// either ResolvedVersions or Errors (or both, for the partial-credit case
// described by IncompatibleVersions).
type ResolutionResult struct {
	ResolvedVersions map[string]string
	UpdatesRequired  []UpdateRequired
	Errors           []*ResolutionError
}

func (r *ResolutionResult) errorFor(name string) *ResolutionError {
	for _, e := range r.Errors {
		if e.Name == name {
			return e
		}
	}
	return nil
}

type consumerRecord struct {
	packageName string
	requirement string
}

// DependencyRegistry canonicalizes Dependency instances by (name,
// requirement) and resolves conflicting requirements observed for the same
// dependency name across many packages.
type DependencyRegistry struct {
	handles   map[string]map[string]Dependency
	reqOrder  map[string][]string
	consumers map[string][]consumerRecord
	names     []string
}

// NewDependencyRegistry returns an empty registry.
func NewDependencyRegistry() *DependencyRegistry {
	return &DependencyRegistry{
		handles:   make(map[string]map[string]Dependency),
		reqOrder:  make(map[string][]string),
		consumers: make(map[string][]consumerRecord),
	}
}

// GetOrCreate canonicalizes (name, req) into a stable Dependency handle.
// Repeated calls with the same pair return the same handle; this is the
// registry's sole ingestion point for requirement text it has not already
// validated.
func (r *DependencyRegistry) GetOrCreate(name, req string) (Dependency, error) {
	byReq, ok := r.handles[name]
	if !ok {
		byReq = make(map[string]Dependency)
		r.handles[name] = byReq
		r.names = append(r.names, name)
	}
	reqKey := req
	if d, ok := byReq[reqKey]; ok {
		return d, nil
	}
	d, err := NewDependency(name, req)
	if err != nil {
		return Dependency{}, err
	}
	byReq[d.RequirementString()] = d
	r.reqOrder[name] = append(r.reqOrder[name], d.RequirementString())
	return d, nil
}

// Register canonicalizes (name, req) exactly like GetOrCreate, and
// additionally records packageName as a consumer of it, so that
// ResolveVersionConflicts can report which packages need updating.
func (r *DependencyRegistry) Register(packageName, name, req string) (Dependency, error) {
	d, err := r.GetOrCreate(name, req)
	if err != nil {
		return Dependency{}, err
	}
	r.consumers[name] = append(r.consumers[name], consumerRecord{packageName: packageName, requirement: d.RequirementString()})
	return d, nil
}

// Names returns the dependency names the registry has observed, in
// first-seen order.
func (r *DependencyRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// RequirementsFor returns the distinct requirement strings observed for
// name, in first-seen order.
func (r *DependencyRegistry) RequirementsFor(name string) []string {
	return append([]string(nil), r.reqOrder[name]...)
}

// candidateSet builds the descending-sorted candidate version set for a
// list of requirement strings: the numeric-triple floor of each, deduped.
func candidateSet(reqs []Requirement) []Version {
	seen := make(map[string]bool)
	var out []Version
	for _, req := range reqs {
		f, err := req.Floor()
		if err != nil {
			continue
		}
		if seen[f.String()] {
			continue
		}
		seen[f.String()] = true
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) > 0 })
	return out
}

// FindHighestCompatibleVersion returns the greatest version satisfying
// every requirement string in reqs, built from the candidate set of their
// numeric-triple floors. ok is false if no such version exists (including
// when every requirement fails to parse).
func FindHighestCompatibleVersion(reqs []string) (v Version, ok bool, err error) {
	parsed := make([]Requirement, 0, len(reqs))
	for _, s := range reqs {
		p, perr := ParseRequirement(s)
		if perr != nil {
			return Version{}, false, perr
		}
		parsed = append(parsed, p)
	}
	for _, c := range candidateSet(parsed) {
		all := true
		for _, p := range parsed {
			if !p.Satisfies(c) {
				all = false
				break
			}
		}
		if all {
			return c, true, nil
		}
	}
	return Version{}, false, nil
}

// FindHighestCompatibleVersion is the registry-scoped form of the
// package-level operation of the same name, restricted to the supplied
// requirement list; the registry's own observations are not consulted.
func (r *DependencyRegistry) FindHighestCompatibleVersion(name string, reqs []string) (Version, bool, error) {
	return FindHighestCompatibleVersion(reqs)
}

// ResolveVersionConflicts is the registry's centerpiece algorithm. For
// every dependency name it has observed, it finds the highest version
// satisfying all observed requirements, expresses it using the strictest
// requirement prefix seen (exact > tilde > caret), and reports which
// consuming packages need their requirement text updated to match.
//
// A name for which no single version satisfies every observed requirement
// never aborts the batch: it is recorded as an IncompatibleVersions error,
// and ResolvedVersions still records the version satisfying the largest
// number of the observed requirements, for callers that want a best-effort
// answer.
func (r *DependencyRegistry) ResolveVersionConflicts() *ResolutionResult {
	result := &ResolutionResult{ResolvedVersions: make(map[string]string)}

	names := append([]string(nil), r.names...)
	sort.Strings(names)

	for _, name := range names {
		reqStrs := r.reqOrder[name]
		parsed := make([]Requirement, 0, len(reqStrs))
		badParse := false
		for _, s := range reqStrs {
			p, err := ParseRequirement(s)
			if err != nil {
				badParse = true
				continue
			}
			parsed = append(parsed, p)
		}
		if len(parsed) == 0 {
			result.Errors = append(result.Errors, &ResolutionError{Kind: NoValidVersion, Name: name, Reqs: reqStrs})
			continue
		}
		if badParse {
			result.Errors = append(result.Errors, &ResolutionError{Kind: VersionParseError, Name: name, Reqs: reqStrs})
		}

		candidates := candidateSet(parsed)
		if len(candidates) == 0 {
			result.Errors = append(result.Errors, &ResolutionError{Kind: NoValidVersion, Name: name, Reqs: reqStrs})
			continue
		}
		chosen, found := resolveFor(candidates, parsed)

		if found {
			resolvedReq := preserveStrictestPrefix(parsed, chosen)
			result.ResolvedVersions[name] = resolvedReq
			for _, c := range r.consumers[name] {
				if c.requirement != resolvedReq {
					result.UpdatesRequired = append(result.UpdatesRequired, UpdateRequired{
						PackageName:         c.packageName,
						DependencyName:      name,
						CurrentRequirement: c.requirement,
						NewRequirement:      resolvedReq,
					})
				}
			}
			continue
		}

		best, bestVer := bestPartialCandidate(candidates, parsed)
		if bestVer {
			result.ResolvedVersions[name] = best.String()
		}
		result.Errors = append(result.Errors, &ResolutionError{Kind: IncompatibleVersions, Name: name, Reqs: reqStrs})
	}

	sort.Slice(result.UpdatesRequired, func(i, j int) bool {
		a, b := result.UpdatesRequired[i], result.UpdatesRequired[j]
		if a.DependencyName != b.DependencyName {
			return a.DependencyName < b.DependencyName
		}
		return a.PackageName < b.PackageName
	})

	return result
}

func resolveFor(candidates []Version, reqs []Requirement) (Version, bool) {
	for _, c := range candidates {
		all := true
		for _, r := range reqs {
			if !r.Satisfies(c) {
				all = false
				break
			}
		}
		if all {
			return c, true
		}
	}
	return Version{}, false
}

func bestPartialCandidate(candidates []Version, reqs []Requirement) (Version, bool) {
	var best Version
	bestCount := -1
	for _, c := range candidates {
		count := 0
		for _, r := range reqs {
			if r.Satisfies(c) {
				count++
			}
		}
		if count > bestCount || (count == bestCount && !best.IsZero() && Compare(c, best) > 0) {
			best = c
			bestCount = count
		}
	}
	return best, bestCount >= 0
}

// preserveStrictestPrefix applies the strictest requirement prefix among
// reqs (exact > tilde > caret; anything else falls back to a bare exact
// version) to the chosen candidate version.
func preserveStrictestPrefix(reqs []Requirement, chosen Version) string {
	strictest := reqs[0]
	for _, r := range reqs[1:] {
		if r.Kind().prefixStrictness() > strictest.Kind().prefixStrictness() {
			strictest = r
		}
	}
	switch strictest.Kind() {
	case KindCaret:
		return "^" + chosen.String()
	case KindTilde:
		return "~" + chosen.String()
	default:
		return chosen.String()
	}
}

// ApplyResolutionResult mutates this registry's canonical handles so that
// every handle for a resolved dependency name records the resolved
// requirement. It never touches Package instances; callers apply the
// result to packages via Package.ApplyResolution.
func (r *DependencyRegistry) ApplyResolutionResult(result *ResolutionResult) {
	for name, resolvedReq := range result.ResolvedVersions {
		if result.errorFor(name) != nil {
			continue
		}
		d, err := NewDependency(name, resolvedReq)
		if err != nil {
			continue
		}
		r.handles[name] = map[string]Dependency{resolvedReq: d}
		r.reqOrder[name] = []string{resolvedReq}
	}
}

package wsdep

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DependencyFilter selects which stored dependencies an upgrade check
// considers. The core stores all dependencies uniformly; classifying a
// given dependency as production/development is the caller's job (see
// UpgradeConfig.DependencyClassifier) since that distinction lives in
// manifest metadata the core never reads.
type DependencyFilter uint8

const (
	// ProductionOnly considers only dependencies the classifier marks
	// production.
	ProductionOnly DependencyFilter = iota
	// WithDevelopment considers production and development dependencies.
	WithDevelopment
	// AllDependencies considers every stored dependency, unfiltered.
	AllDependencies
)

// VersionUpdateStrategy bounds how far an upgrade may move a dependency.
type VersionUpdateStrategy uint8

const (
	// PatchOnly permits only patch-level movement within the current
	// major.minor.
	PatchOnly VersionUpdateStrategy = iota
	// MinorAndPatch permits minor and patch movement within the current
	// major.
	MinorAndPatch
	// AllUpdates permits any movement, including major.
	AllUpdates
)

// VersionStability governs which candidate versions a RegistryAdapter may
// return.
type VersionStability uint8

const (
	// StableOnly means the adapter must exclude prerelease candidates.
	StableOnly VersionStability = iota
	// IncludePrerelease means the adapter may include prerelease
	// candidates.
	IncludePrerelease
)

// ExecutionMode selects whether ApplyUpgrades is permitted to mutate
// Packages.
type ExecutionMode uint8

const (
	// DryRun means ApplyUpgrades refuses to mutate and the planner only
	// reports decisions.
	DryRun ExecutionMode = iota
	// Apply means ApplyUpgrades is permitted to mutate Packages.
	Apply
)

// UpgradeStatus is the per-dependency verdict of the upgrade planner.
type UpgradeStatus uint8

const (
	// UpToDate means no available candidate exceeds the requirement's
	// floor.
	UpToDate UpgradeStatus = iota
	// PatchAvailable means a same-minor, higher-patch candidate exists
	// and is permitted by the configured strategy.
	PatchAvailable
	// MinorAvailable means a same-major, higher-minor candidate exists
	// and is permitted by the configured strategy.
	MinorAvailable
	// MajorAvailable means a higher-major candidate exists and is
	// permitted by the configured strategy.
	MajorAvailable
	// Constrained means a newer candidate exists but the configured
	// strategy forbids reaching it.
	Constrained
	// CheckFailed means the registry adapter returned an error for this
	// dependency; it never aborts the batch.
	CheckFailed
)

func (s UpgradeStatus) String() string {
	switch s {
	case UpToDate:
		return "UpToDate"
	case PatchAvailable:
		return "PatchAvailable"
	case MinorAvailable:
		return "MinorAvailable"
	case MajorAvailable:
		return "MajorAvailable"
	case Constrained:
		return "Constrained"
	case CheckFailed:
		return "CheckFailed"
	default:
		return "UpToDate"
	}
}

// RegistryAdapter is the core's sole external collaborator for the
// Upgrade Planner. Implementations answer with the candidate versions
// available for name, already filtered to the stability the caller
// configured. The core never performs the network call itself.
type RegistryAdapter interface {
	LatestAndCompatible(ctx context.Context, name string) (latest Version, candidates []Version, err error)
}

// ParallelSafeAdapter is an optional capability a RegistryAdapter may
// declare: when it returns true, checkAllUpgrades is permitted to fan out
// calls concurrently (see the concurrency model's permission for parallel
// adapter calls with deterministic result merging).
type ParallelSafeAdapter interface {
	RegistryAdapter
	ParallelSafe() bool
}

// UpgradeConfig configures a DependencyUpgrader.
type UpgradeConfig struct {
	DependencyTypes    DependencyFilter
	UpdateStrategy     VersionUpdateStrategy
	VersionStability   VersionStability
	TargetPackages     []string
	TargetDependencies []string
	Registries         []string
	ExecutionMode      ExecutionMode

	// DependencyClassifier optionally classifies a (package, dependency)
	// pair for DependencyTypes filtering. A nil classifier means every
	// dependency passes regardless of DependencyTypes, since the core has
	// no manifest metadata of its own to classify against.
	DependencyClassifier func(packageName, dependencyName string) DependencyFilter
}

// DefaultConfig returns the planner's baseline configuration: all
// dependencies, minor-and-patch updates, stable versions only, dry run.
func DefaultConfig() UpgradeConfig {
	return UpgradeConfig{
		DependencyTypes:  AllDependencies,
		UpdateStrategy:   MinorAndPatch,
		VersionStability: StableOnly,
		ExecutionMode:    DryRun,
	}
}

// ConfigFromStrategy returns DefaultConfig with UpdateStrategy set to s.
func ConfigFromStrategy(s VersionUpdateStrategy) UpgradeConfig {
	cfg := DefaultConfig()
	cfg.UpdateStrategy = s
	return cfg
}

// ConfigWithRegistries returns DefaultConfig with Registries set to urls.
// The core never dials these; they are opaque and passed through to the
// adapter.
func ConfigWithRegistries(urls []string) UpgradeConfig {
	cfg := DefaultConfig()
	cfg.Registries = append([]string(nil), urls...)
	return cfg
}

func (cfg UpgradeConfig) includesPackage(name string) bool {
	if len(cfg.TargetPackages) == 0 {
		return true
	}
	for _, n := range cfg.TargetPackages {
		if n == name {
			return true
		}
	}
	return false
}

func (cfg UpgradeConfig) includesDependency(packageName, depName string) bool {
	if len(cfg.TargetDependencies) != 0 {
		found := false
		for _, n := range cfg.TargetDependencies {
			if n == depName {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if cfg.DependencyClassifier == nil || cfg.DependencyTypes == AllDependencies {
		return true
	}
	kind := cfg.DependencyClassifier(packageName, depName)
	if cfg.DependencyTypes == WithDevelopment {
		return kind == ProductionOnly || kind == WithDevelopment
	}
	return kind == ProductionOnly
}

// DependencyUpgrade is the recorded per-dependency upgrade decision.
type DependencyUpgrade struct {
	PackageName        string
	DependencyName      string
	CurrentRequirement string
	CompatibleVersion  *Version
	LatestVersion      *Version
	Status             UpgradeStatus
	Err                error
}

// DependencyUpgrader (the "upgrade planner") decides, for each
// (package, dependency) pair, what upgrade is safe under the configured
// policy, and can apply approved decisions back onto Packages.
type DependencyUpgrader struct {
	cfg     UpgradeConfig
	adapter RegistryAdapter
	logger  Logger
}

// UpgraderOption configures NewDependencyUpgrader.
type UpgraderOption func(*DependencyUpgrader)

// WithUpgraderLogger attaches a diagnostic logger to the planner. Logging
// is strictly informational and never changes a planning decision.
func WithUpgraderLogger(l Logger) UpgraderOption {
	return func(u *DependencyUpgrader) {
		if l != nil {
			u.logger = l
		}
	}
}

// NewDependencyUpgrader returns a planner using DefaultConfig and adapter.
func NewDependencyUpgrader(adapter RegistryAdapter, opts ...UpgraderOption) *DependencyUpgrader {
	u := &DependencyUpgrader{cfg: DefaultConfig(), adapter: adapter, logger: defaultLogger}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WithConfig returns a copy of the planner configured with cfg.
func (u *DependencyUpgrader) WithConfig(cfg UpgradeConfig) *DependencyUpgrader {
	nu := *u
	nu.cfg = cfg
	return &nu
}

// Config returns the planner's current configuration.
func (u *DependencyUpgrader) Config() UpgradeConfig { return u.cfg }

// CheckPackageUpgrades evaluates every dependency of pkg passing the
// configured target filters.
func (u *DependencyUpgrader) CheckPackageUpgrades(ctx context.Context, pkg *Package) ([]DependencyUpgrade, error) {
	if !u.cfg.includesPackage(pkg.Name()) {
		return nil, nil
	}
	var out []DependencyUpgrade
	for _, d := range pkg.Dependencies() {
		if !u.cfg.includesDependency(pkg.Name(), d.Name()) {
			continue
		}
		out = append(out, u.decide(ctx, pkg.Name(), d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DependencyName < out[j].DependencyName })
	return out, nil
}

// CheckAllUpgrades evaluates every (package, dependency) pair across
// packages passing the configured target filters. If the configured
// adapter declares itself parallel-safe, calls are fanned out
// concurrently via an errgroup; either way, results are sorted by
// (packageName, dependencyName) before returning, so output is
// deterministic regardless of completion order or adapter choice.
func (u *DependencyUpgrader) CheckAllUpgrades(ctx context.Context, packages []*Package) ([]DependencyUpgrade, error) {
	type job struct {
		pkgName string
		dep     Dependency
	}
	var jobs []job
	for _, pkg := range packages {
		if !u.cfg.includesPackage(pkg.Name()) {
			continue
		}
		for _, d := range pkg.Dependencies() {
			if !u.cfg.includesDependency(pkg.Name(), d.Name()) {
				continue
			}
			jobs = append(jobs, job{pkgName: pkg.Name(), dep: d})
		}
	}

	results := make([]DependencyUpgrade, len(jobs))

	parallel := false
	if ps, ok := u.adapter.(ParallelSafeAdapter); ok {
		parallel = ps.ParallelSafe()
	}
	u.logger.Infof("checking %d dependency upgrades (parallel=%v)", len(jobs), parallel)

	if parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, j := range jobs {
			i, j := i, j
			g.Go(func() error {
				results[i] = u.decide(gctx, j.pkgName, j.dep)
				return nil
			})
		}
		// Adapter errors surface as per-dependency CheckFailed status and
		// never abort the batch, so the group itself cannot fail.
		_ = g.Wait()
	} else {
		for i, j := range jobs {
			results[i] = u.decide(ctx, j.pkgName, j.dep)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].PackageName != results[j].PackageName {
			return results[i].PackageName < results[j].PackageName
		}
		return results[i].DependencyName < results[j].DependencyName
	})
	return results, nil
}

func (u *DependencyUpgrader) decide(ctx context.Context, packageName string, d Dependency) DependencyUpgrade {
	base := DependencyUpgrade{
		PackageName:        packageName,
		DependencyName:      d.Name(),
		CurrentRequirement: d.RequirementString(),
	}

	latest, candidates, err := u.adapter.LatestAndCompatible(ctx, d.Name())
	if err != nil {
		base.Status = CheckFailed
		base.Err = err
		u.logger.Infof("upgrade check failed for %s/%s: %v", packageName, d.Name(), err)
		return base
	}
	base.LatestVersion = &latest

	floor, err := d.Requirement().Floor()
	if err != nil {
		base.Status = CheckFailed
		base.Err = err
		return base
	}

	compatible, hasCompatible := greatestSatisfying(candidates, d.Requirement())

	allowed := filterByStrategy(candidates, floor, u.cfg.UpdateStrategy)
	desired, hasDesired := greatestVersion(allowed)

	// Classify against the requirement's floor, not against what the
	// requirement already admits: a caret requirement admits its whole
	// major range, so comparing against that would hide every
	// strategy-permitted minor/patch bump behind it.
	if hasDesired && Compare(desired, floor) > 0 {
		base.Status = bumpClass(floor, desired)
		v := desired
		base.CompatibleVersion = &v
		return base
	}

	if hasCompatible {
		v := compatible
		base.CompatibleVersion = &v
	}
	if existsGreater(candidates, floor) {
		base.Status = Constrained
		return base
	}
	base.Status = UpToDate
	return base
}

func greatestSatisfying(candidates []Version, req Requirement) (Version, bool) {
	var best Version
	found := false
	for _, c := range candidates {
		if !req.Satisfies(c) {
			continue
		}
		if !found || Compare(c, best) > 0 {
			best = c
			found = true
		}
	}
	return best, found
}

func greatestVersion(candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, c := range candidates {
		if !found || Compare(c, best) > 0 {
			best = c
			found = true
		}
	}
	return best, found
}

func existsGreater(candidates []Version, than Version) bool {
	for _, c := range candidates {
		if Compare(c, than) > 0 {
			return true
		}
	}
	return false
}

func filterByStrategy(candidates []Version, floor Version, strategy VersionUpdateStrategy) []Version {
	var out []Version
	for _, c := range candidates {
		switch strategy {
		case PatchOnly:
			if c.Major() == floor.Major() && c.Minor() == floor.Minor() {
				out = append(out, c)
			}
		case MinorAndPatch:
			if c.Major() == floor.Major() {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

func bumpClass(floor, desired Version) UpgradeStatus {
	switch {
	case desired.Major() > floor.Major():
		return MajorAvailable
	case desired.Minor() > floor.Minor():
		return MinorAvailable
	default:
		return PatchAvailable
	}
}

// GenerateUpgradeReport renders a bounded-length, human-readable summary
// of upgrades. Formatting concerns stop at plain text: ANSI color and
// tabular layout belong to a presenting caller.
func (u *DependencyUpgrader) GenerateUpgradeReport(upgrades []DependencyUpgrade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Upgrade report (%d dependencies checked)\n", len(upgrades))
	for _, up := range upgrades {
		switch up.Status {
		case CheckFailed:
			fmt.Fprintf(&b, "  %s: %s %s -- check failed: %v\n", up.PackageName, up.DependencyName, up.CurrentRequirement, up.Err)
		case UpToDate:
			fmt.Fprintf(&b, "  %s: %s %s -- up to date\n", up.PackageName, up.DependencyName, up.CurrentRequirement)
		case Constrained:
			fmt.Fprintf(&b, "  %s: %s %s -- newer version available but constrained by strategy\n", up.PackageName, up.DependencyName, up.CurrentRequirement)
		default:
			compat := "?"
			if up.CompatibleVersion != nil {
				compat = up.CompatibleVersion.String()
			}
			fmt.Fprintf(&b, "  %s: %s %s -> %s (%s)\n", up.PackageName, up.DependencyName, up.CurrentRequirement, compat, up.Status)
		}
	}
	return b.String()
}

// ApplyUpgrades mutates the dependency requirement of every approved
// upgrade onto the matching Package, preserving the requirement's
// original prefix (caret/tilde/exact). It refuses to mutate anything
// unless the planner is configured for Apply; DryRun always returns an
// error instead of silently no-op'ing, so callers cannot mistake a
// no-op for a successful apply.
func (u *DependencyUpgrader) ApplyUpgrades(packages []*Package, approved []DependencyUpgrade) ([]DependencyUpgrade, error) {
	if u.cfg.ExecutionMode != Apply {
		return nil, errNotInApplyMode
	}

	byName := make(map[string]*Package, len(packages))
	for _, p := range packages {
		byName[p.Name()] = p
	}

	var applied []DependencyUpgrade
	for _, up := range approved {
		if up.CompatibleVersion == nil {
			continue
		}
		pkg, ok := byName[up.PackageName]
		if !ok {
			continue
		}
		d, ok := pkg.GetDependency(up.DependencyName)
		if !ok {
			continue
		}
		newReq := preserveRequirementPrefix(d.RequirementString(), *up.CompatibleVersion)
		if err := pkg.UpdateDependencyRequirement(up.DependencyName, newReq); err != nil {
			continue
		}
		applied = append(applied, up)
	}
	return applied, nil
}

var errNotInApplyMode = upgradeErr("ApplyUpgrades requires ExecutionMode Apply; the planner is configured for DryRun")

type upgradeErr string

func (e upgradeErr) Error() string { return string(e) }

// preserveRequirementPrefix rewrites a requirement string's numeric
// triple to v, keeping its original caret/tilde/exact prefix.
func preserveRequirementPrefix(oldReq string, v Version) string {
	trimmed := strings.TrimSpace(oldReq)
	switch {
	case strings.HasPrefix(trimmed, "^"):
		return "^" + v.String()
	case strings.HasPrefix(trimmed, "~"):
		return "~" + v.String()
	default:
		return v.String()
	}
}

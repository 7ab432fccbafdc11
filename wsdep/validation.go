package wsdep

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationIssueType enumerates the kinds of finding
// DependencyGraph.ValidatePackageDependencies can report.
type ValidationIssueType uint8

const (
	// CircularDependency reports a cycle among internal edges. Critical.
	CircularDependency ValidationIssueType = iota
	// UnresolvedDependency reports an edge targeting a name with no
	// package node in the workspace. Critical.
	UnresolvedDependency
	// VersionConflict reports a dependency name whose observed
	// requirements share no common satisfying version. A warning, not
	// critical: the workspace may still build if the conflict is never
	// actually exercised.
	VersionConflict
)

func (t ValidationIssueType) String() string {
	switch t {
	case CircularDependency:
		return "CircularDependency"
	case UnresolvedDependency:
		return "UnresolvedDependency"
	case VersionConflict:
		return "VersionConflict"
	default:
		return "UnknownIssue"
	}
}

// ValidationIssue is one finding from a graph validation pass.
type ValidationIssue struct {
	Type         ValidationIssueType
	Message      string
	Critical     bool
	Names        []string
	Requirements []string
}

// ValidationReport collects the issues found validating a DependencyGraph.
type ValidationReport struct {
	issues []ValidationIssue
}

// HasIssues reports whether the report carries any issue at all.
func (r *ValidationReport) HasIssues() bool { return len(r.issues) > 0 }

// HasCriticalIssues reports whether any issue is critical.
func (r *ValidationReport) HasCriticalIssues() bool {
	for _, i := range r.issues {
		if i.Critical {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any issue is non-critical.
func (r *ValidationReport) HasWarnings() bool {
	for _, i := range r.issues {
		if !i.Critical {
			return true
		}
	}
	return false
}

// GetIssues returns every issue, in the order they were recorded.
func (r *ValidationReport) GetIssues() []ValidationIssue {
	return append([]ValidationIssue(nil), r.issues...)
}

// GetCriticalIssues returns only the critical issues.
func (r *ValidationReport) GetCriticalIssues() []ValidationIssue {
	var out []ValidationIssue
	for _, i := range r.issues {
		if i.Critical {
			out = append(out, i)
		}
	}
	return out
}

// GetWarnings returns only the non-critical issues.
func (r *ValidationReport) GetWarnings() []ValidationIssue {
	var out []ValidationIssue
	for _, i := range r.issues {
		if !i.Critical {
			out = append(out, i)
		}
	}
	return out
}

// ValidatePackageDependencies runs every structural check the graph
// supports — cycle detection, unresolved (external) dependencies, and
// version conflicts — and returns them as a single report. It never stops
// at the first problem.
func (g *DependencyGraph) ValidatePackageDependencies() *ValidationReport {
	report := &ValidationReport{}

	if cycle, ok := g.DetectCircularDependencies(); ok {
		report.issues = append(report.issues, ValidationIssue{
			Type:     CircularDependency,
			Message:  fmt.Sprintf("circular dependency: %s", strings.Join(append(append([]string(nil), cycle...), cycle[0]), " -> ")),
			Critical: true,
			Names:    cycle,
		})
	}

	for _, name := range g.FindMissingDependencies() {
		reqs := make(map[string]bool)
		for _, e := range g.edges {
			if e.to == name {
				reqs[e.requirement] = true
			}
		}
		reqList := make([]string, 0, len(reqs))
		for r := range reqs {
			reqList = append(reqList, r)
		}
		sort.Strings(reqList)
		report.issues = append(report.issues, ValidationIssue{
			Type:         UnresolvedDependency,
			Message:      fmt.Sprintf("unresolved dependency %q (requirement(s): %s)", name, strings.Join(reqList, ", ")),
			Critical:     true,
			Names:        []string{name},
			Requirements: reqList,
		})
	}

	conflicts := g.FindVersionConflicts()
	names := make([]string, 0, len(conflicts))
	for name := range conflicts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		reqs := conflicts[name]
		report.issues = append(report.issues, ValidationIssue{
			Type:         VersionConflict,
			Message:      fmt.Sprintf("version conflict on %q: %s", name, strings.Join(reqs, ", ")),
			Critical:     false,
			Names:        []string{name},
			Requirements: reqs,
		})
	}

	return report
}

package wsdep

import (
	"fmt"
	"strings"
)

// ChangeType enumerates what happened to a single dependency between two
// Package snapshots.
type ChangeType uint8

const (
	// Unchanged means the dependency is present in both snapshots under
	// the same requirement text.
	Unchanged ChangeType = iota
	// Added means the dependency is present only in the current snapshot.
	Added
	// Removed means the dependency is present only in the previous
	// snapshot.
	Removed
	// Updated means the dependency is present in both snapshots under
	// different requirement text.
	Updated
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	case Updated:
		return "Updated"
	default:
		return "Unchanged"
	}
}

// DependencyChange is one entry of a PackageDiff.
type DependencyChange struct {
	Name                string
	PreviousRequirement string
	CurrentRequirement  string
	ChangeType          ChangeType
	Breaking            bool
}

// PackageDiff is the computed change set between two snapshots of the same
// package.
type PackageDiff struct {
	PackageName       string
	PreviousVersion   string
	CurrentVersion    string
	DependencyChanges []DependencyChange
	BreakingChange    bool
}

// Between computes the DependencyChange list between previous and current
// and classifies the overall breaking-change status. Neither Package is
// mutated; the diff holds its own value-copies.
func Between(previous, current *Package) *PackageDiff {
	diff := &PackageDiff{
		PackageName:     current.Name(),
		PreviousVersion: previous.Version().String(),
		CurrentVersion:  current.Version().String(),
	}

	prevDeps := previous.Dependencies()
	curDeps := current.Dependencies()

	prevByName := make(map[string]Dependency, len(prevDeps))
	for _, d := range prevDeps {
		prevByName[d.Name()] = d
	}
	curByName := make(map[string]Dependency, len(curDeps))
	for _, d := range curDeps {
		curByName[d.Name()] = d
	}

	visited := make(map[string]bool)

	for _, d := range prevDeps {
		visited[d.Name()] = true
		cur, ok := curByName[d.Name()]
		if !ok {
			diff.DependencyChanges = append(diff.DependencyChanges, DependencyChange{
				Name:                d.Name(),
				PreviousRequirement: d.RequirementString(),
				ChangeType:          Removed,
			})
			continue
		}
		if cur.RequirementString() == d.RequirementString() {
			diff.DependencyChanges = append(diff.DependencyChanges, DependencyChange{
				Name:                d.Name(),
				PreviousRequirement: d.RequirementString(),
				CurrentRequirement:  cur.RequirementString(),
				ChangeType:          Unchanged,
			})
			continue
		}
		diff.DependencyChanges = append(diff.DependencyChanges, DependencyChange{
			Name:                d.Name(),
			PreviousRequirement: d.RequirementString(),
			CurrentRequirement:  cur.RequirementString(),
			ChangeType:          Updated,
			Breaking:            requirementTransitionBreaking(d.Requirement(), cur.Requirement()),
		})
	}

	for _, d := range curDeps {
		if visited[d.Name()] {
			continue
		}
		diff.DependencyChanges = append(diff.DependencyChanges, DependencyChange{
			Name:               d.Name(),
			CurrentRequirement: d.RequirementString(),
			ChangeType:         Added,
		})
	}

	diff.BreakingChange = diff.CountBreakingChanges() > 0 ||
		isBreakingState(ClassifyVersions(previous.Version(), current.Version()))

	return diff
}

// requirementTransitionBreaking classifies a requirement-to-requirement
// update as breaking by comparing the floor version each requirement
// admits — the same boundary-crossing rule the version model applies to
// a bare (from, to) version pair.
func requirementTransitionBreaking(from, to Requirement) bool {
	ff, err1 := from.Floor()
	tf, err2 := to.Floor()
	if err1 != nil || err2 != nil {
		return true
	}
	return isBreakingState(ClassifyVersions(ff, tf))
}

// CountBreakingChanges returns the number of DependencyChanges flagged
// breaking.
func (d *PackageDiff) CountBreakingChanges() int {
	n := 0
	for _, c := range d.DependencyChanges {
		if c.Breaking {
			n++
		}
	}
	return n
}

// String renders a stable, line-oriented summary of the diff, suitable
// for direct display by a presenting caller.
func (d *PackageDiff) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s -> %s\n", d.PackageName, d.PreviousVersion, d.CurrentVersion)
	for _, c := range d.DependencyChanges {
		switch c.ChangeType {
		case Added:
			fmt.Fprintf(&b, "  + %s %s\n", c.Name, c.CurrentRequirement)
		case Removed:
			fmt.Fprintf(&b, "  - %s %s\n", c.Name, c.PreviousRequirement)
		case Updated:
			mark := ""
			if c.Breaking {
				mark = " (breaking)"
			}
			fmt.Fprintf(&b, "  ~ %s %s -> %s%s\n", c.Name, c.PreviousRequirement, c.CurrentRequirement, mark)
		default:
			fmt.Fprintf(&b, "  = %s %s\n", c.Name, c.CurrentRequirement)
		}
	}
	return b.String()
}

// ChangeTypeCounts tallies DependencyChanges by type.
type ChangeTypeCounts struct {
	Added     int
	Removed   int
	Updated   int
	Unchanged int
}

// CountChangesByType tallies d's DependencyChanges by ChangeType.
func (d *PackageDiff) CountChangesByType() ChangeTypeCounts {
	var c ChangeTypeCounts
	for _, ch := range d.DependencyChanges {
		switch ch.ChangeType {
		case Added:
			c.Added++
		case Removed:
			c.Removed++
		case Updated:
			c.Updated++
		default:
			c.Unchanged++
		}
	}
	return c
}

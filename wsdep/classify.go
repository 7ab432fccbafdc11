package wsdep

// ChangeState is the result of classifying a (from, to) version transition
// into exactly one of twelve states.
type ChangeState uint8

const (
	// Indeterminate means at least one side failed to parse.
	Indeterminate ChangeState = iota
	// Identical means from and to compare equal.
	Identical
	// MajorUpgrade means to.Major > from.Major.
	MajorUpgrade
	// MinorUpgrade means to.Minor > from.Minor at equal major.
	MinorUpgrade
	// PatchUpgrade means to.Patch > from.Patch at equal major.minor.
	PatchUpgrade
	// MajorDowngrade means to.Major < from.Major.
	MajorDowngrade
	// MinorDowngrade means to.Minor < from.Minor at equal major.
	MinorDowngrade
	// PatchDowngrade means to.Patch < from.Patch at equal major.minor.
	PatchDowngrade
	// PrereleaseToStable means from is prerelease, to is the same numeric
	// triple but stable.
	PrereleaseToStable
	// StableToPrerelease means from is stable, to is the same numeric
	// triple but prerelease.
	StableToPrerelease
	// NewerPrerelease means both sides are prerelease and to sorts after
	// from.
	NewerPrerelease
	// OlderPrerelease means both sides are prerelease and to sorts before
	// from.
	OlderPrerelease
)

func (s ChangeState) String() string {
	switch s {
	case Indeterminate:
		return "Indeterminate"
	case Identical:
		return "Identical"
	case MajorUpgrade:
		return "MajorUpgrade"
	case MinorUpgrade:
		return "MinorUpgrade"
	case PatchUpgrade:
		return "PatchUpgrade"
	case MajorDowngrade:
		return "MajorDowngrade"
	case MinorDowngrade:
		return "MinorDowngrade"
	case PatchDowngrade:
		return "PatchDowngrade"
	case PrereleaseToStable:
		return "PrereleaseToStable"
	case StableToPrerelease:
		return "StableToPrerelease"
	case NewerPrerelease:
		return "NewerPrerelease"
	case OlderPrerelease:
		return "OlderPrerelease"
	default:
		return "Indeterminate"
	}
}

// ClassifyChange parses fromStr and toStr and classifies the transition
// between them per the decision order in the version model: a parse
// failure on either side always yields Indeterminate, never an error.
func ClassifyChange(fromStr, toStr string) ChangeState {
	from, err := ParseVersion(fromStr)
	if err != nil {
		return Indeterminate
	}
	to, err := ParseVersion(toStr)
	if err != nil {
		return Indeterminate
	}
	return ClassifyVersions(from, to)
}

// ClassifyVersions is ClassifyChange for already-parsed Versions.
func ClassifyVersions(from, to Version) ChangeState {
	if from.IsZero() || to.IsZero() {
		return Indeterminate
	}

	cmp := Compare(from, to)
	if cmp == 0 {
		return Identical
	}

	fromPre, toPre := from.IsPrerelease(), to.IsPrerelease()

	if fromPre && toPre {
		if cmp < 0 {
			return NewerPrerelease
		}
		return OlderPrerelease
	}

	sameTriple := sameNumericTriple(from, to)
	if fromPre && !toPre && sameTriple {
		return PrereleaseToStable
	}
	if !fromPre && toPre && sameTriple {
		return StableToPrerelease
	}

	switch {
	case to.Major() != from.Major():
		if to.Major() > from.Major() {
			return MajorUpgrade
		}
		return MajorDowngrade
	case to.Minor() != from.Minor():
		if to.Minor() > from.Minor() {
			return MinorUpgrade
		}
		return MinorDowngrade
	case to.Patch() != from.Patch():
		if to.Patch() > from.Patch() {
			return PatchUpgrade
		}
		return PatchDowngrade
	default:
		// Numeric triples are equal but cmp != 0: this can only happen
		// when exactly one side is a prerelease sharing the other's
		// triple, which the two branches above already intercepted. Any
		// other way to reach here with cmp != 0 is unreachable given
		// SemVer ordering, but Indeterminate is the conservative answer.
		return Indeterminate
	}
}

// IsBreakingChange reports whether a (from, to) transition's classification
// signals a potential API incompatibility: a major-version boundary
// crossing in either direction, a move into prerelease, or an
// unclassifiable input.
func IsBreakingChange(fromStr, toStr string) bool {
	return isBreakingState(ClassifyChange(fromStr, toStr))
}

func isBreakingState(s ChangeState) bool {
	switch s {
	case MajorUpgrade, MajorDowngrade, StableToPrerelease, Indeterminate:
		return true
	default:
		return false
	}
}

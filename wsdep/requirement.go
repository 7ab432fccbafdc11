package wsdep

import (
	"regexp"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// RequirementKind classifies the syntactic shape of a requirement string,
// used to pick the "strictest prefix" when the Dependency Registry resolves
// conflicting requirements (see Requirement.Floor and the registry's
// conflict-resolution algorithm).
type RequirementKind uint8

const (
	// KindExact matches exactly one version ("1.2.3").
	KindExact RequirementKind = iota
	// KindCaret matches "^X.Y.Z".
	KindCaret
	// KindTilde matches "~X.Y.Z".
	KindTilde
	// KindWildcard matches "X.Y.*" / "X.*" forms.
	KindWildcard
	// KindCompound is a whitespace-joined conjunction of simple forms.
	KindCompound
	// KindOther covers operator forms (>=, <, hyphen ranges, ||) the
	// underlying constraint grammar accepts but this module assigns no
	// prefix-strictness to.
	KindOther
)

func (k RequirementKind) String() string {
	switch k {
	case KindExact:
		return "Exact"
	case KindCaret:
		return "Caret"
	case KindTilde:
		return "Tilde"
	case KindWildcard:
		return "Wildcard"
	case KindCompound:
		return "Compound"
	default:
		return "Other"
	}
}

// prefixStrictness orders kinds from loosest to strictest for the
// "strictest prefix wins" rule: exact is strictest, caret is loosest among
// exact, tilde, and caret.
func (k RequirementKind) prefixStrictness() int {
	switch k {
	case KindExact:
		return 3
	case KindTilde:
		return 2
	case KindCaret:
		return 1
	default:
		return 0
	}
}

var (
	wildcardComponent = regexp.MustCompile(`(?i)^[xX*]$`)
	simpleVersionForm = regexp.MustCompile(`^v?[0-9]+(\.[0-9]+)?(\.[0-9]+)?(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
)

// Requirement is a parsed, matchable SemVer requirement expression: an
// exact version, a caret or tilde range, a wildcard range, or a
// whitespace-joined conjunction of these. Matching is delegated to
// Masterminds/semver/v3's constraint grammar, which already implements
// caret/tilde/wildcard/conjunction semantics identically to this module's
// contract; this type adds the floor/prefix bookkeeping the conflict
// resolver needs on top.
type Requirement struct {
	raw         string
	kind        RequirementKind
	constraints *mmsemver.Constraints
}

// ParseRequirement parses s as a requirement expression. A malformed
// string is always a *ParseError; the core never coerces it to "match
// anything" or "match nothing".
func ParseRequirement(s string) (Requirement, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Requirement{}, &ParseError{Kind: RequirementParse, Input: s, Err: errEmptyRequirement}
	}
	c, err := mmsemver.NewConstraint(trimmed)
	if err != nil {
		return Requirement{}, &ParseError{Kind: RequirementParse, Input: s, Err: err}
	}
	return Requirement{raw: trimmed, kind: classifyRequirementKind(trimmed), constraints: c}, nil
}

var errEmptyRequirement = requirementParseErr("empty requirement string")

type requirementParseErr string

func (e requirementParseErr) Error() string { return string(e) }

func classifyRequirementKind(s string) RequirementKind {
	fields := strings.Fields(s)
	if len(fields) > 1 {
		return KindCompound
	}
	switch {
	case strings.HasPrefix(s, "^"):
		return KindCaret
	case strings.HasPrefix(s, "~"):
		return KindTilde
	case strings.ContainsAny(s, "xX*") && !strings.ContainsAny(s, "<>=!"):
		return KindWildcard
	case simpleVersionForm.MatchString(s):
		return KindExact
	default:
		return KindOther
	}
}

// String returns the original requirement text.
func (r Requirement) String() string { return r.raw }

// Kind reports the syntactic shape of r.
func (r Requirement) Kind() RequirementKind { return r.kind }

// Satisfies reports whether v is admitted by r.
func (r Requirement) Satisfies(v Version) bool {
	if r.constraints == nil || v.IsZero() {
		return false
	}
	return r.constraints.Check(v.inner)
}

// Satisfies is the package-level form of Requirement.Satisfies, matching
// the version model's "satisfies(req, v)" facade operation.
func Satisfies(req Requirement, v Version) bool {
	return req.Satisfies(v)
}

// Floor returns the numeric-triple floor of r: the lowest version the
// requirement could admit, per the caret/tilde/exact floor rules in the
// version model. Wildcard forms floor each numeric component present and
// zero-fill the rest; for a compound requirement the floor is taken from
// its first clause. A clause that starts with any other operator (">",
// "<", "!") has no floor here and yields a *ParseError.
func (r Requirement) Floor() (Version, error) {
	clause := strings.Fields(r.raw)[0]
	clause = strings.TrimLeft(clause, "^~=")
	clause = strings.TrimSpace(clause)

	parts := strings.SplitN(clause, "+", 2)[0]
	parts = strings.SplitN(parts, "-", 2)[0]
	comps := strings.Split(parts, ".")

	nums := [3]string{"0", "0", "0"}
	for i := 0; i < len(comps) && i < 3; i++ {
		c := strings.TrimPrefix(comps[i], "v")
		if wildcardComponent.MatchString(c) || c == "" {
			break
		}
		if _, err := strconv.ParseInt(c, 10, 64); err != nil {
			return Version{}, &ParseError{Kind: RequirementParse, Input: r.raw, Err: err}
		}
		nums[i] = c
	}
	return ParseVersion(nums[0] + "." + nums[1] + "." + nums[2])
}

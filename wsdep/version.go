package wsdep

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// completeTriple matches a full major.minor.patch triple with an optional
// leading "v" and optional pre-release/build suffixes. Masterminds/semver's
// own NewVersion treats minor and patch as optional and silently zero-fills
// them ("1.2" parses as 1.2.0); this package's Version is always a full
// triple, so parsing rejects anything short of one before handing the
// string to the library.
var completeTriple = regexp.MustCompile(`^v?[0-9]+\.[0-9]+\.[0-9]+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// Version is an immutable SemVer 2.0 value. It wraps Masterminds/semver/v3
// for parsing and ordering, and adds the operations this module's
// requirement-resolution and change-classification algorithms need that the
// wrapped library does not provide on its own (bumps, snapshot labelling,
// identifier-list accessors).
type Version struct {
	inner *mmsemver.Version
}

// ParseVersion parses s as a SemVer 2.0 version. A malformed string always
// surfaces a *ParseError; it is never coerced to a zero value.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if !completeTriple.MatchString(trimmed) {
		err := errors.New("not a complete major.minor.patch version")
		return Version{}, &ParseError{Kind: VersionParse, Input: s, Err: err}
	}
	v, err := mmsemver.NewVersion(trimmed)
	if err != nil {
		return Version{}, &ParseError{Kind: VersionParse, Input: s, Err: err}
	}
	return Version{inner: v}, nil
}

// MustParseVersion parses s and panics on failure. It exists for
// constructing fixed test and call-site versions; it is never called on
// caller-supplied input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the unparsed zero value.
func (v Version) IsZero() bool { return v.inner == nil }

// Major returns the major component.
func (v Version) Major() int64 { return int64(v.inner.Major()) }

// Minor returns the minor component.
func (v Version) Minor() int64 { return int64(v.inner.Minor()) }

// Patch returns the patch component.
func (v Version) Patch() int64 { return int64(v.inner.Patch()) }

// Prerelease returns the dot-separated pre-release identifiers in order,
// or nil if v is a stable (non-prerelease) version.
func (v Version) Prerelease() []string {
	p := v.inner.Prerelease()
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

// Build returns the dot-separated build-metadata identifiers in order, or
// nil if v carries none. Build metadata is never consulted by Compare.
func (v Version) Build() []string {
	m := v.inner.Metadata()
	if m == "" {
		return nil
	}
	return strings.Split(m, ".")
}

// IsPrerelease reports whether v carries pre-release identifiers.
func (v Version) IsPrerelease() bool { return v.inner.Prerelease() != "" }

// String renders v in normalized SemVer form (redundant leading zeros
// stripped, pre-release and build metadata preserved).
func (v Version) String() string {
	if v.inner == nil {
		return ""
	}
	return v.inner.String()
}

// sameNumericTriple reports whether a and b share major.minor.patch,
// ignoring pre-release and build metadata entirely.
func sameNumericTriple(a, b Version) bool {
	return a.Major() == b.Major() && a.Minor() == b.Minor() && a.Patch() == b.Patch()
}

// Compare returns the SemVer 2.0 total order of a and b: negative if
// a < b, zero if equal (build metadata ignored), positive if a > b.
func Compare(a, b Version) int {
	return a.inner.Compare(b.inner)
}

// bumpTriple parses "major.minor.patch" back into a Version, clearing any
// pre-release or build metadata. Bumping never produces malformed input, so
// a parse failure here would indicate a programming error.
func bumpTriple(major, minor, patch int64) Version {
	return MustParseVersion(triple(major, minor, patch))
}

func triple(major, minor, patch int64) string {
	return strconv.FormatInt(major, 10) + "." + strconv.FormatInt(minor, 10) + "." + strconv.FormatInt(patch, 10)
}

// BumpMajor returns (v.Major+1).0.0 with pre-release cleared.
func BumpMajor(v Version) Version {
	return bumpTriple(v.Major()+1, 0, 0)
}

// BumpMinor returns v.Major.(v.Minor+1).0 with pre-release cleared.
func BumpMinor(v Version) Version {
	return bumpTriple(v.Major(), v.Minor()+1, 0)
}

// BumpPatch returns v.Major.v.Minor.(v.Patch+1) with pre-release cleared.
func BumpPatch(v Version) Version {
	return bumpTriple(v.Major(), v.Minor(), v.Patch()+1)
}

// BumpSnapshot returns the same numeric triple with the pre-release
// identifiers replaced by the two-token list ["alpha", tag]. tag is an
// opaque caller-supplied identifier (typically a VCS revision or CI build
// id) and is not validated beyond the SemVer pre-release grammar: if tag
// itself begins with "alpha." the result legitimately becomes
// "...-alpha.alpha.TAG". That is intended behavior, inherited unchanged
// from the tool this module's labelling scheme was modeled on.
func BumpSnapshot(v Version, tag string) (Version, error) {
	s := triple(v.Major(), v.Minor(), v.Patch()) + "-alpha." + tag
	nv, err := ParseVersion(s)
	if err != nil {
		return Version{}, err
	}
	return nv, nil
}

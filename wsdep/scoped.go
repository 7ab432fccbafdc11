package wsdep

import (
	"regexp"
	"strings"
)

// ScopedPackage is the result of parsing a scoped package reference of the
// form "@scope/name[@version][/path]" or "@scope/name[:version]". Scope
// holds the bare scope name without its leading "@" (so "@myorg/widgets"
// yields Scope "myorg", not "@myorg").
type ScopedPackage struct {
	Full    string
	Scope   string
	Name    string
	Version string
	Path    string
}

var scopedPackageRegex = regexp.MustCompile(
	`^(@[^/@:\s]+/[^/@:\s]+)(?:[@:]([^/\s]+))?(?:(/.*))?$`,
)

// ParseScopedPackage parses s as a scoped package reference. It returns
// ok=false for any string that is not a valid "@scope/name" reference;
// it never panics and performs no I/O.
func ParseScopedPackage(s string) (ScopedPackage, bool) {
	m := scopedPackageRegex.FindStringSubmatch(s)
	if m == nil {
		return ScopedPackage{}, false
	}
	full := m[1]
	slash := strings.IndexByte(full, '/')
	if slash < 0 {
		return ScopedPackage{}, false
	}
	return ScopedPackage{
		Full:    full,
		Scope:   full[1:slash],
		Name:    full[slash+1:],
		Version: m[2],
		Path:    m[3],
	}, true
}

package wsdep

import "testing"

func TestParseVersionRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"v1.2.3", "1.2.3"},
		{"01.2.3", "1.2.3"},
		{"1.2.3-alpha.1", "1.2.3-alpha.1"},
		{"1.2.3+build.5", "1.2.3+build.5"},
		{"1.2.3-beta+exp.sha.5114f85", "1.2.3-beta+exp.sha.5114f85"},
	}
	for _, c := range cases {
		v, err := ParseVersion(c.in)
		if err != nil {
			t.Fatalf("ParseVersion(%q) error: %v", c.in, err)
		}
		if got := v.String(); got != c.want {
			t.Errorf("ParseVersion(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseVersionInvalid(t *testing.T) {
	for _, in := range []string{"", "not-a-version", "1.2", "1.x.3"} {
		if _, err := ParseVersion(in); err == nil {
			t.Errorf("ParseVersion(%q) expected error, got nil", in)
		} else if pe, ok := err.(*ParseError); !ok || pe.Kind != VersionParse {
			t.Errorf("ParseVersion(%q) expected VersionParse *ParseError, got %#v", in, err)
		}
	}
}

func TestCompareTotalOrder(t *testing.T) {
	ordered := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
		"1.0.1",
		"1.1.0",
		"2.0.0",
	}
	for i := 0; i < len(ordered)-1; i++ {
		a := MustParseVersion(ordered[i])
		b := MustParseVersion(ordered[i+1])
		if Compare(a, b) >= 0 {
			t.Errorf("expected %s < %s", ordered[i], ordered[i+1])
		}
		if Compare(b, a) <= 0 {
			t.Errorf("expected %s > %s", ordered[i+1], ordered[i])
		}
	}
	for _, s := range ordered {
		v := MustParseVersion(s)
		if Compare(v, v) != 0 {
			t.Errorf("expected %s == %s", s, s)
		}
	}
}

func TestCompareIgnoresBuildMetadata(t *testing.T) {
	a := MustParseVersion("1.2.3+build.1")
	b := MustParseVersion("1.2.3+build.2")
	if Compare(a, b) != 0 {
		t.Errorf("expected build metadata to be ignored for ordering, got Compare=%d", Compare(a, b))
	}
}

func TestBumpMajorMinorPatch(t *testing.T) {
	v := MustParseVersion("1.2.3-beta")
	if got := BumpMajor(v); got.String() != "2.0.0" {
		t.Errorf("BumpMajor = %s, want 2.0.0", got)
	}
	if got := BumpMinor(v); got.String() != "1.3.0" {
		t.Errorf("BumpMinor = %s, want 1.3.0", got)
	}
	if got := BumpPatch(v); got.String() != "1.2.4" {
		t.Errorf("BumpPatch = %s, want 1.2.4", got)
	}
}

func TestBumpPatchIdempotentOnAxis(t *testing.T) {
	v := MustParseVersion("1.2.3")
	once := BumpPatch(v)
	twice := BumpPatch(once)
	if twice.Patch() != v.Patch()+2 {
		t.Errorf("double BumpPatch: got patch %d, want %d", twice.Patch(), v.Patch()+2)
	}
	if BumpMinor(v).Patch() != 0 {
		t.Errorf("BumpMinor should zero patch")
	}
	if m := BumpMajor(v); m.Minor() != 0 || m.Patch() != 0 {
		t.Errorf("BumpMajor should zero minor and patch, got %s", m)
	}
}

func TestBumpSnapshot(t *testing.T) {
	v := MustParseVersion("0.0.1")
	nv, err := BumpSnapshot(v, "ae45th67en09")
	if err != nil {
		t.Fatalf("BumpSnapshot error: %v", err)
	}
	if got, want := nv.String(), "0.0.1-alpha.ae45th67en09"; got != want {
		t.Errorf("BumpSnapshot = %s, want %s", got, want)
	}
}

func TestBumpSnapshotDoublesAlphaPrefixWhenTagStartsWithIt(t *testing.T) {
	v := MustParseVersion("1.0.0")
	nv, err := BumpSnapshot(v, "alpha.7")
	if err != nil {
		t.Fatalf("BumpSnapshot error: %v", err)
	}
	if got, want := nv.String(), "1.0.0-alpha.alpha.7"; got != want {
		t.Errorf("BumpSnapshot = %s, want %s", got, want)
	}
}

package wsdep

import "testing"

func TestParseRequirementKinds(t *testing.T) {
	cases := []struct {
		in   string
		kind RequirementKind
	}{
		{"1.2.3", KindExact},
		{"^1.2.3", KindCaret},
		{"~1.2.3", KindTilde},
		{"1.2.*", KindWildcard},
		{"1.*", KindWildcard},
		{"^1.2.3 <1.9.0", KindCompound},
		{">=1.2.3", KindOther},
	}
	for _, c := range cases {
		r, err := ParseRequirement(c.in)
		if err != nil {
			t.Fatalf("ParseRequirement(%q) error: %v", c.in, err)
		}
		if r.Kind() != c.kind {
			t.Errorf("ParseRequirement(%q).Kind() = %s, want %s", c.in, r.Kind(), c.kind)
		}
	}
}

func TestParseRequirementInvalid(t *testing.T) {
	for _, in := range []string{"", "not a requirement", "^^1.2.3"} {
		if _, err := ParseRequirement(in); err == nil {
			t.Errorf("ParseRequirement(%q) expected error", in)
		}
	}
}

func TestRequirementFloor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"^1.2.3", "1.2.3"},
		{"^0.2.3", "0.2.3"},
		{"^0.0.3", "0.0.3"},
		{"~1.2.3", "1.2.3"},
		{"1.2.*", "1.2.0"},
		{"1.*", "1.0.0"},
	}
	for _, c := range cases {
		r, err := ParseRequirement(c.in)
		if err != nil {
			t.Fatalf("ParseRequirement(%q) error: %v", c.in, err)
		}
		f, err := r.Floor()
		if err != nil {
			t.Fatalf("Floor(%q) error: %v", c.in, err)
		}
		if got := f.String(); got != c.want {
			t.Errorf("Floor(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestCaretRangeSemantics(t *testing.T) {
	cases := []struct {
		req     string
		v       string
		matches bool
	}{
		{"^1.2.3", "1.2.3", true},
		{"^1.2.3", "1.9.9", true},
		{"^1.2.3", "2.0.0", false},
		{"^1.2.3", "1.2.2", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"^0.0.3", "0.0.3", true},
		{"^0.0.3", "0.0.4", false},
	}
	for _, c := range cases {
		r, err := ParseRequirement(c.req)
		if err != nil {
			t.Fatalf("ParseRequirement(%q) error: %v", c.req, err)
		}
		v := MustParseVersion(c.v)
		if got := r.Satisfies(v); got != c.matches {
			t.Errorf("%q.Satisfies(%q) = %v, want %v", c.req, c.v, got, c.matches)
		}
	}
}

func TestTildeRangeSemantics(t *testing.T) {
	r, err := ParseRequirement("~1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	for v, want := range map[string]bool{
		"1.2.3": true,
		"1.2.9": true,
		"1.3.0": false,
		"1.2.0": false,
	} {
		if got := r.Satisfies(MustParseVersion(v)); got != want {
			t.Errorf("~1.2.3.Satisfies(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestRequirementMonotonicity(t *testing.T) {
	r, err := ParseRequirement("^1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	versions := []string{"1.2.3", "1.2.9", "1.5.0", "1.9.9"}
	for _, v := range versions {
		if !r.Satisfies(MustParseVersion(v)) {
			t.Errorf("expected %s to satisfy ^1.2.3", v)
		}
	}
}

func TestParseScopedPackage(t *testing.T) {
	cases := []struct {
		in string
		ok bool
		sp ScopedPackage
	}{
		{"@myorg/widgets", true, ScopedPackage{Full: "@myorg/widgets", Scope: "myorg", Name: "widgets"}},
		{"@myorg/widgets@1.2.3", true, ScopedPackage{Full: "@myorg/widgets", Scope: "myorg", Name: "widgets", Version: "1.2.3"}},
		{"@myorg/widgets:1.2.3", true, ScopedPackage{Full: "@myorg/widgets", Scope: "myorg", Name: "widgets", Version: "1.2.3"}},
		{"@myorg/widgets/sub/path", true, ScopedPackage{Full: "@myorg/widgets", Scope: "myorg", Name: "widgets", Path: "/sub/path"}},
		{"widgets", false, ScopedPackage{}},
		{"", false, ScopedPackage{}},
	}
	for _, c := range cases {
		got, ok := ParseScopedPackage(c.in)
		if ok != c.ok {
			t.Errorf("ParseScopedPackage(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if got != c.sp {
			t.Errorf("ParseScopedPackage(%q) = %+v, want %+v", c.in, got, c.sp)
		}
	}
}

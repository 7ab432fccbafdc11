package wsdep

import "testing"

func TestNewDependency(t *testing.T) {
	d, err := NewDependency("lodash", "^4.17.0")
	if err != nil {
		t.Fatalf("NewDependency error: %v", err)
	}
	if d.Name() != "lodash" {
		t.Errorf("Name() = %q, want lodash", d.Name())
	}
	if d.RequirementString() != "^4.17.0" {
		t.Errorf("RequirementString() = %q, want ^4.17.0", d.RequirementString())
	}
}

func TestNewDependencyInvalidRequirement(t *testing.T) {
	if _, err := NewDependency("lodash", "not a requirement"); err == nil {
		t.Fatal("expected error for malformed requirement")
	}
}

func TestDependencyEqual(t *testing.T) {
	a, _ := NewDependency("lodash", "^4.17.0")
	b, _ := NewDependency("lodash", "^4.17.0")
	c, _ := NewDependency("lodash", "~4.17.0")
	d, _ := NewDependency("react", "^4.17.0")

	if !a.Equal(b) {
		t.Error("expected equal dependencies to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected different requirement text to compare unequal")
	}
	if a.Equal(d) {
		t.Error("expected different name to compare unequal")
	}
}

func TestDependencyMatches(t *testing.T) {
	d, _ := NewDependency("lodash", "^4.17.0")
	if !d.Matches(MustParseVersion("4.17.21")) {
		t.Error("expected ^4.17.0 to match 4.17.21")
	}
	if d.Matches(MustParseVersion("5.0.0")) {
		t.Error("expected ^4.17.0 not to match 5.0.0")
	}
}

func TestDependencyUpdateRequirementIsImmutable(t *testing.T) {
	orig, _ := NewDependency("lodash", "^4.17.0")
	updated, err := orig.UpdateRequirement("~4.18.0")
	if err != nil {
		t.Fatalf("UpdateRequirement error: %v", err)
	}
	if orig.RequirementString() != "^4.17.0" {
		t.Errorf("expected original dependency unchanged, got %q", orig.RequirementString())
	}
	if updated.RequirementString() != "~4.18.0" {
		t.Errorf("expected updated requirement ~4.18.0, got %q", updated.RequirementString())
	}
}

func TestDependencyUpdateRequirementInvalid(t *testing.T) {
	orig, _ := NewDependency("lodash", "^4.17.0")
	if _, err := orig.UpdateRequirement("garbage"); err == nil {
		t.Fatal("expected error for malformed requirement update")
	}
}

package wsdep

import (
	"context"
	"errors"
	"testing"
)

// fakeAdapter answers LatestAndCompatible from a fixed table, keyed by
// dependency name. It optionally declares itself parallel-safe.
type fakeAdapter struct {
	latest     map[string]string
	candidates map[string][]string
	failing    map[string]bool
	parallel   bool
}

func (f *fakeAdapter) LatestAndCompatible(_ context.Context, name string) (Version, []Version, error) {
	if f.failing[name] {
		return Version{}, nil, errors.New("registry unavailable")
	}
	latest := MustParseVersion(f.latest[name])
	var candidates []Version
	for _, v := range f.candidates[name] {
		candidates = append(candidates, MustParseVersion(v))
	}
	return latest, candidates, nil
}

func (f *fakeAdapter) ParallelSafe() bool { return f.parallel }

// TestUpgradePlannerWorkedExample checks a worked react example: requirement
// ^16.8.0, latest registry version 18.2.0, with a compatible candidate at
// 16.14.0. Each VersionUpdateStrategy produces a different verdict.
func TestUpgradePlannerWorkedExample(t *testing.T) {
	adapter := &fakeAdapter{
		latest: map[string]string{"react": "18.2.0"},
		candidates: map[string][]string{
			"react": {"16.8.0", "16.14.0", "17.0.2", "18.0.0", "18.2.0"},
		},
	}

	pkg, _ := NewPackage("my-app", "1.0.0")
	pkg.AddDependency(mustDep("react", "^16.8.0"))

	cases := []struct {
		strategy VersionUpdateStrategy
		want     UpgradeStatus
		wantVer  string
	}{
		{PatchOnly, Constrained, ""},
		{MinorAndPatch, MinorAvailable, "16.14.0"},
		{AllUpdates, MajorAvailable, "18.2.0"},
	}

	for _, c := range cases {
		upgrader := NewDependencyUpgrader(adapter).WithConfig(ConfigFromStrategy(c.strategy))
		results, err := upgrader.CheckPackageUpgrades(context.Background(), pkg)
		if err != nil {
			t.Fatalf("strategy %v: CheckPackageUpgrades error: %v", c.strategy, err)
		}
		if len(results) != 1 {
			t.Fatalf("strategy %v: expected 1 result, got %d", c.strategy, len(results))
		}
		got := results[0]
		if got.Status != c.want {
			t.Errorf("strategy %v: Status = %s, want %s", c.strategy, got.Status, c.want)
		}
		if c.wantVer != "" {
			if got.CompatibleVersion == nil || got.CompatibleVersion.String() != c.wantVer {
				t.Errorf("strategy %v: CompatibleVersion = %v, want %s", c.strategy, got.CompatibleVersion, c.wantVer)
			}
		}
	}
}

func TestUpgradePlannerUpToDate(t *testing.T) {
	adapter := &fakeAdapter{
		latest:     map[string]string{"lodash": "4.17.21"},
		candidates: map[string][]string{"lodash": {"4.17.21"}},
	}
	pkg, _ := NewPackage("my-app", "1.0.0")
	pkg.AddDependency(mustDep("lodash", "^4.17.21"))

	upgrader := NewDependencyUpgrader(adapter)
	results, err := upgrader.CheckPackageUpgrades(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Status != UpToDate {
		t.Errorf("Status = %s, want UpToDate", results[0].Status)
	}
}

func TestUpgradePlannerCheckFailedNeverAbortsBatch(t *testing.T) {
	adapter := &fakeAdapter{
		latest:     map[string]string{"lodash": "4.17.21"},
		candidates: map[string][]string{"lodash": {"4.17.21"}},
		failing:    map[string]bool{"react": true},
	}
	pkg, _ := NewPackage("my-app", "1.0.0")
	pkg.AddDependency(mustDep("react", "^16.8.0"))
	pkg.AddDependency(mustDep("lodash", "^4.17.0"))

	upgrader := NewDependencyUpgrader(adapter)
	results, err := upgrader.CheckPackageUpgrades(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both dependencies reported, got %d", len(results))
	}
	byName := make(map[string]DependencyUpgrade)
	for _, r := range results {
		byName[r.DependencyName] = r
	}
	if byName["react"].Status != CheckFailed || byName["react"].Err == nil {
		t.Errorf("expected react to report CheckFailed with an error, got %+v", byName["react"])
	}
	if byName["lodash"].Status == CheckFailed {
		t.Error("expected lodash to still be evaluated despite react's failure")
	}
}

func TestCheckAllUpgradesDeterministicAcrossAdapterChoice(t *testing.T) {
	base := &fakeAdapter{
		latest: map[string]string{"react": "18.2.0", "lodash": "4.17.21"},
		candidates: map[string][]string{
			"react":  {"16.8.0", "16.14.0", "18.2.0"},
			"lodash": {"4.17.21"},
		},
	}

	appA, _ := NewPackage("app-a", "1.0.0")
	appA.AddDependency(mustDep("react", "^16.8.0"))
	appB, _ := NewPackage("app-b", "1.0.0")
	appB.AddDependency(mustDep("lodash", "^4.17.0"))

	packages := []*Package{appA, appB}

	sequential := NewDependencyUpgrader(base)
	seqResults, err := sequential.CheckAllUpgrades(context.Background(), packages)
	if err != nil {
		t.Fatal(err)
	}

	parallelAdapter := &fakeAdapter{latest: base.latest, candidates: base.candidates, parallel: true}
	parallelUpgrader := NewDependencyUpgrader(parallelAdapter)
	parResults, err := parallelUpgrader.CheckAllUpgrades(context.Background(), packages)
	if err != nil {
		t.Fatal(err)
	}

	if len(seqResults) != len(parResults) {
		t.Fatalf("result length mismatch: %d vs %d", len(seqResults), len(parResults))
	}
	for i := range seqResults {
		if seqResults[i].PackageName != parResults[i].PackageName || seqResults[i].DependencyName != parResults[i].DependencyName {
			t.Errorf("result[%d] order mismatch: %+v vs %+v", i, seqResults[i], parResults[i])
		}
	}
	// Ordering must be by (PackageName, DependencyName) regardless of path.
	if seqResults[0].PackageName != "app-a" || seqResults[1].PackageName != "app-b" {
		t.Errorf("expected app-a before app-b, got %s then %s", seqResults[0].PackageName, seqResults[1].PackageName)
	}
}

func TestUpgradeConfigTargetFilters(t *testing.T) {
	adapter := &fakeAdapter{
		latest:     map[string]string{"react": "18.2.0", "lodash": "4.17.21"},
		candidates: map[string][]string{"react": {"18.2.0"}, "lodash": {"4.17.21"}},
	}
	pkg, _ := NewPackage("my-app", "1.0.0")
	pkg.AddDependency(mustDep("react", "^16.8.0"))
	pkg.AddDependency(mustDep("lodash", "^4.17.0"))

	cfg := DefaultConfig()
	cfg.TargetDependencies = []string{"react"}
	upgrader := NewDependencyUpgrader(adapter).WithConfig(cfg)

	results, err := upgrader.CheckPackageUpgrades(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].DependencyName != "react" {
		t.Errorf("expected only react to be checked, got %+v", results)
	}
}

func TestApplyUpgradesRefusesOutsideApplyMode(t *testing.T) {
	adapter := &fakeAdapter{}
	upgrader := NewDependencyUpgrader(adapter)
	_, err := upgrader.ApplyUpgrades(nil, nil)
	if err == nil {
		t.Fatal("expected ApplyUpgrades to refuse to run outside Apply mode")
	}
}

func TestApplyUpgradesMutatesPackagesPreservingPrefix(t *testing.T) {
	adapter := &fakeAdapter{
		latest:     map[string]string{"react": "18.2.0"},
		candidates: map[string][]string{"react": {"16.8.0", "16.14.0", "17.0.2", "18.0.0", "18.2.0"}},
	}
	pkg, _ := NewPackage("my-app", "1.0.0")
	pkg.AddDependency(mustDep("react", "^16.8.0"))

	cfg := ConfigFromStrategy(AllUpdates)
	cfg.ExecutionMode = Apply
	upgrader := NewDependencyUpgrader(adapter).WithConfig(cfg)

	results, err := upgrader.CheckPackageUpgrades(context.Background(), pkg)
	if err != nil {
		t.Fatal(err)
	}
	applied, err := upgrader.ApplyUpgrades([]*Package{pkg}, results)
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 1 {
		t.Fatalf("expected 1 applied upgrade, got %d", len(applied))
	}
	got, _ := pkg.GetDependency("react")
	if got.RequirementString() != "^18.2.0" {
		t.Errorf("requirement = %q, want ^18.2.0 (caret prefix preserved)", got.RequirementString())
	}
}

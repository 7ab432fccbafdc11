// Package config loads the wsdepctl CLI's on-disk settings and converts
// them into a wsdep.UpgradeConfig. The core itself never parses a config
// file; this package is the sole place that does, mapping a parsed TOML
// tree onto typed fields the same way a Gopkg.toml manifest gets read.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/wsdep/workspace-deps/wsdep"
)

// rawConfig is the on-disk shape of wsdepctl.toml.
type rawConfig struct {
	DependencyTypes    string   `toml:"dependency_types"`
	UpdateStrategy     string   `toml:"update_strategy"`
	VersionStability   string   `toml:"version_stability"`
	TargetPackages     []string `toml:"target_packages"`
	TargetDependencies []string `toml:"target_dependencies"`
	Registries         []string `toml:"registries"`
	Apply              bool     `toml:"apply"`
}

// Load reads path as TOML and converts it to a wsdep.UpgradeConfig, built
// through the core's own constructors so this package can never produce a
// config value the core would reject.
func Load(path string) (wsdep.UpgradeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wsdep.UpgradeConfig{}, errors.Wrapf(err, "reading config %q", path)
	}
	return Parse(data)
}

// Parse converts TOML bytes to a wsdep.UpgradeConfig.
func Parse(data []byte) (wsdep.UpgradeConfig, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return wsdep.UpgradeConfig{}, errors.Wrap(err, "unmarshaling config TOML")
	}

	cfg := wsdep.DefaultConfig()

	if raw.UpdateStrategy != "" {
		strategy, err := parseStrategy(raw.UpdateStrategy)
		if err != nil {
			return wsdep.UpgradeConfig{}, err
		}
		cfg.UpdateStrategy = strategy
	}

	if raw.DependencyTypes != "" {
		filter, err := parseDependencyFilter(raw.DependencyTypes)
		if err != nil {
			return wsdep.UpgradeConfig{}, err
		}
		cfg.DependencyTypes = filter
	}

	if raw.VersionStability != "" {
		stability, err := parseStability(raw.VersionStability)
		if err != nil {
			return wsdep.UpgradeConfig{}, err
		}
		cfg.VersionStability = stability
	}

	cfg.TargetPackages = raw.TargetPackages
	cfg.TargetDependencies = raw.TargetDependencies
	cfg.Registries = raw.Registries

	if raw.Apply {
		cfg.ExecutionMode = wsdep.Apply
	}

	return cfg, nil
}

func parseStrategy(s string) (wsdep.VersionUpdateStrategy, error) {
	switch s {
	case "patch":
		return wsdep.PatchOnly, nil
	case "minor":
		return wsdep.MinorAndPatch, nil
	case "major":
		return wsdep.AllUpdates, nil
	default:
		return 0, errors.Errorf("unknown update_strategy %q (want patch, minor, or major)", s)
	}
}

func parseDependencyFilter(s string) (wsdep.DependencyFilter, error) {
	switch s {
	case "production":
		return wsdep.ProductionOnly, nil
	case "with-dev":
		return wsdep.WithDevelopment, nil
	case "all":
		return wsdep.AllDependencies, nil
	default:
		return 0, errors.Errorf("unknown dependency_types %q (want production, with-dev, or all)", s)
	}
}

func parseStability(s string) (wsdep.VersionStability, error) {
	switch s {
	case "stable":
		return wsdep.StableOnly, nil
	case "prerelease":
		return wsdep.IncludePrerelease, nil
	default:
		return 0, errors.Errorf("unknown version_stability %q (want stable or prerelease)", s)
	}
}

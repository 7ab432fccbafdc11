// Package tomlmanifest implements wsdep.ManifestStore against a
// Gopkg.toml-shaped document: a top-level name/version and a
// [[dependencies]] array of tables, each carrying a name and requirement.
// It is a collaborator package: it imports wsdep, never the reverse.
package tomlmanifest

import (
	"context"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/wsdep/workspace-deps/wsdep"
)

// Store implements wsdep.ManifestStore over TOML files on the local
// filesystem.
type Store struct{}

// New returns a ready-to-use Store.
func New() *Store { return &Store{} }

type rawDependency struct {
	Name        string `toml:"name"`
	Requirement string `toml:"requirement"`
}

type rawManifest struct {
	Name         string          `toml:"name"`
	Version      string          `toml:"version"`
	Dependencies []rawDependency `toml:"dependencies"`
}

// Load reads path and decodes it into a wsdep.Package. Malformed TOML or
// an invalid version/requirement inside it surfaces as a plain, wrapped
// error: manifest parsing sits outside the core's ParseError taxonomy.
func (s *Store) Load(_ context.Context, path string) (*wsdep.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %q", path)
	}

	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling manifest %q", path)
	}

	pkg, err := wsdep.NewPackage(raw.Name, raw.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %q has an invalid package version", path)
	}

	for _, rd := range raw.Dependencies {
		dep, err := wsdep.NewDependency(rd.Name, rd.Requirement)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest %q has an invalid requirement for %q", path, rd.Name)
		}
		if err := pkg.AddDependency(dep); err != nil {
			return nil, errors.Wrapf(err, "manifest %q", path)
		}
	}

	return pkg, nil
}

// Save encodes pkg as TOML and writes it to path, overwriting any
// existing file.
func (s *Store) Save(_ context.Context, path string, pkg *wsdep.Package) error {
	raw := rawManifest{
		Name:    pkg.Name(),
		Version: pkg.Version().String(),
	}
	for _, d := range pkg.Dependencies() {
		raw.Dependencies = append(raw.Dependencies, rawDependency{
			Name:        d.Name(),
			Requirement: d.RequirementString(),
		})
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return errors.Wrapf(err, "marshaling manifest for %q", pkg.Name())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing manifest %q", path)
	}
	return nil
}

var _ wsdep.ManifestStore = (*Store)(nil)

package main

import (
	"github.com/wsdep/workspace-deps/dotrender"
	"github.com/wsdep/workspace-deps/httpregistry"
	"github.com/wsdep/workspace-deps/wsdep"
)

func renderDOT(g *wsdep.DependencyGraph) (string, error) {
	return dotrender.New().Render(g)
}

func newAdapterFromConfig(cfg wsdep.UpgradeConfig, fallbackURL string) wsdep.RegistryAdapter {
	url := fallbackURL
	if len(cfg.Registries) > 0 {
		url = cfg.Registries[0]
	}
	return httpregistry.New(url, cfg.VersionStability, nil)
}

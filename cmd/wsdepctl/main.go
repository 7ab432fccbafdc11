// Command wsdepctl is a thin front-end wiring the workspace dependency
// engine to a manifest store, an HTTP registry adapter, and a Graphviz
// renderer. It holds no domain logic of its own; every decision is made
// by the wsdep package.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wsdep/workspace-deps/internal/config"
	"github.com/wsdep/workspace-deps/internal/logging"
	"github.com/wsdep/workspace-deps/tomlmanifest"
	"github.com/wsdep/workspace-deps/wsdep"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var manifestPaths []string

	root := &cobra.Command{
		Use:   "wsdepctl",
		Short: "Inspect and manage dependencies across a workspace of packages",
	}
	root.PersistentFlags().StringSliceVar(&manifestPaths, "manifest", nil, "path to a package manifest (repeatable)")

	root.AddCommand(
		newGraphCmd(&manifestPaths),
		newCheckCmd(&manifestPaths),
		newDiffCmd(),
		newUpgradeCmd(&manifestPaths),
	)
	return root
}

func loadPackages(paths []string) ([]*wsdep.Package, error) {
	store := tomlmanifest.New()
	var packages []*wsdep.Package
	for _, p := range paths {
		pkg, err := store.Load(context.Background(), p)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

func newGraphCmd(manifestPaths *[]string) *cobra.Command {
	var dot bool
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the workspace dependency graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			packages, err := loadPackages(*manifestPaths)
			if err != nil {
				return err
			}
			log := logging.Default()
			graph, err := wsdep.BuildFromPackages(packages, wsdep.WithLogger(log))
			if err != nil {
				return err
			}
			if !dot {
				for _, p := range graph.Packages() {
					fmt.Printf("%s %s\n", p.Name(), p.Version())
					for _, d := range p.Dependencies() {
						fmt.Printf("  %s %s\n", d.Name(), d.RequirementString())
					}
				}
				return nil
			}
			out, err := renderDOT(graph)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dot, "dot", false, "render the graph as Graphviz DOT")
	return cmd
}

func newCheckCmd(manifestPaths *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the workspace dependency graph for cycles, unresolved, and conflicting dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			packages, err := loadPackages(*manifestPaths)
			if err != nil {
				return err
			}
			graph, err := wsdep.BuildFromPackages(packages)
			if err != nil {
				return err
			}
			report := graph.ValidatePackageDependencies()
			for _, issue := range report.GetIssues() {
				fmt.Println(issue.Message)
			}
			if report.HasCriticalIssues() {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newDiffCmd() *cobra.Command {
	var previousPath, currentPath string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two manifest snapshots of the same package",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := tomlmanifest.New()
			previous, err := store.Load(context.Background(), previousPath)
			if err != nil {
				return err
			}
			current, err := store.Load(context.Background(), currentPath)
			if err != nil {
				return err
			}
			fmt.Print(wsdep.Between(previous, current).String())
			return nil
		},
	}
	cmd.Flags().StringVar(&previousPath, "previous", "", "path to the previous manifest snapshot")
	cmd.Flags().StringVar(&currentPath, "current", "", "path to the current manifest snapshot")
	cmd.MarkFlagRequired("previous")
	cmd.MarkFlagRequired("current")
	return cmd
}

func newUpgradeCmd(manifestPaths *[]string) *cobra.Command {
	var configPath, registryURL string
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Check for available dependency upgrades under a configured policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			packages, err := loadPackages(*manifestPaths)
			if err != nil {
				return err
			}

			cfg := wsdep.DefaultConfig()
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			adapter := newAdapterFromConfig(cfg, registryURL)
			upgrader := wsdep.NewDependencyUpgrader(adapter, wsdep.WithUpgraderLogger(logging.Default())).WithConfig(cfg)

			results, err := upgrader.CheckAllUpgrades(context.Background(), packages)
			if err != nil {
				return err
			}
			fmt.Print(upgrader.GenerateUpgradeReport(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a wsdepctl.toml policy file")
	cmd.Flags().StringVar(&registryURL, "registry", "https://registry.npmjs.org", "base URL of the npm-style registry to query")
	return cmd
}

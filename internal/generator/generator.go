// Package generator wires the scan, filter, resolve and render stages into
// the requirements-generation pipeline.
package generator

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/parisneo/requmancer/internal/models"
	"github.com/parisneo/requmancer/internal/reporter"
	"github.com/parisneo/requmancer/internal/resolver"
	"github.com/parisneo/requmancer/internal/scanner"
	"github.com/parisneo/requmancer/internal/stdlib"
)

// Generator produces a dependency manifest for one Python project
type Generator struct {
	config   *models.Config
	logger   *log.Logger
	reporter reporter.Reporter
}

// New validates the configuration and creates a Generator. A directory that
// does not exist or a format no reporter handles is rejected here, before
// any scanning happens.
func New(config *models.Config, logger *log.Logger) (*Generator, error) {
	info, err := os.Stat(config.Directory)
	if err != nil {
		return nil, fmt.Errorf("invalid project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid project directory: %s is not a directory", config.Directory)
	}

	rep, err := reporter.Get(config.Format)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	return &Generator{
		config:   config,
		logger:   logger,
		reporter: rep,
	}, nil
}

// Generate runs the full pipeline: scan the tree, drop standard-library
// modules, resolve installed versions, render and write the manifest. The
// output file is overwritten; a write failure is fatal.
func (g *Generator) Generate() error {
	modules, err := scanner.New(g.config, g.logger).Scan()
	if err != nil {
		return fmt.Errorf("failed to scan project: %w", err)
	}

	deps := g.resolve(g.filter(modules))

	output, err := g.reporter.Report(deps)
	if err != nil {
		return fmt.Errorf("failed to render %s output: %w", g.config.Format, err)
	}

	if err := os.WriteFile(g.config.OutputFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	g.logger.Infof("requirements file created: %s", g.config.OutputFile)
	return nil
}

// filter drops modules that ship with the Python distribution.
func (g *Generator) filter(modules []string) []string {
	third := modules[:0]
	for _, m := range modules {
		if stdlib.IsStdlib(m) {
			g.logger.Debugf("dropping standard-library module %s", m)
			continue
		}
		third = append(third, m)
	}
	return third
}

// resolve maps modules to installed distributions, deduplicates modules that
// belong to the same distribution, and sorts by normalized distribution name
// so output ordering never depends on filesystem enumeration.
func (g *Generator) resolve(modules []string) []models.Dependency {
	dirs := resolver.Discover(g.config.Directory, g.config.SitePackages)
	g.logger.Debugf("resolving against %d site-packages directories", len(dirs))
	index := resolver.NewIndex(dirs, g.logger)

	byDist := make(map[string]models.Dependency)
	for _, m := range modules {
		d := index.Resolve(m)
		key := resolver.Normalize(d.Distribution)
		if _, ok := byDist[key]; !ok {
			byDist[key] = d
		}
	}

	deps := make([]models.Dependency, 0, len(byDist))
	for _, d := range byDist {
		deps = append(deps, d)
	}
	sort.Slice(deps, func(i, j int) bool {
		return resolver.Normalize(deps[i].Distribution) < resolver.Normalize(deps[j].Distribution)
	})
	return deps
}

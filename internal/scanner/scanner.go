// Package scanner walks a project tree and aggregates imported module names.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/parisneo/requmancer/internal/extractor"
	"github.com/parisneo/requmancer/internal/models"
)

// skipAlways names directories that are never scanned, regardless of the
// hidden-directory setting. Virtualenvs hold installed third-party sources
// whose own imports would pollute the manifest.
var skipAlways = map[string]struct{}{
	"__pycache__":  {},
	"venv":         {},
	".venv":        {},
	"node_modules": {},
	".git":         {},
}

// Scanner discovers Python files under a root and extracts their imports
type Scanner struct {
	config *models.Config
	logger *log.Logger
}

// New creates a Scanner with the given configuration
func New(config *models.Config, logger *log.Logger) *Scanner {
	return &Scanner{config: config, logger: logger}
}

// Scan walks the configured directory and returns the distinct top-level
// module names imported anywhere in it, sorted for stable iteration. Files
// that cannot be read or parsed are logged and skipped; a single bad file
// never aborts the walk.
func (s *Scanner) Scan() ([]string, error) {
	seen := make(map[string]struct{})

	err := filepath.WalkDir(s.config.Directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.config.Directory {
				return err
			}
			s.logger.Warnf("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == s.config.Directory {
				return nil
			}
			if s.skipDir(d.Name()) {
				s.logger.Debugf("skipping directory %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		s.scanFile(path, seen)
		return nil
	})
	if err != nil {
		return nil, err
	}

	modules := make([]string, 0, len(seen))
	for m := range seen {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules, nil
}

func (s *Scanner) skipDir(name string) bool {
	if _, ok := skipAlways[name]; ok {
		return true
	}
	return !s.config.IncludeHidden && strings.HasPrefix(name, ".")
}

// scanFile extracts one file's imports into seen. Errors are recovered
// locally so the surrounding walk continues.
func (s *Scanner) scanFile(path string, seen map[string]struct{}) {
	content, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warnf("couldn't read %s: %v", path, err)
		return
	}

	modules, err := extractor.Imports(content)
	if err != nil {
		s.logger.Warnf("couldn't parse %s: %v", path, err)
		return
	}

	s.logger.Debugf("scanned %s: %d imports", path, len(modules))
	for _, m := range modules {
		seen[m] = struct{}{}
	}
}

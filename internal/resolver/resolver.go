// Package resolver maps imported module names to installed distributions.
//
// The index is built by scanning site-packages directories for *.dist-info
// metadata, the same records pip writes on install. Module names are linked
// to their distribution through top_level.txt, or through RECORD when a
// distribution ships no top_level.txt. No Python interpreter is executed.
package resolver

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/parisneo/requmancer/internal/models"
)

// Index is an in-memory module → distribution lookup table.
type Index struct {
	logger   *log.Logger
	byModule map[string]distInfo
}

type distInfo struct {
	name    string // distribution name as recorded in METADATA
	version string
}

// NewIndex scans the given site-packages directories and builds the lookup
// table. Directories that cannot be read contribute nothing; an empty index
// is valid and resolves everything to an unknown version.
func NewIndex(dirs []string, logger *log.Logger) *Index {
	ix := &Index{
		logger:   logger,
		byModule: make(map[string]distInfo),
	}
	for _, dir := range dirs {
		ix.scanDir(dir)
	}
	return ix
}

// Resolve returns the installed distribution for a module. A module with no
// installed distribution resolves to itself with an unknown version rather
// than failing the run.
func (ix *Index) Resolve(module string) models.Dependency {
	if d, ok := ix.byModule[moduleKey(module)]; ok {
		return models.Dependency{
			Distribution: d.name,
			Version:      d.version,
			Module:       module,
		}
	}
	ix.logger.Warnf("couldn't find an installed distribution for %s", module)
	return models.Dependency{
		Distribution: module,
		Version:      models.VersionUnknown,
		Module:       module,
	}
}

func (ix *Index) scanDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		ix.logger.Debugf("skipping site-packages dir %s: %v", dir, err)
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
			continue
		}
		ix.scanDistInfo(filepath.Join(dir, entry.Name()))
	}
}

// scanDistInfo reads one *.dist-info directory and registers its modules.
func (ix *Index) scanDistInfo(dir string) {
	name, version, err := readMetadata(filepath.Join(dir, "METADATA"))
	if err != nil || name == "" {
		ix.logger.Debugf("no usable METADATA in %s", dir)
		return
	}

	d := distInfo{name: name, version: version}

	modules := readTopLevel(filepath.Join(dir, "top_level.txt"))
	if len(modules) == 0 {
		modules = readRecordModules(filepath.Join(dir, "RECORD"))
	}
	// The normalized distribution name itself is importable often enough
	// (requests, flask) to serve as a final fallback.
	modules = append(modules, strings.ReplaceAll(Normalize(name), "-", "_"))

	for _, m := range modules {
		ix.register(m, d)
	}
}

// register adds a module mapping, keeping the higher version when two
// dist-info directories claim the same module (a stale install next to a
// fresh one).
func (ix *Index) register(module string, d distInfo) {
	key := moduleKey(module)
	if prev, ok := ix.byModule[key]; ok && !newerVersion(d.version, prev.version) {
		return
	}
	ix.byModule[key] = d
}

// newerVersion reports whether a should replace b. Versions are compared as
// semver when both parse; PEP 440 forms semver cannot represent (post/dev
// releases) fall back to a segment compare that orders digit runs
// numerically, so "post10" sorts after "post2".
func newerVersion(a, b string) bool {
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb) > 0
	}
	return compareSegments(a, b) > 0
}

func compareSegments(a, b string) int {
	as, bs := versionTokens(a), versionTokens(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		ta, tb := as[i], bs[i]
		if ta == tb {
			continue
		}
		na, errA := strconv.Atoi(ta)
		nb, errB := strconv.Atoi(tb)
		if errA == nil && errB == nil {
			if na < nb {
				return -1
			}
			return 1
		}
		if ta < tb {
			return -1
		}
		return 1
	}
	// A trailing segment ("1.2.post1" vs "1.2") marks the later release.
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// versionTokens splits a version string into alternating runs of digits and
// non-digits.
func versionTokens(v string) []string {
	var tokens []string
	start := 0
	for i := 1; i <= len(v); i++ {
		if i == len(v) || isDigit(v[i]) != isDigit(v[i-1]) {
			tokens = append(tokens, v[start:i])
			start = i
		}
	}
	return tokens
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// readMetadata extracts the Name and Version fields from a METADATA file.
func readMetadata(path string) (name, version string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break // end of headers
		}
		if v, ok := strings.CutPrefix(line, "Name: "); ok {
			name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Version: "); ok {
			version = strings.TrimSpace(v)
		}
		if name != "" && version != "" {
			break
		}
	}
	return name, version, scanner.Err()
}

// readTopLevel returns the module names listed in a top_level.txt file.
func readTopLevel(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var modules []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := strings.TrimSpace(scanner.Text()); m != "" {
			modules = append(modules, m)
		}
	}
	return modules
}

// readRecordModules derives top-level module names from a RECORD file, the
// installed-file manifest. Each line is "path,hash,size"; the first path
// segment (or a bare module.py) names a module.
func readRecordModules(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var modules []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry := scanner.Text()
		if idx := strings.IndexByte(entry, ','); idx >= 0 {
			entry = entry[:idx]
		}
		m := topLevelFromPath(entry)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			modules = append(modules, m)
		}
	}
	return modules
}

// topLevelFromPath maps one RECORD path to a module name, or "" when the
// path is metadata rather than code.
func topLevelFromPath(p string) string {
	p = filepath.ToSlash(p)
	if strings.HasPrefix(p, "../") || strings.HasPrefix(p, "__pycache__/") {
		return ""
	}
	if idx := strings.IndexByte(p, '/'); idx >= 0 {
		dir := p[:idx]
		if strings.HasSuffix(dir, ".dist-info") || strings.HasSuffix(dir, ".data") {
			return ""
		}
		return dir
	}
	if m, ok := strings.CutSuffix(p, ".py"); ok {
		return m
	}
	return ""
}

// moduleKey normalizes an import name for lookup.
func moduleKey(module string) string {
	return strings.ToLower(module)
}

// Normalize folds a distribution name to its PEP 503 canonical form:
// lowercase with runs of "-", "_" and "." collapsed to a single "-".
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	sep := false
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == '.' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

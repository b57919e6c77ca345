package resolver

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisneo/requmancer/internal/models"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeDistInfo creates a *.dist-info fixture like the ones pip writes.
func writeDistInfo(t *testing.T, sitePackages, dist, version string, topLevel, record []string) {
	t.Helper()
	dir := filepath.Join(sitePackages, dist+"-"+version+".dist-info")
	require.NoError(t, os.MkdirAll(dir, 0755))

	metadata := "Metadata-Version: 2.1\nName: " + dist + "\nVersion: " + version + "\n\nSome description.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "METADATA"), []byte(metadata), 0644))

	if topLevel != nil {
		var content string
		for _, m := range topLevel {
			content += m + "\n"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "top_level.txt"), []byte(content), 0644))
	}
	if record != nil {
		var content string
		for _, line := range record {
			content += line + "\n"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "RECORD"), []byte(content), 0644))
	}
}

func TestResolveTopLevel(t *testing.T) {
	sp := t.TempDir()
	writeDistInfo(t, sp, "requests", "2.31.0", []string{"requests"}, nil)
	writeDistInfo(t, sp, "PyYAML", "6.0.1", []string{"yaml", "_yaml"}, nil)

	ix := NewIndex([]string{sp}, testLogger())

	got := ix.Resolve("requests")
	assert.Equal(t, models.Dependency{Distribution: "requests", Version: "2.31.0", Module: "requests"}, got)

	// Module name differs from distribution name.
	got = ix.Resolve("yaml")
	assert.Equal(t, "PyYAML", got.Distribution)
	assert.Equal(t, "6.0.1", got.Version)

	got = ix.Resolve("_yaml")
	assert.Equal(t, "PyYAML", got.Distribution)
}

func TestResolveRecordFallback(t *testing.T) {
	sp := t.TempDir()
	writeDistInfo(t, sp, "MarkupSafe", "2.1.5", nil, []string{
		"MarkupSafe-2.1.5.dist-info/METADATA,sha256=aaa,100",
		"MarkupSafe-2.1.5.dist-info/RECORD,,",
		"markupsafe/__init__.py,sha256=bbb,200",
		"markupsafe/_speedups.c,sha256=ccc,300",
		"__pycache__/something.cpython-312.pyc,,",
	})

	ix := NewIndex([]string{sp}, testLogger())

	got := ix.Resolve("markupsafe")
	assert.Equal(t, "MarkupSafe", got.Distribution)
	assert.Equal(t, "2.1.5", got.Version)
}

func TestResolveSingleFileModule(t *testing.T) {
	sp := t.TempDir()
	writeDistInfo(t, sp, "six", "1.16.0", nil, []string{
		"six.py,sha256=abc,100",
		"six-1.16.0.dist-info/METADATA,,",
	})

	ix := NewIndex([]string{sp}, testLogger())
	got := ix.Resolve("six")
	assert.Equal(t, "six", got.Distribution)
	assert.Equal(t, "1.16.0", got.Version)
}

func TestResolveDuplicateKeepsNewer(t *testing.T) {
	sp := t.TempDir()
	writeDistInfo(t, sp, "requests", "2.30.0", []string{"requests"}, nil)
	writeDistInfo(t, sp, "requests", "2.31.0", []string{"requests"}, nil)

	ix := NewIndex([]string{sp}, testLogger())
	assert.Equal(t, "2.31.0", ix.Resolve("requests").Version)
}

func TestResolveUnknown(t *testing.T) {
	ix := NewIndex(nil, testLogger())

	got := ix.Resolve("fictional_pkg")
	assert.Equal(t, models.Dependency{
		Distribution: "fictional_pkg",
		Version:      models.VersionUnknown,
		Module:       "fictional_pkg",
	}, got)
	assert.False(t, got.Resolved())
}

func TestResolveUnreadableDir(t *testing.T) {
	ix := NewIndex([]string{"/does/not/exist"}, testLogger())
	assert.Equal(t, models.VersionUnknown, ix.Resolve("anything").Version)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"PyYAML":            "pyyaml",
		"typing_extensions": "typing-extensions",
		"ruamel.yaml":       "ruamel-yaml",
		"Flask--RESTful":    "flask-restful",
		"requests":          "requests",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestNewerVersion(t *testing.T) {
	assert.True(t, newerVersion("2.31.0", "2.30.0"))
	assert.False(t, newerVersion("2.30.0", "2.31.0"))
	assert.False(t, newerVersion("2.31.0", "2.31.0"))
	// PEP 440 forms semver cannot parse fall back to a segment compare
	// that orders digit runs numerically.
	assert.True(t, newerVersion("1.26.4.post2", "1.26.4.post1"))
	assert.True(t, newerVersion("1.26.4.post10", "1.26.4.post2"))
	assert.False(t, newerVersion("1.26.4.post2", "1.26.4.post10"))
	assert.True(t, newerVersion("1.26.4.post1", "1.26.4"))
	assert.False(t, newerVersion("1.26.4.post1", "1.26.4.post1"))
}

func TestResolveDuplicateKeepsNewerPostRelease(t *testing.T) {
	sp := t.TempDir()
	writeDistInfo(t, sp, "numpy", "1.26.4.post2", []string{"numpy"}, nil)
	writeDistInfo(t, sp, "numpy", "1.26.4.post10", []string{"numpy"}, nil)

	ix := NewIndex([]string{sp}, testLogger())
	assert.Equal(t, "1.26.4.post10", ix.Resolve("numpy").Version)
}

func TestDiscoverExplicitWins(t *testing.T) {
	t.Setenv("VIRTUAL_ENV", "/somewhere/else")
	got := Discover(t.TempDir(), []string{"/explicit/site-packages"})
	assert.Equal(t, []string{"/explicit/site-packages"}, got)
}

func TestDiscoverVirtualEnv(t *testing.T) {
	env := t.TempDir()
	sp := filepath.Join(env, "lib", "python3.12", "site-packages")
	require.NoError(t, os.MkdirAll(sp, 0755))
	t.Setenv("VIRTUAL_ENV", env)

	got := Discover(t.TempDir(), nil)
	assert.Equal(t, []string{sp}, got)
}

func TestDiscoverProjectVenv(t *testing.T) {
	t.Setenv("VIRTUAL_ENV", "")
	proj := t.TempDir()
	sp := filepath.Join(proj, ".venv", "lib", "python3.11", "site-packages")
	require.NoError(t, os.MkdirAll(sp, 0755))

	got := Discover(proj, nil)
	assert.Equal(t, []string{sp}, got)
}

func TestDiscoverNothing(t *testing.T) {
	t.Setenv("VIRTUAL_ENV", "")
	assert.Empty(t, Discover(t.TempDir(), nil))
}

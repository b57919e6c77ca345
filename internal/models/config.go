package models

// Config holds configuration for one generation run
type Config struct {
	// Directory is the root of the Python project to scan
	Directory string

	// Output settings
	OutputFile string // Path the manifest is written to
	Format     string // "pip" or "poetry"

	// Walk settings
	IncludeHidden bool // Descend into dot-directories

	// SitePackages overrides the resolver's site-packages discovery.
	// When empty the resolver looks at $VIRTUAL_ENV and then for a
	// venv/.venv inside Directory.
	SitePackages []string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Directory:     ".",
		OutputFile:    "requirements.txt",
		Format:        "pip",
		IncludeHidden: false,
	}
}

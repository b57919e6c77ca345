package models

// VersionUnknown marks a dependency whose installed version could not be
// determined from the local package index.
const VersionUnknown = "unknown"

// Dependency represents a resolved third-party requirement.
type Dependency struct {
	// Distribution is the installable package name as registered on the
	// index. It may differ from the import name (e.g. module "yaml" is
	// provided by distribution "PyYAML").
	Distribution string

	// Version is the installed version string, or VersionUnknown when no
	// installed distribution matched the module.
	Version string

	// Module is the import name that produced this dependency.
	Module string
}

// Resolved reports whether an installed version was found.
func (d Dependency) Resolved() bool {
	return d.Version != VersionUnknown && d.Version != ""
}

// String returns a human-readable representation
func (d Dependency) String() string {
	if !d.Resolved() {
		return d.Distribution
	}
	return d.Distribution + "==" + d.Version
}

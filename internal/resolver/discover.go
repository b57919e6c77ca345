package resolver

import (
	"os"
	"path/filepath"
)

// Discover returns the site-packages directories to index for a project.
// Explicit directories win. Otherwise an active $VIRTUAL_ENV is used, then a
// venv or .venv directory inside the project. The result may be empty, in
// which case every dependency resolves to an unknown version.
func Discover(projectDir string, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		if dirs := sitePackagesIn(venv); len(dirs) > 0 {
			return dirs
		}
	}
	for _, name := range []string{"venv", ".venv"} {
		if dirs := sitePackagesIn(filepath.Join(projectDir, name)); len(dirs) > 0 {
			return dirs
		}
	}
	return nil
}

// sitePackagesIn globs the site-packages layouts a virtualenv can have:
// lib/pythonX.Y/site-packages on POSIX, Lib/site-packages on Windows.
func sitePackagesIn(env string) []string {
	var dirs []string
	matches, _ := filepath.Glob(filepath.Join(env, "lib", "python*", "site-packages"))
	dirs = append(dirs, matches...)
	winPath := filepath.Join(env, "Lib", "site-packages")
	if info, err := os.Stat(winPath); err == nil && info.IsDir() {
		dirs = append(dirs, winPath)
	}
	return dirs
}

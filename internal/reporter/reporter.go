package reporter

import (
	"fmt"

	"github.com/parisneo/requmancer/internal/models"
)

// Reporter is the interface for manifest renderers
type Reporter interface {
	// Report renders the resolved dependencies as a manifest document
	Report(deps []models.Dependency) ([]byte, error)
}

// Get returns a reporter for the specified format
func Get(format string) (Reporter, error) {
	switch format {
	case "pip":
		return &PipReporter{}, nil
	case "poetry":
		return &PoetryReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q: choose pip or poetry", format)
	}
}

package reporter

import (
	"strings"

	"github.com/parisneo/requmancer/internal/models"
)

// PipReporter renders a flat requirements.txt manifest
type PipReporter struct{}

// Report writes one "distribution==version" line per dependency. A
// dependency with an unknown version is written as a bare name with no pin,
// leaving pip free to install whatever satisfies it.
func (r *PipReporter) Report(deps []models.Dependency) ([]byte, error) {
	var sb strings.Builder
	for _, d := range deps {
		if d.Resolved() {
			sb.WriteString(d.Distribution + "==" + d.Version + "\n")
		} else {
			sb.WriteString(d.Distribution + "\n")
		}
	}
	return []byte(sb.String()), nil
}

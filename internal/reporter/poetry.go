package reporter

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/parisneo/requmancer/internal/models"
)

// pythonConstraint is the interpreter requirement emitted alongside the
// dependencies, matching what poetry scaffolds for a new project.
const pythonConstraint = "^3.6"

// PoetryReporter renders a [tool.poetry.dependencies] table
type PoetryReporter struct{}

// poetryDocument mirrors the pyproject.toml section the table lives in.
type poetryDocument struct {
	Tool struct {
		Poetry struct {
			Dependencies map[string]string `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Report writes the dependencies as a TOML table. Known versions become
// caret requirements ("^1.2.3"); unknown versions become "*". The TOML
// encoder orders keys alphabetically, which keeps the document stable across
// runs.
func (r *PoetryReporter) Report(deps []models.Dependency) ([]byte, error) {
	var doc poetryDocument
	doc.Tool.Poetry.Dependencies = make(map[string]string, len(deps)+1)
	doc.Tool.Poetry.Dependencies["python"] = pythonConstraint

	for _, d := range deps {
		if d.Resolved() {
			doc.Tool.Poetry.Dependencies[d.Distribution] = "^" + d.Version
		} else {
			doc.Tool.Poetry.Dependencies[d.Distribution] = "*"
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

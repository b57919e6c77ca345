// Package extractor pulls top-level module names out of Python source files.
package extractor

import (
	"bufio"
	"bytes"
	"errors"
	"regexp"
	"strings"
)

// ErrNotSource is returned for files that are not Python source text.
var ErrNotSource = errors.New("not a python source file")

// importPattern matches "import a.b as c, d" statements, including
// function-local ones (leading whitespace).
var importPattern = regexp.MustCompile(`^\s*import\s+(.+)$`)

// fromPattern matches the module clause of "from X import ..." statements.
// A leading dot marks a relative import.
var fromPattern = regexp.MustCompile(`^\s*from\s+([.\w]+)\s+import\b`)

// clausePattern extracts the dotted module name at the start of one
// comma-separated import clause, dropping "as" aliases and trailing comments.
var clausePattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)`)

// Imports returns the distinct top-level module names imported by a Python
// source file. Only the outermost dotted segment is kept ("numpy.linalg"
// yields "numpy"). Relative imports ("from . import x") contribute nothing:
// they name the enclosing package, not an external dependency. Lines inside
// triple-quoted strings are not scanned.
func Imports(src []byte) ([]string, error) {
	if bytes.IndexByte(src, 0) >= 0 {
		return nil, ErrNotSource
	}

	seen := make(map[string]struct{})
	var mods []string
	add := func(name string) {
		name = topSegment(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			mods = append(mods, name)
		}
	}

	var inString string // active triple-quote delimiter, "" when outside

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if inString != "" {
			// The rest of a line that closes a docstring is tracked for
			// string state (it may open another) but not scanned for
			// imports; statements packed after a closing delimiter on
			// the same line stay invisible.
			inString = stringState(line, inString)
			continue
		}

		if m := fromPattern.FindStringSubmatch(line); m != nil {
			if !strings.HasPrefix(m[1], ".") {
				add(m[1])
			}
		} else if m := importPattern.FindStringSubmatch(line); m != nil {
			for _, clause := range strings.Split(m[1], ",") {
				if c := clausePattern.FindStringSubmatch(strings.TrimSpace(clause)); c != nil {
					add(c[1])
				}
			}
		}

		inString = stringState(line, "")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return mods, nil
}

// topSegment returns the part of a dotted module path before the first dot.
func topSegment(name string) string {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// stringState scans one line and returns the triple-quote delimiter left
// unclosed at its end, given the delimiter open at its start ("" when the
// line starts outside any multi-line string). Ordinary one-line string
// literals are stepped over, so a """ or ''' inside them never opens
// docstring state. Comments end the scan for the line. This is a line-level
// approximation, not a tokenizer; it is enough to keep docstring prose from
// being read as import statements.
func stringState(line, open string) string {
	var quote byte // ordinary string delimiter, 0 when outside
	for i := 0; i < len(line); i++ {
		switch {
		case open != "":
			if strings.HasPrefix(line[i:], open) {
				open = ""
				i += 2
			}
		case quote != 0:
			if line[i] == '\\' {
				i++
			} else if line[i] == quote {
				quote = 0
			}
		case line[i] == '#':
			return ""
		case strings.HasPrefix(line[i:], `"""`) || strings.HasPrefix(line[i:], "'''"):
			open = line[i : i+3]
			i += 2
		case line[i] == '"' || line[i] == '\'':
			quote = line[i]
		}
	}
	return open
}

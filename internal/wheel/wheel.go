// Package wheel inspects built wheel distributions: filename conventions,
// project name normalization, and the METADATA file embedded in the archive.
package wheel

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a project name: case folded, with runs of
// hyphen/underscore/dot collapsed to a single hyphen. "Json4.Extra_Pkg" and
// "json4-extra-pkg" normalize to the same string.
func NormalizeName(name string) string {
	folded := cases.Fold().String(strings.TrimSpace(name))
	return nameSeparators.ReplaceAllString(folded, "-")
}

// EscapeName converts a project name into the form used inside wheel
// filenames, where runs of separators become a single underscore.
func EscapeName(name string) string {
	return nameSeparators.ReplaceAllString(strings.TrimSpace(name), "_")
}

// Filename holds the components of a wheel filename:
// name-version[-build]-python-abi-platform.whl
type Filename struct {
	Name        string // escaped distribution name as it appears in the file
	Version     string
	Build       string // optional build tag, empty when absent
	PythonTag   string
	ABITag      string
	PlatformTag string
}

// NormalizedName returns the canonical form of the distribution name.
func (f Filename) NormalizedName() string { return NormalizeName(f.Name) }

func (f Filename) String() string {
	parts := []string{f.Name, f.Version}
	if f.Build != "" {
		parts = append(parts, f.Build)
	}
	parts = append(parts, f.PythonTag, f.ABITag, f.PlatformTag)
	return strings.Join(parts, "-") + ".whl"
}

// ParseFilename splits a wheel filename into its components. The distribution
// name is escaped in well-formed filenames, so exactly five or six
// hyphen-separated fields are expected.
func ParseFilename(filename string) (Filename, error) {
	base, ok := strings.CutSuffix(filename, ".whl")
	if !ok {
		return Filename{}, fmt.Errorf("not a wheel file: %s", filename)
	}

	parts := strings.Split(base, "-")
	switch len(parts) {
	case 5:
		return Filename{
			Name:        parts[0],
			Version:     parts[1],
			PythonTag:   parts[2],
			ABITag:      parts[3],
			PlatformTag: parts[4],
		}, nil
	case 6:
		return Filename{
			Name:        parts[0],
			Version:     parts[1],
			Build:       parts[2],
			PythonTag:   parts[3],
			ABITag:      parts[4],
			PlatformTag: parts[5],
		}, nil
	default:
		return Filename{}, fmt.Errorf("malformed wheel filename %s: expected 5 or 6 fields, got %d", filename, len(parts))
	}
}

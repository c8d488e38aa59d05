package refgeom

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coordgeom/shape-core/pkg/shape"
)

// libraryFile is the YAML schema of a user-defined geometry library.
type libraryFile struct {
	Geometries []geometryEntry `yaml:"geometries"`
}

type geometryEntry struct {
	Code    string       `yaml:"code"`
	Name    string       `yaml:"name"`
	Ligands [][3]float64 `yaml:"ligands"`
}

// Parse parses a YAML geometry library. Ligand coordinates are given
// relative to the central atom and are normalized on load, so files may
// use any convenient scale.
func Parse(data []byte) ([]Geometry, error) {
	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse geometry library yaml: %w", err)
	}
	if len(file.Geometries) == 0 {
		return nil, fmt.Errorf("geometry library is empty")
	}

	seen := make(map[string]bool, len(file.Geometries))
	out := make([]Geometry, 0, len(file.Geometries))
	for i, entry := range file.Geometries {
		if entry.Code == "" {
			return nil, fmt.Errorf("geometry %d: missing code", i)
		}
		if seen[entry.Code] {
			return nil, fmt.Errorf("geometry %d: duplicate code %q", i, entry.Code)
		}
		seen[entry.Code] = true
		if len(entry.Ligands) < 2 {
			return nil, fmt.Errorf("geometry %q: needs at least 2 ligands, got %d", entry.Code, len(entry.Ligands))
		}

		ligands := make([]shape.Vec3, len(entry.Ligands))
		for j, c := range entry.Ligands {
			ligands[j] = shape.Vec3{X: c[0], Y: c[1], Z: c[2]}
		}
		g := fromLigands(entry.Code, entry.Name, ligands)
		if err := shape.Validate(g.Points); err != nil {
			return nil, fmt.Errorf("geometry %q: %w", entry.Code, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// LoadFile reads and parses a YAML geometry library from disk.
func LoadFile(path string) ([]Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry library: %w", err)
	}
	return Parse(data)
}

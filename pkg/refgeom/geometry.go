// Package refgeom provides the reference geometry library: named,
// pre-normalized ideal coordination polyhedra keyed by coordination
// number, plus a YAML loader for user-defined shapes. The engine consumes
// geometries as opaque data.
package refgeom

import (
	"github.com/coordgeom/shape-core/pkg/shape"
)

// Geometry is one idealized reference polyhedron. Points carries the
// central point at index 0 followed by CN ligand points, centered at the
// centroid and scaled to unit RMS radius.
type Geometry struct {
	Code   string
	Name   string
	CN     int
	Points shape.PointSet
}

// fromLigands builds a normalized geometry from ideal ligand positions
// given relative to the central atom.
func fromLigands(code, name string, ligands []shape.Vec3) Geometry {
	return Geometry{
		Code:   code,
		Name:   name,
		CN:     len(ligands),
		Points: shape.PrepareActual(ligands),
	}
}

// ForCN returns the built-in geometries with the given coordination
// number.
func ForCN(cn int) []Geometry {
	var out []Geometry
	for _, g := range Builtin() {
		if g.CN == cn {
			out = append(out, g)
		}
	}
	return out
}

// Find returns the built-in geometry with the given code.
func Find(code string) (Geometry, bool) {
	for _, g := range Builtin() {
		if g.Code == code {
			return g, true
		}
	}
	return Geometry{}, false
}

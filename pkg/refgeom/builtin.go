package refgeom

import (
	"math"
	"sync"

	"github.com/coordgeom/shape-core/pkg/shape"
)

// Ideal polyhedra are constructed, not tabulated: every shape below is
// generated from unit ligand vectors and normalized through the same
// point-set normalizer the engine convention uses. Treat the returned
// geometries as read-only.

var (
	builtinOnce sync.Once
	builtins    []Geometry
)

// Builtin returns the built-in reference library, ordered by coordination
// number.
func Builtin() []Geometry {
	builtinOnce.Do(func() {
		builtins = buildAll()
	})
	return builtins
}

const tetrahedralAngle = 109.4712206344907 * math.Pi / 180

func buildAll() []Geometry {
	return []Geometry{
		fromLigands("L-2", "linear", []shape.Vec3{{Z: 1}, {Z: -1}}),
		fromLigands("vT-2", "V-shape (tetrahedral angle)", bent(tetrahedralAngle)),
		fromLigands("vOC-2", "V-shape (90 degrees)", bent(math.Pi/2)),

		fromLigands("TP-3", "trigonal planar", ring(3, 1, 0, 0)),
		fromLigands("vT-3", "trigonal pyramid", tetrahedronDirs()[:3]),
		fromLigands("fac-vOC-3", "fac-trivacant octahedron", []shape.Vec3{{X: 1}, {Y: 1}, {Z: 1}}),

		fromLigands("SP-4", "square planar", ring(4, 1, 0, 0)),
		fromLigands("T-4", "tetrahedron", tetrahedronDirs()),
		fromLigands("SS-4", "seesaw", []shape.Vec3{{X: 1}, {X: -1}, {Y: 1}, {Z: 1}}),
		fromLigands("vTBPY-4", "axially vacant trigonal bipyramid", append(ring(3, 1, 0, 0), shape.Vec3{Z: 1})),

		fromLigands("TBPY-5", "trigonal bipyramid", append(ring(3, 1, 0, 0), shape.Vec3{Z: 1}, shape.Vec3{Z: -1})),
		fromLigands("SPY-5", "square pyramid", squarePyramid()),
		fromLigands("PP-5", "pentagon", ring(5, 1, 0, 0)),

		fromLigands("OC-6", "octahedron", []shape.Vec3{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}),
		fromLigands("TPR-6", "trigonal prism", trigonalPrism()),
		fromLigands("HP-6", "hexagon", ring(6, 1, 0, 0)),

		fromLigands("PBPY-7", "pentagonal bipyramid", append(ring(5, 1, 0, 0), shape.Vec3{Z: 1}, shape.Vec3{Z: -1})),
		fromLigands("HPY-7", "hexagonal pyramid", append(ring(6, 1, 0, 0), shape.Vec3{Z: 1})),

		fromLigands("CU-8", "cube", cube()),
		fromLigands("SAPR-8", "square antiprism", squareAntiprism()),
		fromLigands("HBPY-8", "hexagonal bipyramid", append(ring(6, 1, 0, 0), shape.Vec3{Z: 1}, shape.Vec3{Z: -1})),
	}
}

// ring returns n points equally spaced on the circle of the given radius
// at height z, starting at angle phase.
func ring(n int, radius, z, phase float64) []shape.Vec3 {
	out := make([]shape.Vec3, n)
	for i := 0; i < n; i++ {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		out[i] = shape.Vec3{X: radius * math.Cos(a), Y: radius * math.Sin(a), Z: z}
	}
	return out
}

// bent returns two unit vectors in the xz-plane separated by theta.
func bent(theta float64) []shape.Vec3 {
	s, c := math.Sin(theta/2), math.Cos(theta/2)
	return []shape.Vec3{{X: s, Z: c}, {X: -s, Z: c}}
}

func tetrahedronDirs() []shape.Vec3 {
	s := 1 / math.Sqrt(3)
	return []shape.Vec3{
		{X: s, Y: s, Z: s},
		{X: s, Y: -s, Z: -s},
		{X: -s, Y: s, Z: -s},
		{X: -s, Y: -s, Z: s},
	}
}

func cube() []shape.Vec3 {
	s := 1 / math.Sqrt(3)
	out := make([]shape.Vec3, 0, 8)
	for _, x := range []float64{s, -s} {
		for _, y := range []float64{s, -s} {
			for _, z := range []float64{s, -s} {
				out = append(out, shape.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// squarePyramid places the apex on +z and the basal ligands at the
// spherical-pyramid polar angle of 104.45 degrees.
func squarePyramid() []shape.Vec3 {
	theta := 104.45 * math.Pi / 180
	out := ring(4, math.Sin(theta), math.Cos(theta), 0)
	return append(out, shape.Vec3{Z: 1})
}

// trigonalPrism uses the polar angle that makes the triangle edges equal
// to the inter-layer edges: tan(theta) = 2/sqrt(3).
func trigonalPrism() []shape.Vec3 {
	theta := math.Atan(2 / math.Sqrt(3))
	top := ring(3, math.Sin(theta), math.Cos(theta), 0)
	bottom := ring(3, math.Sin(theta), -math.Cos(theta), 0)
	return append(top, bottom...)
}

// squareAntiprism uses the circumradius split that makes all edges equal:
// the layer half-height c satisfies c^2 = r^2*sqrt(2)/4.
func squareAntiprism() []shape.Vec3 {
	r := math.Sqrt(1 / (1 + math.Sqrt2/4))
	c := math.Sqrt(1 - r*r)
	top := ring(4, r, c, math.Pi/4)
	bottom := ring(4, r, -c, 0)
	return append(top, bottom...)
}

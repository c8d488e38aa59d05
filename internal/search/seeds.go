package search

import (
	"math"

	"github.com/coordgeom/shape-core/pkg/shape"
	"github.com/coordgeom/shape-core/pkg/utils"
)

// keyOrientations returns the canonical starting rotations of the key
// stage: the identity and the quarter- and half-turns about each
// coordinate axis.
func keyOrientations() []shape.Rotation {
	axes := []shape.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	angles := []float64{math.Pi / 2, math.Pi, 3 * math.Pi / 2}

	out := []shape.Rotation{shape.Identity()}
	for _, ax := range axes {
		for _, ang := range angles {
			out = append(out, shape.FromAxisAngle(ax, ang))
		}
	}
	return out
}

// randomRotation draws a uniformly distributed proper rotation using
// Shoemake's subgroup method on unit quaternions.
func randomRotation(rng *utils.RandSource) shape.Rotation {
	u1 := rng.Float64()
	u2 := rng.Float64()
	u3 := rng.Float64()

	x := math.Sqrt(1-u1) * math.Sin(2*math.Pi*u2)
	y := math.Sqrt(1-u1) * math.Cos(2*math.Pi*u2)
	z := math.Sqrt(u1) * math.Sin(2*math.Pi*u3)
	w := math.Sqrt(u1) * math.Cos(2*math.Pi*u3)

	return quatToRotation(w, x, y, z)
}

func quatToRotation(w, x, y, z float64) shape.Rotation {
	return shape.Rotation{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// perturbRotation composes cur with a small random rotation: a random
// axis and a zero-mean normal angle with standard deviation scale.
func perturbRotation(cur shape.Rotation, rng *utils.RandSource, scale float64) shape.Rotation {
	axis := shape.Vec3{
		X: rng.NormFloat64(0, 1),
		Y: rng.NormFloat64(0, 1),
		Z: rng.NormFloat64(0, 1),
	}
	angle := rng.NormFloat64(0, scale)
	return shape.FromAxisAngle(axis, angle).Mul(cur)
}

// reorthonormalize rebuilds a proper rotation from drifting rows by
// Gram-Schmidt. Long perturbation chains accumulate rounding that would
// otherwise leak scale into the cost.
func reorthonormalize(r shape.Rotation) shape.Rotation {
	r0 := shape.Vec3{X: r[0][0], Y: r[0][1], Z: r[0][2]}.Unit()
	r1 := shape.Vec3{X: r[1][0], Y: r[1][1], Z: r[1][2]}
	r1 = r1.Sub(r0.Scale(r1.Dot(r0))).Unit()
	r2 := r0.Cross(r1)
	return shape.Rotation{
		{r0.X, r0.Y, r0.Z},
		{r1.X, r1.Y, r1.Z},
		{r2.X, r2.Y, r2.Z},
	}
}

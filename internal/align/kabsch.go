// Package align implements the inner loop of the shape measure engine:
// closed-form optimal rotation for a fixed correspondence (Kabsch via a
// specialized 3x3 Jacobi diagonalization), optimal correspondence for a
// fixed rotation (Hungarian assignment), and the alternating refiner that
// drives the two to a local optimum.
package align

import (
	"math"

	"github.com/coordgeom/shape-core/pkg/shape"
)

// singularTolSq is the squared singular value below which a column of the
// cross-covariance decomposition is treated as undefined and completed
// deterministically from the well-defined axes.
const singularTolSq = 1e-8

// Kabsch returns the proper rotation R minimizing sum ||R*a_i - b_i||^2
// over the paired points of a and b. approximate is true when the Jacobi
// diagonalization hit its sweep cap; the returned rotation is still the
// best found. Rank-deficient inputs (collinear or coincident points) are
// completed deterministically and never fail.
func Kabsch(a, b shape.PointSet) (r shape.Rotation, approximate bool) {
	// Cross-covariance H[i][j] = sum_p a_p[i] * b_p[j].
	var h mat3
	for p := range a {
		av := [3]float64{a[p].X, a[p].Y, a[p].Z}
		bv := [3]float64{b[p].X, b[p].Y, b[p].Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				h[i][j] += av[i] * bv[j]
			}
		}
	}

	// H = U*S*V^T via the eigendecomposition H^T H = V S^2 V^T.
	hth := mul3(transpose3(h), h)
	vals, vmat, converged := jacobiEigen(hth)
	approximate = !converged

	vcols := columns(vmat)
	var ucols [3]shape.Vec3
	defined := 0
	for k := 0; k < 3; k++ {
		if vals[k] < singularTolSq {
			break
		}
		sigma := math.Sqrt(vals[k])
		ucols[k] = matVec(h, vcols[k]).Scale(1 / sigma)
		defined++
	}

	switch defined {
	case 0:
		// H is numerically zero; any rotation is optimal.
		return shape.Identity(), approximate
	case 1:
		vcols[1] = perpendicular(vcols[0])
		vcols[2] = vcols[0].Cross(vcols[1])
		ucols[0] = ucols[0].Unit()
		ucols[1] = perpendicular(ucols[0])
		ucols[2] = ucols[0].Cross(ucols[1])
	case 2:
		ucols[0] = ucols[0].Unit()
		ucols[1] = ucols[1].Sub(ucols[0].Scale(ucols[1].Dot(ucols[0]))).Unit()
		vcols[2] = vcols[0].Cross(vcols[1])
		ucols[2] = ucols[0].Cross(ucols[1])
	default:
		// Re-orthogonalize against accumulated rounding; the sign of the
		// third column is taken from H itself so that the reflection
		// check below sees the true factorization.
		ucols[0] = ucols[0].Unit()
		ucols[1] = ucols[1].Sub(ucols[0].Scale(ucols[1].Dot(ucols[0]))).Unit()
		ucols[2] = ucols[2].
			Sub(ucols[0].Scale(ucols[2].Dot(ucols[0]))).
			Sub(ucols[1].Scale(ucols[2].Dot(ucols[1]))).Unit()
	}

	u := fromColumns(ucols)
	v := fromColumns(vcols)

	rot := shape.Rotation(mul3(v, transpose3(u)))
	if rot.Det() < 0 {
		// Forbid reflections: flip the column paired with the smallest
		// singular value.
		vcols[2] = vcols[2].Scale(-1)
		v = fromColumns(vcols)
		rot = shape.Rotation(mul3(v, transpose3(u)))
	}
	return rot, approximate
}

func columns(m mat3) [3]shape.Vec3 {
	var c [3]shape.Vec3
	for k := 0; k < 3; k++ {
		c[k] = shape.Vec3{X: m[0][k], Y: m[1][k], Z: m[2][k]}
	}
	return c
}

func fromColumns(c [3]shape.Vec3) mat3 {
	return mat3{
		{c[0].X, c[1].X, c[2].X},
		{c[0].Y, c[1].Y, c[2].Y},
		{c[0].Z, c[1].Z, c[2].Z},
	}
}

func matVec(m mat3, v shape.Vec3) shape.Vec3 {
	return shape.Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// perpendicular returns a deterministic unit vector orthogonal to v: the
// cross product with the coordinate axis least parallel to v.
func perpendicular(v shape.Vec3) shape.Vec3 {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	axis := shape.Vec3{X: 1}
	if ay < ax {
		axis = shape.Vec3{Y: 1}
		ax = ay
	}
	if az < ax {
		axis = shape.Vec3{Z: 1}
	}
	return v.Cross(axis).Unit()
}

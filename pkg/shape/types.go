// Package shape holds the value types shared by the measure engine, the
// reference geometry library and the dispatcher: 3D points, point sets,
// proper rotations, effort modes and computation results.
//
// By convention every PointSet handled by the engine carries the central
// atom as point index 0, followed by the ligand points. Correspondences are
// expressed over ligand indices only; the central points of the two sets are
// always paired with each other.
package shape

import (
	"fmt"
	"math"
	"strings"
)

// Vec3 is a 3D real vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of v and w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// NormSq returns the squared Euclidean length of v.
func (v Vec3) NormSq() float64 {
	return v.Dot(v)
}

// Unit returns v normalized to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// IsFinite reports whether all components are finite.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// PointSet is an ordered, fixed-length sequence of points.
type PointSet []Vec3

// Clone returns a deep copy of the point set.
func (p PointSet) Clone() PointSet {
	out := make(PointSet, len(p))
	copy(out, p)
	return out
}

// Centroid returns the arithmetic mean of the points. The centroid of an
// empty set is the origin.
func (p PointSet) Centroid() Vec3 {
	if len(p) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, v := range p {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(p)))
}

// RadiusSq returns the sum of squared distances of the points from the
// origin.
func (p PointSet) RadiusSq() float64 {
	var s float64
	for _, v := range p {
		s += v.NormSq()
	}
	return s
}

// RMSRadius returns the root-mean-square distance of the points from the
// origin.
func (p PointSet) RMSRadius() float64 {
	if len(p) == 0 {
		return 0
	}
	return math.Sqrt(p.RadiusSq() / float64(len(p)))
}

// Rotation is a proper orthogonal 3x3 transform (determinant +1), stored
// row-major.
type Rotation [3][3]float64

// Identity returns the identity rotation.
func Identity() Rotation {
	return Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Apply returns R*v.
func (r Rotation) Apply(v Vec3) Vec3 {
	return Vec3{
		r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}

// ApplyAll returns a new point set with R applied to every point.
func (r Rotation) ApplyAll(p PointSet) PointSet {
	out := make(PointSet, len(p))
	for i, v := range p {
		out[i] = r.Apply(v)
	}
	return out
}

// Mul returns the composition r*s (s applied first).
func (r Rotation) Mul(s Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[i][0]*s[0][j] + r[i][1]*s[1][j] + r[i][2]*s[2][j]
		}
	}
	return out
}

// Transpose returns the transpose of r, which for a proper rotation is its
// inverse.
func (r Rotation) Transpose() Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}
	return out
}

// Det returns the determinant of r.
func (r Rotation) Det() float64 {
	return r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
}

// FromEuler builds the rotation Rz(alpha)*Ry(beta)*Rz(gamma) (z-y-z
// convention, angles in radians).
func FromEuler(alpha, beta, gamma float64) Rotation {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	cg, sg := math.Cos(gamma), math.Sin(gamma)
	return Rotation{
		{ca*cb*cg - sa*sg, -ca*cb*sg - sa*cg, ca * sb},
		{sa*cb*cg + ca*sg, -sa*cb*sg + ca*cg, sa * sb},
		{-sb * cg, sb * sg, cb},
	}
}

// FromAxisAngle builds the rotation of the given angle (radians) about the
// given axis. The axis need not be normalized; a zero axis yields the
// identity.
func FromAxisAngle(axis Vec3, angle float64) Rotation {
	u := axis.Unit()
	if u.NormSq() == 0 {
		return Identity()
	}
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return Rotation{
		{c + u.X*u.X*t, u.X*u.Y*t - u.Z*s, u.X*u.Z*t + u.Y*s},
		{u.Y*u.X*t + u.Z*s, c + u.Y*u.Y*t, u.Y*u.Z*t - u.X*s},
		{u.Z*u.X*t - u.Y*s, u.Z*u.Y*t + u.X*s, c + u.Z*u.Z*t},
	}
}

// Correspondence is a bijection from ligand index in the actual set to
// ligand index in the reference set.
type Correspondence []int

// Clone returns a copy of the correspondence.
func (c Correspondence) Clone() Correspondence {
	out := make(Correspondence, len(c))
	copy(out, c)
	return out
}

// Mode selects the numeric budgets of the global search.
type Mode string

const (
	// ModeFast trades accuracy for speed: a sparse orientation grid and
	// few annealing restarts.
	ModeFast Mode = "fast"
	// ModeDefault is the balanced budget.
	ModeDefault Mode = "default"
	// ModeIntensive spends the largest budget; its candidate set contains
	// those of the smaller modes for a fixed seed.
	ModeIntensive Mode = "intensive"
)

// ParseMode parses a mode string. The empty string maps to ModeDefault.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFast:
		return ModeFast, nil
	case ModeDefault, "":
		return ModeDefault, nil
	case ModeIntensive:
		return ModeIntensive, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Result is the outcome of a single measure computation. It is produced
// once per call and never mutated afterwards.
type Result struct {
	// Measure is the continuous shape measure, >= 0, zero for a perfect
	// match.
	Measure float64
	// Rotation is the best proper rotation found, applied to the actual
	// points.
	Rotation Rotation
	// Correspondence maps actual ligand index to reference ligand index
	// under the best alignment.
	Correspondence Correspondence
	// Aligned is the actual point set (central point first) after
	// applying Rotation.
	Aligned PointSet
	// Approximate is set when the Jacobi diagonalization hit its sweep
	// cap at least once; the result is still the best found.
	Approximate bool
}

package search

import (
	"gonum.org/v1/gonum/mat"

	"github.com/coordgeom/shape-core/pkg/shape"
)

// Advisor supplies extra seed rotations derived from structural
// heuristics. Advisors are purely advisory: a missing or unhelpful
// advisor only slows convergence, it never changes what the search can
// find.
type Advisor interface {
	// Seeds returns candidate rotations for aligning actual onto ref.
	Seeds(actual, ref shape.PointSet) []shape.Rotation
	// Name returns the name of the heuristic.
	Name() string
}

// PrincipalAxisAdvisor seeds the search with the rotations that map the
// principal axes of the actual set onto those of the reference. The
// eigenframes leave a sign ambiguity per axis, so all four proper
// combinations are returned.
type PrincipalAxisAdvisor struct{}

func (PrincipalAxisAdvisor) Name() string {
	return "principal_axis"
}

func (PrincipalAxisAdvisor) Seeds(actual, ref shape.PointSet) []shape.Rotation {
	fa, ok := principalFrame(actual)
	if !ok {
		return nil
	}
	fr, ok := principalFrame(ref)
	if !ok {
		return nil
	}

	// R = Fr * D * Fa^T for the four diagonal sign matrices with
	// determinant +1.
	signs := [4][3]float64{
		{1, 1, 1},
		{1, -1, -1},
		{-1, 1, -1},
		{-1, -1, 1},
	}
	seeds := make([]shape.Rotation, 0, len(signs))
	for _, d := range signs {
		var r shape.Rotation
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var s float64
				for k := 0; k < 3; k++ {
					s += fr[i][k] * d[k] * fa[j][k]
				}
				r[i][j] = s
			}
		}
		seeds = append(seeds, r)
	}
	return seeds
}

// principalFrame returns the eigenvectors of the gyration tensor
// sum p*p^T as the columns of a proper (determinant +1) matrix, ordered
// by descending eigenvalue.
func principalFrame(p shape.PointSet) ([3][3]float64, bool) {
	var t [9]float64
	for _, v := range p {
		c := [3]float64{v.X, v.Y, v.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t[3*i+j] += c[i] * c[j]
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymDense(3, t[:]), true) {
		return [3][3]float64{}, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// gonum orders eigenvalues ascending; reverse to descending.
	var f [3][3]float64
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			f[i][k] = vecs.At(i, 2-k)
		}
	}
	if det3(f) < 0 {
		for i := 0; i < 3; i++ {
			f[i][2] = -f[i][2]
		}
	}
	return f, true
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

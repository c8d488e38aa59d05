package align

import (
	"math"

	"github.com/coordgeom/shape-core/pkg/shape"
)

// Refinement is the outcome of an alternating local refinement.
type Refinement struct {
	Rotation       shape.Rotation
	Correspondence shape.Correspondence
	Cost           float64
	Approximate    bool
}

// Refine alternates optimal assignment and optimal rotation from the
// start rotation until the cost improvement falls below eps or maxIter
// alternations have run. Each alternation is cost-non-increasing, so the
// result is a local optimum of the joint rotation/correspondence
// landscape.
func Refine(start shape.Rotation, actual, ref shape.PointSet, eps float64, maxIter int) Refinement {
	best := Refinement{Rotation: start, Cost: math.Inf(1)}

	r := start
	for it := 0; it < maxIter; it++ {
		perm := AssignMin(LigandCostMatrix(r, actual, ref))
		r2, approx := Kabsch(pairedSet(actual, nil), pairedSet(ref, perm))
		c := Cost(r2, actual, ref, perm)
		if approx {
			best.Approximate = true
		}
		if c < best.Cost {
			best.Rotation = r2
			best.Correspondence = shape.Correspondence(perm).Clone()
			improved := best.Cost - c
			best.Cost = c
			r = r2
			if improved < eps {
				break
			}
		} else {
			break
		}
	}

	if best.Correspondence == nil {
		// Degenerate start: record the assignment for the start rotation.
		perm := AssignMin(LigandCostMatrix(start, actual, ref))
		best.Correspondence = shape.Correspondence(perm)
		best.Rotation = start
		best.Cost = Cost(start, actual, ref, best.Correspondence)
	}
	return best
}

// pairedSet lays out a full point set in correspondence order: the central
// point first, then the ligands permuted by perm. A nil perm keeps the
// original order.
func pairedSet(p shape.PointSet, perm []int) shape.PointSet {
	out := make(shape.PointSet, len(p))
	out[0] = p[0]
	if perm == nil {
		copy(out[1:], p[1:])
		return out
	}
	for i, j := range perm {
		out[i+1] = p[j+1]
	}
	return out
}

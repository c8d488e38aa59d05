package align

import "github.com/coordgeom/shape-core/pkg/shape"

// Cost returns the total squared deviation sum ||R*a_i - b_sigma(i)||^2
// between the full point sets under the ligand correspondence perm. The
// central points at index 0 are paired with each other.
func Cost(r shape.Rotation, actual, ref shape.PointSet, perm shape.Correspondence) float64 {
	total := r.Apply(actual[0]).Sub(ref[0]).NormSq()
	for i, j := range perm {
		total += r.Apply(actual[i+1]).Sub(ref[j+1]).NormSq()
	}
	return total
}

// Measure converts a squared-deviation cost to the continuous shape
// measure scale: 100 * cost / sum ||ref_i||^2. With the reference
// pre-normalized to unit RMS radius the denominator equals the point
// count. The extensive convention is used throughout: the central point
// counts in both sums.
func Measure(cost float64, ref shape.PointSet) float64 {
	denom := ref.RadiusSq()
	if denom == 0 {
		return 0
	}
	return 100 * cost / denom
}

package align

import (
	"math"

	"github.com/coordgeom/shape-core/pkg/shape"
)

// AssignMin solves the minimum-cost bijective assignment for the square
// cost matrix using the Hungarian algorithm with potentials, O(n^3).
// Ties between equal-cost assignments are broken by scanning columns in
// index order, so the result is deterministic for a given matrix.
func AssignMin(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[j] = row assigned to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	result := make([]int, n)
	for j := 1; j <= n; j++ {
		result[match[j]-1] = j - 1
	}
	return result
}

// LigandCostMatrix builds the N x N squared-distance matrix between the
// rotated actual ligands and the reference ligands. The central points at
// index 0 of both sets are excluded; they are always paired with each
// other.
func LigandCostMatrix(r shape.Rotation, actual, ref shape.PointSet) [][]float64 {
	n := len(actual) - 1
	cost := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		ra := r.Apply(actual[i+1])
		for j := 0; j < n; j++ {
			row[j] = ra.Sub(ref[j+1]).NormSq()
		}
		cost[i] = row
	}
	return cost
}

package align

import "math"

const (
	// jacobiTol is the largest off-diagonal magnitude at which the
	// diagonalization is considered converged.
	jacobiTol = 1e-10
	// jacobiMaxSweeps caps the number of full sweeps. Hitting the cap is
	// not fatal; the best-found decomposition is returned flagged
	// approximate.
	jacobiMaxSweeps = 100
)

type mat3 = [3][3]float64

func identity3() mat3 {
	return mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func mul3(a, b mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return out
}

func transpose3(a mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[j][i]
		}
	}
	return out
}

func offDiagMax(a mat3) float64 {
	m := math.Abs(a[0][1])
	if v := math.Abs(a[0][2]); v > m {
		m = v
	}
	if v := math.Abs(a[1][2]); v > m {
		m = v
	}
	return m
}

// jacobiEigen diagonalizes the symmetric matrix s by cyclic two-sided
// Jacobi rotations. Eigenvalues are returned in descending order with the
// matching eigenvectors as the columns of vecs. converged is false when the
// sweep cap was reached before the off-diagonal magnitude fell below
// jacobiTol.
func jacobiEigen(s mat3) (vals [3]float64, vecs mat3, converged bool) {
	a := s
	v := identity3()
	pairs := [3][2]int{{0, 1}, {0, 2}, {1, 2}}

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		if offDiagMax(a) < jacobiTol {
			converged = true
			break
		}
		for _, pq := range pairs {
			p, q := pq[0], pq[1]
			apq := a[p][q]
			if apq == 0 {
				continue
			}
			// Classic 2x2 rotation eliminating a[p][q].
			theta := (a[q][q] - a[p][p]) / (2 * apq)
			t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
			if theta < 0 {
				t = -t
			}
			c := 1 / math.Sqrt(t*t+1)
			sn := t * c

			g := identity3()
			g[p][p], g[q][q] = c, c
			g[p][q], g[q][p] = sn, -sn

			a = mul3(mul3(transpose3(g), a), g)
			v = mul3(v, g)
		}
	}

	vals = [3]float64{a[0][0], a[1][1], a[2][2]}
	order := [3]int{0, 1, 2}
	// Insertion sort by descending eigenvalue keeps ordering
	// deterministic for ties.
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && vals[order[j]] > vals[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	var sortedVals [3]float64
	var sortedVecs mat3
	for k, idx := range order {
		sortedVals[k] = vals[idx]
		for r := 0; r < 3; r++ {
			sortedVecs[r][k] = v[r][idx]
		}
	}
	return sortedVals, sortedVecs, converged
}

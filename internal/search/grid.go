package search

import (
	"math"

	"github.com/coordgeom/shape-core/internal/align"
	"github.com/coordgeom/shape-core/pkg/shape"
)

// gridStage samples the z-y-z Euler angles over the 15 degree base grid
// at the mode's stride and refines every sample loosely. Strides sample
// nested subsets of the base grid, so a smaller stride only adds
// candidates.
func (s *Searcher) gridStage(st *searchState) {
	const steps = 360 / gridBaseDeg // per full circle
	stride := s.b.gridStride
	visited := 0

	for ia := 0; ia < steps; ia += stride {
		alpha := float64(ia) * gridBaseDeg * math.Pi / 180
		for ib := 0; ib <= steps/2; ib += stride {
			beta := float64(ib) * gridBaseDeg * math.Pi / 180
			for ig := 0; ig < steps; ig += stride {
				gamma := float64(ig) * gridBaseDeg * math.Pi / 180
				r := shape.FromEuler(alpha, beta, gamma)
				st.consider(align.Refine(r, st.actual, st.ref, s.b.scoutEps, s.b.scoutCap))
				visited++
				if st.measure() < s.b.gridExit {
					s.report("grid", visited, st.measure())
					return
				}
				// The poles are degenerate in gamma; one sample is
				// enough there.
				if ib == 0 || ib == steps/2 {
					break
				}
			}
		}
	}
	s.report("grid", visited, st.measure())
}

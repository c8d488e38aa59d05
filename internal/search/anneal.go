package search

import (
	"math"

	"github.com/coordgeom/shape-core/internal/align"
	"github.com/coordgeom/shape-core/pkg/logger"
	"github.com/coordgeom/shape-core/pkg/shape"
	"github.com/coordgeom/shape-core/pkg/utils"
)

const progressEvery = 50

// annealStage runs independent simulated-annealing restarts. Restart
// zero launches from the key-stage best so every mode explores the same
// trajectory prefix for a fixed seed; later restarts launch from random
// orientations. Each restart cools geometrically, accepts worsening moves
// with Metropolis probability, and periodically re-solves the
// correspondence, since the optimal assignment shifts with the rotation.
func (s *Searcher) annealStage(st *searchState) {
	for restart := 0; restart < s.b.restarts; restart++ {
		rng := utils.NewRandSource(st.seed + int64(restart)*7919 + 1)

		cur := st.keyBest
		if restart > 0 {
			cur = randomRotation(rng)
		}
		perm := shape.Correspondence(align.AssignMin(align.LigandCostMatrix(cur, st.actual, st.ref)))
		cost := align.Cost(cur, st.actual, st.ref, perm)

		local := align.Refinement{Rotation: cur, Correspondence: perm.Clone(), Cost: cost}
		temp := s.b.tempInit

		for step := 0; step < s.b.annealSteps; step++ {
			prop := perturbRotation(cur, rng, temp*s.b.stepScale)
			c := align.Cost(prop, st.actual, st.ref, perm)
			if c < cost || rng.Float64() < math.Exp(-(c-cost)/temp) {
				cur, cost = prop, c
			}

			if (step+1)%s.b.reassignEvery == 0 {
				cur = reorthonormalize(cur)
				perm = align.AssignMin(align.LigandCostMatrix(cur, st.actual, st.ref))
				cost = align.Cost(cur, st.actual, st.ref, perm)
			}

			if cost < local.Cost {
				local.Rotation = cur
				local.Correspondence = perm.Clone()
				local.Cost = cost
			}

			temp *= s.b.tempCool

			if (step+1)%progressEvery == 0 {
				best := math.Min(st.measure(), align.Measure(local.Cost, st.ref))
				s.report("anneal", restart*s.b.annealSteps+step+1, best)
			}
			if align.Measure(local.Cost, st.ref) < s.b.annealExit {
				break
			}
		}

		st.consider(align.Refine(local.Rotation, st.actual, st.ref, s.b.refineEps, s.b.refineCap))
		logger.Debug("annealing restart finished",
			"restart", restart,
			"restart_measure", align.Measure(local.Cost, st.ref),
			"best_measure", st.measure(),
		)
		if st.measure() < s.b.annealExit {
			break
		}
	}
	s.report("anneal", s.b.restarts*s.b.annealSteps, st.measure())
}

// polishStage is a final annealing-style pass with small fixed steps and
// greedy acceptance, stopping once no improvement is seen for the
// configured patience.
func (s *Searcher) polishStage(st *searchState) {
	if st.best.Correspondence == nil {
		return
	}
	rng := utils.NewRandSource(st.seed ^ 0x5f3759df)

	cur := st.best.Rotation
	perm := st.best.Correspondence.Clone()
	cost := st.best.Cost

	noImprovement := 0
	for step := 0; step < s.b.polishSteps && noImprovement < s.b.polishPatience; step++ {
		prop := perturbRotation(cur, rng, s.b.polishStep)
		c := align.Cost(prop, st.actual, st.ref, perm)
		if c < cost {
			cur = reorthonormalize(prop)
			perm = align.AssignMin(align.LigandCostMatrix(cur, st.actual, st.ref))
			cost = align.Cost(cur, st.actual, st.ref, perm)
			noImprovement = 0
		} else {
			noImprovement++
		}
	}

	st.consider(align.Refinement{Rotation: cur, Correspondence: perm, Cost: cost})
	s.report("polish", 0, st.measure())
}

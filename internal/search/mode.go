package search

import "github.com/coordgeom/shape-core/pkg/shape"

// budgets holds the numeric knobs of the staged search for one effort
// mode. Budgets are nested: the grid strides sample nested subsets of a
// common 15 degree base grid, and a larger mode runs a superset of the
// annealing restarts and steps of a smaller one, so for a fixed seed more
// effort can only tighten the result.
type budgets struct {
	gridStride int // step over the 15 degree Euler base grid

	restarts      int
	annealSteps   int
	reassignEvery int
	tempInit      float64
	tempCool      float64
	stepScale     float64

	polishSteps    int
	polishPatience int
	polishStep     float64

	keyExit    float64 // measure below which the key stage ends the search
	gridExit   float64 // measure below which the grid stage ends the search
	annealExit float64 // per-restart and stage-wide annealing exit

	refineEps  float64
	refineCap  int
	scoutEps   float64 // loose refinement used on every grid point
	scoutCap   int
}

const gridBaseDeg = 15

func budgetsFor(m shape.Mode) budgets {
	b := budgets{
		reassignEvery:  10,
		tempInit:       0.3,
		tempCool:       0.97,
		stepScale:      1.0,
		polishStep:     0.03,
		keyExit:        0.01,
		gridExit:       0.05,
		annealExit:     0.01,
		refineEps:      1e-12,
		refineCap:      30,
		scoutEps:       1e-9,
		scoutCap:       5,
	}
	switch m {
	case shape.ModeFast:
		b.gridStride = 4
		b.restarts = 2
		b.annealSteps = 200
		b.polishSteps = 150
		b.polishPatience = 40
	case shape.ModeIntensive:
		b.gridStride = 1
		b.restarts = 8
		b.annealSteps = 1200
		b.polishSteps = 700
		b.polishPatience = 120
	default:
		b.gridStride = 2
		b.restarts = 4
		b.annealSteps = 500
		b.polishSteps = 300
		b.polishPatience = 60
	}
	return b
}

// Package search implements the staged global search that approximates
// the global minimum of the joint rotation/correspondence cost landscape:
// key orientations, a coarse Euler-angle grid, simulated-annealing
// restarts and a local polish, each stage seeded by the best result of the
// previous one. The landscape has shallow local minima where visually
// similar but distinct reference polyhedra collapse to one score under
// weak search; the staged, increasingly randomized schedule exists to keep
// them apart.
package search

import (
	"math"

	"github.com/coordgeom/shape-core/internal/align"
	"github.com/coordgeom/shape-core/pkg/logger"
	"github.com/coordgeom/shape-core/pkg/refgeom"
	"github.com/coordgeom/shape-core/pkg/shape"
	"github.com/coordgeom/shape-core/pkg/utils"
)

// ProgressFunc is invoked at stage boundaries and periodically during
// annealing with the stage name, a step counter and the best measure so
// far. Invocation never alters the computed result.
type ProgressFunc func(stage string, step int, bestMeasure float64)

// Searcher holds the immutable configuration of the measure computation.
// A Searcher carries no state across calls: every Compute allocates and
// discards its own optimization state, so one Searcher may serve many
// goroutines, or a fresh one may be built per call.
type Searcher struct {
	mode     shape.Mode
	b        budgets
	seed     int64
	advisor  Advisor
	seedRots []shape.Rotation
	progress ProgressFunc
}

// New creates a Searcher for the given effort mode with the principal-axis
// advisor attached.
func New(mode shape.Mode) *Searcher {
	return &Searcher{
		mode:    mode,
		b:       budgetsFor(mode),
		advisor: PrincipalAxisAdvisor{},
	}
}

// WithSeed sets the seed of the perturbation randomness. A fixed non-zero
// seed makes the whole search deterministic.
func (s *Searcher) WithSeed(seed int64) *Searcher {
	s.seed = seed
	return s
}

// WithAdvisor replaces the structural advisor; nil disables it.
func (s *Searcher) WithAdvisor(a Advisor) *Searcher {
	s.advisor = a
	return s
}

// WithSeedRotations adds externally supplied candidate rotations to the
// key-orientation stage.
func (s *Searcher) WithSeedRotations(rots []shape.Rotation) *Searcher {
	s.seedRots = append([]shape.Rotation(nil), rots...)
	return s
}

// WithProgress sets the progress callback.
func (s *Searcher) WithProgress(fn ProgressFunc) *Searcher {
	s.progress = fn
	return s
}

// searchState is the ephemeral per-call optimization state.
type searchState struct {
	actual shape.PointSet
	ref    shape.PointSet
	seed   int64 // resolved base seed; restart and polish streams derive from it

	best    align.Refinement
	keyBest shape.Rotation // snapshot after the key stage; annealing restarts launch from here
	approx  bool
}

// baseSeed resolves the randomness seed of one Compute call: an explicit
// seed is used as is, a zero seed draws a fresh one per run.
func (s *Searcher) baseSeed() int64 {
	if s.seed != 0 {
		return s.seed
	}
	return utils.NewRandSource(0).Int63()
}

func (st *searchState) measure() float64 {
	return align.Measure(st.best.Cost, st.ref)
}

// consider merges a refinement into the running best.
func (st *searchState) consider(r align.Refinement) {
	if r.Approximate {
		st.approx = true
	}
	if r.Cost < st.best.Cost {
		st.best = r
	}
}

func (s *Searcher) report(stage string, step int, best float64) {
	if s.progress != nil {
		s.progress(stage, step, best)
	}
}

// Compute runs the staged search and returns the best measure, rotation
// and correspondence found. Both sets carry the central point at index 0;
// actual must be centered (and scale-normalized upstream), ref is assumed
// pre-normalized to unit RMS radius.
func (s *Searcher) Compute(actual, ref shape.PointSet) (*shape.Result, error) {
	if len(actual) != len(ref) {
		return nil, &shape.SizeMismatchError{ActualN: len(actual), ReferenceN: len(ref)}
	}
	if err := shape.Validate(actual); err != nil {
		return nil, err
	}
	if err := shape.Validate(ref); err != nil {
		return nil, err
	}

	st := &searchState{
		actual: actual.Clone(),
		ref:    ref.Clone(),
		seed:   s.baseSeed(),
		best:   align.Refinement{Rotation: shape.Identity(), Cost: math.Inf(1)},
	}

	s.keyStage(st)
	if st.measure() >= s.b.keyExit {
		s.gridStage(st)
		if st.measure() >= s.b.gridExit {
			s.annealStage(st)
		}
	}
	s.polishStage(st)

	st.consider(align.Refine(st.best.Rotation, st.actual, st.ref, s.b.refineEps, s.b.refineCap))

	measure := st.measure()
	if st.approx {
		logger.Warn("rotation solver hit its sweep cap; measure flagged approximate",
			"mode", string(s.mode),
			"measure", measure,
		)
	}
	logger.Debug("shape measure computed",
		"mode", string(s.mode),
		"measure", measure,
		"approximate", st.approx,
	)

	return &shape.Result{
		Measure:        measure,
		Rotation:       st.best.Rotation,
		Correspondence: st.best.Correspondence.Clone(),
		Aligned:        st.best.Rotation.ApplyAll(actual),
		Approximate:    st.approx,
	}, nil
}

// ComputeLigands is the ligand-level entry point: coordinates are given
// relative to the central atom and matched against a library geometry of
// equal coordination number. The central-atom point and the unit-RMS
// normalization are applied here, off the engine's hot path.
func (s *Searcher) ComputeLigands(ligands []shape.Vec3, geom *refgeom.Geometry) (*shape.Result, error) {
	if len(ligands) != geom.CN {
		return nil, &shape.SizeMismatchError{ActualN: len(ligands), ReferenceN: geom.CN}
	}
	return s.Compute(shape.PrepareActual(ligands), geom.Points)
}

// keyStage refines the catalogue of canonical orientations, the advisor
// seeds and any externally supplied rotations.
func (s *Searcher) keyStage(st *searchState) {
	cands := keyOrientations()
	if s.advisor != nil {
		cands = append(cands, s.advisor.Seeds(st.actual, st.ref)...)
	}
	cands = append(cands, s.seedRots...)

	for i, r := range cands {
		st.consider(align.Refine(r, st.actual, st.ref, s.b.refineEps, s.b.refineCap))
		if st.measure() < s.b.keyExit {
			s.report("key", i+1, st.measure())
			st.keyBest = st.best.Rotation
			return
		}
	}
	st.keyBest = st.best.Rotation
	s.report("key", len(cands), st.measure())
}

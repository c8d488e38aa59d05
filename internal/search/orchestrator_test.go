package search

import (
	"errors"
	"math"
	"testing"

	"github.com/coordgeom/shape-core/pkg/refgeom"
	"github.com/coordgeom/shape-core/pkg/shape"
)

// perturbedOctahedron is a slightly distorted set of six ligands whose
// best library match is unambiguously OC-6.
func perturbedOctahedron() []shape.Vec3 {
	return []shape.Vec3{
		{X: 1.05, Y: 0.02, Z: -0.01},
		{X: -0.98, Y: 0.03, Z: 0.02},
		{X: 0.01, Y: 1.02, Z: 0.04},
		{X: -0.02, Y: -1.00, Z: 0.01},
		{X: 0.03, Y: -0.02, Z: 0.97},
		{X: 0.00, Y: 0.01, Z: -1.03},
	}
}

func mustFind(t *testing.T, code string) refgeom.Geometry {
	t.Helper()
	g, ok := refgeom.Find(code)
	if !ok {
		t.Fatalf("missing built-in geometry %q", code)
	}
	return g
}

func measureOf(t *testing.T, mode shape.Mode, seed int64, ligands []shape.Vec3, code string) float64 {
	t.Helper()
	g := mustFind(t, code)
	res, err := New(mode).WithSeed(seed).ComputeLigands(ligands, &g)
	if err != nil {
		t.Fatalf("ComputeLigands(%s): %v", code, err)
	}
	return res.Measure
}

func TestSelfMatchAllBuiltins(t *testing.T) {
	s := New(shape.ModeFast).WithSeed(1)
	for _, g := range refgeom.Builtin() {
		res, err := s.Compute(g.Points, g.Points)
		if err != nil {
			t.Fatalf("%s: %v", g.Code, err)
		}
		if res.Measure > 1e-3 {
			t.Errorf("%s: self-match measure %g", g.Code, res.Measure)
		}
		if res.Measure < 0 {
			t.Errorf("%s: negative measure %g", g.Code, res.Measure)
		}
	}
}

func TestMeasureIsRotationInvariant(t *testing.T) {
	ligands := perturbedOctahedron()
	q := shape.FromAxisAngle(shape.Vec3{X: 0.3, Y: -0.7, Z: 0.5}, 1.1)
	rotated := make([]shape.Vec3, len(ligands))
	for i, v := range ligands {
		rotated[i] = q.Apply(v)
	}

	m1 := measureOf(t, shape.ModeDefault, 42, ligands, "OC-6")
	m2 := measureOf(t, shape.ModeDefault, 42, rotated, "OC-6")
	if math.Abs(m1-m2) > 1e-6 {
		t.Fatalf("rotated input scored %g, original %g", m2, m1)
	}
}

func TestMeasureIsPermutationInvariant(t *testing.T) {
	ligands := perturbedOctahedron()
	shuffled := []shape.Vec3{
		ligands[4], ligands[1], ligands[5], ligands[0], ligands[3], ligands[2],
	}
	m1 := measureOf(t, shape.ModeDefault, 42, ligands, "OC-6")
	m2 := measureOf(t, shape.ModeDefault, 42, shuffled, "OC-6")
	if math.Abs(m1-m2) > 1e-6 {
		t.Fatalf("relabeled input scored %g, original %g", m2, m1)
	}
}

func TestEffortModesAreMonotone(t *testing.T) {
	ligands := perturbedOctahedron()
	fast := measureOf(t, shape.ModeFast, 42, ligands, "OC-6")
	def := measureOf(t, shape.ModeDefault, 42, ligands, "OC-6")
	intensive := measureOf(t, shape.ModeIntensive, 42, ligands, "OC-6")

	if def > fast+1e-9 {
		t.Errorf("default mode %g worse than fast %g", def, fast)
	}
	if intensive > def+1e-9 {
		t.Errorf("intensive mode %g worse than default %g", intensive, def)
	}
}

// Octahedron and trigonal prism are the classic near-confusable pair:
// the measure between them must stay clearly away from zero.
func TestOctahedronPrismSeparation(t *testing.T) {
	oc := mustFind(t, "OC-6")
	tpr := mustFind(t, "TPR-6")

	res, err := New(shape.ModeDefault).WithSeed(7).Compute(oc.Points, tpr.Points)
	if err != nil {
		t.Fatal(err)
	}
	if res.Measure < 0.5 {
		t.Fatalf("OC-6 vs TPR-6 measure %g, expected clear separation", res.Measure)
	}
}

func TestAmmoniaMatchesTrigonalPyramid(t *testing.T) {
	// Three ligands with 107-degree interligand angles, the ammonia
	// coordination environment.
	cosTheta := math.Sqrt((2*math.Cos(107*math.Pi/180) + 1) / 3)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	var ligands []shape.Vec3
	for k := 0; k < 3; k++ {
		phi := 2 * math.Pi * float64(k) / 3
		ligands = append(ligands, shape.Vec3{
			X: sinTheta * math.Cos(phi),
			Y: sinTheta * math.Sin(phi),
			Z: cosTheta,
		})
	}

	best, bestCode := math.Inf(1), ""
	for _, g := range refgeom.ForCN(3) {
		m := measureOf(t, shape.ModeDefault, 3, ligands, g.Code)
		if m < best {
			best, bestCode = m, g.Code
		}
	}
	if bestCode != "vT-3" {
		t.Fatalf("best CN-3 match %s (%g), want vT-3", bestCode, best)
	}
	if best > 0.5 {
		t.Fatalf("vT-3 measure %g for a near-ideal pyramid", best)
	}
}

func TestSquarePlanarMatchesSP4(t *testing.T) {
	ligands := []shape.Vec3{
		{X: 1}, {Y: 1}, {X: -1}, {Y: -1},
	}
	best, bestCode := math.Inf(1), ""
	for _, g := range refgeom.ForCN(4) {
		m := measureOf(t, shape.ModeDefault, 3, ligands, g.Code)
		if m < best {
			best, bestCode = m, g.Code
		}
	}
	if bestCode != "SP-4" {
		t.Fatalf("best CN-4 match %s (%g), want SP-4", bestCode, best)
	}
	if best > 0.1 {
		t.Fatalf("SP-4 measure %g for an exact square", best)
	}
}

func TestBentPreferredOverLinear(t *testing.T) {
	// Two ligands 109 degrees apart: bent, not linear.
	half := 109.0 / 2 * math.Pi / 180
	ligands := []shape.Vec3{
		{X: math.Sin(half), Z: math.Cos(half)},
		{X: -math.Sin(half), Z: math.Cos(half)},
	}
	bent := measureOf(t, shape.ModeDefault, 3, ligands, "vT-2")
	linear := measureOf(t, shape.ModeDefault, 3, ligands, "L-2")
	if bent >= linear {
		t.Fatalf("vT-2 scored %g, L-2 scored %g; bent input must prefer vT-2", bent, linear)
	}
	if bent > 0.1 {
		t.Fatalf("vT-2 measure %g for a near-tetrahedral angle", bent)
	}
}

func TestZeroSeedDrawsFreshSeedPerRun(t *testing.T) {
	s := New(shape.ModeFast)
	seeds := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		seeds[s.baseSeed()] = true
	}
	if len(seeds) < 2 {
		t.Fatalf("zero seed resolved to the same base seed across %d runs", 10)
	}

	fixed := New(shape.ModeFast).WithSeed(7)
	for i := 0; i < 3; i++ {
		if got := fixed.baseSeed(); got != 7 {
			t.Fatalf("explicit seed resolved to %d, want 7", got)
		}
	}
}

// An externally supplied rotation that already aligns the sets must end
// the search in the key stage.
func TestSeedRotationsDriveKeyStageExit(t *testing.T) {
	g := mustFind(t, "TPR-6")
	q := shape.FromAxisAngle(shape.Vec3{X: 1, Y: 2, Z: 3}, 0.8)
	actual := q.Transpose().ApplyAll(g.Points)

	var firstStage string
	firstBest := math.Inf(1)
	seen := false
	res, err := New(shape.ModeFast).WithSeed(1).
		WithAdvisor(nil).
		WithSeedRotations([]shape.Rotation{q}).
		WithProgress(func(stage string, step int, best float64) {
			if !seen {
				firstStage, firstBest, seen = stage, best, true
			}
		}).
		Compute(actual, g.Points)
	if err != nil {
		t.Fatal(err)
	}
	if firstStage != "key" {
		t.Fatalf("first reported stage %q, want key", firstStage)
	}
	if firstBest >= 0.01 {
		t.Fatalf("key stage ended at measure %g, expected an early exit below 0.01", firstBest)
	}
	if res.Measure > 1e-6 {
		t.Fatalf("exact rotated copy scored %g", res.Measure)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	g := mustFind(t, "OC-6")
	a, err := New(shape.ModeDefault).WithSeed(99).ComputeLigands(perturbedOctahedron(), &g)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(shape.ModeDefault).WithSeed(99).ComputeLigands(perturbedOctahedron(), &g)
	if err != nil {
		t.Fatal(err)
	}
	if a.Measure != b.Measure {
		t.Fatalf("measures differ across runs: %g vs %g", a.Measure, b.Measure)
	}
	for i := range a.Correspondence {
		if a.Correspondence[i] != b.Correspondence[i] {
			t.Fatalf("correspondence differs: %v vs %v", a.Correspondence, b.Correspondence)
		}
	}
}

func TestProgressDoesNotAffectResult(t *testing.T) {
	g := mustFind(t, "OC-6")
	quiet, err := New(shape.ModeDefault).WithSeed(5).ComputeLigands(perturbedOctahedron(), &g)
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	observed, err := New(shape.ModeDefault).WithSeed(5).
		WithProgress(func(stage string, step int, best float64) {
			calls++
			if stage == "" {
				t.Errorf("empty stage name at step %d", step)
			}
		}).
		ComputeLigands(perturbedOctahedron(), &g)
	if err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Fatal("progress callback never invoked")
	}
	if observed.Measure != quiet.Measure {
		t.Fatalf("progress observation changed the measure: %g vs %g", observed.Measure, quiet.Measure)
	}
}

func TestComputeLigandsRejectsWrongCount(t *testing.T) {
	g := mustFind(t, "OC-6")
	_, err := New(shape.ModeFast).ComputeLigands(perturbedOctahedron()[:5], &g)
	var mismatch *shape.SizeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want SizeMismatchError", err)
	}
	if mismatch.ActualN != 5 || mismatch.ReferenceN != 6 {
		t.Fatalf("mismatch = %+v", mismatch)
	}
}

func TestComputeRejectsDegenerateInput(t *testing.T) {
	tiny := shape.PointSet{{}, {X: 1}}
	_, err := New(shape.ModeFast).Compute(tiny, tiny)
	var degenerate *shape.DegeneratePointSetError
	if !errors.As(err, &degenerate) {
		t.Fatalf("err = %v, want DegeneratePointSetError", err)
	}
}

func TestComputeRejectsNonFiniteInput(t *testing.T) {
	g := mustFind(t, "OC-6")
	ligands := perturbedOctahedron()
	ligands[2].Y = math.NaN()
	_, err := New(shape.ModeFast).ComputeLigands(ligands, &g)
	var nonFinite *shape.NonFiniteInputError
	if !errors.As(err, &nonFinite) {
		t.Fatalf("err = %v, want NonFiniteInputError", err)
	}
}

func TestResultAlignedMatchesRotation(t *testing.T) {
	g := mustFind(t, "OC-6")
	res, err := New(shape.ModeFast).WithSeed(1).ComputeLigands(perturbedOctahedron(), &g)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Aligned) != len(g.Points) {
		t.Fatalf("aligned set has %d points, want %d", len(res.Aligned), len(g.Points))
	}
	if math.Abs(res.Rotation.Det()-1) > 1e-9 {
		t.Fatalf("result rotation determinant %f", res.Rotation.Det())
	}
}

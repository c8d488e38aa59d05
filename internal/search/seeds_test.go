package search

import (
	"math"
	"testing"

	"github.com/coordgeom/shape-core/pkg/shape"
	"github.com/coordgeom/shape-core/pkg/utils"
)

func assertProper(t *testing.T, r shape.Rotation, label string) {
	t.Helper()
	if math.Abs(r.Det()-1) > 1e-9 {
		t.Fatalf("%s: determinant %f", label, r.Det())
	}
	prod := r.Transpose().Mul(r)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(prod[i][j]-want) > 1e-9 {
				t.Fatalf("%s: not orthonormal at (%d,%d)", label, i, j)
			}
		}
	}
}

func TestKeyOrientationsAreProper(t *testing.T) {
	rots := keyOrientations()
	if len(rots) != 10 {
		t.Fatalf("got %d key orientations, want 10", len(rots))
	}
	for _, r := range rots {
		assertProper(t, r, "key orientation")
	}
	if rots[0] != shape.Identity() {
		t.Fatalf("first key orientation is not the identity")
	}
}

func TestRandomRotationIsProperAndSeeded(t *testing.T) {
	rng := utils.NewRandSource(17)
	for i := 0; i < 50; i++ {
		assertProper(t, randomRotation(rng), "random rotation")
	}

	a := randomRotation(utils.NewRandSource(17))
	b := randomRotation(utils.NewRandSource(17))
	if a != b {
		t.Fatalf("same seed produced different rotations")
	}
}

func TestPerturbRotationStaysNearCurrent(t *testing.T) {
	rng := utils.NewRandSource(29)
	cur := randomRotation(rng)
	for i := 0; i < 20; i++ {
		next := perturbRotation(cur, rng, 0.05)
		assertProper(t, next, "perturbed rotation")
		// tr(R1^T R2) = 1 + 2cos(delta); a small perturbation keeps the
		// relative angle small.
		rel := cur.Transpose().Mul(next)
		trace := rel[0][0] + rel[1][1] + rel[2][2]
		cosDelta := math.Max(-1, math.Min(1, (trace-1)/2))
		delta := math.Acos(cosDelta)
		if delta > 0.8 {
			t.Fatalf("perturbation %d jumped by %f rad", i, delta)
		}
	}
}

func TestReorthonormalizeRepairsDrift(t *testing.T) {
	r := shape.FromAxisAngle(shape.Vec3{X: 1, Y: 2, Z: 3}, 0.7)
	drifted := r
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			drifted[i][j] += 1e-4 * float64((i+1)*(j+2)%3)
		}
	}
	fixed := reorthonormalize(drifted)
	assertProper(t, fixed, "reorthonormalized rotation")
}

func TestPrincipalAxisAdvisorSeeds(t *testing.T) {
	oct := octahedronSet()
	seeds := PrincipalAxisAdvisor{}.Seeds(oct, oct)
	if len(seeds) == 0 {
		t.Fatal("advisor produced no seeds")
	}
	for _, s := range seeds {
		assertProper(t, s, "advisor seed")
	}
}

func octahedronSet() shape.PointSet {
	return shape.PrepareActual([]shape.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	})
}

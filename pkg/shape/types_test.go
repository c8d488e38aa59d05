package shape

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestVec3Ops(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	w := Vec3{X: -2, Y: 0.5, Z: 1}

	if got := v.Add(w); got != (Vec3{X: -1, Y: 2.5, Z: 4}) {
		t.Fatalf("Add: got %v", got)
	}
	if got := v.Sub(w); got != (Vec3{X: 3, Y: 1.5, Z: 2}) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := v.Dot(w); !almostEqual(got, -2+1+3, 1e-15) {
		t.Fatalf("Dot: got %f", got)
	}

	c := v.Cross(w)
	if !almostEqual(c.Dot(v), 0, 1e-12) || !almostEqual(c.Dot(w), 0, 1e-12) {
		t.Fatalf("Cross is not orthogonal to operands: %v", c)
	}

	if got := (Vec3{X: 3, Y: 4}).Norm(); !almostEqual(got, 5, 1e-15) {
		t.Fatalf("Norm: got %f", got)
	}
	if got := v.Unit().Norm(); !almostEqual(got, 1, 1e-15) {
		t.Fatalf("Unit: norm %f", got)
	}
	if got := (Vec3{}).Unit(); got != (Vec3{}) {
		t.Fatalf("Unit of zero vector: got %v", got)
	}

	if (Vec3{X: math.NaN()}).IsFinite() {
		t.Fatalf("expected NaN vector to be non-finite")
	}
	if (Vec3{Z: math.Inf(1)}).IsFinite() {
		t.Fatalf("expected Inf vector to be non-finite")
	}
}

func TestPointSetCentroidAndRadius(t *testing.T) {
	p := PointSet{{X: 1}, {X: -1}, {Y: 2}, {Y: -2}}
	if got := p.Centroid(); got != (Vec3{}) {
		t.Fatalf("Centroid: got %v", got)
	}
	if got := p.RadiusSq(); !almostEqual(got, 1+1+4+4, 1e-15) {
		t.Fatalf("RadiusSq: got %f", got)
	}
	if got := p.RMSRadius(); !almostEqual(got, math.Sqrt(10.0/4), 1e-15) {
		t.Fatalf("RMSRadius: got %f", got)
	}
}

func checkProperRotation(t *testing.T, r Rotation) {
	t.Helper()
	if !almostEqual(r.Det(), 1, 1e-12) {
		t.Fatalf("determinant %f, want 1", r.Det())
	}
	// R^T R must be the identity.
	prod := r.Transpose().Mul(r)
	id := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !almostEqual(prod[i][j], id[i][j], 1e-12) {
				t.Fatalf("R^T R != I at (%d,%d): %f", i, j, prod[i][j])
			}
		}
	}
}

func TestRotationsAreProper(t *testing.T) {
	cases := []Rotation{
		Identity(),
		FromEuler(0.3, 1.1, -2.5),
		FromEuler(math.Pi, math.Pi/2, math.Pi/4),
		FromAxisAngle(Vec3{X: 1, Y: 2, Z: -1}, 0.7),
		FromAxisAngle(Vec3{Z: 1}, math.Pi),
	}
	for _, r := range cases {
		checkProperRotation(t, r)
	}
}

func TestFromAxisAngleRotatesAsExpected(t *testing.T) {
	// Quarter turn about z maps x to y.
	r := FromAxisAngle(Vec3{Z: 1}, math.Pi/2)
	got := r.Apply(Vec3{X: 1})
	if !almostEqual(got.X, 0, 1e-12) || !almostEqual(got.Y, 1, 1e-12) || !almostEqual(got.Z, 0, 1e-12) {
		t.Fatalf("got %v, want (0,1,0)", got)
	}

	if got := FromAxisAngle(Vec3{}, 1.0); got != Identity() {
		t.Fatalf("zero axis: got %v, want identity", got)
	}
}

func TestRotationMulComposition(t *testing.T) {
	a := FromAxisAngle(Vec3{X: 1}, 0.4)
	b := FromAxisAngle(Vec3{Y: 1}, -1.2)
	v := Vec3{X: 0.3, Y: -0.8, Z: 1.5}

	left := a.Mul(b).Apply(v)
	right := a.Apply(b.Apply(v))
	if left.Sub(right).Norm() > 1e-12 {
		t.Fatalf("composition mismatch: %v vs %v", left, right)
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"fast", ModeFast, false},
		{"default", ModeDefault, false},
		{"", ModeDefault, false},
		{" Intensive ", ModeIntensive, false},
		{"turbo", "", true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseMode(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

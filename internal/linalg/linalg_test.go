package linalg

import (
	"math"
	"testing"

	"github.com/star/scopealign/internal/vector"
)

func TestDet3Identity(t *testing.T) {
	if d := Det3(Identity3()); d != 1 {
		t.Errorf("det(I) = %v, want 1", d)
	}
}

func TestInvert3Singular(t *testing.T) {
	// Three collinear columns -> singular matrix.
	m := FromColumns(vector.New(1, 0, 0), vector.New(2, 0, 0), vector.New(3, 0, 0))
	if _, ok := Invert3(m); ok {
		t.Errorf("Invert3 on a singular matrix reported ok=true")
	}
}

func TestInvert3RoundTrip(t *testing.T) {
	m := FromColumns(vector.New(1, 0, 0), vector.New(0, 2, 0), vector.New(0, 0, 4))
	inv, ok := Invert3(m)
	if !ok {
		t.Fatalf("Invert3 failed on a well-conditioned matrix")
	}
	prod := MatMul3(m, inv)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1.0
			}
			if math.Abs(prod.At(r, c)-want) > 1e-12 {
				t.Errorf("m*inv[%d][%d] = %v, want %v", r, c, prod.At(r, c), want)
			}
		}
	}
}

func TestMatVec3Identity(t *testing.T) {
	v := vector.New(1, 2, 3)
	out := MatVec3(Identity3(), v)
	if out != v {
		t.Errorf("I*v = %+v, want %+v", out, v)
	}
}

func TestMatVec3Rotation90AboutZ(t *testing.T) {
	// Rotating (1,0,0) by 90 degrees about Z should give (0,1,0).
	m := NewMatrix3([3][3]float64{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	})
	out := MatVec3(m, vector.New(1, 0, 0))
	if math.Abs(out.X) > 1e-12 || math.Abs(out.Y-1) > 1e-12 || math.Abs(out.Z) > 1e-12 {
		t.Errorf("rotated vector = %+v, want (0,1,0)", out)
	}
}

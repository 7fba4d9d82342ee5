package hull3d

import "testing"

// octahedron builds a hull of the six unit-axis points, the -Z point being
// labelled 0 as a nadir sentinel, mirroring how the alignment engine's hull
// manager seeds a hull: one sentinel vertex plus the sync-point directions.
func octahedron() *Hull {
	h := New()
	h.AddPoint(0, 0, -1, 0) // sentinel
	h.AddPoint(1, 0, 0, 1)
	h.AddPoint(-1, 0, 0, 2)
	h.AddPoint(0, 1, 0, 3)
	h.AddPoint(0, -1, 0, 4)
	h.AddPoint(0, 0, 1, 5)
	return h
}

func TestConstructOctahedronFaceCount(t *testing.T) {
	h := octahedron()
	if err := h.Construct(); err != nil {
		t.Fatalf("Construct: %v", err)
	}
	// A convex polytope with V vertices in general position (all on the
	// hull) has 2V-4 triangular faces; V=6 here.
	if got, want := len(h.Faces()), 8; got != want {
		t.Errorf("face count = %d, want %d", got, want)
	}
}

func TestConstructSkirtFacesTouchSentinel(t *testing.T) {
	h := octahedron()
	if err := h.Construct(); err != nil {
		t.Fatalf("Construct: %v", err)
	}
	skirts := 0
	for _, f := range h.Faces() {
		if f.V0 == 0 || f.V1 == 0 || f.V2 == 0 {
			skirts++
		}
	}
	// The nadir point (0,0,-1) sits on the hull itself here, so exactly the
	// four faces adjacent to it in the octahedron touch vertex 0.
	if skirts != 4 {
		t.Errorf("skirt face count = %d, want 4", skirts)
	}
}

func TestConstructOutwardWinding(t *testing.T) {
	h := octahedron()
	if err := h.Construct(); err != nil {
		t.Fatalf("Construct: %v", err)
	}
	labelPos := map[int][3]float64{
		0: {0, 0, -1},
		1: {1, 0, 0},
		2: {-1, 0, 0},
		3: {0, 1, 0},
		4: {0, -1, 0},
		5: {0, 0, 1},
	}
	centroid := [3]float64{0, 0, -1.0 / 6}
	for _, f := range h.Faces() {
		a, b, c := labelPos[f.V0], labelPos[f.V1], labelPos[f.V2]
		ux, uy, uz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
		vx, vy, vz := c[0]-a[0], c[1]-a[1], c[2]-a[2]
		nx := uy*vz - uz*vy
		ny := uz*vx - ux*vz
		nz := ux*vy - uy*vx
		d := nx*(centroid[0]-a[0]) + ny*(centroid[1]-a[1]) + nz*(centroid[2]-a[2])
		if d > epsilon {
			t.Errorf("face %+v winds inward (centroid on positive side, d=%v)", f, d)
		}
	}
}

func TestConstructTooFewPoints(t *testing.T) {
	h := New()
	h.AddPoint(0, 0, 1, 0)
	h.AddPoint(1, 0, 0, 1)
	h.AddPoint(0, 1, 0, 2)
	if err := h.Construct(); err != ErrTooFewPoints {
		t.Errorf("Construct with 3 points: err = %v, want ErrTooFewPoints", err)
	}
}

func TestConstructDegenerateCoplanar(t *testing.T) {
	h := New()
	h.AddPoint(0, 0, 0, 0)
	h.AddPoint(1, 0, 0, 1)
	h.AddPoint(0, 1, 0, 2)
	h.AddPoint(1, 1, 0, 3)
	if err := h.Construct(); err != ErrDegenerate {
		t.Errorf("Construct with coplanar points: err = %v, want ErrDegenerate", err)
	}
}

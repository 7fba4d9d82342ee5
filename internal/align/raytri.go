package align

import (
	"math"

	"github.com/star/scopealign/internal/vector"
)

// epsilon is the double-precision machine epsilon, used exactly as the
// source material uses it: both to reject a near-degenerate ray/triangle
// determinant and as the final t-test threshold. Do not widen this without
// recalibrating RayTriangleIntersect's callers, which pre-scale their ray by
// 2 so a legitimate hit lands near t=0.5.
const epsilon = 2.220446049250313e-16

// RayTriangleIntersect is the Möller-Trumbore ray-triangle intersection
// test: does the ray from the origin in direction `ray` pierce the triangle
// (v1,v2,v3)? `ray` need not be unit length. No backface culling is applied
// beyond the |det| epsilon rejection; a triangle hit from either side
// counts.
func RayTriangleIntersect(ray, v1, v2, v3 vector.Vector) bool {
	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)

	p := ray.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		return false
	}
	invDet := 1.0 / det

	t0 := v1.Scale(-1)
	u := t0.Dot(p) * invDet
	if u < 0 || u > 1 {
		return false
	}

	q := t0.Cross(e1)
	v := ray.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	t := e2.Dot(q) * invDet
	return t > epsilon
}

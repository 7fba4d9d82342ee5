package align

import (
	"testing"

	"github.com/star/scopealign/internal/vector"
)

func TestRayTriangleIntersectHit(t *testing.T) {
	v1 := vector.New(1, -1, 1)
	v2 := vector.New(1, 1, 1)
	v3 := vector.New(1, 0, -1)
	ray := vector.New(2, 0, 0) // scaled-by-2 convention: true hit at t=0.5
	if !RayTriangleIntersect(ray, v1, v2, v3) {
		t.Error("expected a hit through the interior of the triangle")
	}
}

func TestRayTriangleIntersectMiss(t *testing.T) {
	v1 := vector.New(1, -1, 1)
	v2 := vector.New(1, 1, 1)
	v3 := vector.New(1, 0, -1)
	ray := vector.New(-2, 0, 0) // points away from the triangle
	if RayTriangleIntersect(ray, v1, v2, v3) {
		t.Error("expected no hit for a ray pointing away from the triangle")
	}
}

func TestRayTriangleIntersectEdgeMiss(t *testing.T) {
	v1 := vector.New(1, -1, 1)
	v2 := vector.New(1, 1, 1)
	v3 := vector.New(1, 0, -1)
	ray := vector.New(2, 5, 5) // well outside the triangle's footprint
	if RayTriangleIntersect(ray, v1, v2, v3) {
		t.Error("expected no hit for a ray outside the triangle")
	}
}

func TestRayTriangleIntersectDegenerateTriangle(t *testing.T) {
	v1 := vector.New(1, 0, 0)
	v2 := vector.New(2, 0, 0)
	v3 := vector.New(3, 0, 0)
	ray := vector.New(2, 0, 0)
	if RayTriangleIntersect(ray, v1, v2, v3) {
		t.Error("expected no hit for a degenerate (collinear) triangle")
	}
}

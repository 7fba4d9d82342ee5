// Package hull3d is a small incremental 3-D convex hull builder. It has no
// knowledge of telescopes, directions, or sync points: callers add points
// with AddPoint, call Construct, then walk Faces. Each Face carries a caller
// label for each of its three vertices plus an opaque Data slot the caller
// can use to attach its own per-facet state.
//
// The facet set is stored as a flat arena (a slice of *Face) rather than the
// doubly-linked ring the construction algorithm is classically described
// with; Head records the index of the first live facet so callers that want
// to mirror a "walk the ring once" iteration style still have a fixed
// starting point, but Go callers are expected to just range over Faces().
package hull3d

import "math"

const epsilon = 1e-9

// Face is a triangular facet of the hull. V0, V1, V2 are the caller-supplied
// labels (not array indices) of its three vertices, in a consistent winding
// order such that (P1-P0) x (P2-P0) points away from the hull interior.
type Face struct {
	V0, V1, V2 int
	Data       any
}

type point struct {
	x, y, z float64
	label   int
}

// Hull is an incremental convex hull builder. The zero value is not usable;
// create one with New.
type Hull struct {
	pts   []point
	faces []*Face
	// idx holds the h.pts index (not label) of each face's three vertices,
	// parallel to faces. Kept separate from Face so the exported type stays
	// label-only.
	idx [][3]int
	// Head is the arena index of the first live face after Construct, kept
	// for callers that prefer an explicit starting point over a bare range.
	Head int
}

// New returns an empty Hull.
func New() *Hull {
	return &Hull{}
}

// AddPoint adds a vertex with the given caller-chosen label. Labels need not
// be unique, but the hull manager built on top of this package uses them as
// a 1:1 mapping back to its own sync-point array.
func (h *Hull) AddPoint(x, y, z float64, label int) {
	h.pts = append(h.pts, point{x, y, z, label})
}

// ErrTooFewPoints is returned by Construct when fewer than four points were
// added; a hull needs at least a tetrahedron.
var ErrTooFewPoints = hullError("hull3d: fewer than four points")

// ErrDegenerate is returned by Construct when no four of the added points
// are affinely independent (all collinear or all coplanar).
var ErrDegenerate = hullError("hull3d: points are degenerate (collinear or coplanar)")

type hullError string

func (e hullError) Error() string { return string(e) }

// Construct builds the hull from every point added so far. It must be
// called exactly once; Hull does not support incremental rebuilding after
// Construct returns successfully.
func (h *Hull) Construct() error {
	n := len(h.pts)
	if n < 4 {
		return ErrTooFewPoints
	}

	i0, i1, i2, i3, ok := initialTetrahedron(h.pts)
	if !ok {
		return ErrDegenerate
	}

	h.faces = nil
	h.addFace(i0, i1, i2, i3)
	h.addFace(i0, i1, i3, i2)
	h.addFace(i0, i2, i3, i1)
	h.addFace(i1, i2, i3, i0)

	used := map[int]bool{i0: true, i1: true, i2: true, i3: true}
	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}
		h.insert(i)
	}

	h.Head = 0
	return nil
}

// Faces returns the live facets of the constructed hull, in arena order.
func (h *Hull) Faces() []*Face {
	return h.faces
}

// addFace appends a face over vertex indices a,b,c (into h.pts), flipping
// winding if needed so that the face's outward normal points away from the
// reference point at index "inside".
func (h *Hull) addFace(a, b, c, inside int) {
	pa, pb, pc := h.pts[a], h.pts[b], h.pts[c]
	nx, ny, nz := normal(pa, pb, pc)
	pin := h.pts[inside]
	d := dot(nx, ny, nz, pin.x-pa.x, pin.y-pa.y, pin.z-pa.z)
	if d > 0 {
		a, b = b, a
	}
	h.faces = append(h.faces, &Face{V0: h.pts[a].label, V1: h.pts[b].label, V2: h.pts[c].label})
	h.idx = append(h.idx, [3]int{a, b, c})
}

func normal(a, b, c point) (nx, ny, nz float64) {
	ux, uy, uz := b.x-a.x, b.y-a.y, b.z-a.z
	vx, vy, vz := c.x-a.x, c.y-a.y, c.z-a.z
	return uy*vz - uz*vy, uz*vx - ux*vz, ux*vy - uy*vx
}

func dot(ax, ay, az, bx, by, bz float64) float64 {
	return ax*bx + ay*by + az*bz
}

func (h *Hull) insert(pi int) {
	p := h.pts[pi]

	var visible []int
	for i := range h.faces {
		va, vb, vc := h.idx[i][0], h.idx[i][1], h.idx[i][2]
		nx, ny, nz := normal(h.pts[va], h.pts[vb], h.pts[vc])
		d := dot(nx, ny, nz, p.x-h.pts[va].x, p.y-h.pts[va].y, p.z-h.pts[va].z)
		if d > epsilon {
			visible = append(visible, i)
		}
	}
	if len(visible) == 0 {
		// p lies inside (or exactly on) the current hull; nothing to do.
		return
	}

	visibleSet := make(map[int]bool, len(visible))
	for _, i := range visible {
		visibleSet[i] = true
	}

	directed := make(map[[2]int]bool)
	for _, i := range visible {
		va, vb, vc := h.idx[i][0], h.idx[i][1], h.idx[i][2]
		directed[[2]int{va, vb}] = true
		directed[[2]int{vb, vc}] = true
		directed[[2]int{vc, va}] = true
	}

	var horizon [][2]int
	for e := range directed {
		rev := [2]int{e[1], e[0]}
		if !directed[rev] {
			horizon = append(horizon, e)
		}
	}

	keep := make([]*Face, 0, len(h.faces)-len(visible)+len(horizon))
	keepIdx := make([][3]int, 0, cap(keep))
	for i, f := range h.faces {
		if visibleSet[i] {
			continue
		}
		keep = append(keep, f)
		keepIdx = append(keepIdx, h.idx[i])
	}
	h.faces = keep
	h.idx = keepIdx

	for _, e := range horizon {
		u, v := e[0], e[1]
		h.faces = append(h.faces, &Face{V0: h.pts[u].label, V1: h.pts[v].label, V2: h.pts[pi].label})
		h.idx = append(h.idx, [3]int{u, v, pi})
	}
}

func initialTetrahedron(pts []point) (i0, i1, i2, i3 int, ok bool) {
	n := len(pts)
	i0, i1 = 0, 1
	i2 = -1
	for k := 2; k < n; k++ {
		if !collinear(pts[i0], pts[i1], pts[k]) {
			i2 = k
			break
		}
	}
	if i2 < 0 {
		return 0, 0, 0, 0, false
	}
	i3 = -1
	for k := 0; k < n; k++ {
		if k == i0 || k == i1 || k == i2 {
			continue
		}
		if !coplanar(pts[i0], pts[i1], pts[i2], pts[k]) {
			i3 = k
			break
		}
	}
	if i3 < 0 {
		return 0, 0, 0, 0, false
	}
	return i0, i1, i2, i3, true
}

func collinear(a, b, c point) bool {
	nx, ny, nz := normal(a, b, c)
	return math.Sqrt(nx*nx+ny*ny+nz*nz) < epsilon
}

func coplanar(a, b, c, d point) bool {
	nx, ny, nz := normal(a, b, c)
	vol := dot(nx, ny, nz, d.x-a.x, d.y-a.y, d.z-a.z)
	return math.Abs(vol) < epsilon
}

package align

import (
	"github.com/star/scopealign/internal/astro"
	"github.com/star/scopealign/internal/linalg"
	"github.com/star/scopealign/internal/vector"
)

// SyncPointEntry is one observation pairing a known celestial coordinate
// with the apparent direction the mount reported when pointed at it. It is
// read-only input to the engine; the database that supplies these owns
// their lifetime.
type SyncPointEntry struct {
	RAHours        float64
	DecDeg         float64
	ObservationJD  float64
	ApparentVector vector.Vector
}

// Database is the read-only collaborator the engine builds its model from.
// A production implementation persists sync points across restarts;
// internal/syncdb provides an in-memory one.
type Database interface {
	// GetReferencePosition returns the single process-wide geographic
	// position sync points and queries are interpreted against. ok is
	// false if no position has been configured yet.
	GetReferencePosition() (pos astro.Position, ok bool)
	// GetAlignmentDatabase returns every sync point in insertion order.
	// The N>=4 build path relies on this order to assign vertex labels.
	GetAlignmentDatabase() []SyncPointEntry
}

// TransformPair is a pair of mutually-inverse 3x3 transforms between the
// actual (celestial) and apparent (telescope) bases.
type TransformPair struct {
	A2A linalg.Matrix3 // actual -> apparent
	A2R linalg.Matrix3 // apparent -> actual, == A2A^-1
}

// Facet is one triangular face of a built hull. V0, V1, V2 are indices into
// the engine's sync-point slice, offset by one: 0 denotes the nadir
// sentinel and is never a valid sync-point index; i denotes sync point i-1.
// Matrix is nil for skirt facets (any vertex is the sentinel) and is
// populated for every other facet after a successful build.
type Facet struct {
	V0, V1, V2 int
	Matrix     *linalg.Matrix3
}

// IsSkirt reports whether f touches the nadir sentinel vertex.
func (f *Facet) IsSkirt() bool {
	return f.V0 == 0 || f.V1 == 0 || f.V2 == 0
}

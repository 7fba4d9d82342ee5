package align

import (
	"fmt"

	"github.com/star/scopealign/internal/astro"
	"github.com/star/scopealign/internal/linalg"
	"github.com/star/scopealign/internal/metrics"
	"github.com/star/scopealign/internal/vector"
)

const (
	dirCelestialToTelescope = "celestial_to_telescope"
	dirTelescopeToCelestial = "telescope_to_celestial"
)

// CelestialToTelescope converts a celestial (ra, dec) target, observed
// jdOffsetDays from now, to the apparent direction the mount should report
// when pointed at it.
func (e *Engine) CelestialToTelescope(raHours, decDeg, jdOffsetDays float64) (vector.Vector, error) {
	m := e.cur.Load()
	if m == nil {
		return vector.Vector{}, errf(NotBuilt, "engine has no built model")
	}

	jd := astro.JulianDate(e.Now()) + jdOffsetDays
	actual := astro.DirectionVectorFromEntry(m.hint, raHours, decDeg, m.position, jd)
	state := m.state()
	metrics.ObserveQuery(dirCelestialToTelescope, state.String())

	switch state {
	case BuiltN0:
		return actual, nil
	case BuiltSmall:
		return linalg.MatVec3(m.transform.A2A, actual).Normalised(), nil
	default:
		ray := actual.Scale(2)
		scanned := 0
		for _, f := range m.hull.Actual {
			if f.IsSkirt() {
				continue
			}
			scanned++
			v0 := labelVector(m.actualVecs, f.V0)
			v1 := labelVector(m.actualVecs, f.V1)
			v2 := labelVector(m.actualVecs, f.V2)
			if RayTriangleIntersect(ray, v0, v1, v2) {
				metrics.ObserveFacetScanLength(scanned)
				return linalg.MatVec3(*f.Matrix, actual).Normalised(), nil
			}
		}
		metrics.ObserveFacetScanLength(scanned)
		metrics.ObserveFallback(dirCelestialToTelescope)
		tp, err := e.fallback(m, m.actualVecs, actual)
		if err != nil {
			return vector.Vector{}, err
		}
		return linalg.MatVec3(tp.A2A, actual).Normalised(), nil
	}
}

// TelescopeToCelestial is the inverse of CelestialToTelescope: given the
// direction the mount currently reports, it recovers the celestial (ra,
// dec) the mount is actually pointed at, as of the engine's current clock.
func (e *Engine) TelescopeToCelestial(apparent vector.Vector) (raHours, decDeg float64, err error) {
	m := e.cur.Load()
	if m == nil {
		return 0, 0, errf(NotBuilt, "engine has no built model")
	}
	jd := astro.JulianDate(e.Now())
	state := m.state()
	metrics.ObserveQuery(dirTelescopeToCelestial, state.String())

	var actual vector.Vector
	switch state {
	case BuiltN0:
		actual = apparent
	case BuiltSmall:
		actual = linalg.MatVec3(m.transform.A2R, apparent).Normalised()
	default:
		ray := apparent.Scale(2)
		hit := false
		scanned := 0
		for _, f := range m.hull.Apparent {
			if f.IsSkirt() {
				continue
			}
			scanned++
			v0 := labelVector(m.apparent, f.V0)
			v1 := labelVector(m.apparent, f.V1)
			v2 := labelVector(m.apparent, f.V2)
			if RayTriangleIntersect(ray, v0, v1, v2) {
				actual = linalg.MatVec3(*f.Matrix, apparent).Normalised()
				hit = true
				break
			}
		}
		metrics.ObserveFacetScanLength(scanned)
		if !hit {
			metrics.ObserveFallback(dirTelescopeToCelestial)
			tp, ferr := e.fallback(m, m.apparent, apparent)
			if ferr != nil {
				return 0, 0, ferr
			}
			actual = linalg.MatVec3(tp.A2R, apparent).Normalised()
		}
	}

	ra, dec := astro.CelestialFromDirectionVector(m.hint, actual, m.position, jd)
	return ra, dec, nil
}

// labelVector resolves a hull vertex label back to its direction vector:
// label 0 is always the nadir sentinel, shared by both hulls; label i>0 is
// sync point i-1 on whichever side's vecs slice is passed in.
func labelVector(vecs []vector.Vector, label int) vector.Vector {
	if label == 0 {
		return nadirSentinel
	}
	return vecs[label-1]
}

// fallback implements the nearest-three-sync-points path used by both query
// directions when the ray misses every non-skirt facet, so the logic isn't
// duplicated per direction: metric supplies the distance space the three
// nearest points are chosen in (actual vectors for CelestialToTelescope,
// apparent vectors for TelescopeToCelestial), but the returned TransformPair
// is always built from the matching (actual, apparent) pair at those three
// indices.
func (e *Engine) fallback(m *model, metric []vector.Vector, q vector.Vector) (TransformPair, error) {
	idx, ok := nearestThreeIndices(metric, q)
	if !ok {
		return TransformPair{}, errf(NoIntersection, "fewer than three sync points available for a fallback triple")
	}

	// The model's address is part of the key so a query still running on a
	// replaced model cannot leave its transform behind for the new one.
	key := fmt.Sprintf("%p:%d:%d:%d", m, idx[0], idx[1], idx[2])
	if v, ok := e.cache.Get(key); ok {
		return v.(TransformPair), nil
	}

	tp, err := CalculateTransformMatrices(
		m.actualVecs[idx[0]], m.actualVecs[idx[1]], m.actualVecs[idx[2]],
		m.apparent[idx[0]], m.apparent[idx[1]], m.apparent[idx[2]],
	)
	if err != nil {
		return TransformPair{}, errf(NoIntersection, "nearest three sync points are collinear")
	}
	e.cache.Add(key, tp)
	return tp, nil
}

// nearestThreeIndices returns the indices (into vecs) of the three points
// closest to q by Euclidean distance, ascending by distance. ok is false if
// vecs has fewer than three elements.
func nearestThreeIndices(vecs []vector.Vector, q vector.Vector) (idx [3]int, ok bool) {
	if len(vecs) < 3 {
		return idx, false
	}
	type cand struct {
		i int
		d float64
	}
	cands := make([]cand, len(vecs))
	for i, v := range vecs {
		cands[i] = cand{i, v.Sub(q).Length()}
	}
	for i := 0; i < 3; i++ {
		best := i
		for j := i + 1; j < len(cands); j++ {
			if cands[j].d < cands[best].d {
				best = j
			}
		}
		cands[i], cands[best] = cands[best], cands[i]
	}
	return [3]int{cands[0].i, cands[1].i, cands[2].i}, true
}

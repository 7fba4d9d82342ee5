package align

import (
	"github.com/star/scopealign/internal/hull3d"
	"github.com/star/scopealign/internal/vector"
)

// nadirSentinel is the fixed direction added to both hulls so the solid
// remains valid even with very few sync points. Its vertex label is always
// 0; it is shared between the actual and apparent hulls, which is why its
// coordinates never need to be looked up per side.
var nadirSentinel = vector.New(0, 0, -1)

// DualHull is two parallel convex hulls built over the same sync-point
// vertex numbering: label 0 is the nadir sentinel, labels 1..N are the sync
// points in insertion order. Facets touching label 0 are skirts and carry
// no matrix.
type DualHull struct {
	Actual   []Facet
	Apparent []Facet
}

// buildDualHull constructs the actual and apparent hulls over the given
// parallel direction-vector slices (index i is sync point i, vertex label
// i+1) and attaches a transform matrix to every non-skirt facet.
func buildDualHull(actual, apparent []vector.Vector) (*DualHull, error) {
	actualFaces, err := constructHull(actual)
	if err != nil {
		return nil, err
	}
	apparentFaces, err := constructHull(apparent)
	if err != nil {
		return nil, err
	}

	dh := &DualHull{
		Actual:   make([]Facet, 0, len(actualFaces)),
		Apparent: make([]Facet, 0, len(apparentFaces)),
	}

	for _, f := range actualFaces {
		facet := Facet{V0: f.V0, V1: f.V1, V2: f.V2}
		if !facet.IsSkirt() {
			tp, err := facetTransform(facet, actual, apparent)
			if err != nil {
				return nil, err
			}
			m := tp.A2A
			facet.Matrix = &m
		}
		dh.Actual = append(dh.Actual, facet)
	}

	for _, f := range apparentFaces {
		facet := Facet{V0: f.V0, V1: f.V1, V2: f.V2}
		if !facet.IsSkirt() {
			tp, err := facetTransform(facet, actual, apparent)
			if err != nil {
				return nil, err
			}
			m := tp.A2R
			facet.Matrix = &m
		}
		dh.Apparent = append(dh.Apparent, facet)
	}

	if len(dh.Actual) == 0 || len(dh.Apparent) == 0 {
		return nil, errf(HullFailure, "hull construction produced no facets")
	}

	return dh, nil
}

func constructHull(vecs []vector.Vector) ([]*hull3d.Face, error) {
	h := hull3d.New()
	h.AddPoint(nadirSentinel.X, nadirSentinel.Y, nadirSentinel.Z, 0)
	for i, v := range vecs {
		h.AddPoint(v.X, v.Y, v.Z, i+1)
	}
	if err := h.Construct(); err != nil {
		return nil, errf(HullFailure, "%v", err)
	}
	faces := h.Faces()
	if len(faces) == 0 {
		return nil, errf(HullFailure, "hull library returned no faces")
	}
	return faces, nil
}

// facetTransform looks up the three sync points a facet's labels refer to
// and solves the triple-basis transform between them. Vertex label 0 (the
// sentinel) never reaches here since skirt facets are never passed in.
func facetTransform(f Facet, actual, apparent []vector.Vector) (TransformPair, error) {
	a1, p1 := actual[f.V0-1], apparent[f.V0-1]
	a2, p2 := actual[f.V1-1], apparent[f.V1-1]
	a3, p3 := actual[f.V2-1], apparent[f.V2-1]
	return CalculateTransformMatrices(a1, a2, a3, p1, p2, p3)
}

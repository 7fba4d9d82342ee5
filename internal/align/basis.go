package align

import (
	"github.com/star/scopealign/internal/linalg"
	"github.com/star/scopealign/internal/vector"
)

// CalculateTransformMatrices solves for the 3x3 transform taking the actual
// basis (a1,a2,a3) to the apparent basis (p1,p2,p3): it forms A=[a1|a2|a3]
// and P=[p1|p2|p3] and returns M = P*A^-1, so that M*ai ~= pi for i=1,2,3.
//
// It fails with a SingularBasis error if the actual triple is linearly
// dependent (A singular); M^-1 is computed directly as A*P^-1 rather than by
// inverting M, so a linearly dependent apparent triple also surfaces here as
// a SingularBasis failure rather than a silent division.
func CalculateTransformMatrices(a1, a2, a3, p1, p2, p3 vector.Vector) (TransformPair, error) {
	a := linalg.FromColumns(a1, a2, a3)
	p := linalg.FromColumns(p1, p2, p3)

	aInv, ok := linalg.Invert3(a)
	if !ok {
		return TransformPair{}, errf(SingularBasis, "actual triple is linearly dependent")
	}
	pInv, ok := linalg.Invert3(p)
	if !ok {
		return TransformPair{}, errf(SingularBasis, "apparent triple is linearly dependent")
	}

	return TransformPair{
		A2A: linalg.MatMul3(p, aInv),
		A2R: linalg.MatMul3(a, pInv),
	}, nil
}

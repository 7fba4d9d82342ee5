// Package linalg is a thin 3x3 wrapper over gonum's small-dense linear
// algebra facility (gonum.org/v1/gonum/mat), used throughout the alignment
// engine for basis changes between the actual and apparent frames.
//
// Singularity is detected from an exact-zero determinant, not an epsilon
// threshold: the triples fed into Invert3 are chosen (by the caller) to be
// linearly independent, or the caller is expected to fail the build. A
// larger tolerance would mask a genuinely degenerate sync-point triple.
package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/star/scopealign/internal/vector"
)

// Matrix3 is a 3x3 real matrix.
type Matrix3 struct {
	d *mat.Dense
}

// NewMatrix3 builds a Matrix3 from row-major entries m[row][col].
func NewMatrix3(m [3][3]float64) Matrix3 {
	data := make([]float64, 0, 9)
	for _, row := range m {
		data = append(data, row[0], row[1], row[2])
	}
	return Matrix3{d: mat.NewDense(3, 3, data)}
}

// FromColumns builds a Matrix3 whose three columns are c1, c2, c3.
func FromColumns(c1, c2, c3 vector.Vector) Matrix3 {
	return NewMatrix3([3][3]float64{
		{c1.X, c2.X, c3.X},
		{c1.Y, c2.Y, c3.Y},
		{c1.Z, c2.Z, c3.Z},
	})
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Matrix3 {
	return NewMatrix3([3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
}

// At returns the entry at (row, col), zero-indexed.
func (m Matrix3) At(row, col int) float64 {
	return m.d.At(row, col)
}

// Det3 returns the determinant of m.
func Det3(m Matrix3) float64 {
	return mat.Det(m.d)
}

// Invert3 returns the inverse of m. ok is false, with a zero Matrix3
// returned, when m's determinant is exactly zero.
func Invert3(m Matrix3) (inv Matrix3, ok bool) {
	if Det3(m) == 0 {
		return Matrix3{}, false
	}
	var d mat.Dense
	if err := d.Inverse(m.d); err != nil {
		return Matrix3{}, false
	}
	return Matrix3{d: &d}, true
}

// MatMul3 returns a*b.
func MatMul3(a, b Matrix3) Matrix3 {
	var d mat.Dense
	d.Mul(a.d, b.d)
	return Matrix3{d: &d}
}

// MatVec3 returns a*v.
func MatVec3(a Matrix3, v vector.Vector) vector.Vector {
	in := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var out mat.VecDense
	out.MulVec(a.d, in)
	return vector.New(out.AtVec(0), out.AtVec(1), out.AtVec(2))
}

// String renders m for debug logging.
func (m Matrix3) String() string {
	return fmt.Sprintf("[%.6g %.6g %.6g; %.6g %.6g %.6g; %.6g %.6g %.6g]",
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
	)
}

package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// AffineMatrix is a 3x4 matrix stored in row-major order. Each row is [a, b, c, offset]:
// the first three columns hold the linear part and the fourth the translation. The
// element at (row, col) is found at index 4*row+col.
type AffineMatrix [12]float64

// NewAffineMatrix packs a 3x3 linear part and a translation vector into an AffineMatrix.
// The linear part is given row by row:
//
//	| a b c |   | xoff |
//	| d e f | + | yoff |
//	| g h i |   | zoff |
func NewAffineMatrix(
	a, b, c,
	d, e, f,
	g, h, i,
	xoff, yoff, zoff float64,
) AffineMatrix {
	return AffineMatrix{
		a, b, c, xoff,
		d, e, f, yoff,
		g, h, i, zoff,
	}
}

// IdentityAffine returns the affine matrix that leaves every vector unchanged.
func IdentityAffine() AffineMatrix {
	return IdentityRotation().Affine()
}

// NewTranslation returns an affine matrix with an identity linear part that translates by the
// given offsets.
func NewTranslation(xoff, yoff, zoff float64) AffineMatrix {
	return NewAffineMatrix(
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		xoff, yoff, zoff,
	)
}

// At returns the element at the given row and column. Column 3 is the translation.
func (am AffineMatrix) At(row, col int) float64 {
	return am[4*row+col]
}

// Transform applies the linear part of the matrix to v and adds the translation.
func (am AffineMatrix) Transform(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: am[0]*v.X + am[1]*v.Y + am[2]*v.Z + am[3],
		Y: am[4]*v.X + am[5]*v.Y + am[6]*v.Z + am[7],
		Z: am[8]*v.X + am[9]*v.Y + am[10]*v.Z + am[11],
	}
}

// Linear returns the 3x3 linear part of the matrix.
func (am AffineMatrix) Linear() RotationMatrix {
	return RotationMatrix{
		am[0], am[1], am[2],
		am[4], am[5], am[6],
		am[8], am[9], am[10],
	}
}

// Translation returns the translation column of the matrix.
func (am AffineMatrix) Translation() r3.Vector {
	return r3.Vector{X: am[3], Y: am[7], Z: am[11]}
}

// Mat4 returns the matrix as a homogeneous 4x4 mathgl matrix.
func (am AffineMatrix) Mat4() mgl64.Mat4 {
	m := mgl64.Ident4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, am.At(row, col))
		}
	}
	return m
}

// AffineFromMat4 returns the affine part of a homogeneous 4x4 matrix. The bottom row is ignored.
func AffineFromMat4(m mgl64.Mat4) AffineMatrix {
	var am AffineMatrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			am[4*row+col] = m.At(row, col)
		}
	}
	return am
}

// Compose returns the affine matrix equivalent to applying am first and then next.
func (am AffineMatrix) Compose(next AffineMatrix) AffineMatrix {
	return AffineFromMat4(next.Mat4().Mul4(am.Mat4()))
}

func (am AffineMatrix) String() string {
	return fmt.Sprintf("[[%g %g %g %g] [%g %g %g %g] [%g %g %g %g]]",
		am[0], am[1], am[2], am[3], am[4], am[5], am[6], am[7], am[8], am[9], am[10], am[11])
}

// Package spatialmath defines the small fixed-size linear algebra used to rotate and
// transform point cloud coordinates.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix stored in row-major order, i.e. the element at
// (row, col) is found at index 3*row+col.
type RotationMatrix [9]float64

// IdentityRotation returns the rotation matrix that leaves every vector unchanged.
func IdentityRotation() RotationMatrix {
	return RotationMatrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// RotationFromQuaternion returns the rotation matrix associated with the quaternion
// (q.Real, q.Imag, q.Jmag, q.Kmag) = (qw, qx, qy, qz).
//
// The quaternion is assumed to be of unit length and is not normalized. A quaternion
// that is not of unit length yields a matrix that scales and shears in addition to
// rotating. Use NormalizeQuaternion first when the input is not trusted.
func RotationFromQuaternion(q quat.Number) RotationMatrix {
	x := q.Imag + q.Imag
	y := q.Jmag + q.Jmag
	z := q.Kmag + q.Kmag

	xx := q.Imag * x
	xy := q.Imag * y
	xz := q.Imag * z
	yy := q.Jmag * y
	yz := q.Jmag * z
	zz := q.Kmag * z
	wx := q.Real * x
	wy := q.Real * y
	wz := q.Real * z

	return RotationMatrix{
		1 - (yy + zz), xy - wz, xz + wy,
		xy + wz, 1 - (xx + zz), yz - wx,
		xz - wy, yz + wx, 1 - (xx + yy),
	}
}

// At returns the element at the given row and column.
func (rm RotationMatrix) At(row, col int) float64 {
	return rm[3*row+col]
}

// Row returns the given row as a vector.
func (rm RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm[3*row], Y: rm[3*row+1], Z: rm[3*row+2]}
}

// Multiply returns the product of the matrix and the vector. No translation is applied.
func (rm RotationMatrix) Multiply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: rm[0]*v.X + rm[1]*v.Y + rm[2]*v.Z,
		Y: rm[3]*v.X + rm[4]*v.Y + rm[5]*v.Z,
		Z: rm[6]*v.X + rm[7]*v.Y + rm[8]*v.Z,
	}
}

// Transpose returns the transpose of the matrix. For a pure rotation this is also its inverse.
func (rm RotationMatrix) Transpose() RotationMatrix {
	return RotationMatrix{
		rm[0], rm[3], rm[6],
		rm[1], rm[4], rm[7],
		rm[2], rm[5], rm[8],
	}
}

// Mul returns the matrix product rm*other.
func (rm RotationMatrix) Mul(other RotationMatrix) RotationMatrix {
	var out RotationMatrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[3*row+col] = rm[3*row]*other[col] + rm[3*row+1]*other[3+col] + rm[3*row+2]*other[6+col]
		}
	}
	return out
}

// Affine embeds the rotation in an affine matrix with no translation.
func (rm RotationMatrix) Affine() AffineMatrix {
	return NewAffineMatrix(
		rm[0], rm[1], rm[2],
		rm[3], rm[4], rm[5],
		rm[6], rm[7], rm[8],
		0, 0, 0,
	)
}

// Dense returns a copy of the matrix as a gonum dense matrix.
func (rm RotationMatrix) Dense() *mat.Dense {
	data := make([]float64, len(rm))
	copy(data, rm[:])
	return mat.NewDense(3, 3, data)
}

func (rm RotationMatrix) String() string {
	return fmt.Sprintf("[[%g %g %g] [%g %g %g] [%g %g %g]]",
		rm[0], rm[1], rm[2], rm[3], rm[4], rm[5], rm[6], rm[7], rm[8])
}

package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// defaultUnitTolerance is how far the squared norm of a quaternion may stray from 1 and still be
// considered a unit quaternion.
const defaultUnitTolerance = 1e-6

// NewZeroQuaternion returns the identity quaternion, which signifies no rotation.
func NewZeroQuaternion() quat.Number {
	return quat.Number{Real: 1}
}

// NewQuaternion returns the quaternion (qw, qx, qy, qz).
func NewQuaternion(qw, qx, qy, qz float64) quat.Number {
	return quat.Number{Real: qw, Imag: qx, Jmag: qy, Kmag: qz}
}

// QuaternionFromAxisAngle returns the unit quaternion rotating theta radians about axis.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/index.htm
func QuaternionFromAxisAngle(axis r3.Vector, theta float64) (quat.Number, error) {
	norm := axis.Norm()
	if norm == 0 {
		return quat.Number{}, errors.New("cannot build a rotation about a zero length axis")
	}
	axis = axis.Mul(1 / norm)
	sinA := math.Sin(theta / 2)
	return quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X * sinA,
		Jmag: axis.Y * sinA,
		Kmag: axis.Z * sinA,
	}, nil
}

// IsUnitQuaternion reports whether the squared norm of q is within tol of 1. A tol of zero
// uses a default tolerance.
func IsUnitQuaternion(q quat.Number, tol float64) bool {
	if tol <= 0 {
		tol = defaultUnitTolerance
	}
	sq := q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
	return math.Abs(sq-1) <= tol
}

// NormalizeQuaternion scales q to unit length. The zero quaternion and quaternions with
// non-finite components cannot be normalized.
func NormalizeQuaternion(q quat.Number) (quat.Number, error) {
	norm := quat.Abs(q)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return quat.Number{}, errors.Errorf("cannot normalize quaternion %v", q)
	}
	return quat.Scale(1/norm, q), nil
}

// QuaternionBetween returns the quaternion representing the rotation from q1 to q2.
func QuaternionBetween(q1, q2 quat.Number) quat.Number {
	return quat.Mul(q2, quat.Conj(q1))
}

// QuaternionAlmostEqual reports whether two quaternions describe the same rotation within tol.
// q and -q are the same rotation.
func QuaternionAlmostEqual(q1, q2 quat.Number, tol float64) bool {
	closeTo := func(a, b quat.Number) bool {
		return math.Abs(a.Real-b.Real) <= tol &&
			math.Abs(a.Imag-b.Imag) <= tol &&
			math.Abs(a.Jmag-b.Jmag) <= tol &&
			math.Abs(a.Kmag-b.Kmag) <= tol
	}
	return closeTo(q1, q2) || closeTo(q1, quat.Scale(-1, q2))
}

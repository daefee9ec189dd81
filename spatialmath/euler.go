// Package spatialmath implements the room-space geometry used to calibrate
// a camera against a rectangular room: the fixed YXZ Euler rotation, wall
// plane equations, and ray/wall intersection.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/jowCode/shadowgeo/utils"
)

// EulerAngles describes an orientation as rotations about the room axes,
// in degrees. The application order is fixed: yaw about Y, then pitch
// about X, then roll about Z. This is the only place rotation math is
// implemented; everything downstream composes these two methods.
type EulerAngles struct {
	Pitch float64 `json:"x"`
	Yaw   float64 `json:"y"`
	Roll  float64 `json:"z"`
}

// NewEulerAngles returns an EulerAngles with no rotation.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// quaternion returns the unit quaternion equivalent to applying yaw, then
// pitch, then roll to a vector, i.e. q = qz * qx * qy.
func (ea EulerAngles) quaternion() quat.Number {
	halfYaw := utils.DegToRad(ea.Yaw) / 2
	halfPitch := utils.DegToRad(ea.Pitch) / 2
	halfRoll := utils.DegToRad(ea.Roll) / 2
	qy := quat.Number{Real: math.Cos(halfYaw), Jmag: math.Sin(halfYaw)}
	qx := quat.Number{Real: math.Cos(halfPitch), Imag: math.Sin(halfPitch)}
	qz := quat.Number{Real: math.Cos(halfRoll), Kmag: math.Sin(halfRoll)}
	return quat.Mul(qz, quat.Mul(qx, qy))
}

// RotateVector rotates v by the receiver in YXZ order.
func (ea EulerAngles) RotateVector(v r3.Vector) r3.Vector {
	return rotateByQuat(ea.quaternion(), v)
}

// InverseRotateVector applies the exact inverse of RotateVector: roll,
// pitch, and yaw are undone in reverse order. For any finite angles,
// InverseRotateVector(RotateVector(v)) == v up to floating point.
func (ea EulerAngles) InverseRotateVector(v r3.Vector) r3.Vector {
	return rotateByQuat(quat.Conj(ea.quaternion()), v)
}

// RotationMatrix returns the receiver's rotation as a dense 3x3 matrix,
// row major, for consumers that place a rendering camera from a matrix.
func (ea EulerAngles) RotationMatrix() *mat.Dense {
	q := ea.quaternion()
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*(utils.Square(y)+utils.Square(z)), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(utils.Square(x)+utils.Square(z)), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(utils.Square(x)+utils.Square(y)),
	})
}

func rotateByQuat(q quat.Number, v r3.Vector) r3.Vector {
	qv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rotated := quat.Mul(quat.Mul(q, qv), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

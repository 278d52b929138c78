package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Euler decomposition breaks down at pitch ±90°; this is the |sin(pitch)|
// threshold past which the gimbal-lock branch takes over.
const gimbalLockSin = 0.99999

// EulerAngles are three ordered rotations in radians: Roll about X, Pitch
// about Y, Yaw about Z. Whether the axes are the body's own (intrinsic) or the
// fixed world axes (extrinsic) depends on which composition method is used.
type EulerAngles struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// NewEulerAngles returns an EulerAngles struct representing no rotation.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// RotationMatrixIntrinsicXYZ composes the rotation RotX(Roll)·RotY(Pitch)·RotZ(Yaw):
// roll about the body X axis, then pitch about the rotated Y axis, then yaw
// about the rotated Z axis.
func (ea *EulerAngles) RotationMatrixIntrinsicXYZ() mgl64.Mat3 {
	return mgl64.Rotate3DX(ea.Roll).Mul3(mgl64.Rotate3DY(ea.Pitch)).Mul3(mgl64.Rotate3DZ(ea.Yaw))
}

// RotationMatrixExtrinsicXYZ composes the rotation RotZ(Yaw)·RotY(Pitch)·RotX(Roll):
// roll, pitch, yaw about the fixed world axes, applied in that order. This is
// the convention the calibration orientation offsets are expressed in.
func (ea *EulerAngles) RotationMatrixExtrinsicXYZ() mgl64.Mat3 {
	return mgl64.Rotate3DZ(ea.Yaw).Mul3(mgl64.Rotate3DY(ea.Pitch)).Mul3(mgl64.Rotate3DX(ea.Roll))
}

// EulerAnglesIntrinsicXYZ decomposes a rotation matrix into intrinsic X-Y-Z
// Euler angles, the inverse of RotationMatrixIntrinsicXYZ. At gimbal lock
// (pitch within ~0.0045 rad of ±π/2) the decomposition is not unique; the
// convention here reports yaw as 0 and folds the remaining rotation into roll.
func EulerAnglesIntrinsicXYZ(m mgl64.Mat3) *EulerAngles {
	sp := m.At(0, 2)
	if math.Abs(sp) < gimbalLockSin {
		return &EulerAngles{
			Roll:  math.Atan2(-m.At(1, 2), m.At(2, 2)),
			Pitch: math.Asin(sp),
			Yaw:   math.Atan2(-m.At(0, 1), m.At(0, 0)),
		}
	}
	pitch := math.Pi / 2
	if sp < 0 {
		pitch = -math.Pi / 2
	}
	return &EulerAngles{
		Roll:  math.Atan2(m.At(2, 1), m.At(1, 1)),
		Pitch: pitch,
		Yaw:   0,
	}
}

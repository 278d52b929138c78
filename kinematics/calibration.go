// Package kinematics computes the forward kinematics of the passive joints of
// the Reachy Mini head: a stewart-platform-style parallel mechanism with a
// body yaw stage and six rotary actuators whose arms push rods ending in
// passive ball joints on the head plate. A seventh passive joint ties the rod
// chain back to a connector frame fixed on the head.
package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/algoryn-nl/reachy-mini-kinematics/spatialmath"
)

const (
	// NumMotors is the number of stewart motors driving the head plate.
	NumMotors = 6
	// NumHeadJoints counts the actuated joints: body yaw plus the stewart motors.
	NumHeadJoints = NumMotors + 1
	// NumPassiveJoints counts the six rod ball joints plus the head connector joint.
	NumPassiveJoints = 7
	// NumPassiveAngles is the flattened output size, three Euler angles per passive joint.
	NumPassiveAngles = 3 * NumPassiveJoints
)

// MotorCalibration is the static, offline-calibrated data for one stewart motor.
type MotorCalibration struct {
	// MotorToWorld is the calibrated rigid transform of the world frame as seen
	// from the motor frame; its inverse places motor-local coordinates in world.
	MotorToWorld *spatialmath.Transform
	// BranchPosition is the attachment point of the rod's head-side end, in
	// head-local coordinates.
	BranchPosition r3.Vector
	// OrientationOffset is the fixed rotation aligning the physical servo axis
	// convention to the rod direction convention, as extrinsic x-y-z angles.
	OrientationOffset spatialmath.EulerAngles
	// RodDirection is the rod's direction in the corrected servo frame when all
	// passive joints sit at their reference angle. Normalized at construction.
	RodDirection r3.Vector

	motorFrame *spatialmath.Transform // world placement of the motor frame, inverse of MotorToWorld
	correction mgl64.Mat3             // OrientationOffset as a matrix
}

// HeadJointCalibration describes the head-mounted connector frame that the
// seventh passive joint closes its rotation loop against.
type HeadJointCalibration struct {
	// Frame is the connector frame's pose relative to the head frame.
	Frame *spatialmath.Transform
	// OrientationOffset is the seventh joint's correction rotation, as
	// extrinsic x-y-z angles.
	OrientationOffset spatialmath.EulerAngles

	correction mgl64.Mat3
}

// Calibration is the full read-only table the solver consumes. Construct it
// with NewCalibration or one of the JSON loaders; after construction it is
// immutable and safe to share between concurrent solves.
type Calibration struct {
	Name string
	// HeadZOffset is the fixed height of the head plate's reference frame above
	// the mechanism base, in meters.
	HeadZOffset float64
	// MotorArmLength is the length of each actuator arm along its local X axis, in meters.
	MotorArmLength float64
	Motors         [NumMotors]MotorCalibration
	HeadJoint      HeadJointCalibration
}

// NewCalibration validates the supplied table and precomputes the derived
// per-motor world frames and correction rotations, so solve calls never repeat
// the inversions.
func NewCalibration(
	name string,
	headZOffset, motorArmLength float64,
	motors [NumMotors]MotorCalibration,
	headJoint HeadJointCalibration,
) (*Calibration, error) {
	var errs error
	if math.IsNaN(headZOffset) || math.IsInf(headZOffset, 0) {
		errs = multierr.Append(errs, errors.Wrap(ErrCalibration, "head z offset is not finite"))
	}
	if !(motorArmLength > 0) || math.IsInf(motorArmLength, 0) {
		errs = multierr.Append(errs, errors.Wrapf(ErrCalibration, "motor arm length %g must be a positive finite number", motorArmLength))
	}

	for i := range motors {
		if err := motors[i].finalize(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "motor %d", i+1))
		}
	}
	if err := headJoint.finalize(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "head joint"))
	}
	if errs != nil {
		return nil, errs
	}

	return &Calibration{
		Name:           name,
		HeadZOffset:    headZOffset,
		MotorArmLength: motorArmLength,
		Motors:         motors,
		HeadJoint:      headJoint,
	}, nil
}

func (m *MotorCalibration) finalize() error {
	if m.MotorToWorld == nil {
		return errors.Wrap(ErrCalibration, "motor_to_world transform is missing")
	}
	if !m.MotorToWorld.RotationOrthonormal(spatialmath.OrthonormalityTolerance) {
		return errors.Wrap(ErrCalibration, "motor_to_world rotation block is not orthonormal")
	}
	if !vectorFinite(m.BranchPosition) {
		return errors.Wrap(ErrCalibration, "branch position is not finite")
	}
	if !eulerFinite(m.OrientationOffset) {
		return errors.Wrap(ErrCalibration, "orientation offset is not finite")
	}
	rodNorm := m.RodDirection.Norm()
	if math.IsNaN(rodNorm) || rodNorm < 1e-9 {
		return errors.Wrap(ErrCalibration, "rod direction cannot be normalized")
	}
	m.RodDirection = m.RodDirection.Mul(1 / rodNorm)

	inv, err := m.MotorToWorld.Invert()
	if err != nil {
		return errors.Wrapf(ErrCalibration, "motor_to_world is not invertible: %v", err)
	}
	m.motorFrame = inv
	m.correction = m.OrientationOffset.RotationMatrixExtrinsicXYZ()
	return nil
}

func (h *HeadJointCalibration) finalize() error {
	if h.Frame == nil {
		return errors.Wrap(ErrCalibration, "connector frame transform is missing")
	}
	if !h.Frame.RotationOrthonormal(spatialmath.OrthonormalityTolerance) {
		return errors.Wrap(ErrCalibration, "connector frame rotation block is not orthonormal")
	}
	if !eulerFinite(h.OrientationOffset) {
		return errors.Wrap(ErrCalibration, "orientation offset is not finite")
	}
	h.correction = h.OrientationOffset.RotationMatrixExtrinsicXYZ()
	return nil
}

func vectorFinite(v r3.Vector) bool {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func eulerFinite(ea spatialmath.EulerAngles) bool {
	return vectorFinite(r3.Vector{X: ea.Roll, Y: ea.Pitch, Z: ea.Yaw})
}

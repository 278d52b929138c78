package kinematics

import "github.com/pkg/errors"

// ErrNoCalibration is returned when no calibration data was supplied at all.
var ErrNoCalibration = errors.New("no calibration data")

// ErrCalibration is wrapped by every error caused by an invalid calibration
// table, so callers can distinguish configuration faults from bad solve inputs.
var ErrCalibration = errors.New("invalid calibration")

// ErrDegenerateGeometry is wrapped by errors reported when the mechanism
// geometry collapses, e.g. an actuator arm tip coinciding with its branch
// attachment point.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// NewDegenerateGeometryError returns an error for a rod vector too short to
// normalize at the given passive joint (1-based).
func NewDegenerateGeometryError(joint int, norm float64) error {
	return errors.Wrapf(ErrDegenerateGeometry, "passive joint %d: rod vector norm %g is too small to normalize", joint, norm)
}

// NewBadJointCountError returns an error for a head joint slice of the wrong length.
func NewBadJointCountError(got int) error {
	return errors.Errorf("expected %d head joint angles (body yaw plus %d stewart motors), got %d", NumHeadJoints, NumMotors, got)
}

// NewNonFiniteJointError returns an error for a NaN or infinite head joint angle.
func NewNonFiniteJointError(index int) error {
	return errors.Errorf("head joint angle at index %d is not finite", index)
}

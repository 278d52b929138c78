package kinematics

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/algoryn-nl/reachy-mini-kinematics/spatialmath"
)

// Rod vectors shorter than this mean the arm tip coincides with the branch
// point and no direction can be recovered.
const rodNormEpsilon = 1e-12

// PassiveSolver computes the orientations the head's passive joints settle
// into for a given set of actuated joint angles and head pose. A solver is
// stateless between calls and safe for concurrent use.
type PassiveSolver struct {
	calib  *Calibration
	logger golog.Logger
}

// rodJointState is what the closure joint needs retained from the last rod joint.
type rodJointState struct {
	alignment  mgl64.Mat3 // minimal rotation from nominal rod direction to the observed one
	worldServo mgl64.Mat3 // corrected servo frame rotation in world
}

// NewPassiveSolver returns a solver bound to the given calibration table.
func NewPassiveSolver(calib *Calibration, logger golog.Logger) (*PassiveSolver, error) {
	if calib == nil {
		return nil, ErrNoCalibration
	}
	logger.Debugf("passive joint solver ready with calibration %q", calib.Name)
	return &PassiveSolver{calib: calib, logger: logger}, nil
}

// Solve returns the passive joint angles for the given actuated joint angles
// and head pose. joints is [bodyYaw, stewart1..stewart6] in radians; headPose
// is the head plate's pose in world frame before body yaw is applied. The
// result is 21 radians: seven intrinsic X-Y-Z Euler triples, one per rod ball
// joint in motor order followed by the head connector joint.
func (ps *PassiveSolver) Solve(joints []float64, headPose *spatialmath.Transform) ([]float64, error) {
	if err := validateInputs(joints, headPose); err != nil {
		return nil, err
	}

	pose := ps.yawNeutralPose(joints[0], headPose)
	out := make([]float64, NumPassiveAngles)

	var last rodJointState
	for i := range ps.calib.Motors {
		state, ea, err := ps.solveRodJoint(i, joints[i+1], pose)
		if err != nil {
			return nil, err
		}
		out[3*i], out[3*i+1], out[3*i+2] = ea.Roll, ea.Pitch, ea.Yaw
		last = state
	}

	ea := ps.solveClosureJoint(pose, last)
	out[NumPassiveAngles-3], out[NumPassiveAngles-2], out[NumPassiveAngles-1] = ea.Roll, ea.Pitch, ea.Yaw
	return out, nil
}

// yawNeutralPose lifts the head pose by the calibrated Z offset and removes
// the body yaw, so the per-motor math runs in a yaw-neutral world frame.
func (ps *PassiveSolver) yawNeutralPose(bodyYaw float64, headPose *spatialmath.Transform) *spatialmath.Transform {
	lifted := headPose.Clone()
	translation := lifted.Translation()
	translation.Z += ps.calib.HeadZOffset
	lifted.SetTranslation(translation)
	return spatialmath.NewZRotationTransform(-bodyYaw).Mul(lifted)
}

// solveRodJoint handles passive joints 1-6: find where the actuator arm tip
// and the head branch point sit in world, express the vector between them in
// the corrected servo frame, and align the nominal rod direction to it.
func (ps *PassiveSolver) solveRodJoint(
	i int,
	motorAngle float64,
	pose *spatialmath.Transform,
) (rodJointState, *spatialmath.EulerAngles, error) {
	motor := &ps.calib.Motors[i]

	branchWorld := pose.TransformPoint(motor.BranchPosition)

	servoRot := mgl64.Rotate3DZ(motorAngle)
	armTip := mulVec(servoRot, r3.Vector{X: ps.calib.MotorArmLength})
	tipWorld := motor.motorFrame.TransformPoint(armTip)

	worldServo := motor.motorFrame.Rotation().Mul3(servoRot).Mul3(motor.correction)

	rodLocal := mulVec(worldServo.Transpose(), branchWorld.Sub(tipWorld))
	norm := rodLocal.Norm()
	if norm < rodNormEpsilon {
		return rodJointState{}, nil, NewDegenerateGeometryError(i+1, norm)
	}

	alignment, err := spatialmath.RotationBetweenVectors(motor.RodDirection, rodLocal.Mul(1/norm))
	if err != nil {
		return rodJointState{}, nil, errors.Wrapf(err, "passive joint %d", i+1)
	}
	return rodJointState{alignment: alignment, worldServo: worldServo}, spatialmath.EulerAnglesIntrinsicXYZ(alignment), nil
}

// solveClosureJoint handles passive joint 7. It aligns no rod; it finds the
// rotation that, composed after the sixth rod's current orientation,
// reproduces the head-mounted connector frame exactly.
func (ps *PassiveSolver) solveClosureJoint(pose *spatialmath.Transform, last rodJointState) *spatialmath.EulerAngles {
	connectorWorld := pose.Rotation().Mul3(ps.calib.HeadJoint.Frame.Rotation())
	rodWorld := last.worldServo.Mul3(last.alignment).Mul3(ps.calib.HeadJoint.correction)
	return spatialmath.EulerAnglesIntrinsicXYZ(rodWorld.Transpose().Mul3(connectorWorld))
}

func validateInputs(joints []float64, headPose *spatialmath.Transform) error {
	if len(joints) != NumHeadJoints {
		return NewBadJointCountError(len(joints))
	}
	for i, angle := range joints {
		if math.IsNaN(angle) || math.IsInf(angle, 0) {
			return NewNonFiniteJointError(i)
		}
	}
	if headPose == nil {
		return errors.New("head pose is nil")
	}
	if !headPose.Finite() {
		return errors.New("head pose contains non-finite values")
	}
	if !headPose.RotationOrthonormal(spatialmath.OrthonormalityTolerance) {
		return errors.New("head pose rotation block is not orthonormal")
	}
	return nil
}

func mulVec(m mgl64.Mat3, v r3.Vector) r3.Vector {
	out := m.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: out.X(), Y: out.Y(), Z: out.Z()}
}

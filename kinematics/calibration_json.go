package kinematics

import (
	// for embedding the stock calibration table.
	_ "embed"
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/algoryn-nl/reachy-mini-kinematics/spatialmath"
)

//go:embed reachy_mini.json
var reachyMiniJSON []byte

// calibrationConfig mirrors the calibration JSON layout. Transforms are 16
// row-major values, orientation offsets are extrinsic x-y-z Euler triples.
type calibrationConfig struct {
	Name           string          `json:"name"`
	HeadZOffset    float64         `json:"head_z_offset"`
	MotorArmLength float64         `json:"motor_arm_length"`
	Motors         []motorConfig   `json:"motors"`
	HeadJoint      headJointConfig `json:"head_joint"`
}

type motorConfig struct {
	MotorToWorld      []float64 `json:"motor_to_world"`
	BranchPosition    []float64 `json:"branch_position"`
	OrientationOffset []float64 `json:"orientation_offset"`
	RodDirection      []float64 `json:"rod_direction"`
}

type headJointConfig struct {
	Frame             []float64 `json:"frame"`
	OrientationOffset []float64 `json:"orientation_offset"`
}

// UnmarshalCalibrationJSON parses a calibration table from JSON data,
// validating it and precomputing the solver's derived fields.
func UnmarshalCalibrationJSON(jsonData []byte) (*Calibration, error) {
	if len(jsonData) == 0 {
		return nil, ErrNoCalibration
	}
	var cfg calibrationConfig
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal calibration json")
	}
	return cfg.parse()
}

// ParseCalibrationFile reads a calibration JSON file from disk.
func ParseCalibrationFile(filename string) (*Calibration, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read calibration file")
	}
	return UnmarshalCalibrationJSON(jsonData)
}

// DefaultCalibration returns the calibration table of the stock Reachy Mini
// head, with values taken from the mechanism's URDF and factory calibration.
func DefaultCalibration() (*Calibration, error) {
	return UnmarshalCalibrationJSON(reachyMiniJSON)
}

func (cfg *calibrationConfig) parse() (*Calibration, error) {
	if len(cfg.Motors) != NumMotors {
		return nil, errors.Wrapf(ErrCalibration, "expected %d motors, got %d", NumMotors, len(cfg.Motors))
	}

	var motors [NumMotors]MotorCalibration
	for i, mc := range cfg.Motors {
		transform, err := spatialmath.NewTransformFromRowMajor(mc.MotorToWorld)
		if err != nil {
			return nil, errors.Wrapf(err, "motor %d motor_to_world", i+1)
		}
		branch, err := vectorFromSlice(mc.BranchPosition)
		if err != nil {
			return nil, errors.Wrapf(err, "motor %d branch_position", i+1)
		}
		offset, err := eulerFromSlice(mc.OrientationOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "motor %d orientation_offset", i+1)
		}
		rod, err := vectorFromSlice(mc.RodDirection)
		if err != nil {
			return nil, errors.Wrapf(err, "motor %d rod_direction", i+1)
		}
		motors[i] = MotorCalibration{
			MotorToWorld:      transform,
			BranchPosition:    branch,
			OrientationOffset: offset,
			RodDirection:      rod,
		}
	}

	frame, err := spatialmath.NewTransformFromRowMajor(cfg.HeadJoint.Frame)
	if err != nil {
		return nil, errors.Wrap(err, "head joint frame")
	}
	offset, err := eulerFromSlice(cfg.HeadJoint.OrientationOffset)
	if err != nil {
		return nil, errors.Wrap(err, "head joint orientation_offset")
	}
	headJoint := HeadJointCalibration{Frame: frame, OrientationOffset: offset}

	return NewCalibration(cfg.Name, cfg.HeadZOffset, cfg.MotorArmLength, motors, headJoint)
}

func vectorFromSlice(vals []float64) (r3.Vector, error) {
	if len(vals) != 3 {
		return r3.Vector{}, errors.Errorf("expected 3 values, got %d", len(vals))
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func eulerFromSlice(vals []float64) (spatialmath.EulerAngles, error) {
	if len(vals) != 3 {
		return spatialmath.EulerAngles{}, errors.Errorf("expected 3 angles, got %d", len(vals))
	}
	return spatialmath.EulerAngles{Roll: vals[0], Pitch: vals[1], Yaw: vals[2]}, nil
}

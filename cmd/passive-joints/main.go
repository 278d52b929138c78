// The passive-joints command solves the Reachy Mini head's passive joint
// angles for a given set of actuated joint angles and head pose, and prints
// them one joint per line.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"

	"github.com/algoryn-nl/reachy-mini-kinematics/kinematics"
	"github.com/algoryn-nl/reachy-mini-kinematics/spatialmath"
	"github.com/algoryn-nl/reachy-mini-kinematics/utils"
)

var logger = golog.NewLogger("passive-joints")

func main() {
	app := &cli.App{
		Name:            "passive-joints",
		Usage:           "solve the passive joint angles of the Reachy Mini head",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "joints",
				Aliases: []string{"j"},
				Value:   "0,0,0,0,0,0,0",
				Usage:   "body yaw and six stewart motor angles in radians, comma separated",
			},
			&cli.StringFlag{
				Name:    "pose",
				Aliases: []string{"p"},
				Usage:   "head pose as 16 comma separated row-major values (defaults to identity)",
			},
			&cli.StringFlag{
				Name:    "calibration",
				Aliases: []string{"c"},
				Usage:   "load the calibration table from `FILE` instead of the built-in one",
			},
			&cli.BoolFlag{
				Name:  "degrees",
				Usage: "print angles in degrees instead of radians",
			},
		},
		Action: solveAction,
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func solveAction(c *cli.Context) error {
	joints, err := parseFloats(c.String("joints"), kinematics.NumHeadJoints)
	if err != nil {
		return fmt.Errorf("parsing --joints: %w", err)
	}

	pose := spatialmath.NewTransform()
	if poseArg := c.String("pose"); poseArg != "" {
		vals, err := parseFloats(poseArg, 16)
		if err != nil {
			return fmt.Errorf("parsing --pose: %w", err)
		}
		if pose, err = spatialmath.NewTransformFromRowMajor(vals); err != nil {
			return fmt.Errorf("parsing --pose: %w", err)
		}
	}

	calib, err := loadCalibration(c.String("calibration"))
	if err != nil {
		return err
	}

	solver, err := kinematics.NewPassiveSolver(calib, logger)
	if err != nil {
		return err
	}
	angles, err := solver.Solve(joints, pose)
	if err != nil {
		return err
	}

	for joint := 0; joint < kinematics.NumPassiveJoints; joint++ {
		x, y, z := angles[3*joint], angles[3*joint+1], angles[3*joint+2]
		if c.Bool("degrees") {
			x, y, z = utils.RadToDeg(x), utils.RadToDeg(y), utils.RadToDeg(z)
		}
		fmt.Printf("passive_%d: % .9f % .9f % .9f\n", joint+1, x, y, z)
	}
	return nil
}

func loadCalibration(path string) (*kinematics.Calibration, error) {
	if path == "" {
		return kinematics.DefaultCalibration()
	}
	return kinematics.ParseCalibrationFile(path)
}

func parseFloats(arg string, want int) ([]float64, error) {
	fields := strings.Split(arg, ",")
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d comma separated values, got %d", want, len(fields))
	}
	out := make([]float64, 0, want)
	for _, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/algoryn-nl/reachy-mini-kinematics/utils"
)

func TestEulerRoundTrip(t *testing.T) {
	for _, ea := range []EulerAngles{
		{0, 0, 0},
		{0.3, -0.4, 0.5},
		{utils.DegToRad(45), utils.DegToRad(-30), utils.DegToRad(120)},
		{-1.2, 1.0, 2.5},
		{3.0, -1.4, -3.0},
	} {
		got := EulerAnglesIntrinsicXYZ(ea.RotationMatrixIntrinsicXYZ())
		test.That(t, got.Roll, test.ShouldAlmostEqual, ea.Roll, 1e-9)
		test.That(t, got.Pitch, test.ShouldAlmostEqual, ea.Pitch, 1e-9)
		test.That(t, got.Yaw, test.ShouldAlmostEqual, ea.Yaw, 1e-9)
	}
}

func TestEulerGimbalLock(t *testing.T) {
	// at pitch +pi/2 roll and yaw rotate about the same axis; the convention
	// reports yaw 0 and folds everything into roll
	up := EulerAngles{0.3, math.Pi / 2, 0.2}
	got := EulerAnglesIntrinsicXYZ(up.RotationMatrixIntrinsicXYZ())
	test.That(t, got.Roll, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, got.Pitch, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, got.Yaw, test.ShouldEqual, 0)

	down := EulerAngles{0.3, -math.Pi / 2, 0.2}
	got = EulerAnglesIntrinsicXYZ(down.RotationMatrixIntrinsicXYZ())
	test.That(t, got.Roll, test.ShouldAlmostEqual, 0.1, 1e-9)
	test.That(t, got.Pitch, test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, got.Yaw, test.ShouldEqual, 0)

	// the reported triple must still reproduce the same rotation
	orig := up.RotationMatrixIntrinsicXYZ()
	rebuilt := EulerAnglesIntrinsicXYZ(orig).RotationMatrixIntrinsicXYZ()
	for i := range orig {
		test.That(t, rebuilt[i], test.ShouldAlmostEqual, orig[i], 1e-12)
	}
}

func TestExtrinsicIsReversedIntrinsic(t *testing.T) {
	// RotZ(c)RotY(b)RotX(a) transposed equals RotX(-a)RotY(-b)RotZ(-c)
	ea := EulerAngles{0.4, -0.9, 1.3}
	neg := EulerAngles{-ea.Roll, -ea.Pitch, -ea.Yaw}
	lhs := ea.RotationMatrixExtrinsicXYZ().Transpose()
	rhs := neg.RotationMatrixIntrinsicXYZ()
	for i := range lhs {
		test.That(t, lhs[i], test.ShouldAlmostEqual, rhs[i], 1e-12)
	}
}

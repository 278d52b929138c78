package spatialmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func assertOrthonormal(t *testing.T, m mgl64.Mat3) {
	t.Helper()
	gram := m.Mul3(m.Transpose())
	ident := mgl64.Ident3()
	for i := range gram {
		test.That(t, gram[i], test.ShouldAlmostEqual, ident[i], 1e-9)
	}
	test.That(t, m.Det(), test.ShouldAlmostEqual, 1, 1e-9)
}

func assertAligns(t *testing.T, from, to r3.Vector) {
	t.Helper()
	rot, err := RotationBetweenVectors(from, to)
	test.That(t, err, test.ShouldBeNil)
	assertOrthonormal(t, rot)

	a := from.Normalize()
	b := to.Normalize()
	mapped := rot.Mul3x1(mgl64.Vec3{a.X, a.Y, a.Z})
	test.That(t, mapped.X(), test.ShouldAlmostEqual, b.X, 1e-9)
	test.That(t, mapped.Y(), test.ShouldAlmostEqual, b.Y, 1e-9)
	test.That(t, mapped.Z(), test.ShouldAlmostEqual, b.Z, 1e-9)
}

func TestRotationBetweenVectors(t *testing.T) {
	assertAligns(t, r3.Vector{X: 1}, r3.Vector{Z: 1})
	assertAligns(t, r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1})
	assertAligns(t, r3.Vector{X: 0.2, Y: -0.3, Z: 0.9}, r3.Vector{X: -0.5, Y: 0.1, Z: 0.4})
	assertAligns(t, r3.Vector{Y: -2}, r3.Vector{X: 3, Z: -1})
	// inputs need not be unit length
	assertAligns(t, r3.Vector{X: 1e-3}, r3.Vector{Z: 40})
}

func TestRotationBetweenVectorsParallel(t *testing.T) {
	rot, err := RotationBetweenVectors(r3.Vector{X: 1}, r3.Vector{X: 5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rot, test.ShouldResemble, mgl64.Ident3())

	// within the small-angle snap threshold
	rot, err = RotationBetweenVectors(r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1e-6})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rot, test.ShouldResemble, mgl64.Ident3())
}

func TestRotationBetweenVectorsAntiparallel(t *testing.T) {
	// the axis is ambiguous here; whatever axis is chosen, the rotation must
	// still be a valid 180 degree turn taking a to -a
	for _, a := range []r3.Vector{
		{X: 1},
		{X: -1},
		{Y: 1},
		{Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0.9999, Y: 1e-5}, // close to X, exercises the fallback axis
	} {
		assertAligns(t, a, a.Mul(-1))
	}
}

func TestRotationBetweenVectorsZeroInput(t *testing.T) {
	_, err := RotationBetweenVectors(r3.Vector{}, r3.Vector{X: 1})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "zero-length")

	_, err = RotationBetweenVectors(r3.Vector{X: 1}, r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestQuatToRotationMatrix(t *testing.T) {
	ident := QuatToRotationMatrix(quat.Number{Real: 1})
	test.That(t, ident, test.ShouldResemble, mgl64.Ident3())

	// 90 degrees about Z
	halfSqrt2 := math.Sqrt(2) / 2
	rot := QuatToRotationMatrix(quat.Number{Real: halfSqrt2, Kmag: halfSqrt2})
	want := mgl64.Rotate3DZ(math.Pi / 2)
	for i := range rot {
		test.That(t, rot[i], test.ShouldAlmostEqual, want[i], 1e-12)
	}

	// non-unit quaternions are normalized first
	scaled := QuatToRotationMatrix(quat.Number{Real: 2 * halfSqrt2, Kmag: 2 * halfSqrt2})
	for i := range scaled {
		test.That(t, scaled[i], test.ShouldAlmostEqual, want[i], 1e-12)
	}
}

package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

const (
	// Cosine thresholds for the near-parallel and near-antiparallel branches,
	// where the cross product is too short to define a rotation axis reliably.
	parallelCos     = 0.99999
	antiparallelCos = -0.99999

	// Vectors shorter than this cannot be normalized meaningfully.
	normEpsilon = 1e-12
)

// RotationBetweenVectors returns the minimal rotation R with R·from = to, the
// rotation of smallest angle mapping one direction onto the other. Inputs need
// not be unit length but must be nonzero.
//
// Antiparallel inputs admit infinitely many 180° rotations; the deterministic
// choice here rotates about X̂×from, falling back to Ŷ×from when from lies
// within ~1e-3 of the X axis. Either way the axis is orthogonal to from.
func RotationBetweenVectors(from, to r3.Vector) (mgl64.Mat3, error) {
	fromNorm, toNorm := from.Norm(), to.Norm()
	if fromNorm < normEpsilon || toNorm < normEpsilon {
		return mgl64.Ident3(), errors.New("cannot align a zero-length vector")
	}
	a := from.Mul(1 / fromNorm)
	b := to.Mul(1 / toNorm)

	cos := a.Dot(b)
	switch {
	case cos > parallelCos:
		return mgl64.Ident3(), nil
	case cos < antiparallelCos:
		perp := r3.Vector{X: 1}.Cross(a)
		if perp.Norm() < 1e-3 {
			perp = r3.Vector{Y: 1}.Cross(a)
		}
		return axisAngleToMatrix(perp.Normalize(), math.Pi), nil
	}

	axis := a.Cross(b)
	theta := math.Atan2(axis.Norm(), cos)
	return axisAngleToMatrix(axis.Normalize(), theta), nil
}

// axisAngleToMatrix builds the rotation by theta about a unit axis, going
// through a unit quaternion so the result stays orthonormal.
func axisAngleToMatrix(axis r3.Vector, theta float64) mgl64.Mat3 {
	s := math.Sin(theta / 2)
	return QuatToRotationMatrix(quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	})
}

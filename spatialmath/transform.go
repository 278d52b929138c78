// Package spatialmath defines the spatial math primitives used by the kinematics
// packages: rigid transforms, rotation conversions, Euler angles, and the
// minimal rotation aligning two vectors.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// OrthonormalityTolerance is the maximum elementwise deviation of R·Rᵀ from the
// identity for a rotation block to still count as orthonormal.
const OrthonormalityTolerance = 1e-6

// Transform is a 4x4 homogeneous rigid transform: a 3x3 rotation block, a
// translation column, and an implicit [0,0,0,1] bottom row. The external
// contract is row-major; mgl64's column-major storage is an internal detail.
type Transform struct {
	mat mgl64.Mat4
}

// NewTransform returns a pointer to a new Transform whose matrix is the identity.
func NewTransform() *Transform {
	return &Transform{mgl64.Ident4()}
}

// NewTransformFromMatrix returns a Transform wrapping the given matrix.
func NewTransformFromMatrix(mat mgl64.Mat4) *Transform {
	return &Transform{mat}
}

// NewTransformFromRowMajor builds a Transform from 16 row-major values,
// rejecting wrong lengths and non-finite entries before any math is done.
func NewTransformFromRowMajor(vals []float64) (*Transform, error) {
	if len(vals) != 16 {
		return nil, errors.Errorf("expected 16 values for a 4x4 transform, got %d", len(vals))
	}
	var mat mgl64.Mat4
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("transform value at row %d column %d is not finite", i/4, i%4)
		}
		mat.Set(i/4, i%4, v)
	}
	return &Transform{mat}, nil
}

// NewZRotationTransform returns a pure rotation by theta radians about the world Z axis.
func NewZRotationTransform(theta float64) *Transform {
	return &Transform{mgl64.HomogRotate3DZ(theta)}
}

// Clone returns a Transform identical to this one.
func (t *Transform) Clone() *Transform {
	return &Transform{t.mat}
}

// Matrix returns the underlying 4x4 matrix.
func (t *Transform) Matrix() mgl64.Mat4 {
	return t.mat
}

// Rotation returns the top left 3x3 rotation block.
func (t *Transform) Rotation() mgl64.Mat3 {
	return t.mat.Mat3()
}

// Translation returns the translation column.
func (t *Transform) Translation() r3.Vector {
	return r3.Vector{X: t.mat.At(0, 3), Y: t.mat.At(1, 3), Z: t.mat.At(2, 3)}
}

// SetTranslation overwrites the translation column.
func (t *Transform) SetTranslation(v r3.Vector) {
	t.mat.Set(0, 3, v.X)
	t.mat.Set(1, 3, v.Y)
	t.mat.Set(2, 3, v.Z)
}

// Mul composes two transforms, applying other first.
func (t *Transform) Mul(other *Transform) *Transform {
	return &Transform{t.mat.Mul4(other.mat)}
}

// TransformPoint maps a point through the transform: R·p + t.
func (t *Transform) TransformPoint(p r3.Vector) r3.Vector {
	out := t.Rotation().Mul3x1(mgl64.Vec3{p.X, p.Y, p.Z})
	return r3.Vector{X: out.X(), Y: out.Y(), Z: out.Z()}.Add(t.Translation())
}

// RowMajor flattens the transform to 16 row-major values.
func (t *Transform) RowMajor() []float64 {
	out := make([]float64, 0, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out = append(out, t.mat.At(r, c))
		}
	}
	return out
}

// Finite reports whether every entry of the matrix is a finite number.
func (t *Transform) Finite() bool {
	for _, v := range t.mat {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RotationOrthonormal reports whether the rotation block is orthonormal with
// determinant +1 within the given tolerance.
func (t *Transform) RotationOrthonormal(tol float64) bool {
	rot := t.Rotation()
	if !t.Finite() {
		return false
	}
	gram := rot.Mul3(rot.Transpose())
	ident := mgl64.Ident3()
	for i := range gram {
		if math.Abs(gram[i]-ident[i]) > tol {
			return false
		}
	}
	return math.Abs(rot.Det()-1) <= tol
}

// Invert returns the rigid inverse: rotation transposed, translation set to
// -Rᵀt. It refuses to invert a transform whose rotation block is not
// orthonormal, since the transpose shortcut would silently be wrong.
func (t *Transform) Invert() (*Transform, error) {
	if !t.RotationOrthonormal(OrthonormalityTolerance) {
		return nil, errors.New("rotation block is not orthonormal, transform is not rigid")
	}
	rt := t.Rotation().Transpose()
	tr := t.Translation()
	flipped := rt.Mul3x1(mgl64.Vec3{tr.X, tr.Y, tr.Z})
	inv := rt.Mat4()
	inv.Set(0, 3, -flipped.X())
	inv.Set(1, 3, -flipped.Y())
	inv.Set(2, 3, -flipped.Z())
	return &Transform{inv}, nil
}

package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// NewEulerRotationMatrix4 returns the rotation for Euler angles in degrees,
// applied in X, Y, Z order (FBX eEulerXYZ).
func NewEulerRotationMatrix4(deg *Vector3) mgl64.Mat4 {
	x := mgl64.DegToRad(deg.X)
	y := mgl64.DegToRad(deg.Y)
	z := mgl64.DegToRad(deg.Z)
	return mgl64.HomogRotate3DZ(z).Mul4(mgl64.HomogRotate3DY(y)).Mul4(mgl64.HomogRotate3DX(x))
}

// NewEulerQuaternion converts XYZ Euler degrees to a unit quaternion.
func NewEulerQuaternion(deg *Vector3) mgl64.Quat {
	return mgl64.Mat4ToQuat(NewEulerRotationMatrix4(deg)).Normalize()
}

// NewTRSMatrix4 composes T * PreR * R * S.
// TODO: apply rotation/scaling pivots when they are imported.
func NewTRSMatrix4(translation, preRotation, rotation, scaling *Vector3) mgl64.Mat4 {
	tr := mgl64.Translate3D(translation.X, translation.Y, translation.Z)
	prerot := NewEulerRotationMatrix4(preRotation)
	rot := NewEulerRotationMatrix4(rotation)
	scale := mgl64.Scale3D(scaling.X, scaling.Y, scaling.Z)
	return tr.Mul4(prerot).Mul4(rot).Mul4(scale)
}

// Position extracts the translation column of an affine matrix.
func Position(m mgl64.Mat4) *Vector3 {
	return NewVector3FromVec3(m.Col(3).Vec3())
}

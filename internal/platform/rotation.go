package platform

import "github.com/1broseidon/dualscreen/internal/hinge"

// RandR rotation bits as reported in a CRTC's rotation field.
const (
	randrRotate0   = 1
	randrRotate90  = 2
	randrRotate180 = 4
	randrRotate270 = 8
)

// RotationFromRandR maps a RandR rotation bitmask to a rotation code.
// Reflection bits are ignored and an unknown value reads as Rotation0.
func RotationFromRandR(bits uint16) hinge.Rotation {
	switch bits & 0x0f {
	case randrRotate90:
		return hinge.Rotation90
	case randrRotate180:
		return hinge.Rotation180
	case randrRotate270:
		return hinge.Rotation270
	default:
		return hinge.Rotation0
	}
}

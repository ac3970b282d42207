package hinge

import (
	"errors"
	"fmt"
	"strings"
)

// Rotation is the display rotation code. The numeric values match the
// platform's 0/90/180/270 degree codes (0..3).
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 1
	Rotation180 Rotation = 2
	Rotation270 Rotation = 3
)

// Orientation is the label reported to UI consumers.
type Orientation string

const (
	OrientationPortrait         Orientation = "portrait"
	OrientationLandscape        Orientation = "landscape"
	OrientationPortraitFlipped  Orientation = "portraitFlipped"
	OrientationLandscapeFlipped Orientation = "landscapeFlipped"
)

// ErrInvalidRotation is returned for rotation codes outside 0..3.
var ErrInvalidRotation = errors.New("invalid rotation code")

// Valid reports whether r is one of the four defined codes.
func (r Rotation) Valid() bool {
	return r >= Rotation0 && r <= Rotation270
}

// Degrees returns the clockwise rotation in degrees.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// Orientation maps r to its label. Any code outside the four defined ones is
// a broken invariant upstream and yields ErrInvalidRotation.
func (r Rotation) Orientation() (Orientation, error) {
	switch r {
	case Rotation0:
		return OrientationPortrait, nil
	case Rotation90:
		return OrientationLandscape, nil
	case Rotation180:
		return OrientationPortraitFlipped, nil
	case Rotation270:
		return OrientationLandscapeFlipped, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidRotation, int(r))
	}
}

func (r Rotation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
	return fmt.Sprintf("%d°", r.Degrees())
}

// RotationFromDegrees accepts 0, 90, 180 or 270.
func RotationFromDegrees(deg int) (Rotation, error) {
	if deg < 0 || deg%90 != 0 || deg > 270 {
		return 0, fmt.Errorf("%w: %d degrees", ErrInvalidRotation, deg)
	}
	return Rotation(deg / 90), nil
}

// ParseOrientation is the inverse of Rotation.Orientation. Matching is
// case-insensitive.
func ParseOrientation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case strings.ToLower(string(OrientationPortrait)):
		return Rotation0, nil
	case strings.ToLower(string(OrientationLandscape)):
		return Rotation90, nil
	case strings.ToLower(string(OrientationPortraitFlipped)):
		return Rotation180, nil
	case strings.ToLower(string(OrientationLandscapeFlipped)):
		return Rotation270, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q", s)
	}
}

package breakout

import (
	"math"

	"github.com/charmbracelet/log"
)

// Face classifies which part of a rectangle the ball touched.
type Face uint8

const (
	FaceNone       Face = iota
	FaceHorizontal      // Top or bottom edge: flip DirY
	FaceVertical        // Left or right edge: flip DirX
	FaceCorner          // Flip both
)

func (f Face) String() string {
	switch f {
	case FaceHorizontal:
		return "horizontal"
	case FaceVertical:
		return "vertical"
	case FaceCorner:
		return "corner"
	default:
		return "none"
	}
}

// minRemaining is the shortest sweep worth testing.
const minRemaining = 0.001

// Collision is the earliest contact found along one sweep.
type Collision struct {
	Target   Target
	Traveled float64 // Distance along the direction before contact
	Face     Face
	// CorrX, CorrY push the ball center out of the rectangle along the
	// axis of least penetration.
	CorrX, CorrY float64
}

// Side records which side of a rectangle the ball came from on each axis:
// +1 right or above the center, -1 left or below, 0 when it was level with
// the rectangle on that axis.
type Side struct {
	X, Y float64
}

// approachSide reports the side of r the point (px, py) lies on. Walls are
// always approached from the arena interior.
func approachSide(t Target, r *Rect, px, py float64) Side {
	if t.Kind == KindBorder {
		px, py = ArenaWidth/2, ArenaHeight/2
	}
	var s Side
	if lx := px - r.X; math.Abs(lx) > r.HalfW {
		s.X = sign(lx)
	}
	if ly := py - r.Y; math.Abs(ly) > r.HalfH {
		s.Y = sign(ly)
	}
	return s
}

// narrowPhase steps a ball of the given radius from (x, y) along (dirX, dirY)
// for up to distance units, in sub-steps no longer than the radius, and
// returns the first candidate found overlapping. At the same step the
// earlier candidate in the list wins.
func (a *Arena) narrowPhase(c *candidates, x, y, dirX, dirY, distance, radius float64, logger *log.Logger) (Collision, bool) {
	if c.len() == 0 || distance < minRemaining {
		return Collision{}, false
	}
	step := radius
	if step <= 0 {
		step = distance
	}

	traveled := 0.0
	for distance-traveled >= minRemaining {
		px := x + dirX*traveled
		py := y + dirY*traveled
		traveled = min(traveled+step, distance)
		cx := x + dirX*traveled
		cy := y + dirY*traveled

		for _, t := range c.items {
			r := a.rect(t)
			if r == nil {
				continue
			}
			side := approachSide(t, r, px, py)
			face, corrX, corrY, anomalous := classify(cx, cy, radius, dirX, dirY, r, side)
			if face == FaceNone {
				continue
			}
			if anomalous && logger != nil {
				logger.Warn("ball approaching corner from neither side, treating as corner hit",
					"target", t.Kind.String(), "index", t.Index, "dir_x", dirX, "dir_y", dirY)
			}
			return Collision{Target: t, Traveled: traveled, Face: face, CorrX: corrX, CorrY: corrY}, true
		}
	}
	return Collision{}, false
}

// classify tests a circle against a rectangle. On overlap it returns the face
// that was hit and the correction that moves the center just outside the
// rectangle inflated by the radius, on the side the ball came from.
// anomalous reports a corner hit where the ball was moving away from the
// corner on both axes.
func classify(cx, cy, radius, dirX, dirY float64, r *Rect, side Side) (face Face, corrX, corrY float64, anomalous bool) {
	lx := cx - r.X
	ly := cy - r.Y
	ax := math.Abs(lx)
	ay := math.Abs(ly)

	if ax > r.HalfW+radius || ay > r.HalfH+radius {
		return FaceNone, 0, 0, false
	}

	sx := pushSide(side.X, lx, dirX)
	sy := pushSide(side.Y, ly, dirY)
	penX := r.HalfW + radius - sx*lx
	penY := r.HalfH + radius - sy*ly

	inside := ax <= r.HalfW && ay <= r.HalfH
	switch {
	case inside:
		// The center went past the edge within one sub-step, so where it is
		// now says nothing about the face. Use the side it came from.
		switch {
		case side.X != 0 && side.Y != 0:
			face = FaceCorner
		case side.X != 0:
			face = FaceVertical
		case side.Y != 0:
			face = FaceHorizontal
		case penX < penY:
			face = FaceVertical
		default:
			face = FaceHorizontal
		}
	case ax <= r.HalfW:
		face = FaceHorizontal
	case ay <= r.HalfH:
		face = FaceVertical
	default:
		dx := ax - r.HalfW
		dy := ay - r.HalfH
		if dx*dx+dy*dy > radius*radius {
			return FaceNone, 0, 0, false
		}
		// The corner lies on the opposite side of the center from the
		// offset, so approaching it means moving against the offset.
		towardX := sign(dirX) == -sign(lx)
		towardY := sign(dirY) == -sign(ly)
		switch {
		case towardX && towardY:
			face = FaceCorner
		case towardX:
			face = FaceVertical
		case towardY:
			face = FaceHorizontal
		default:
			face = FaceCorner
			anomalous = true
		}
	}

	alongX := penX < penY
	if inside && face != FaceCorner {
		alongX = face == FaceVertical
	}
	if alongX {
		corrX = sx*(r.HalfW+radius) - lx
	} else {
		corrY = sy*(r.HalfH+radius) - ly
	}
	return face, corrX, corrY, anomalous
}

// pushSide picks the correction sign on one axis: the approach side when
// known, else the side of the rectangle the center is on, else against the
// travel direction.
func pushSide(approach, offset, dir float64) float64 {
	if approach != 0 {
		return approach
	}
	if s := sign(offset); s != 0 {
		return s
	}
	if s := sign(dir); s != 0 {
		return -s
	}
	return 1
}

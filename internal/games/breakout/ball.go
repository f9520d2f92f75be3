package breakout

import "math"

// Ball is the only moving body. Dir is kept at unit length; Speed is in
// arena units per second.
type Ball struct {
	X, Y       float64
	DirX, DirY float64
	Speed      int
	Radius     float64
}

// SetDirection normalizes (dx, dy) and stores it. A zero vector has no
// direction and is rejected, leaving the previous one in place.
func (b *Ball) SetDirection(dx, dy float64) bool {
	n := math.Hypot(dx, dy)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	b.DirX = dx / n
	b.DirY = dy / n
	return true
}

// sign returns -1, 0 or 1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Package breakout implements the brick arena simulation: a fixed brick grid,
// a player paddle, four walls and one ball, advanced frame by frame with
// swept collision detection.
//
// Arena coordinates are float64 units with the origin at the bottom-left
// corner and Y pointing up. Rendering to terminal cells happens in render.go.
package breakout

import "github.com/vovakirdan/brick-arena/internal/core"

// Kind tags which family of rectangles an entity belongs to.
type Kind uint8

const (
	KindBrick Kind = iota
	KindPaddle
	KindBorder
)

func (k Kind) String() string {
	switch k {
	case KindBrick:
		return "brick"
	case KindPaddle:
		return "paddle"
	case KindBorder:
		return "border"
	default:
		return "unknown"
	}
}

// Border indexes the four walls. It is the Target.Index of a KindBorder target.
type Border int

const (
	BorderBottom Border = iota
	BorderTop
	BorderLeft
	BorderRight
	borderCount
)

// Rect is an axis-aligned rectangle positioned by its center.
type Rect struct {
	X, Y         float64 // Center
	HalfW, HalfH float64
	Color        core.Color
}

func (r Rect) Left() float64   { return r.X - r.HalfW }
func (r Rect) Right() float64  { return r.X + r.HalfW }
func (r Rect) Bottom() float64 { return r.Y - r.HalfH }
func (r Rect) Top() float64    { return r.Y + r.HalfH }

// Brick is a destructible rectangle. Dead bricks stay in the grid so that
// indices remain stable for the whole game.
type Brick struct {
	Rect
	Alive  bool
	Points int
}

// Target names one rectangle in the arena by kind and index.
// The paddle always has index 0.
type Target struct {
	Kind  Kind
	Index int
}

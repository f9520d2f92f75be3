package breakout

import (
	"math"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/core"
)

// Arena geometry. Percentages are of the arena width or height.
const (
	ArenaWidth   = 768.0
	ArenaHeight  = 1024.0
	BrickRows    = 8
	BrickColumns = 12

	borderPct       = 2.0  // Wall thickness, of width
	brickZoneBottom = 43.0 // Lowest brick row starts here, of height
	brickZoneTop    = 85.0
	brickGapX       = 20.0 // Of one cell's width
	brickGapY       = 50.0 // Of one cell's height

	paddleLevelPct   = 12.0 // Paddle center height, of height
	paddleHeightPct  = 1.0
	paddleWidthPct   = 2.0 // Times paddleWidthUnits, of width
	paddleWidthUnits = 6

	ballDiameterPct = 2.5 // Of width
	ballStartPct    = 30.0
	launchDirX      = -0.3
	launchDirY      = -1.0

	pointsPerRow = 100
)

// Default colors for the fixed entities.
const (
	PaddleColor = core.ColorBrightWhite
	BorderColor = core.ColorGray
	BallColor   = core.ColorBrightYellow
)

// Arena holds every rectangle plus the ball, and the reusable candidate
// buffer for collision queries.
type Arena struct {
	Bricks     []Brick
	Borders    [borderCount]Rect
	Paddle     Rect
	Ball       Ball
	liveBricks int

	cands candidates
}

// BorderWidth is the wall thickness in arena units.
func BorderWidth() float64 {
	return math.Floor(ArenaWidth * borderPct / 100)
}

// newArena lays out a full brick grid, the walls, a centered paddle and a
// ball at its launch point.
func newArena(tier config.DifficultyTier) Arena {
	bw := BorderWidth()
	a := Arena{
		Bricks: make([]Brick, 0, BrickRows*BrickColumns),
	}

	a.Borders[BorderBottom] = Rect{X: ArenaWidth / 2, Y: bw / 2, HalfW: ArenaWidth / 2, HalfH: bw / 2, Color: BorderColor}
	a.Borders[BorderTop] = Rect{X: ArenaWidth / 2, Y: ArenaHeight - bw/2, HalfW: ArenaWidth / 2, HalfH: bw / 2, Color: BorderColor}
	a.Borders[BorderLeft] = Rect{X: bw / 2, Y: ArenaHeight / 2, HalfW: bw / 2, HalfH: ArenaHeight / 2, Color: BorderColor}
	a.Borders[BorderRight] = Rect{X: ArenaWidth - bw/2, Y: ArenaHeight / 2, HalfW: bw / 2, HalfH: ArenaHeight / 2, Color: BorderColor}

	cellW := (ArenaWidth - 2*bw) / BrickColumns
	zoneBottom := ArenaHeight * brickZoneBottom / 100
	cellH := ArenaHeight * (brickZoneTop - brickZoneBottom) / 100 / BrickRows
	halfW := cellW * (1 - brickGapX/100) / 2
	halfH := cellH * (1 - brickGapY/100) / 2

	for row := 0; row < BrickRows; row++ {
		for col := 0; col < BrickColumns; col++ {
			a.Bricks = append(a.Bricks, Brick{
				Rect: Rect{
					X:     bw + float64(col)*cellW + cellW/2,
					Y:     zoneBottom + float64(row)*cellH + cellH/2,
					HalfW: halfW,
					HalfH: halfH,
					Color: core.Cycle(core.RowPalette, row),
				},
				Alive:  true,
				Points: (row + 1) * pointsPerRow,
			})
		}
	}
	a.liveBricks = len(a.Bricks)

	a.Paddle = Rect{
		X:     ArenaWidth / 2,
		Y:     ArenaHeight * paddleLevelPct / 100,
		HalfW: ArenaWidth * paddleWidthPct / 100 * paddleWidthUnits * tier.PaddleSize / 2,
		HalfH: ArenaHeight * paddleHeightPct / 100 / 2,
		Color: PaddleColor,
	}

	diameter := math.Floor(ArenaWidth*ballDiameterPct/100) * tier.BallSize
	a.Ball = Ball{Radius: diameter / 2}
	a.resetBall(tier.InitialSpeed)

	a.cands = newCandidates(len(a.Bricks))
	return a
}

// resetBall puts the ball back at its launch point with the launch direction.
func (a *Arena) resetBall(speed int) {
	a.Ball.X = ArenaWidth / 2
	a.Ball.Y = ArenaHeight * ballStartPct / 100
	a.Ball.SetDirection(launchDirX, launchDirY)
	a.Ball.Speed = speed
}

// paddleRange returns the leftmost and rightmost paddle centers that keep
// the paddle between the side walls.
func (a *Arena) paddleRange() (lo, hi float64) {
	lo = a.Borders[BorderLeft].Right() + a.Paddle.HalfW
	hi = a.Borders[BorderRight].Left() - a.Paddle.HalfW
	if lo > hi {
		lo, hi = ArenaWidth/2, ArenaWidth/2
	}
	return lo, hi
}

// movePaddle centers the paddle on x, clamped to the playable range.
func (a *Arena) movePaddle(x float64) {
	if math.IsNaN(x) {
		return
	}
	lo, hi := a.paddleRange()
	a.Paddle.X = core.ClampF(x, lo, hi)
}

// confine keeps the ball center at least a radius inside the walls.
func (a *Arena) confine() {
	b := &a.Ball
	loX, hiX := a.Borders[BorderLeft].Right()+b.Radius, a.Borders[BorderRight].Left()-b.Radius
	loY, hiY := a.Borders[BorderBottom].Top()+b.Radius, a.Borders[BorderTop].Bottom()-b.Radius
	if loX <= hiX {
		b.X = core.ClampF(b.X, loX, hiX)
	}
	if loY <= hiY {
		b.Y = core.ClampF(b.Y, loY, hiY)
	}
}

// rect returns the rectangle a target refers to, or nil for an invalid target.
func (a *Arena) rect(t Target) *Rect {
	switch t.Kind {
	case KindBrick:
		if t.Index >= 0 && t.Index < len(a.Bricks) {
			return &a.Bricks[t.Index].Rect
		}
	case KindBorder:
		if t.Index >= 0 && t.Index < int(borderCount) {
			return &a.Borders[t.Index]
		}
	case KindPaddle:
		return &a.Paddle
	}
	return nil
}

// LiveBricks returns the number of bricks still standing.
func (a *Arena) LiveBricks() int {
	return a.liveBricks
}

// countLive recomputes liveBricks from the grid.
func (a *Arena) countLive() {
	n := 0
	for i := range a.Bricks {
		if a.Bricks[i].Alive {
			n++
		}
	}
	a.liveBricks = n
}

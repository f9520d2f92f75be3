package breakout

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/brick-arena/internal/core"
)

// Glyphs used when drawing the arena.
const (
	BrickChar     = '█'
	PaddleChar    = '▀'
	BallChar      = '●'
	WallVertChar  = '│'
	WallHorizChar = '─'
	LifeChar      = '♥'
)

const (
	hudRows    = 1
	cellAspect = 2.0 // A terminal cell is about twice as tall as it is wide
)

// Viewport is the block of screen cells the arena is drawn into.
type Viewport struct {
	X, Y, W, H int
}

// ViewportFor fits the arena below the HUD row of a width x height screen,
// keeping its proportions when there is room.
func ViewportFor(width, height int) Viewport {
	h := height - hudRows
	if width <= 0 || h <= 0 {
		return Viewport{}
	}
	w := int(math.Round(float64(h) * cellAspect * ArenaWidth / ArenaHeight))
	w = core.Clamp(w, 1, width)
	return Viewport{X: (width - w) / 2, Y: hudRows, W: w, H: h}
}

// Empty reports whether there is nowhere to draw.
func (v Viewport) Empty() bool {
	return v.W <= 0 || v.H <= 0
}

// Cells returns the viewport as a screen rectangle.
func (v Viewport) Cells() core.Rect {
	return core.NewRect(v.X, v.Y, v.W, v.H)
}

// Col maps an arena X to a screen column inside the viewport.
func (v Viewport) Col(x float64) int {
	c := int(math.Floor(x / ArenaWidth * float64(v.W)))
	return v.X + core.Clamp(c, 0, v.W-1)
}

// Row maps an arena Y to a screen row inside the viewport. Arena Y points up.
func (v Viewport) Row(y float64) int {
	r := int(math.Floor((ArenaHeight - y) / ArenaHeight * float64(v.H)))
	return v.Y + core.Clamp(r, 0, v.H-1)
}

// ArenaX maps a screen column back to the arena X at the column's center.
func (v Viewport) ArenaX(col int) float64 {
	if v.W <= 0 {
		return ArenaWidth / 2
	}
	return (float64(col-v.X) + 0.5) / float64(v.W) * ArenaWidth
}

// fill draws r with one glyph, covering at least one cell.
func (v Viewport) fill(dst *core.Screen, r Rect, glyph rune, color core.Color) {
	// Nudge the far edges inward so a rect ending on a cell boundary does
	// not spill into the next cell.
	const eps = 1e-6
	c0, c1 := v.Col(r.Left()), v.Col(r.Right()-eps)
	r0, r1 := v.Row(r.Top()-eps), v.Row(r.Bottom())
	for y := r0; y <= r1; y++ {
		for x := c0; x <= c1; x++ {
			dst.SetColored(x, y, glyph, color)
		}
	}
}

// Render draws the HUD, the arena and any status message into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.drawHUD(dst)

	v := ViewportFor(dst.Width(), dst.Height())
	if v.Empty() {
		return
	}

	g.Entities(func(kind Kind, r Rect) {
		v.fill(dst, r, entityGlyph(kind, r), r.Color)
	})
	b := g.arena.Ball
	dst.SetColored(v.Col(b.X), v.Row(b.Y), BallChar, BallColor)

	g.drawMessage(dst, v)
}

func entityGlyph(kind Kind, r Rect) rune {
	switch kind {
	case KindBrick:
		return BrickChar
	case KindPaddle:
		return PaddleChar
	}
	if r.HalfH > r.HalfW {
		return WallVertChar
	}
	return WallHorizChar
}

func (g *Game) drawHUD(dst *core.Screen) {
	if dst.Height() == 0 {
		return
	}
	dst.DrawTextColored(1, 0, fmt.Sprintf("SCORE %d", g.score), core.ColorBrightWhite)
	dst.DrawTextCenteredColored(0, strings.ToUpper(g.diff.Tier.Name), core.ColorCyan)

	lives := strings.Repeat(string(LifeChar), g.lives)
	if g.diff.NeverLoseBall {
		lives = "ZEN"
	}
	dst.DrawTextColored(dst.Width()-len([]rune(lives))-1, 0, lives, core.ColorBrightRed)
}

func (g *Game) drawMessage(dst *core.Screen, v Viewport) {
	mid := v.Y + v.H/2
	switch g.message {
	case MessageReady:
		DrawOverlay(dst, mid, "READY", "", core.ColorBrightYellow)
	case MessageWon:
		DrawOverlay(dst, mid, "YOU WIN!", fmt.Sprintf("Final score: %d  R: new game", g.score), core.ColorBrightGreen)
	case MessageLost:
		DrawOverlay(dst, mid, "GAME OVER", fmt.Sprintf("Final score: %d  R: new game", g.score), core.ColorBrightRed)
	}
}

// DrawOverlay writes a framed, centered title at row y and an optional
// subtitle below it. Cells under the frame are cleared.
func DrawOverlay(dst *core.Screen, y int, title, subtitle string, color core.Color) {
	w := len([]rune(title))
	h := 3
	if subtitle != "" {
		w = max(w, len([]rune(subtitle)))
		h++
	}
	w += 4
	box := core.NewRect((dst.Width()-w)/2, y-1, w, h)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextCenteredColored(y, title, color)
	if subtitle != "" {
		dst.DrawTextCenteredColored(y+1, subtitle, core.ColorWhite)
	}
}

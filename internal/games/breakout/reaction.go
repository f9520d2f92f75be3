package breakout

import "math"

// Event is a terminal outcome of moving the ball during one frame.
type Event uint8

const (
	EventNone Event = iota
	EventBallLost
	EventAllBricksCleared
)

func (e Event) String() string {
	switch e {
	case EventBallLost:
		return "ball-lost"
	case EventAllBricksCleared:
		return "all-bricks-cleared"
	default:
		return "none"
	}
}

// Reaction tuning.
const (
	// NeverLosePenalty is taken from the score when the ball reaches the
	// bottom wall with never-lose-ball on.
	NeverLosePenalty = 500

	speedStepPct = 3.0 // Of (max - initial) per non-terminal hit

	paddleEdgeZone   = 0.25 // |offset| beyond which the edge boost applies
	paddleReverseMul = 1.6  // Offset opposes the current horizontal travel
	paddleExtendMul  = 1.2  // Offset agrees with it
	paddleDeflect    = 1.25
	maxSlope         = 3.0 // |DirX| may not exceed maxSlope * |DirY|

	// maxHitsPerFrame bounds the resolve loop if the ball gets wedged.
	maxHitsPerFrame = 64
)

// advance moves the ball distance units, resolving collisions in order.
// Travel stops early on a terminal event.
func (g *Game) advance(distance float64) Event {
	a := &g.arena
	b := &a.Ball

	for hits := 0; distance >= minRemaining; hits++ {
		if hits == maxHitsPerFrame {
			g.logger.Warn("too many collisions in one frame, dropping remaining travel",
				"remaining", distance, "x", b.X, "y", b.Y)
			return EventNone
		}

		endX := b.X + b.DirX*distance
		endY := b.Y + b.DirY*distance
		a.broadPhase(&a.cands, b.X, b.Y, endX, endY, b.Radius)
		col, hit := a.narrowPhase(&a.cands, b.X, b.Y, b.DirX, b.DirY, distance, b.Radius, g.logger)
		if !hit {
			b.X, b.Y = endX, endY
			return EventNone
		}

		if col.Traveled <= 0 {
			g.logger.Warn("collision with non-positive travel", "traveled", col.Traveled, "target", col.Target.Kind.String())
			col.Traveled = minRemaining
		}
		b.X += b.DirX*col.Traveled + col.CorrX
		b.Y += b.DirY*col.Traveled + col.CorrY
		a.confine()
		distance -= col.Traveled

		if ev := g.react(col); ev != EventNone {
			return ev
		}
		g.speedUp()
	}
	return EventNone
}

// react applies the consequences of one collision.
func (g *Game) react(col Collision) Event {
	a := &g.arena

	switch col.Target.Kind {
	case KindBrick:
		brick := &a.Bricks[col.Target.Index]
		brick.Alive = false
		a.liveBricks--
		g.addScore(brick.Points * int(math.Floor(g.diff.Tier.ScoreMultiplier)))
		g.sound.Play(SoundBrickHit)
		g.reflect(col.Face)
		if a.liveBricks == 0 {
			return EventAllBricksCleared
		}

	case KindPaddle:
		g.reflect(col.Face)
		if col.Face == FaceHorizontal {
			g.deflect()
		}
		g.sound.Play(SoundPaddleHit)

	case KindBorder:
		if Border(col.Target.Index) == BorderBottom {
			if !g.diff.NeverLoseBall {
				g.sound.Play(SoundBallLost)
				return EventBallLost
			}
			g.addScore(-NeverLosePenalty)
		}
		g.reflect(col.Face)
		g.sound.Play(SoundWallHit)

	default:
		g.logger.Warn("collision with unknown entity kind", "kind", col.Target.Kind, "index", col.Target.Index)
		g.reflect(col.Face)
		g.sound.Play(SoundWallHit)
	}
	return EventNone
}

// reflect flips the direction component(s) named by the face.
func (g *Game) reflect(face Face) {
	b := &g.arena.Ball
	switch face {
	case FaceHorizontal:
		b.DirY = -b.DirY
	case FaceVertical:
		b.DirX = -b.DirX
	case FaceCorner:
		b.DirX, b.DirY = -b.DirX, -b.DirY
	default:
		g.logger.Warn("unclassified collision face, reflecting both axes", "face", face.String())
		b.DirX, b.DirY = -b.DirX, -b.DirY
	}
}

// deflect steers the ball by where it struck the paddle: the center sends it
// straight back, the edges angle it outward.
func (g *Game) deflect() {
	a := &g.arena
	b := &a.Ball

	offset := (b.X - a.Paddle.Left()) / (2 * a.Paddle.HalfW)
	offset = min(max(offset, 0), 1) - 0.5

	if math.Abs(offset) >= paddleEdgeZone {
		if b.DirX != 0 && sign(offset) != sign(b.DirX) {
			offset *= paddleReverseMul
		} else {
			offset *= paddleExtendMul
		}
	}

	dx := b.DirX + offset*paddleDeflect
	dy := b.DirY
	if math.Abs(dx) > maxSlope*math.Abs(dy) {
		s := sign(dy)
		if s == 0 {
			s = 1
		}
		dy = s * math.Abs(dx) / maxSlope
	}
	if !b.SetDirection(dx, dy) {
		g.logger.Warn("paddle deflection produced a zero direction", "dx", dx, "dy", dy)
	}
}

// speedUp raises the ball speed by a fixed share of the tier's range.
func (g *Game) speedUp() {
	t := g.diff.Tier
	span := t.MaxSpeed - t.InitialSpeed
	step := int(float64(span) * speedStepPct / 100)
	if step == 0 && span > 0 {
		step = 1
	}
	b := &g.arena.Ball
	b.Speed = min(b.Speed+step, t.MaxSpeed)
}

func (g *Game) addScore(delta int) {
	g.score = max(g.score+delta, 0)
}

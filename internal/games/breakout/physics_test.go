package breakout

import (
	"io"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arena/internal/config"
)

const eps = 1e-9

type soundRecorder struct {
	played []Sound
}

func (r *soundRecorder) Play(s Sound) {
	r.played = append(r.played, s)
}

func (r *soundRecorder) last() Sound {
	if len(r.played) == 0 {
		return SoundCount
	}
	return r.played[len(r.played)-1]
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testDifficulty(tier string, neverLose bool) config.Difficulty {
	cfg := config.DefaultBreakoutConfig()
	cfg.Difficulty = tier
	cfg.NeverLoseBall = neverLose
	return cfg.Resolve(quietLogger())
}

// newPlayingGame returns a normal-tier game already in Playing with no pause.
func newPlayingGame(t *testing.T, neverLose bool) (*Game, *soundRecorder) {
	t.Helper()
	rec := &soundRecorder{}
	g := New(testDifficulty("normal", neverLose), WithLogger(quietLogger()), WithSound(rec))
	g.phase = PhasePlaying
	g.message = MessageNone
	g.pause = 0
	return g, rec
}

// killAllBricksExcept leaves only the listed bricks alive.
func killAllBricksExcept(g *Game, keep ...int) {
	for i := range g.arena.Bricks {
		g.arena.Bricks[i].Alive = false
	}
	for _, i := range keep {
		g.arena.Bricks[i].Alive = true
	}
	g.arena.countLive()
}

func placeBall(g *Game, x, y, dx, dy float64, speed int, radius float64) {
	b := &g.arena.Ball
	b.X, b.Y = x, y
	b.SetDirection(dx, dy)
	b.Speed = speed
	b.Radius = radius
}

func TestLayout(t *testing.T) {
	a := newArena(testDifficulty("normal", false).Tier)

	if len(a.Bricks) != BrickRows*BrickColumns {
		t.Fatalf("expected %d bricks, got %d", BrickRows*BrickColumns, len(a.Bricks))
	}
	if a.LiveBricks() != len(a.Bricks) {
		t.Errorf("LiveBricks = %d, expected %d", a.LiveBricks(), len(a.Bricks))
	}
	if BorderWidth() != 15 {
		t.Errorf("BorderWidth = %v, expected 15", BorderWidth())
	}
	if a.Ball.Radius != 9.5 {
		t.Errorf("ball radius = %v, expected 9.5", a.Ball.Radius)
	}

	tests := []struct {
		index  int
		points int
	}{
		{0, 100},
		{BrickColumns - 1, 100},
		{BrickColumns, 200},
		{BrickRows*BrickColumns - 1, 800},
	}
	for _, tc := range tests {
		if got := a.Bricks[tc.index].Points; got != tc.points {
			t.Errorf("brick %d points = %d, expected %d", tc.index, got, tc.points)
		}
	}

	// Row 0 is the lowest row
	if a.Bricks[0].Y >= a.Bricks[BrickColumns].Y {
		t.Error("row 0 should be below row 1")
	}
	if math.Abs(a.Paddle.HalfW-46.08) > eps {
		t.Errorf("paddle half width = %v, expected 46.08", a.Paddle.HalfW)
	}
}

func TestPaddleClamp(t *testing.T) {
	a := newArena(testDifficulty("normal", false).Tier)
	lo, hi := a.paddleRange()

	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"far left", -1000, lo},
		{"far right", 5000, hi},
		{"inside", 300, 300},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a.movePaddle(tc.x)
			if a.Paddle.X != tc.expected {
				t.Errorf("paddle X = %v, expected %v", a.Paddle.X, tc.expected)
			}
		})
	}
	if lo != BorderWidth()+a.Paddle.HalfW {
		t.Errorf("lo = %v, expected paddle flush with the left wall", lo)
	}
}

func TestSetDirectionNormalizes(t *testing.T) {
	tests := []struct {
		dx, dy float64
		ok     bool
	}{
		{3, 4, true},
		{-0.3, -1, true},
		{1e-9, 0, true},
		{-200, 5, true},
		{0, 0, false},
		{math.NaN(), 1, false},
	}
	for _, tc := range tests {
		b := Ball{DirX: 1}
		ok := b.SetDirection(tc.dx, tc.dy)
		if ok != tc.ok {
			t.Errorf("SetDirection(%v, %v) ok = %v, expected %v", tc.dx, tc.dy, ok, tc.ok)
			continue
		}
		if !ok {
			if b.DirX != 1 || b.DirY != 0 {
				t.Errorf("rejected direction changed the ball: %v, %v", b.DirX, b.DirY)
			}
			continue
		}
		if n := math.Hypot(b.DirX, b.DirY); math.Abs(n-1) > eps {
			t.Errorf("SetDirection(%v, %v) length = %v", tc.dx, tc.dy, n)
		}
	}
}

func TestBroadPhaseSkipsDeadBricks(t *testing.T) {
	a := newArena(testDifficulty("normal", false).Tier)
	target := a.Bricks[5]
	below := target.Bottom() - 30

	a.broadPhase(&a.cands, target.X, below, target.X, target.Y, 10)
	if !containsTarget(a.cands.items, Target{Kind: KindBrick, Index: 5}) {
		t.Fatal("live brick in path should be a candidate")
	}

	a.Bricks[5].Alive = false
	a.broadPhase(&a.cands, target.X, below, target.X, target.Y, 10)
	if containsTarget(a.cands.items, Target{Kind: KindBrick, Index: 5}) {
		t.Error("dead brick should never be a candidate")
	}
}

func TestBroadPhaseDoesNotAllocate(t *testing.T) {
	a := newArena(testDifficulty("normal", false).Tier)
	allocs := testing.AllocsPerRun(100, func() {
		a.broadPhase(&a.cands, 0, 0, ArenaWidth, ArenaHeight, 10)
	})
	if allocs != 0 {
		t.Errorf("broadPhase allocated %v times per run", allocs)
	}
	if a.cands.len() != len(a.Bricks)+int(borderCount)+1 {
		t.Errorf("full sweep should return everything, got %d", a.cands.len())
	}
}

func containsTarget(list []Target, t Target) bool {
	for _, c := range list {
		if c == t {
			return true
		}
	}
	return false
}

func TestClassify(t *testing.T) {
	r := &Rect{X: 0, Y: 0, HalfW: 10, HalfH: 10}

	tests := []struct {
		name      string
		cx, cy    float64
		dx, dy    float64
		face      Face
		anomalous bool
	}{
		{"miss", 30, 0, -1, 0, FaceNone, false},
		{"top face", 2, 13, 0, -1, FaceHorizontal, false},
		{"left face", -13, 1, 1, 0, FaceVertical, false},
		{"corner near miss", 14, 14, -1, -1, FaceNone, false},
		{"sharp corner", 13, 13, -1, -1, FaceCorner, false},
		{"corner moving sideways in", 13, 13, -1, 1, FaceVertical, false},
		{"corner moving down in", 13, 13, 1, -1, FaceHorizontal, false},
		{"corner moving away", 13, 13, 1, 1, FaceCorner, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			face, _, _, anomalous := classify(tc.cx, tc.cy, 5, tc.dx, tc.dy, r, Side{})
			if face != tc.face {
				t.Errorf("face = %v, expected %v", face, tc.face)
			}
			if anomalous != tc.anomalous {
				t.Errorf("anomalous = %v, expected %v", anomalous, tc.anomalous)
			}
		})
	}
}

func TestClassifyCorrection(t *testing.T) {
	r := &Rect{X: 0, Y: 0, HalfW: 10, HalfH: 10}

	// 2 units into the top face: push up by 2
	_, cx, cy, _ := classify(3, 13, 5, 0, -1, r, Side{})
	if cx != 0 || math.Abs(cy-2) > eps {
		t.Errorf("correction = (%v, %v), expected (0, 2)", cx, cy)
	}

	// Dead center of the rect: fall back to pushing against travel
	_, cx, cy, _ = classify(0, 0, 5, 0, 1, r, Side{})
	if cx != 0 || cy != -15 {
		t.Errorf("center correction = (%v, %v), expected (0, -15)", cx, cy)
	}
}

func TestNarrowPhaseTieGoesToListOrder(t *testing.T) {
	a := Arena{
		Bricks: []Brick{
			{Rect: Rect{X: 100, Y: 200, HalfW: 10, HalfH: 10}, Alive: true},
			{Rect: Rect{X: 100, Y: 200, HalfW: 10, HalfH: 10}, Alive: true},
		},
		cands: newCandidates(2),
	}
	a.cands.add(Target{Kind: KindBrick, Index: 1})
	a.cands.add(Target{Kind: KindBrick, Index: 0})

	col, hit := a.narrowPhase(&a.cands, 100, 170, 0, 1, 40, 5, quietLogger())
	if !hit {
		t.Fatal("expected a hit")
	}
	if col.Target.Index != 1 {
		t.Errorf("expected first listed candidate to win, got index %d", col.Target.Index)
	}
	if col.Face != FaceHorizontal {
		t.Errorf("face = %v, expected horizontal", col.Face)
	}
}

func TestClassifyDeepCenterUsesApproachSide(t *testing.T) {
	wall := &Rect{X: 7.5, Y: 512, HalfW: 7.5, HalfH: 512}
	b := Ball{}
	b.SetDirection(-0.95, 0.3)

	// Center already past the middle of a thin wall, arriving from the right
	face, cx, cy, _ := classify(6.66, 1005, 9.5, b.DirX, b.DirY, wall, Side{X: 1})
	if face != FaceVertical {
		t.Errorf("face = %v, expected vertical", face)
	}
	if cy != 0 || math.Abs(6.66+cx-24.5) > 1e-9 {
		t.Errorf("correction = (%v, %v), expected the center moved to x=24.5", cx, cy)
	}
}

func TestApproachSide(t *testing.T) {
	brick := &Rect{X: 100, Y: 100, HalfW: 20, HalfH: 10}
	tests := []struct {
		name   string
		target Target
		r      *Rect
		px, py float64
		want   Side
	}{
		{"from above", Target{Kind: KindBrick}, brick, 105, 130, Side{Y: 1}},
		{"from the left", Target{Kind: KindBrick}, brick, 60, 95, Side{X: -1}},
		{"from a corner", Target{Kind: KindBrick}, brick, 130, 80, Side{X: 1, Y: -1}},
		{"from inside", Target{Kind: KindBrick}, brick, 100, 100, Side{}},
		{"left wall from anywhere", Target{Kind: KindBorder, Index: int(BorderLeft)},
			&Rect{X: 7.5, Y: 512, HalfW: 7.5, HalfH: 512}, 3, 1000, Side{X: 1}},
		{"top wall from anywhere", Target{Kind: KindBorder, Index: int(BorderTop)},
			&Rect{X: 384, Y: 1016.5, HalfW: 384, HalfH: 7.5}, 384, 1020, Side{Y: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := approachSide(tc.target, tc.r, tc.px, tc.py); got != tc.want {
				t.Errorf("approachSide() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestArenaCornersKeepBallInside(t *testing.T) {
	bw := BorderWidth()
	corners := []struct {
		name   string
		sx, sy float64
	}{
		{"top left", -1, 1},
		{"top right", 1, 1},
		{"bottom left", -1, -1},
		{"bottom right", 1, -1},
	}
	for _, c := range corners {
		for _, tilt := range []float64{-0.4, -0.15, 0, 0.15, 0.4} {
			g, _ := newPlayingGame(t, true)
			killAllBricksExcept(g)
			g.arena.Paddle.X, g.arena.Paddle.Y = -1000, -1000

			cornerX, cornerY := bw, bw
			if c.sx > 0 {
				cornerX = ArenaWidth - bw
			}
			if c.sy > 0 {
				cornerY = ArenaHeight - bw
			}
			placeBall(g, cornerX-c.sx*60, cornerY-c.sy*60, c.sx+tilt, c.sy-tilt, 300, 9.5)

			for i := 0; i < 200; i++ {
				g.advance(13)
				b := g.Ball()
				if b.X < bw || b.X > ArenaWidth-bw || b.Y < bw || b.Y > ArenaHeight-bw {
					t.Fatalf("%s tilt %v step %d: ball (%v, %v) left the playfield", c.name, tilt, i, b.X, b.Y)
				}
			}
		}
	}
}

func TestPostCollisionOutsideInflatedRect(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rect := Rect{X: 400, Y: 500, HalfW: 24.6, HalfH: 13.44}
	const radius = 9.5

	for i := 0; i < 2000; i++ {
		a := Arena{
			Bricks: []Brick{{Rect: rect, Alive: true}},
			cands:  newCandidates(1),
		}
		a.Paddle = Rect{X: -1000, Y: -1000}
		for j := range a.Borders {
			a.Borders[j] = Rect{X: -1000, Y: -1000}
		}

		angle := rng.Float64() * 2 * math.Pi
		x := rect.X + 80*math.Cos(angle)
		y := rect.Y + 80*math.Sin(angle)
		b := Ball{}
		b.SetDirection(rect.X-x+rng.Float64()*40-20, rect.Y-y+rng.Float64()*40-20)

		endX, endY := x+b.DirX*120, y+b.DirY*120
		a.broadPhase(&a.cands, x, y, endX, endY, radius)
		col, hit := a.narrowPhase(&a.cands, x, y, b.DirX, b.DirY, 120, radius, quietLogger())
		if !hit {
			continue
		}
		px := x + b.DirX*col.Traveled + col.CorrX
		py := y + b.DirY*col.Traveled + col.CorrY
		outX := math.Abs(px-rect.X) >= rect.HalfW+radius-1e-6
		outY := math.Abs(py-rect.Y) >= rect.HalfH+radius-1e-6
		if !outX && !outY {
			t.Fatalf("case %d: corrected position (%v, %v) still inside inflated rect", i, px, py)
		}
	}
}

func TestBallLostScenario(t *testing.T) {
	g, rec := newPlayingGame(t, false)
	bottom := g.arena.Borders[BorderBottom].Top()
	placeBall(g, ArenaWidth/2, bottom+10+5, 0, -1, 300, 10)

	ev := g.advance(20)
	if ev != EventBallLost {
		t.Fatalf("event = %v, expected ball-lost", ev)
	}
	if rec.last() != SoundBallLost {
		t.Errorf("last sound = %v, expected lost", rec.last())
	}
}

func TestBallLostThroughFrame(t *testing.T) {
	g, _ := newPlayingGame(t, false)
	bottom := g.arena.Borders[BorderBottom].Top()
	placeBall(g, ArenaWidth/2, bottom+10+5, 0, -1, 300, 10)
	lives := g.lives

	t0 := time.Unix(1000, 0)
	g.CalculateNextFrame(t0)
	res := g.CalculateNextFrame(t0.Add(time.Second*20/300))

	if res.Event != EventBallLost {
		t.Fatalf("event = %v, expected ball-lost", res.Event)
	}
	st := g.Status()
	if st.Lives != lives-1 {
		t.Errorf("lives = %d, expected %d", st.Lives, lives-1)
	}
	if st.Phase != PhaseReady || st.Message != MessageReady {
		t.Errorf("expected Ready with ready message, got %v/%v", st.Phase, st.Message)
	}
	b := g.Ball()
	if b.Speed != g.diff.Tier.InitialSpeed {
		t.Errorf("speed = %d, expected reset to %d", b.Speed, g.diff.Tier.InitialSpeed)
	}
	if b.Y != ArenaHeight*ballStartPct/100 {
		t.Errorf("ball Y = %v, expected launch height", b.Y)
	}
	if !st.Paused {
		t.Error("expected the life-lost pause to be running")
	}
}

func TestLastBrickWins(t *testing.T) {
	g, rec := newPlayingGame(t, false)
	killAllBricksExcept(g, 0)
	brick := g.arena.Bricks[0]
	placeBall(g, brick.X, brick.Bottom()-10-5, 0, 1, 300, 10)

	t0 := time.Unix(1000, 0)
	g.CalculateNextFrame(t0)
	res := g.CalculateNextFrame(t0.Add(time.Second*20/300))

	if res.Event != EventAllBricksCleared {
		t.Fatalf("event = %v, expected all-bricks-cleared", res.Event)
	}
	if g.arena.LiveBricks() != 0 {
		t.Errorf("LiveBricks = %d, expected 0", g.arena.LiveBricks())
	}
	if g.Status().Phase != PhaseWon || g.Status().Message != MessageWon {
		t.Errorf("expected Won, got %v", g.Status().Phase)
	}
	if g.score != 100 {
		t.Errorf("score = %d, expected 100", g.score)
	}
	if rec.last() != SoundBrickHit {
		t.Errorf("last sound = %v, expected brick", rec.last())
	}
}

func TestScoreMultiplierIsFloored(t *testing.T) {
	diff := testDifficulty("hard", false)
	diff.Tier.ScoreMultiplier = 2.7
	g := New(diff, WithLogger(quietLogger()))
	g.phase = PhasePlaying
	g.pause = 0
	killAllBricksExcept(g, BrickColumns+5, 0)

	brick := g.arena.Bricks[BrickColumns+5]
	placeBall(g, brick.X, brick.Bottom()-10-5, 0, 1, 300, 10)
	g.advance(20)

	if g.score != 400 {
		t.Errorf("score = %d, expected 200 points x 2", g.score)
	}
}

func TestCenteredPaddleHit(t *testing.T) {
	g, rec := newPlayingGame(t, false)
	p := g.arena.Paddle
	placeBall(g, p.X, p.Top()+10+3, 0, -1, 300, 10)

	if ev := g.advance(10); ev != EventNone {
		t.Fatalf("event = %v, expected none", ev)
	}
	b := g.Ball()
	if math.Abs(b.DirX) > eps {
		t.Errorf("DirX = %v, expected no horizontal change", b.DirX)
	}
	if math.Abs(b.DirY-1) > eps {
		t.Errorf("DirY = %v, expected straight up", b.DirY)
	}
	if b.Speed != 315 {
		t.Errorf("speed = %d, expected 300 + 3%% of 500", b.Speed)
	}
	if rec.last() != SoundPaddleHit {
		t.Errorf("last sound = %v, expected paddle", rec.last())
	}
}

func TestPaddleEdgeDeflection(t *testing.T) {
	tests := []struct {
		name   string
		offset float64 // Fraction of the half width from center
		dirX   float64
		wantX  func(float64) bool
	}{
		{"right edge extends rightward travel", 0.8, 0.3, func(x float64) bool { return x > 0.3 }},
		{"right edge reverses leftward travel", 0.8, -0.3, func(x float64) bool { return x > 0 }},
		{"left edge", -0.8, 0, func(x float64) bool { return x < 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newPlayingGame(t, false)
			p := g.arena.Paddle
			placeBall(g, p.X+tc.offset*p.HalfW, p.Top()+10+3, tc.dirX, -1, 300, 10)
			g.advance(10)

			b := g.Ball()
			if !tc.wantX(b.DirX) {
				t.Errorf("DirX = %v after deflection", b.DirX)
			}
			if b.DirY <= 0 {
				t.Errorf("DirY = %v, expected upward", b.DirY)
			}
			if math.Abs(b.DirX) > maxSlope*math.Abs(b.DirY)+eps {
				t.Errorf("slope too flat: %v, %v", b.DirX, b.DirY)
			}
		})
	}
}

func TestSharpCornerReversesBoth(t *testing.T) {
	g, _ := newPlayingGame(t, false)
	killAllBricksExcept(g, 5, BrickRows*BrickColumns-1)
	brick := g.arena.Bricks[5]
	placeBall(g, brick.Left()-12, brick.Bottom()-12, 1, 1, 300, 5)

	if ev := g.advance(20); ev != EventNone {
		t.Fatalf("event = %v, expected none", ev)
	}
	b := g.Ball()
	want := -1 / math.Sqrt2
	if math.Abs(b.DirX-want) > eps || math.Abs(b.DirY-want) > eps {
		t.Errorf("direction = (%v, %v), expected both reversed", b.DirX, b.DirY)
	}
	if g.arena.Bricks[5].Alive {
		t.Error("corner hit should destroy the brick")
	}
}

func TestNeverLoseBallPenalty(t *testing.T) {
	g, rec := newPlayingGame(t, true)
	g.score = 200
	bottom := g.arena.Borders[BorderBottom].Top()
	placeBall(g, ArenaWidth/2, bottom+10+5, 0, -1, 300, 10)

	if ev := g.advance(20); ev != EventNone {
		t.Fatalf("event = %v, expected none with never-lose-ball", ev)
	}
	if g.score != 0 {
		t.Errorf("score = %d, expected clamp at 0", g.score)
	}
	if g.Ball().DirY <= 0 {
		t.Error("ball should bounce off the bottom wall")
	}
	if rec.last() != SoundWallHit {
		t.Errorf("last sound = %v, expected wall", rec.last())
	}
}

func TestSpeedCapped(t *testing.T) {
	g, _ := newPlayingGame(t, false)
	g.arena.Ball.Speed = g.diff.Tier.MaxSpeed - 1
	g.speedUp()
	if g.arena.Ball.Speed != g.diff.Tier.MaxSpeed {
		t.Errorf("speed = %d, expected cap %d", g.arena.Ball.Speed, g.diff.Tier.MaxSpeed)
	}
}

func TestSpeedUpSmallRange(t *testing.T) {
	diff := testDifficulty("normal", false)
	diff.Tier.MaxSpeed = diff.Tier.InitialSpeed + 20
	g := New(diff, WithLogger(quietLogger()))
	g.arena.Ball.Speed = diff.Tier.InitialSpeed

	g.speedUp()
	if got := g.arena.Ball.Speed; got != diff.Tier.InitialSpeed+1 {
		t.Errorf("speed = %d, expected a step of 1", got)
	}

	diff.Tier.MaxSpeed = diff.Tier.InitialSpeed
	g = New(diff, WithLogger(quietLogger()))
	g.speedUp()
	if got := g.arena.Ball.Speed; got != diff.Tier.InitialSpeed {
		t.Errorf("speed = %d, expected no change with an empty range", got)
	}
}

func TestRandomPlayInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := New(testDifficulty("hard", true), WithLogger(quietLogger()))
	bw := BorderWidth()

	now := time.Unix(5000, 0)
	for frame := 0; frame < 20000; frame++ {
		if frame%7 == 0 {
			g.SetPaddleX(rng.Float64() * ArenaWidth)
		}
		now = now.Add(time.Duration(8+rng.Intn(30)) * time.Millisecond)
		g.CalculateNextFrame(now)

		alive := 0
		for i := range g.arena.Bricks {
			if g.arena.Bricks[i].Alive {
				alive++
			}
		}
		if alive != g.arena.LiveBricks() {
			t.Fatalf("frame %d: liveBricks = %d, counted %d", frame, g.arena.LiveBricks(), alive)
		}
		if g.score < 0 {
			t.Fatalf("frame %d: negative score %d", frame, g.score)
		}
		b := g.Ball()
		if n := math.Hypot(b.DirX, b.DirY); math.Abs(n-1) > 1e-6 {
			t.Fatalf("frame %d: direction length %v", frame, n)
		}
		if b.Speed > g.diff.Tier.MaxSpeed {
			t.Fatalf("frame %d: speed %d above max", frame, b.Speed)
		}
		if b.X < bw || b.X > ArenaWidth-bw || b.Y < bw || b.Y > ArenaHeight-bw {
			t.Fatalf("frame %d: ball (%v, %v) left the playfield", frame, b.X, b.Y)
		}
		if g.phase == PhaseWon {
			g.NewGame()
		}
	}
}

package breakout

// candidates is a bounded, reusable list of targets that might be hit during
// one sweep. Its capacity is fixed when the arena is built so that the frame
// loop never allocates.
type candidates struct {
	items []Target
}

func newCandidates(bricks int) candidates {
	return candidates{items: make([]Target, 0, bricks+int(borderCount)+1)}
}

func (c *candidates) reset() {
	c.items = c.items[:0]
}

// add appends t unless the buffer is full. The capacity covers every brick,
// wall and the paddle, so a full buffer means a caller bug.
func (c *candidates) add(t Target) bool {
	if len(c.items) == cap(c.items) {
		return false
	}
	c.items = append(c.items, t)
	return true
}

func (c *candidates) len() int { return len(c.items) }

// sweepBox is the region a ball of the given radius can touch while moving
// from (x0, y0) to (x1, y1).
type sweepBox struct {
	minX, minY, maxX, maxY float64
}

func newSweepBox(x0, y0, x1, y1, radius float64) sweepBox {
	return sweepBox{
		minX: min(x0, x1) - radius,
		minY: min(y0, y1) - radius,
		maxX: max(x0, x1) + radius,
		maxY: max(y0, y1) + radius,
	}
}

// overlaps is a separating-axis test: any gap on either axis rejects.
func (s sweepBox) overlaps(r *Rect) bool {
	return !(r.Right() < s.minX || r.Left() > s.maxX ||
		r.Top() < s.minY || r.Bottom() > s.maxY)
}

// broadPhase fills out with every live brick, wall and the paddle whose
// rectangle overlaps the sweep of a ball moving from (x0, y0) to (x1, y1).
// Order is bricks, walls, paddle; the narrow phase breaks ties by it.
func (a *Arena) broadPhase(out *candidates, x0, y0, x1, y1, radius float64) {
	out.reset()
	box := newSweepBox(x0, y0, x1, y1, radius)

	for i := range a.Bricks {
		b := &a.Bricks[i]
		if !b.Alive {
			continue
		}
		if box.overlaps(&b.Rect) {
			out.add(Target{Kind: KindBrick, Index: i})
		}
	}
	for i := range a.Borders {
		if box.overlaps(&a.Borders[i]) {
			out.add(Target{Kind: KindBorder, Index: i})
		}
	}
	if box.overlaps(&a.Paddle) {
		out.add(Target{Kind: KindPaddle})
	}
}

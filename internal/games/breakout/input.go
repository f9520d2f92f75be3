package breakout

// DefaultInputBuffer is the paddle queue capacity used by NewRunner.
const DefaultInputBuffer = 32

// PaddleInput carries desired paddle centers from the input side to the
// frame loop. Senders never block: when the queue is full the oldest value
// is discarded, since only the latest position matters.
type PaddleInput struct {
	ch chan float64
}

// NewPaddleInput creates a queue holding up to capacity positions.
func NewPaddleInput(capacity int) *PaddleInput {
	if capacity < 1 {
		capacity = 1
	}
	return &PaddleInput{ch: make(chan float64, capacity)}
}

// Move queues a desired paddle center in arena units.
func (p *PaddleInput) Move(x float64) {
	for {
		select {
		case p.ch <- x:
			return
		default:
		}
		// Full: drop the stale head and retry
		select {
		case <-p.ch:
		default:
		}
	}
}

// drain empties the queue and returns the most recent value.
func (p *PaddleInput) drain() (float64, bool) {
	var (
		last float64
		ok   bool
	)
	for {
		select {
		case x := <-p.ch:
			last, ok = x, true
		default:
			return last, ok
		}
	}
}

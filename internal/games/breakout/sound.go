package breakout

// Sound is a fire-and-forget effect cue raised by collisions.
type Sound uint8

const (
	SoundBrickHit Sound = iota
	SoundPaddleHit
	SoundWallHit
	SoundBallLost
	SoundCount
)

func (s Sound) String() string {
	switch s {
	case SoundBrickHit:
		return "brick"
	case SoundPaddleHit:
		return "paddle"
	case SoundWallHit:
		return "wall"
	case SoundBallLost:
		return "lost"
	default:
		return "unknown"
	}
}

// SoundPlayer plays effect cues. Play must not block the frame loop.
type SoundPlayer interface {
	Play(Sound)
}

type silent struct{}

func (silent) Play(Sound) {}

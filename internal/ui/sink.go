package ui

import "github.com/samdwyer/duelband/internal/audio"

// Beeper rings a bell. *Screen implements it.
type Beeper interface {
	Beep() error
}

// DefaultBellThreshold is the gain a cue needs before it rings the bell.
const DefaultBellThreshold = 0.25

// BellSink plays cues on the terminal bell, the only sound a terminal has.
// Loops and quiet cues are skipped.
type BellSink struct {
	bell      Beeper
	threshold float64
}

// NewBellSink creates a sink ringing bell for cues at or above threshold gain.
func NewBellSink(bell Beeper, threshold float64) *BellSink {
	return &BellSink{bell: bell, threshold: threshold}
}

// Play implements audio.Sink.
func (s *BellSink) Play(cue audio.Cue) error {
	if cue.Loop || cue.Gain < s.threshold {
		return nil
	}
	return s.bell.Beep()
}

var _ audio.Sink = (*BellSink)(nil)

// Package audio dispatches positioned sound cues without blocking the caller.
package audio

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
)

// SampleID names a sound sample known to the sink.
type SampleID string

const (
	SampleSelect  SampleID = "select"
	SampleHit     SampleID = "hit"
	SampleCrit    SampleID = "crit"
	SampleMiss    SampleID = "miss"
	SampleHeal    SampleID = "heal"
	SampleVictory SampleID = "victory"
	SampleAmbient SampleID = "ambient"
)

// Vec3 is a world-space position or direction.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Len returns the Euclidean length.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Handle identifies a dispatched cue. It may be discarded.
type Handle uint64

// Cue is a sound request after attenuation, as delivered to a Sink.
type Cue struct {
	Handle Handle
	Sample SampleID
	Gain   float64 // volume after distance attenuation, in [0, 1]
	Pan    float64 // -1 left, +1 right, relative to the listener
	Loop   bool
}

// Sink plays cues. It runs on the mixer's worker goroutine and may block.
type Sink interface {
	Play(cue Cue) error
}

// DefaultQueueSize is the cue buffer used when NewMixer gets a size <= 0.
const DefaultQueueSize = 32

type listener struct {
	position Vec3
	right    Vec3
}

// Mixer queues cues for a Sink. PlayOneShot and PlayLoop never block;
// when the queue is full the cue is dropped.
type Mixer struct {
	sink   Sink
	cues   chan Cue
	logger *slog.Logger
	next   atomic.Uint64

	mu       sync.RWMutex
	listener listener
}

// NewMixer creates a mixer feeding sink. Call Run to start delivery.
func NewMixer(sink Sink, queueSize int, logger *slog.Logger) *Mixer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mixer{
		sink:     sink,
		cues:     make(chan Cue, queueSize),
		logger:   logger,
		listener: listener{right: Vec3{X: 1}},
	}
}

// PlayOneShot queues a single play of sample at position. Volume fades
// linearly to zero at falloff distance from the listener.
func (m *Mixer) PlayOneShot(sample SampleID, volume float64, position Vec3, falloff float64) Handle {
	return m.enqueue(sample, volume, position, falloff, false)
}

// PlayLoop queues a looping sample. Attenuation is computed once at start.
func (m *Mixer) PlayLoop(sample SampleID, volume float64, position Vec3, falloff float64) Handle {
	return m.enqueue(sample, volume, position, falloff, true)
}

// UpdateListener moves the listener. dt is accepted for smoothing sinks and
// is currently unused.
func (m *Mixer) UpdateListener(position, right Vec3, dt float64) {
	m.mu.Lock()
	m.listener = listener{position: position, right: right}
	m.mu.Unlock()
}

func (m *Mixer) listenerPosition() Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listener.position
}

// Run delivers queued cues to the sink until ctx is cancelled.
func (m *Mixer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cue := <-m.cues:
			if err := m.sink.Play(cue); err != nil {
				m.logger.Warn("audio sink failed", "sample", cue.Sample, "error", err)
			}
		}
	}
}

func (m *Mixer) enqueue(sample SampleID, volume float64, position Vec3, falloff float64, loop bool) Handle {
	h := Handle(m.next.Add(1))

	m.mu.RLock()
	l := m.listener
	m.mu.RUnlock()

	gain := Attenuate(volume, position, l.position, falloff)
	if gain <= 0 {
		return h
	}

	cue := Cue{Handle: h, Sample: sample, Gain: gain, Pan: pan(position, l), Loop: loop}
	select {
	case m.cues <- cue:
	default:
		m.logger.Debug("audio queue full, dropping cue", "sample", sample)
	}
	return h
}

// Attenuate returns volume scaled by max(0, 1 - distance/falloff), clamped to [0, 1].
// A non-positive falloff disables attenuation.
func Attenuate(volume float64, source, listener Vec3, falloff float64) float64 {
	gain := volume
	if falloff > 0 {
		gain *= math.Max(0, 1-source.Sub(listener).Len()/falloff)
	}
	return math.Min(math.Max(gain, 0), 1)
}

func pan(source Vec3, l listener) float64 {
	d := source.Sub(l.position)
	dist := d.Len()
	rightLen := l.right.Len()
	if dist == 0 || rightLen == 0 {
		return 0
	}
	dot := (d.X*l.right.X + d.Y*l.right.Y + d.Z*l.right.Z) / (dist * rightLen)
	return math.Min(math.Max(dot, -1), 1)
}

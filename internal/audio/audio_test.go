package audio

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu    sync.Mutex
	cues  []Cue
	block chan struct{}
}

func (s *recordingSink) Play(cue Cue) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cues = append(s.cues, cue)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cues)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAttenuate(t *testing.T) {
	origin := Vec3{}
	tests := []struct {
		name    string
		volume  float64
		source  Vec3
		falloff float64
		want    float64
	}{
		{"at listener", 1, origin, 10, 1},
		{"half way", 1, Vec3{X: 5}, 10, 0.5},
		{"beyond falloff", 1, Vec3{X: 20}, 10, 0},
		{"no falloff", 0.7, Vec3{X: 100}, 0, 0.7},
		{"clamped", 3, origin, 10, 1},
	}

	for _, tt := range tests {
		got := Attenuate(tt.volume, tt.source, origin, tt.falloff)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Attenuate() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPlayOneShotDoesNotBlock(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	m := NewMixer(sink, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			m.PlayOneShot(SampleSelect, 1, Vec3{}, 10)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PlayOneShot blocked while the sink was busy")
	}
	close(sink.block)
}

func TestRunDeliversCues(t *testing.T) {
	sink := &recordingSink{}
	m := NewMixer(sink, 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	h1 := m.PlayOneShot(SampleHit, 1, Vec3{X: 1}, 10)
	h2 := m.PlayLoop(SampleAmbient, 0.5, Vec3{}, 10)
	if h1 == h2 {
		t.Error("handles should be unique")
	}

	deadline := time.Now().Add(time.Second)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.count() != 2 {
		t.Fatalf("sink received %d cues, want 2", sink.count())
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.cues[0].Pan <= 0 {
		t.Errorf("cue right of listener should pan right, got %v", sink.cues[0].Pan)
	}
	if !sink.cues[1].Loop {
		t.Error("PlayLoop cue should loop")
	}
}

func TestSilentCueNotQueued(t *testing.T) {
	sink := &recordingSink{}
	m := NewMixer(sink, 4, discardLogger())
	m.UpdateListener(Vec3{X: 100}, Vec3{X: 1}, 1.0/60)

	m.PlayOneShot(SampleMiss, 1, Vec3{}, 10)

	if len(m.cues) != 0 {
		t.Errorf("queued %d cues out of earshot, want 0", len(m.cues))
	}
	if got := m.listenerPosition(); got != (Vec3{X: 100}) {
		t.Errorf("listener at %v, want {100 0 0}", got)
	}
}

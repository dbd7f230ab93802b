package battle

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/samdwyer/duelband/internal/audio"
	"github.com/samdwyer/duelband/internal/combat"
	"github.com/samdwyer/duelband/internal/entity"
	"github.com/samdwyer/duelband/internal/input"
)

// recordingAudio captures cues instead of playing them.
type recordingAudio struct {
	cues []audio.SampleID
	at   []audio.Vec3
}

func (r *recordingAudio) PlayOneShot(sample audio.SampleID, volume float64, position audio.Vec3, falloff float64) audio.Handle {
	r.cues = append(r.cues, sample)
	r.at = append(r.at, position)
	return audio.Handle(len(r.cues))
}

func (r *recordingAudio) count(sample audio.SampleID) int {
	n := 0
	for _, c := range r.cues {
		if c == sample {
			n++
		}
	}
	return n
}

func attack(t *testing.T, name string, accuracy float64, base int) combat.Move {
	t.Helper()
	a, err := combat.NewAttack(name, accuracy, base, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func heal(t *testing.T, name string, percent float64) combat.Move {
	t.Helper()
	h, err := combat.NewHeal(name, 1, percent)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func player(t *testing.T, name string, hp int, moves ...combat.Move) *entity.Player {
	t.Helper()
	p, err := entity.NewPlayer(name, hp, moves)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

type fixture struct {
	b     *Battle
	p1    *entity.Player
	p2    *entity.Player
	in    *input.State
	audio *recordingAudio
	logs  *bytes.Buffer
}

func newFixture(t *testing.T, p1, p2 *entity.Player, pause time.Duration) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	rec := &recordingAudio{}
	b, err := New(context.Background(), Config{
		Players:       [2]*entity.Player{p1, p2},
		Positions:     [2]audio.Vec3{{X: -10}, {X: 10}},
		Rand:          rand.New(rand.NewSource(7)),
		PauseDuration: pause,
		Audio:         rec,
		Logger:        slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &fixture{b: b, p1: p1, p2: p2, in: input.NewState(), audio: rec, logs: logs}
}

// standard duel: guaranteed 15-damage strike, a whiff, a 20-damage finisher and a half heal
func newDuel(t *testing.T, pause time.Duration) *fixture {
	t.Helper()
	moves := func() []combat.Move {
		return []combat.Move{
			attack(t, "Strike", 1, 15),
			attack(t, "Whiff", 0, 50),
			attack(t, "Finisher", 1, 20),
			heal(t, "Mend", 0.5),
		}
	}
	return newFixture(t, player(t, "P1", 100, moves()...), player(t, "P2", 100, moves()...), pause)
}

func (f *fixture) tick(elapsed time.Duration, taps ...input.Action) {
	for _, a := range taps {
		f.in.Tap(a)
	}
	f.b.Update(context.Background(), elapsed, f.in)
}

const frame = time.Second / 60

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseDeciding, "deciding"},
		{PhaseAnimating, "animating"},
		{PhaseReporting, "reporting"},
		{PhaseOver, "over"},
		{Phase(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.expected {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.expected)
		}
	}
}

func TestOutcomeHelpers(t *testing.T) {
	tests := []struct {
		outcome Outcome
		name    string
		decided bool
		winner  int
	}{
		{OutcomePending, "pending", false, -1},
		{OutcomePlayerOneWins, "player_one_wins", true, 0},
		{OutcomePlayerTwoWins, "player_two_wins", true, 1},
		{OutcomeDraw, "draw", true, -1},
	}

	for _, tt := range tests {
		if tt.outcome.String() != tt.name || tt.outcome.Decided() != tt.decided || tt.outcome.Winner() != tt.winner {
			t.Errorf("%v: got (%q, %v, %d), want (%q, %v, %d)", tt.outcome,
				tt.outcome.String(), tt.outcome.Decided(), tt.outcome.Winner(),
				tt.name, tt.decided, tt.winner)
		}
	}
}

func TestNewBattle(t *testing.T) {
	f := newDuel(t, 0)

	if f.b.Phase() != PhaseDeciding {
		t.Errorf("New().Phase() = %v, want deciding", f.b.Phase())
	}
	if f.b.Round() != 1 {
		t.Errorf("New().Round() = %d, want 1", f.b.Round())
	}
	if f.b.Outcome() != OutcomePending {
		t.Errorf("New().Outcome() = %v, want pending", f.b.Outcome())
	}
	if f.b.ID() == "" {
		t.Error("New() should assign a battle id")
	}
	for i := 0; i < 2; i++ {
		p := f.b.Player(i)
		if !p.Deciding || p.Selected != entity.NoMove {
			t.Errorf("player %d should start deciding with no move", i+1)
		}
	}
}

func TestNewBattleInvalidConfig(t *testing.T) {
	p := player(t, "P", 10, attack(t, "A", 1, 1))
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing player", Config{Players: [2]*entity.Player{p, nil}}},
		{"same player twice", Config{Players: [2]*entity.Player{p, p}}},
		{"no moves", Config{Players: [2]*entity.Player{p, {Name: "Q", MaxHP: 10, HP: 10}}}},
		{"more moves than buttons", Config{Players: [2]*entity.Player{p, player(t, "Q", 10,
			attack(t, "A", 1, 1), attack(t, "B", 1, 1), attack(t, "C", 1, 1), attack(t, "D", 1, 1), attack(t, "E", 1, 1))}}},
		{"negative pause", Config{
			Players:       [2]*entity.Player{p, player(t, "Q", 10, attack(t, "A", 1, 1))},
			PauseDuration: -time.Second,
		}},
	}

	for _, tt := range tests {
		_, err := New(context.Background(), tt.cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error = %v, want ErrInvalidConfig", tt.name, err)
		}
	}
}

func TestDecidingWaitsForBothPlayers(t *testing.T) {
	f := newDuel(t, 0)

	f.tick(frame, input.ActionP1Move0)
	if f.b.Phase() != PhaseDeciding {
		t.Fatalf("phase = %v after one selection, want deciding", f.b.Phase())
	}
	if p := f.b.Player(0); p.Deciding || p.Selected != 0 {
		t.Errorf("player one should have locked move 0, got deciding=%v selected=%d", p.Deciding, p.Selected)
	}

	// Idle ticks do not advance
	for i := 0; i < 10; i++ {
		f.tick(frame)
	}
	if f.b.Phase() != PhaseDeciding {
		t.Fatalf("phase = %v with one player undecided, want deciding", f.b.Phase())
	}

	f.tick(frame, input.ActionP2Move1)
	if f.b.Phase() != PhaseReporting {
		t.Fatalf("phase = %v after both selections, want reporting", f.b.Phase())
	}
}

func TestSelectionPlaysCueAtPlayer(t *testing.T) {
	f := newDuel(t, 0)

	f.tick(frame, input.ActionP2Move2)

	if len(f.audio.cues) != 1 || f.audio.cues[0] != audio.SampleSelect {
		t.Fatalf("cues = %v, want one select cue", f.audio.cues)
	}
	if f.audio.at[0] != f.b.Position(1) {
		t.Errorf("select cue at %v, want player two position %v", f.audio.at[0], f.b.Position(1))
	}
}

func TestLastSelectionWins(t *testing.T) {
	f := newDuel(t, 0)

	f.tick(frame, input.ActionP1Move0)
	f.tick(frame, input.ActionP1Move1)

	if got := f.b.Player(0).Selected; got != 1 {
		t.Errorf("Selected = %d, want last selection 1", got)
	}

	f.tick(frame, input.ActionP2Move1)
	if got := f.b.Report().Actions[0].Move; got != "Whiff" {
		t.Errorf("resolved move = %q, want Whiff", got)
	}
}

func TestOutOfRangeSelectionIgnored(t *testing.T) {
	p1 := player(t, "P1", 100, attack(t, "Only", 1, 5))
	p2 := player(t, "P2", 100, attack(t, "Only", 1, 5))
	f := newFixture(t, p1, p2, 0)

	f.tick(frame, input.ActionP1Move3)

	if p := f.b.Player(0); !p.Deciding || p.Selected != entity.NoMove {
		t.Error("selecting a move the roster lacks should be ignored")
	}
	if len(f.audio.cues) != 0 {
		t.Errorf("ignored selection played %v", f.audio.cues)
	}
}

func TestHeldKeyDoesNotReselect(t *testing.T) {
	f := newDuel(t, 0)

	// Player one holds the key down across the whole round
	f.in.Press(input.ActionP1Move0)
	f.tick(frame)
	f.tick(frame, input.ActionP2Move1)
	f.tick(frame, input.ActionAcknowledge)

	if f.b.Phase() != PhaseDeciding || f.b.Round() != 2 {
		t.Fatalf("phase %v round %d, want deciding round 2", f.b.Phase(), f.b.Round())
	}

	f.tick(frame)
	if p := f.b.Player(0); !p.Deciding {
		t.Error("a held key must not select again without a new press")
	}
	if got := f.audio.count(audio.SampleSelect); got != 2 {
		t.Errorf("select cues = %d, want 2", got)
	}
}

func TestUpdateResetsEdges(t *testing.T) {
	f := newDuel(t, 0)
	f.in.Press(input.ActionAcknowledge)
	f.b.Update(context.Background(), frame, f.in)
	if f.in.WasPressed(input.ActionAcknowledge) {
		t.Error("Update() should clear edges at the end of the tick")
	}
}

func TestAnimatingPause(t *testing.T) {
	f := newDuel(t, time.Second)

	f.tick(frame, input.ActionP1Move0, input.ActionP2Move0)
	if f.b.Phase() != PhaseAnimating {
		t.Fatalf("phase = %v, want animating", f.b.Phase())
	}

	f.tick(400 * time.Millisecond)
	if f.b.Phase() != PhaseAnimating {
		t.Fatalf("phase = %v after 0.4s, want animating", f.b.Phase())
	}
	if got := f.b.PauseProgress(); got < 0.39 || got > 0.41 {
		t.Errorf("PauseProgress() = %v, want 0.4", got)
	}
	if p := f.b.Player(1); p.HP != 100 {
		t.Errorf("health changed during animating: %d", p.HP)
	}

	// Acknowledge during the pause is ignored
	f.tick(500*time.Millisecond, input.ActionAcknowledge)
	if f.b.Phase() != PhaseAnimating {
		t.Fatalf("phase = %v after 0.9s, want animating", f.b.Phase())
	}

	f.tick(100 * time.Millisecond)
	if f.b.Phase() != PhaseReporting {
		t.Fatalf("phase = %v after 1s, want reporting", f.b.Phase())
	}
	if f.b.PauseProgress() != 0 {
		t.Error("PauseProgress() should be 0 outside animating")
	}
}

func TestGuaranteedHitScenario(t *testing.T) {
	f := newDuel(t, 0)

	// Player one strikes for 15; player two's move cannot land
	f.tick(frame, input.ActionP1Move0, input.ActionP2Move1)

	p1, p2 := f.b.Player(0), f.b.Player(1)
	if p2.HP != 85 {
		t.Errorf("player two HP = %d, want 85", p2.HP)
	}
	if p1.HP != 100 {
		t.Errorf("player one HP = %d, want 100", p1.HP)
	}
	if p1.DamageDealt != 15 || p2.DamageDealt != 0 {
		t.Errorf("damage dealt = %d/%d, want 15/0", p1.DamageDealt, p2.DamageDealt)
	}

	report := f.b.Report()
	if report.Round != 1 || report.HPBefore != [2]int{100, 100} || report.HPAfter != [2]int{100, 85} {
		t.Errorf("report = %+v", report)
	}
	if !report.Actions[0].Result.Hit || report.Actions[1].Result.Hit {
		t.Errorf("actions = %+v, want hit then miss", report.Actions)
	}
	if f.audio.count(audio.SampleHit) != 1 || f.audio.count(audio.SampleMiss) != 1 {
		t.Errorf("cues = %v, want one hit and one miss", f.audio.cues)
	}
}

func TestKnockoutClampsAndDeclaresWinner(t *testing.T) {
	f := newDuel(t, 0)
	f.p2.HP = 10

	f.tick(frame, input.ActionP1Move2, input.ActionP2Move1)

	if got := f.b.Player(1).HP; got != 0 {
		t.Errorf("player two HP = %d, want 0", got)
	}
	if !f.b.Player(0).Winner || f.b.Player(1).Winner {
		t.Error("player one should be the only winner")
	}
	if f.b.Outcome() != OutcomePlayerOneWins {
		t.Errorf("Outcome() = %v, want player_one_wins", f.b.Outcome())
	}
	if f.b.Phase() != PhaseReporting {
		t.Fatalf("phase = %v, want reporting until acknowledged", f.b.Phase())
	}

	f.tick(frame, input.ActionAcknowledge)
	if f.b.Phase() != PhaseOver {
		t.Fatalf("phase = %v, want over", f.b.Phase())
	}
	if f.audio.count(audio.SampleVictory) != 1 {
		t.Errorf("victory cues = %d, want 1", f.audio.count(audio.SampleVictory))
	}
}

func TestDoubleKnockoutIsDraw(t *testing.T) {
	f := newDuel(t, 0)
	f.p1.HP = 5
	f.p2.HP = 5

	f.tick(frame, input.ActionP1Move0, input.ActionP2Move0)

	if f.b.Player(0).HP != 0 || f.b.Player(1).HP != 0 {
		t.Fatalf("HP = %d/%d, want 0/0", f.b.Player(0).HP, f.b.Player(1).HP)
	}
	if f.b.Outcome() != OutcomeDraw {
		t.Errorf("Outcome() = %v, want draw", f.b.Outcome())
	}
	if f.b.Player(0).Winner || f.b.Player(1).Winner {
		t.Error("a draw should mark no winner")
	}

	f.tick(frame, input.ActionAcknowledge)
	if f.b.Phase() != PhaseOver {
		t.Errorf("phase = %v, want over", f.b.Phase())
	}
	if f.audio.count(audio.SampleVictory) != 0 {
		t.Error("a draw should not play a victory cue")
	}
}

func TestOverIsAbsorbing(t *testing.T) {
	f := newDuel(t, 0)
	f.p2.HP = 1
	f.tick(frame, input.ActionP1Move0, input.ActionP2Move1)
	f.tick(frame, input.ActionAcknowledge)
	if f.b.Phase() != PhaseOver {
		t.Fatalf("phase = %v, want over", f.b.Phase())
	}
	cues := len(f.audio.cues)

	for i := 0; i < 20; i++ {
		f.tick(time.Second, input.ActionP1Move0, input.ActionP2Move0, input.ActionAcknowledge)
	}

	if f.b.Phase() != PhaseOver {
		t.Errorf("phase = %v, want over to be absorbing", f.b.Phase())
	}
	if !f.b.Player(0).Winner || f.b.Outcome() != OutcomePlayerOneWins {
		t.Error("winner must never revert")
	}
	if len(f.audio.cues) != cues {
		t.Error("no cues should play once the battle is over")
	}
}

func TestAcknowledgeStartsNewRound(t *testing.T) {
	f := newDuel(t, 0)

	f.tick(frame, input.ActionP1Move0, input.ActionP2Move0)
	// Acknowledge must be a fresh edge after the report appears
	if f.b.Phase() != PhaseReporting {
		t.Fatalf("phase = %v, want reporting", f.b.Phase())
	}

	f.tick(frame)
	if f.b.Phase() != PhaseReporting {
		t.Fatal("reporting should wait for acknowledgment")
	}

	f.tick(frame, input.ActionAcknowledge)
	if f.b.Phase() != PhaseDeciding || f.b.Round() != 2 {
		t.Fatalf("phase %v round %d, want deciding round 2", f.b.Phase(), f.b.Round())
	}
	for i := 0; i < 2; i++ {
		p := f.b.Player(i)
		if !p.Deciding || p.Selected != entity.NoMove {
			t.Errorf("player %d should be deciding again", i+1)
		}
		if p.HP != 85 {
			t.Errorf("player %d HP = %d, want 85 carried over", i+1, p.HP)
		}
	}
}

func TestHealTargetsUserAndClamps(t *testing.T) {
	f := newDuel(t, 0)
	f.p1.HP = 70

	// Player one heals 50 (capped at 100), player two strikes player one for 15
	f.tick(frame, input.ActionP1Move3, input.ActionP2Move0)

	if got := f.b.Player(0).HP; got != 100 {
		t.Errorf("player one HP = %d, want 100 (70 - 15 + 50 clamped)", got)
	}
	if got := f.b.Player(1).HP; got != 100 {
		t.Errorf("player two HP = %d, want 100", got)
	}
	a := f.b.Report().Actions[0]
	if a.Recipient != 0 || a.Result.Kind != combat.KindHeal || a.Result.Amount != 50 {
		t.Errorf("heal action = %+v", a)
	}
	if a.Healed != 30 {
		t.Errorf("Healed = %d, want 30, the health player one was missing", a.Healed)
	}
	if !strings.Contains(f.logs.String(), "health clamped") {
		t.Error("clamping should be logged")
	}
	if f.audio.count(audio.SampleHeal) != 1 {
		t.Errorf("heal cues = %d, want 1", f.audio.count(audio.SampleHeal))
	}
}

func TestResolutionUsesPreRoundHealth(t *testing.T) {
	f := newDuel(t, 0)
	f.p1.HP = 15
	f.p2.HP = 20

	// Player one's strike would not stop player two's finisher from resolving
	f.tick(frame, input.ActionP1Move0, input.ActionP2Move2)

	if !f.b.Report().Actions[1].Result.Hit {
		t.Error("player two's move should still resolve")
	}
	if f.b.Player(0).HP != 0 || f.b.Player(1).HP != 5 {
		t.Errorf("HP = %d/%d, want 0/5", f.b.Player(0).HP, f.b.Player(1).HP)
	}
	if f.b.Outcome() != OutcomePlayerTwoWins {
		t.Errorf("Outcome() = %v, want player_two_wins", f.b.Outcome())
	}
}

func TestInvariantViolationSelfCorrects(t *testing.T) {
	f := newDuel(t, 0)

	// Corrupt player two: done deciding with nothing selected
	f.p2.Deciding = false
	f.p2.Selected = entity.NoMove

	f.tick(frame, input.ActionP1Move0)

	if f.b.Phase() != PhaseDeciding {
		t.Fatalf("phase = %v, want deciding", f.b.Phase())
	}
	if !f.b.Player(1).Deciding {
		t.Error("player two should be reopened for a decision")
	}
	if !strings.Contains(f.logs.String(), "player finished deciding without a move") {
		t.Errorf("expected an error log, got %q", f.logs.String())
	}

	f.tick(frame, input.ActionP2Move0)
	if f.b.Phase() != PhaseReporting {
		t.Errorf("phase = %v, want reporting once player two picks", f.b.Phase())
	}
}

func TestSeededBattlesAreReproducible(t *testing.T) {
	run := func() RoundReport {
		moves := func() []combat.Move {
			a, _ := combat.NewAttack("Wild", 0.6, 20, 0.3, 0.2)
			return []combat.Move{a}
		}
		b, err := New(context.Background(), Config{
			Players: [2]*entity.Player{player(t, "A", 100, moves()...), player(t, "B", 100, moves()...)},
			Seed:    99,
			Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
		if err != nil {
			t.Fatal(err)
		}
		in := input.NewState()
		in.Tap(input.ActionP1Move0)
		in.Tap(input.ActionP2Move0)
		b.Update(context.Background(), frame, in)
		return b.Report()
	}

	if r1, r2 := run(), run(); r1 != r2 {
		t.Errorf("same seed produced %+v and %+v", r1, r2)
	}
}

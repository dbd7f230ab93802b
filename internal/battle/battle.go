// Package battle runs the two-player turn state machine.
//
// Both players pick a move during PhaseDeciding. Once both have locked in,
// the battle pauses in PhaseAnimating, then resolves the two moves
// simultaneously and waits in PhaseReporting for an acknowledgment. The
// acknowledgment either starts a new round or, if someone was knocked out,
// ends the battle in PhaseOver.
package battle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/duelband/internal/audio"
	"github.com/samdwyer/duelband/internal/combat"
	"github.com/samdwyer/duelband/internal/entity"
	"github.com/samdwyer/duelband/internal/input"
	"github.com/samdwyer/duelband/internal/telemetry"
)

// ErrInvalidConfig is returned by New when the battle cannot be set up.
var ErrInvalidConfig = errors.New("invalid battle config")

// Audio is the sound system the battle triggers cues on. Calls must not block.
type Audio interface {
	PlayOneShot(sample audio.SampleID, volume float64, position audio.Vec3, falloff float64) audio.Handle
}

const (
	defaultCueVolume  = 1.0
	defaultCueFalloff = 40.0
)

// Config holds everything a battle needs at construction.
type Config struct {
	Players   [2]*entity.Player
	Positions [2]audio.Vec3 // where each player's cues play from

	// Rand drives every roll. When nil a generator is seeded from Seed,
	// or from the clock when Seed is 0.
	Rand combat.Roller
	Seed int64

	// PauseDuration is how long PhaseAnimating lasts. Zero skips straight to the report.
	PauseDuration time.Duration

	Audio      Audio // nil plays nothing
	CueVolume  float64
	CueFalloff float64

	Logger *slog.Logger
}

// Validate checks the config for setup errors.
func (c *Config) Validate() error {
	for i, p := range c.Players {
		if p == nil {
			return fmt.Errorf("%w: player %d is missing", ErrInvalidConfig, i+1)
		}
		if len(p.Moves) == 0 {
			return fmt.Errorf("%w: player %d has no moves", ErrInvalidConfig, i+1)
		}
		if len(p.Moves) > input.MovesPerPlayer {
			return fmt.Errorf("%w: player %d has %d moves, at most %d can be bound",
				ErrInvalidConfig, i+1, len(p.Moves), input.MovesPerPlayer)
		}
		if p.MaxHP <= 0 {
			return fmt.Errorf("%w: player %d max HP %d", ErrInvalidConfig, i+1, p.MaxHP)
		}
	}
	if c.Players[0] == c.Players[1] {
		return fmt.Errorf("%w: both sides are the same player", ErrInvalidConfig)
	}
	if c.PauseDuration < 0 {
		return fmt.Errorf("%w: negative pause %v", ErrInvalidConfig, c.PauseDuration)
	}
	return nil
}

type silentAudio struct{}

func (silentAudio) PlayOneShot(audio.SampleID, float64, audio.Vec3, float64) audio.Handle { return 0 }

// Battle owns the two players and the phase. Nothing else mutates them.
type Battle struct {
	id        string
	players   [2]*entity.Player
	positions [2]audio.Vec3

	phase   Phase
	outcome Outcome
	round   int
	report  RoundReport

	pause   time.Duration
	elapsed time.Duration // time spent in PhaseAnimating

	rng        combat.Roller
	audio      Audio
	cueVolume  float64
	cueFalloff float64
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New validates cfg and starts a battle in PhaseDeciding at round 1.
func New(ctx context.Context, cfg Config) (*Battle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Battle{
		id:         uuid.NewString(),
		players:    cfg.Players,
		positions:  cfg.Positions,
		phase:      PhaseDeciding,
		round:      1,
		pause:      cfg.PauseDuration,
		rng:        cfg.Rand,
		audio:      cfg.Audio,
		cueVolume:  cfg.CueVolume,
		cueFalloff: cfg.CueFalloff,
		logger:     cfg.Logger,
		tracer:     telemetry.Tracer("battle"),
	}
	if b.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		b.rng = rand.New(rand.NewSource(seed))
	}
	if b.audio == nil {
		b.audio = silentAudio{}
	}
	if b.cueVolume <= 0 {
		b.cueVolume = defaultCueVolume
	}
	if b.cueFalloff <= 0 {
		b.cueFalloff = defaultCueFalloff
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With("battle_id", b.id)

	for _, p := range b.players {
		p.ReopenDecision()
	}

	_, span := b.tracer.Start(ctx, "battle.start")
	span.SetAttributes(
		attribute.String("battle.id", b.id),
		attribute.String("p1.name", b.players[0].Name),
		attribute.String("p2.name", b.players[1].Name),
		attribute.Int("p1.max_hp", b.players[0].MaxHP),
		attribute.Int("p2.max_hp", b.players[1].MaxHP),
	)
	span.End()

	b.logger.Info("battle started", "p1", b.players[0].Name, "p2", b.players[1].Name)
	return b, nil
}

// ID returns the battle's unique identifier.
func (b *Battle) ID() string { return b.id }

// Phase returns the current phase.
func (b *Battle) Phase() Phase { return b.phase }

// Outcome returns the result so far.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Round returns the current round number, starting at 1.
func (b *Battle) Round() int { return b.round }

// Report returns the last resolved round. It is zero before the first report.
func (b *Battle) Report() RoundReport { return b.report }

// Player returns a copy of player i (0 or 1) for display.
func (b *Battle) Player(i int) entity.Player { return *b.players[i] }

// Position returns where player i's cues play from.
func (b *Battle) Position(i int) audio.Vec3 { return b.positions[i] }

// PauseProgress returns how far through PhaseAnimating the battle is, in [0, 1].
func (b *Battle) PauseProgress() float64 {
	if b.phase != PhaseAnimating || b.pause <= 0 {
		return 0
	}
	return min(float64(b.elapsed)/float64(b.pause), 1)
}

// Update advances the battle by one tick. It consumes this tick's input
// edges and resets them before returning. It never blocks.
func (b *Battle) Update(ctx context.Context, elapsed time.Duration, in *input.State) {
	defer in.EndTick()

	switch b.phase {
	case PhaseDeciding:
		b.updateDeciding(ctx, in)
	case PhaseAnimating:
		b.updateAnimating(ctx, elapsed)
	case PhaseReporting:
		b.updateReporting(ctx, in)
	case PhaseOver:
		// absorbing
	}
}

func (b *Battle) updateDeciding(ctx context.Context, in *input.State) {
	for i := range b.players {
		for m := 0; m < input.MovesPerPlayer; m++ {
			if in.WasPressed(input.MoveAction(i, m)) {
				b.selectMove(i, m)
			}
		}
	}

	locked := 0
	for i, p := range b.players {
		if p.HasDecided() {
			locked++
			continue
		}
		if !p.Deciding {
			// Cannot happen through selectMove; reopen rather than resolve nothing
			b.logger.Error("player finished deciding without a move",
				"player", i+1, "selected", p.Selected, "round", b.round)
			p.ReopenDecision()
		}
	}

	if locked == len(b.players) {
		b.enterAnimating(ctx)
	}
}

// selectMove accepts a pick while the round is open. A later pick replaces an earlier one.
func (b *Battle) selectMove(player, index int) {
	p := b.players[player]
	if !p.Select(index) {
		return
	}
	b.audio.PlayOneShot(audio.SampleSelect, b.cueVolume, b.positions[player], b.cueFalloff)
	b.logger.Debug("move selected", "player", player+1, "move", p.SelectedMove().Name(), "round", b.round)
}

func (b *Battle) enterAnimating(ctx context.Context) {
	b.phase = PhaseAnimating
	b.elapsed = 0
	if b.pause <= 0 {
		b.enterReporting(ctx)
	}
}

func (b *Battle) updateAnimating(ctx context.Context, elapsed time.Duration) {
	b.elapsed += elapsed
	if b.elapsed >= b.pause {
		b.enterReporting(ctx)
	}
}

func (b *Battle) enterReporting(ctx context.Context) {
	b.phase = PhaseReporting
	b.resolveRound(ctx)
}

// resolveRound rolls both moves before touching health, so neither move
// sees the other's effect. Player one's move rolls first.
func (b *Battle) resolveRound(ctx context.Context) {
	_, span := b.tracer.Start(ctx, "battle.round")
	defer span.End()

	report := RoundReport{Round: b.round}
	var deltas [2]int

	for i, p := range b.players {
		report.HPBefore[i] = p.HP
	}

	for i, user := range b.players {
		move := user.SelectedMove()
		if move == nil {
			b.logger.Error("resolving round without a selected move", "player", i+1, "round", b.round)
			continue
		}

		recipient := 1 - i
		if move.Target() == combat.TargetSelf {
			recipient = i
		}

		result := move.Activate(b.rng, user, b.players[recipient])
		action := Action{Player: i, Recipient: recipient, Move: move.Name(), Result: result}
		switch result.Kind {
		case combat.KindDamage:
			deltas[recipient] -= result.Amount
		case combat.KindHeal:
			deltas[recipient] += result.Amount
			action.Healed = min(result.Amount, b.players[recipient].MaxHP-report.HPBefore[recipient])
		}

		report.Actions[i] = action
		b.playResultCue(i, recipient, result)

		prefix := "p" + strconv.Itoa(i+1)
		span.SetAttributes(
			attribute.String(prefix+".move", move.Name()),
			attribute.Bool(prefix+".hit", result.Hit),
			attribute.Bool(prefix+".crit", result.Crit),
			attribute.Int(prefix+".amount", result.Amount),
		)
	}

	for i, p := range b.players {
		if applied := p.ApplyDelta(deltas[i]); applied != deltas[i] {
			b.logger.Debug("health clamped", "player", i+1, "delta", deltas[i], "applied", applied)
		}
		report.HPAfter[i] = p.HP
	}
	b.report = report
	b.checkOutcome()

	span.SetAttributes(
		attribute.String("battle.id", b.id),
		attribute.Int("round", b.round),
		attribute.Int("p1.hp", report.HPAfter[0]),
		attribute.Int("p2.hp", report.HPAfter[1]),
		attribute.String("outcome", b.outcome.String()),
	)
	b.logger.Info("round resolved",
		"round", b.round,
		"p1_hp", report.HPAfter[0],
		"p2_hp", report.HPAfter[1],
		"outcome", b.outcome.String(),
	)
}

func (b *Battle) playResultCue(user, recipient int, result combat.Outcome) {
	switch {
	case !result.Hit:
		b.audio.PlayOneShot(audio.SampleMiss, b.cueVolume, b.positions[user], b.cueFalloff)
	case result.Kind == combat.KindHeal:
		b.audio.PlayOneShot(audio.SampleHeal, b.cueVolume, b.positions[recipient], b.cueFalloff)
	case result.Crit:
		b.audio.PlayOneShot(audio.SampleCrit, b.cueVolume, b.positions[recipient], b.cueFalloff)
	default:
		b.audio.PlayOneShot(audio.SampleHit, b.cueVolume, b.positions[recipient], b.cueFalloff)
	}
}

// checkOutcome sets the winner when exactly one player is down. A double
// knockout is a draw and marks nobody.
func (b *Battle) checkOutcome() {
	if b.outcome.Decided() {
		return
	}
	down0, down1 := b.players[0].IsKnockedOut(), b.players[1].IsKnockedOut()
	switch {
	case down0 && down1:
		b.outcome = OutcomeDraw
	case down1:
		b.players[0].MarkWinner()
		b.outcome = OutcomePlayerOneWins
	case down0:
		b.players[1].MarkWinner()
		b.outcome = OutcomePlayerTwoWins
	}
}

func (b *Battle) updateReporting(ctx context.Context, in *input.State) {
	if !in.WasPressed(input.ActionAcknowledge) {
		return
	}

	if b.outcome.Decided() {
		b.enterOver(ctx)
		return
	}

	for _, p := range b.players {
		p.ReopenDecision()
	}
	b.round++
	b.phase = PhaseDeciding
}

func (b *Battle) enterOver(ctx context.Context) {
	b.phase = PhaseOver

	if w := b.outcome.Winner(); w >= 0 {
		b.audio.PlayOneShot(audio.SampleVictory, b.cueVolume, b.positions[w], b.cueFalloff)
	}

	_, span := b.tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("battle.id", b.id),
		attribute.String("outcome", b.outcome.String()),
		attribute.Int("rounds", b.round),
		attribute.Int("p1.hp", b.players[0].HP),
		attribute.Int("p2.hp", b.players[1].HP),
	)
	span.End()

	b.logger.Info("battle over", "outcome", b.outcome.String(), "rounds", b.round)
}

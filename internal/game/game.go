// Package game wires the terminal, the battle and the audio mixer into a
// fixed-rate frame loop.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/duelband/internal/arena"
	"github.com/samdwyer/duelband/internal/audio"
	"github.com/samdwyer/duelband/internal/battle"
	"github.com/samdwyer/duelband/internal/gamedata"
	"github.com/samdwyer/duelband/internal/input"
	"github.com/samdwyer/duelband/internal/telemetry"
	"github.com/samdwyer/duelband/internal/ui"
)

const (
	ambientVolume = 0.3
	eventBuffer   = 16
)

// Game holds the entire game state.
type Game struct {
	cfg      Config
	logger   *slog.Logger
	screen   *ui.Screen
	renderer *ui.Renderer
	hud      *ui.HUD
	arena    *arena.Arena
	battle   *battle.Battle
	mixer    *audio.Mixer
	input    *input.State
	bindings input.Bindings
	duelists [2]ui.Duelist
	running  bool
}

// New creates a game on the real terminal.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	g, err := NewWithScreen(ctx, cfg, screen, logger)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// NewWithScreen builds the arena, players, mixer and battle on an existing screen.
func NewWithScreen(ctx context.Context, cfg Config, screen *ui.Screen, logger *slog.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	catalogue, err := loadCatalogue(cfg.RosterPath)
	if err != nil {
		return nil, err
	}
	dialogue, err := loadDialogue(cfg.DialoguePath)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("seeding game", "seed", seed)

	a := arena.New(arena.DefaultWidth, arena.DefaultHeight, rand.New(rand.NewSource(seed)))
	if err := a.Generate(ctx); err != nil {
		return nil, fmt.Errorf("generate arena: %w", err)
	}

	g := &Game{
		cfg:      cfg,
		logger:   logger,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		arena:    a,
		mixer:    audio.NewMixer(ui.NewBellSink(screen, ui.DefaultBellThreshold), 0, logger),
		input:    input.NewState(),
		bindings: input.DefaultBindings(),
		running:  true,
	}

	bcfg := battle.Config{
		Seed:          seed,
		PauseDuration: cfg.PauseDuration,
		Audio:         g.mixer,
		CueFalloff:    float64(a.Width),
		Logger:        logger,
	}
	var colors [2]tcell.Color
	for i := range bcfg.Players {
		p, def, err := catalogue.NewPlayer(cfg.Rosters[i], i)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i+1, err)
		}
		bcfg.Players[i] = p
		bcfg.Positions[i] = worldPosition(a.Spawn(i), 0)
		colors[i] = def.TCellColor()
		g.duelists[i] = ui.Duelist{Symbol: def.SymbolRune(), Color: colors[i]}
	}

	g.battle, err = battle.New(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("start battle: %w", err)
	}
	g.hud = ui.NewHUD(g.renderer, colors, g.bindings, dialogue)

	g.updateListener(0)
	centre := worldPosition(arena.Point{X: a.Width / 2, Y: a.Height / 2}, 0)
	g.mixer.PlayLoop(audio.SampleAmbient, ambientVolume, centre, 0)

	span.SetAttributes(
		attribute.Int64("seed", seed),
		attribute.String("battle.id", g.battle.ID()),
		attribute.Int("dialogue.lines", len(dialogue)),
	)
	return g, nil
}

func loadCatalogue(path string) (*gamedata.Catalogue, error) {
	if path == "" {
		return gamedata.LoadCatalogue()
	}
	c, err := gamedata.LoadCatalogueFile(path)
	if err != nil {
		return nil, fmt.Errorf("load roster file %s: %w", path, err)
	}
	return c, nil
}

func loadDialogue(path string) ([]gamedata.DialogueLine, error) {
	if path == "" {
		return gamedata.LoadDialogue()
	}
	lines, err := gamedata.LoadDialogueFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dialogue file %s: %w", path, err)
	}
	return lines, nil
}

// worldPosition lifts a floor tile into audio space: X across, Y up, Z into the screen.
func worldPosition(p arena.Point, height int) audio.Vec3 {
	return audio.Vec3{X: float64(p.X), Y: float64(height), Z: float64(p.Y)}
}

// Battle returns the running battle.
func (g *Game) Battle() *battle.Battle { return g.battle }

// Run executes the main game loop until quit or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	// The mixer rings the bell on the screen, so it stops before the screen closes.
	mixerDone := make(chan struct{})
	go func() {
		defer close(mixerDone)
		g.mixer.Run(ctx)
	}()
	defer func() {
		cancel()
		<-mixerDone
		g.screen.Close()
	}()

	events := make(chan tcell.Event, eventBuffer)
	go g.pollEvents(ctx, events)

	ticker := time.NewTicker(g.cfg.TickInterval())
	defer ticker.Stop()
	last := time.Now()

	g.render()
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ev)
		case now := <-ticker.C:
			g.tick(ctx, now.Sub(last))
			last = now
		}
	}

	g.logger.Info("game stopped", "phase", g.battle.Phase().String(), "outcome", g.battle.Outcome().String())
	return nil
}

// pollEvents forwards terminal events until the screen closes.
func (g *Game) pollEvents(ctx context.Context, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// tick advances one frame.
func (g *Game) tick(ctx context.Context, elapsed time.Duration) {
	if g.input.WasPressed(input.ActionQuit) {
		g.running = false
		return
	}
	g.battle.Update(ctx, elapsed, g.input)
	g.updateListener(elapsed)
	g.render()
}

func (g *Game) updateListener(elapsed time.Duration) {
	cam := g.arena.Camera
	right := audio.Vec3{X: float64(cam.Right.X), Z: float64(cam.Right.Y)}
	g.mixer.UpdateListener(worldPosition(cam.Position, cam.Height), right, elapsed.Seconds())
}

func (g *Game) render() {
	g.renderer.Begin()
	g.renderer.RenderBackdrop(g.arena, ui.HUDFloor, g.duelists)
	g.hud.Draw(g.battle)
	g.renderer.Present()
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent turns a key into a tap. Terminals send no key-up, so every
// key is a press immediately followed by a release.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.input.Tap(input.ActionQuit)
	case tcell.KeyEnter:
		g.input.Tap(input.ActionAcknowledge)
	case tcell.KeyRune:
		if a, ok := g.bindings.Action(unicode.ToLower(ev.Rune())); ok {
			g.input.Tap(a)
		}
	}
}

package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelband/internal/battle"
	"github.com/samdwyer/duelband/internal/combat"
	"github.com/samdwyer/duelband/internal/entity"
	"github.com/samdwyer/duelband/internal/gamedata"
	"github.com/samdwyer/duelband/internal/input"
)

// TextRenderer draws a line of text in virtual coordinates.
type TextRenderer interface {
	RenderText(text string, x, y, scale float64, color tcell.Color)
}

// BattleView is the read-only side of a battle the HUD draws from.
type BattleView interface {
	Phase() battle.Phase
	Outcome() battle.Outcome
	Round() int
	Report() battle.RoundReport
	Player(i int) entity.Player
	PauseProgress() float64
}

// HUD layout in virtual coordinates
const (
	lineHeight = 30.0
	marginX    = 40.0
	columnX    = 680.0 // player two's column
	titleY     = 690.0
	nameY      = 630.0
	menuY      = 570.0
	banterY    = 420.0
	resultY    = 330.0

	// HUDFloor is the lowest line the HUD draws on; the backdrop fills below it.
	HUDFloor = 210.0

	barWidth = 20
)

var (
	textColor   = tcell.ColorWhite
	dimColor    = tcell.ColorGray
	accentColor = tcell.ColorYellow
)

// HUD draws the battle's text overlay each frame.
type HUD struct {
	text     TextRenderer
	colors   [2]tcell.Color
	keys     input.Bindings
	dialogue []gamedata.DialogueLine
}

// NewHUD creates a HUD. colors tint each player's column; dialogue may be empty.
func NewHUD(text TextRenderer, colors [2]tcell.Color, keys input.Bindings, dialogue []gamedata.DialogueLine) *HUD {
	return &HUD{text: text, colors: colors, keys: keys, dialogue: dialogue}
}

// Draw renders one frame of the overlay.
func (h *HUD) Draw(v BattleView) {
	players := [2]entity.Player{v.Player(0), v.Player(1)}
	phase := v.Phase()

	h.text.RenderText(fmt.Sprintf("Round %d", v.Round()), marginX, titleY, 1.5, accentColor)

	for i, p := range players {
		x := marginX
		if i == 1 {
			x = columnX
		}
		h.drawPlayer(i, p, phase, x)
	}

	switch phase {
	case battle.PhaseDeciding:
		h.drawBanter(v.Round())
	case battle.PhaseAnimating:
		h.drawPause(v.PauseProgress())
	case battle.PhaseReporting:
		h.drawReport(v.Report(), players)
		h.prompt(input.ActionAcknowledge, "continue")
	case battle.PhaseOver:
		h.drawResult(v.Outcome(), players)
		h.prompt(input.ActionQuit, "quit")
	}
}

func (h *HUD) drawPlayer(i int, p entity.Player, phase battle.Phase, x float64) {
	h.text.RenderText(fmt.Sprintf("%s  HP %d/%d", p.Name, p.HP, p.MaxHP), x, nameY, 1, h.colors[i])

	if phase != battle.PhaseDeciding {
		return
	}

	// Only readiness is shown; the pick stays hidden until the report
	status := "choosing..."
	if !p.Deciding {
		status = "ready"
	}
	h.text.RenderText(status, x, nameY-lineHeight, 1, dimColor)

	for m, move := range p.Moves {
		label := fmt.Sprintf("[%s] %s", keyLabel(h.keys.KeyFor(input.MoveAction(i, m))), move.Name())
		h.text.RenderText(label, x, menuY-float64(m)*lineHeight, 1, textColor)
	}
}

func (h *HUD) drawBanter(round int) {
	if len(h.dialogue) == 0 {
		return
	}
	line := h.dialogue[(round-1)%len(h.dialogue)]
	h.text.RenderText(line.Text, marginX, banterY, 1, accentColor)
	for i := 0; i < 2; i++ {
		if taunt := line.Taunt(i); taunt != "" {
			x := marginX
			if i == 1 {
				x = columnX
			}
			h.text.RenderText(`"`+taunt+`"`, x, banterY-lineHeight, 1, h.colors[i])
		}
	}
}

func (h *HUD) drawPause(progress float64) {
	filled := int(progress * barWidth)
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
	h.text.RenderText("Clash! "+bar, marginX, resultY, 1, accentColor)
}

func (h *HUD) drawReport(report battle.RoundReport, players [2]entity.Player) {
	for i, a := range report.Actions {
		h.text.RenderText(Describe(a, players), marginX, resultY-float64(i)*lineHeight, 1, h.colors[a.Player])
	}
}

func (h *HUD) drawResult(outcome battle.Outcome, players [2]entity.Player) {
	text := "Draw! Both duelists are down."
	color := accentColor
	if w := outcome.Winner(); w >= 0 {
		text = players[w].Name + " wins!"
		color = h.colors[w]
	}
	h.text.RenderText(text, marginX, resultY, 2, color)
}

func (h *HUD) prompt(a input.Action, verb string) {
	h.text.RenderText(fmt.Sprintf("Press %s to %s", keyLabel(h.keys.KeyFor(a)), verb), marginX, HUDFloor+lineHeight, 1, dimColor)
}

// Describe renders one resolved action as a sentence.
func Describe(a battle.Action, players [2]entity.Player) string {
	user := players[a.Player].Name
	switch {
	case a.Move == "":
		return user + " did nothing"
	case !a.Result.Hit:
		return fmt.Sprintf("%s's %s missed", user, a.Move)
	case a.Result.Kind == combat.KindHeal:
		return fmt.Sprintf("%s used %s and healed %d", user, a.Move, a.Healed)
	case a.Result.Crit:
		return fmt.Sprintf("%s's %s crits %s for %d!", user, a.Move, players[a.Recipient].Name, a.Result.Amount)
	default:
		return fmt.Sprintf("%s's %s hits %s for %d", user, a.Move, players[a.Recipient].Name, a.Result.Amount)
	}
}

func keyLabel(r rune) string {
	switch r {
	case 0:
		return "?"
	case ' ':
		return "space"
	default:
		return string(r)
	}
}

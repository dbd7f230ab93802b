package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelband/internal/arena"
)

// Virtual canvas the HUD lays text out on. The origin is the bottom-left corner.
const (
	VirtualWidth  = 1280.0
	VirtualHeight = 720.0
)

// Duelist is how a player is drawn on the backdrop.
type Duelist struct {
	Symbol rune
	Color  tcell.Color
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Begin clears the buffer for a new frame.
func (r *Renderer) Begin() {
	r.screen.Clear()
}

// Present flushes the frame to the terminal.
func (r *Renderer) Present() {
	r.screen.Show()
}

// RenderText draws text with its left baseline at virtual (x, y). A scale of
// 1.5 or more is drawn bold; the terminal cannot draw larger glyphs.
func (r *Renderer) RenderText(text string, x, y, scale float64, color tcell.Color) {
	col, row := r.toCell(x, y)
	w, h := r.screen.Size()
	if row < 0 || row >= h {
		return
	}

	style := tcell.StyleDefault.Foreground(color)
	if scale >= 1.5 {
		style = style.Bold(true)
	}
	for _, ch := range text {
		if col >= w {
			break
		}
		if col >= 0 {
			r.screen.SetContent(col, row, ch, style)
		}
		col++
	}
}

// toCell maps virtual coordinates onto a terminal cell.
func (r *Renderer) toCell(x, y float64) (col, row int) {
	w, h := r.screen.Size()
	col = int(x * float64(w) / VirtualWidth)
	row = h - 1 - int(y*float64(h)/VirtualHeight)
	return col, row
}

// RenderBackdrop draws the arena scaled into the band of the screen below
// virtual height ceiling, with each duelist on its pedestal.
func (r *Renderer) RenderBackdrop(a *arena.Arena, ceiling float64, duelists [2]Duelist) {
	w, h := r.screen.Size()
	_, top := r.toCell(0, ceiling)
	top++
	rows := h - top
	if rows <= 0 || w <= 0 || a.Width == 0 || a.Height == 0 {
		return
	}

	for row := 0; row < rows; row++ {
		ty := row * a.Height / rows
		for col := 0; col < w; col++ {
			tile := a.GetTile(col*a.Width/w, ty)
			r.screen.SetContent(col, top+row, tile.Rune(), tileStyle(tile))
		}
	}

	for i, d := range duelists {
		p := a.Spawn(i)
		col := p.X * w / a.Width
		row := top + p.Y*rows/a.Height
		style := tcell.StyleDefault.Foreground(d.Color).Bold(true)
		r.screen.SetContent(col, row, d.Symbol, style)
	}
}

// tileStyle returns the appropriate style for a tile type.
func tileStyle(tile arena.Tile) tcell.Style {
	switch tile {
	case arena.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case arena.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case arena.TilePedestal:
		return tcell.StyleDefault.Foreground(tcell.ColorOlive)
	default:
		return tcell.StyleDefault
	}
}

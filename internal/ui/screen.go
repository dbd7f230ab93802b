// Package ui provides terminal rendering using tcell.
package ui

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrScreenClosed is returned by Beep once the screen has been finalized.
var ErrScreenClosed = errors.New("screen closed")

// Screen wraps tcell.Screen with a simplified interface.
// Writes to the terminal are serialized, so the bell may ring from another
// goroutine while a frame is being drawn.
type Screen struct {
	screen tcell.Screen

	mu     sync.Mutex
	closed bool
}

// NewScreen creates and initializes a new terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenFrom(s)
}

// NewScreenFrom initializes an existing tcell screen, such as a simulation screen.
func NewScreenFrom(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close finalizes the screen and restores terminal state. Later calls do nothing.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.screen.Fini()
}

// PollEvent waits for and returns the next terminal event.
// It returns nil once the screen is closed.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Clear clears the screen buffer.
func (s *Screen) Clear() {
	s.mu.Lock()
	s.screen.Clear()
	s.mu.Unlock()
}

// Show flushes the screen buffer to the terminal.
func (s *Screen) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.screen.Show()
	}
}

// SetContent sets a single cell's content at the given position.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.mu.Lock()
	s.screen.SetContent(x, y, r, nil, style)
	s.mu.Unlock()
}

// Content returns the rune and style at the given cell.
func (s *Screen) Content(x, y int) (rune, tcell.Style) {
	r, _, style, _ := s.screen.GetContent(x, y)
	return r, style
}

// Size returns the current terminal dimensions.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync forces a complete redraw of the screen.
func (s *Screen) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.screen.Sync()
	}
}

// Beep rings the terminal bell. tcell writes the bell straight to the
// terminal, so it must not overlap a Show.
func (s *Screen) Beep() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScreenClosed
	}
	return s.screen.Beep()
}

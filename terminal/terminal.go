// Package terminal implements the game display on top of tcell.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-in-term/structs"
)

// Screen is a tcell-backed display. Key events are pumped into a buffered
// channel and drained once per frame by PollKey.
type Screen struct {
	screen tcell.Screen
	style  tcell.Style
	keys   chan structs.Key
}

// New initialises the real terminal. Nothing needs restoring when it fails.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create terminal screen: %w", err)
	}
	return Open(s)
}

// Open takes over an uninitialised tcell screen.
func Open(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init terminal screen: %w", err)
	}
	s.HideCursor()
	s.Clear()

	sc := &Screen{
		screen: s,
		style:  tcell.StyleDefault,
		keys:   make(chan structs.Key, 32),
	}
	go sc.pump()
	return sc, nil
}

func (s *Screen) pump() {
	defer close(s.keys)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// Fini 之后 PollEvent 返回 nil
			return
		}
		if e, ok := ev.(*tcell.EventKey); ok {
			// 队列满了就丢弃，不能阻塞事件循环
			select {
			case s.keys <- MapKey(e):
			default:
			}
		}
	}
}

// PollKey drains the keys that arrived since the last frame and returns the
// last directional one. A quit anywhere in the batch wins, and other keys
// never take the slot.
func (s *Screen) PollKey() structs.Key {
	key := structs.KeyNone
	for {
		select {
		case k, ok := <-s.keys:
			if !ok {
				return key
			}
			if key != structs.KeyQuit && k != structs.KeyOther {
				key = k
			}
		default:
			return key
		}
	}
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) SetCell(row, col int, glyph rune) {
	s.screen.SetContent(col, row, glyph, nil, s.style)
}

func (s *Screen) WriteText(row, col int, text string) {
	for _, ch := range text {
		s.screen.SetContent(col, row, ch, nil, s.style)
		col++
	}
}

func (s *Screen) Refresh() {
	s.screen.Show()
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// MapKey classifies a tcell key event.
func MapKey(e *tcell.EventKey) structs.Key {
	switch e.Key() {
	case tcell.KeyUp:
		return structs.KeyUp
	case tcell.KeyDown:
		return structs.KeyDown
	case tcell.KeyLeft:
		return structs.KeyLeft
	case tcell.KeyRight:
		return structs.KeyRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return structs.KeyQuit
	case tcell.KeyRune:
		switch e.Rune() {
		case 'q', 'Q':
			return structs.KeyQuit
		case 'w', 'k':
			return structs.KeyUp
		case 's', 'j':
			return structs.KeyDown
		case 'a', 'h':
			return structs.KeyLeft
		case 'd', 'l':
			return structs.KeyRight
		}
	}
	return structs.KeyOther
}

// Package game runs the fixed-timestep game loop.
package game

import (
	"log"
	"time"

	"github.com/hoshinonyaruko/snake-in-term/render"
	"github.com/hoshinonyaruko/snake-in-term/snake"
	"github.com/hoshinonyaruko/snake-in-term/structs"
)

// Journal records gameplay events.
type Journal interface {
	RecordEvent(event structs.Event) error
}

// Publisher receives a copy of the state after every frame.
type Publisher interface {
	Publish(snapshot structs.Snapshot)
}

// Loop drives one game from start to a terminal state. The game state it is
// handed is owned by the loop until Run returns.
type Loop struct {
	Display render.Display
	Frame   time.Duration
	Rand    snake.Rand

	// Glyphs is consulted every frame so reloaded glyphs show up immediately.
	Glyphs func() render.Glyphs

	Journal   Journal   // optional
	Publisher Publisher // optional

	Now   func() time.Time
	Sleep func(time.Duration)
}

// Run executes frames until the game terminates and returns why it ended.
func (l *Loop) Run(game *structs.Game) structs.EndReason {
	l.defaults()
	log.Printf("game %s started on %dx%d grid, frame %v", game.SessionID, game.Map.Width, game.Map.Height, l.Frame)
	l.record(game, structs.EventStart, game.Map.Snake.Head())

	for l.Tick(game) {
	}

	log.Printf("game %s ended after %d frames: %s, score %d", game.SessionID, game.Frame, game.Reason, game.Score)
	return game.Reason
}

// Tick runs a single frame. It returns false once the game has terminated.
func (l *Loop) Tick(game *structs.Game) bool {
	l.defaults()
	if game.State == structs.Terminated {
		return false
	}
	frameStart := l.Now()

	// 每帧最多处理一个输入
	key := l.Display.PollKey()
	if key == structs.KeyQuit {
		l.terminate(game, structs.EndQuit)
		return false
	}
	if dir, ok := key.Direction(); ok {
		snake.Turn(&game.Map.Snake, dir)
	}

	out := snake.Step(game, l.Rand)
	if out.Ate {
		l.record(game, structs.EventEat, game.Map.Snake.Head())
	}
	if out.Reason != structs.EndNone {
		l.terminate(game, out.Reason)
		return false
	}

	render.Draw(l.Display, game, l.Glyphs())
	game.Frame++
	if l.Publisher != nil {
		l.Publisher.Publish(game.Snapshot())
	}

	// 保持固定帧率
	if elapsed := l.Now().Sub(frameStart); elapsed < l.Frame {
		l.Sleep(l.Frame - elapsed)
	}
	return true
}

func (l *Loop) terminate(game *structs.Game, reason structs.EndReason) {
	game.State = structs.Terminated
	game.Reason = reason
	l.record(game, structs.EventEnd, game.Map.Snake.Head())
	if l.Publisher != nil {
		l.Publisher.Publish(game.Snapshot())
	}
}

func (l *Loop) record(game *structs.Game, kind structs.EventKind, pos structs.Position) {
	if l.Journal == nil {
		return
	}
	event := structs.Event{
		SessionID: game.SessionID,
		Frame:     game.Frame,
		Kind:      kind,
		X:         pos.X,
		Y:         pos.Y,
		Score:     game.Score,
		Reason:    game.Reason,
	}
	if err := l.Journal.RecordEvent(event); err != nil {
		log.Printf("journal %s event failed: %v", kind, err)
	}
}

func (l *Loop) defaults() {
	if l.Now == nil {
		l.Now = time.Now
	}
	if l.Sleep == nil {
		l.Sleep = time.Sleep
	}
	if l.Glyphs == nil {
		l.Glyphs = func() render.Glyphs { return render.DefaultGlyphs }
	}
}

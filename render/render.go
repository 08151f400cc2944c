package render

import (
	"fmt"

	"github.com/hoshinonyaruko/snake-in-term/structs"
)

// Display is the text-grid surface the game loop draws on and reads keys from.
type Display interface {
	// PollKey returns the key for this frame without blocking.
	PollKey() structs.Key
	Clear()
	SetCell(row, col int, glyph rune)
	WriteText(row, col int, text string)
	Refresh()
}

// Glyphs 描述每种格子使用的字符
type Glyphs struct {
	Border rune
	Snake  rune
	Food   rune
}

// DefaultGlyphs 默认字符
var DefaultGlyphs = Glyphs{Border: '#', Snake: 'O', Food: '*'}

// ScoreText 格式化分数行
func ScoreText(score int) string {
	return fmt.Sprintf("Score: %d", score)
}

// Draw 按固定顺序输出一帧：清屏、边框、蛇、食物、分数、刷新
func Draw(d Display, game *structs.Game, glyphs Glyphs) {
	gameMap := &game.Map
	d.Clear()

	// 绘制边框
	for x := 0; x < gameMap.Width; x++ {
		d.SetCell(0, x, glyphs.Border)
		d.SetCell(gameMap.Height-1, x, glyphs.Border)
	}
	for y := 0; y < gameMap.Height; y++ {
		d.SetCell(y, 0, glyphs.Border)
		d.SetCell(y, gameMap.Width-1, glyphs.Border)
	}

	// 绘制蛇
	for _, pos := range gameMap.Snake.Positions {
		d.SetCell(pos.Y, pos.X, glyphs.Snake)
	}

	// 绘制食物
	d.SetCell(gameMap.Food.Y, gameMap.Food.X, glyphs.Food)

	// 分数显示在地图下方
	d.WriteText(gameMap.Height, 0, ScoreText(game.Score))

	d.Refresh()
}

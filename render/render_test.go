package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hoshinonyaruko/snake-in-term/structs"
)

// recordDisplay logs every call in order.
type recordDisplay struct {
	calls []string
	cells map[[2]int]rune
}

func newRecordDisplay() *recordDisplay {
	return &recordDisplay{cells: make(map[[2]int]rune)}
}

func (d *recordDisplay) PollKey() structs.Key { return structs.KeyNone }
func (d *recordDisplay) Clear()               { d.calls = append(d.calls, "clear") }
func (d *recordDisplay) Refresh()             { d.calls = append(d.calls, "refresh") }

func (d *recordDisplay) SetCell(row, col int, glyph rune) {
	d.calls = append(d.calls, "cell:"+string(glyph))
	d.cells[[2]int{row, col}] = glyph
}

func (d *recordDisplay) WriteText(row, col int, text string) {
	d.calls = append(d.calls, fmt.Sprintf("text:%d,%d:%s", row, col, text))
}

func testGame() *structs.Game {
	return &structs.Game{
		Map: structs.GameMap{
			Snake: structs.Snake{
				Positions: []structs.Position{{X: 3, Y: 2}, {X: 2, Y: 2}},
				Direction: structs.Right,
			},
			Food:   structs.Position{X: 5, Y: 3},
			Width:  8,
			Height: 6,
		},
		Score: 7,
		State: structs.Running,
	}
}

func TestDrawCallOrder(t *testing.T) {
	d := newRecordDisplay()
	Draw(d, testGame(), DefaultGlyphs)

	// clear → border → snake → food → score → refresh
	var phases []string
	for _, c := range d.calls {
		phase := c
		if strings.HasPrefix(c, "text:") {
			phase = "text"
		}
		if len(phases) == 0 || phases[len(phases)-1] != phase {
			phases = append(phases, phase)
		}
	}
	want := []string{"clear", "cell:#", "cell:O", "cell:*", "text", "refresh"}
	if strings.Join(phases, " ") != strings.Join(want, " ") {
		t.Errorf("expected phases %v, got %v", want, phases)
	}
}

func TestDrawPlacement(t *testing.T) {
	d := newRecordDisplay()
	Draw(d, testGame(), Glyphs{Border: '+', Snake: '@', Food: '$'})

	checks := []struct {
		row, col int
		glyph    rune
	}{
		{0, 0, '+'},
		{5, 7, '+'},
		{0, 4, '+'},
		{3, 0, '+'},
		{2, 3, '@'},
		{2, 2, '@'},
		{3, 5, '$'},
	}
	for _, c := range checks {
		if got := d.cells[[2]int{c.row, c.col}]; got != c.glyph {
			t.Errorf("cell (%d,%d): expected %q, got %q", c.row, c.col, c.glyph, got)
		}
	}
	if _, ok := d.cells[[2]int{1, 1}]; ok {
		t.Error("expected empty interior cell to be untouched")
	}

	last := d.calls[len(d.calls)-2]
	if last != "text:6,0:Score: 7" {
		t.Errorf("expected score text below the map, got %s", last)
	}
}

func TestRenderImageSize(t *testing.T) {
	g := testGame()
	img := RenderImage(g.Snapshot(), 10)
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Errorf("expected 80x60 image, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	thumb := Thumbnail(img, 40)
	if thumb.Bounds().Dx() != 40 || thumb.Bounds().Dy() != 30 {
		t.Errorf("expected 40x30 thumbnail, got %dx%d", thumb.Bounds().Dx(), thumb.Bounds().Dy())
	}

	if same := Thumbnail(img, 0); same != img {
		t.Error("expected width 0 to return the original image")
	}
}

func TestRenderImageFoodColor(t *testing.T) {
	g := testGame()
	img := RenderImage(g.Snapshot(), 10)

	// 食物格子的中心应当是红色
	r, gr, b, _ := img.At(55, 35).RGBA()
	if r>>8 < 200 || gr>>8 > 100 || b>>8 > 100 {
		t.Errorf("expected red food pixel, got (%d,%d,%d)", r>>8, gr>>8, b>>8)
	}
}

func TestRenderImageSkipsClearedFood(t *testing.T) {
	g := testGame()
	g.Map.Food = structs.Position{}
	img := RenderImage(g.Snapshot(), 10)

	// 原点是边框格子，应当保持边框的灰色
	r, gr, b, _ := img.At(5, 5).RGBA()
	if r>>8 != gr>>8 || gr>>8 != b>>8 {
		t.Errorf("expected grey border at origin, got (%d,%d,%d)", r>>8, gr>>8, b>>8)
	}
}

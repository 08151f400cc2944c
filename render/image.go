package render

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-in-term/structs"
)

// RenderImage 把一帧状态画成图片，每个格子 blockSize 像素。
// 已结束的游戏输出模糊后的画面。
func RenderImage(snapshot structs.Snapshot, blockSize int) image.Image {
	gameMap := snapshot.Map
	width := gameMap.Width * blockSize
	height := gameMap.Height * blockSize

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	renderGrid(dc, width, height, blockSize)

	// 边框
	dc.SetRGB(0.3, 0.3, 0.3)
	for x := 0; x < gameMap.Width; x++ {
		fillBlock(dc, x, 0, blockSize)
		fillBlock(dc, x, gameMap.Height-1, blockSize)
	}
	for y := 1; y < gameMap.Height-1; y++ {
		fillBlock(dc, 0, y, blockSize)
		fillBlock(dc, gameMap.Width-1, y, blockSize)
	}

	// 蛇身，蛇头颜色更深
	for i, pos := range gameMap.Snake.Positions {
		if i == 0 {
			dc.SetRGB(0.1, 0.5, 0.2)
		} else {
			dc.SetRGB(0.3, 0.8, 0.4)
		}
		fillBlock(dc, pos.X, pos.Y, blockSize)
	}

	// 食物画成圆形，落在边框上表示没有食物
	if onInterior(gameMap.Food, gameMap) {
		dc.SetRGB(0.9, 0.2, 0.2)
		r := float64(blockSize) / 2
		dc.DrawCircle(float64(gameMap.Food.X*blockSize)+r, float64(gameMap.Food.Y*blockSize)+r, r*0.8)
		dc.Fill()
	}

	img := dc.Image()
	if snapshot.State == structs.Terminated {
		// 应用高斯模糊
		return imaging.Blur(img, 3.5)
	}
	return img
}

// Thumbnail 按宽度等比缩放图片
func Thumbnail(img image.Image, width int) image.Image {
	if width <= 0 || width >= img.Bounds().Dx() {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

func onInterior(pos structs.Position, gameMap structs.GameMap) bool {
	return pos.X > 0 && pos.X < gameMap.Width-1 && pos.Y > 0 && pos.Y < gameMap.Height-1
}

func fillBlock(dc *gg.Context, x, y, blockSize int) {
	dc.DrawRectangle(float64(x*blockSize), float64(y*blockSize), float64(blockSize), float64(blockSize))
	dc.Fill()
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

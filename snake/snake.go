// 关于的蛇的更新
package snake

import (
	"github.com/hoshinonyaruko/snake-in-term/structs"
)

// Rand 是食物采样用到的随机数来源，*rand.Rand 满足它
type Rand interface {
	Intn(n int) int
}

// Outcome 是一帧更新的结果
type Outcome struct {
	Ate    bool              // 本帧吃到了食物
	Reason structs.EndReason // 非 EndNone 表示游戏结束
}

// NewGame 创建一局新游戏：长度为1的蛇位于中心，向右移动，并放置一个食物
func NewGame(width, height int, rng Rand) *structs.Game {
	start := structs.Position{X: width / 2, Y: height / 2}
	game := &structs.Game{
		Map: structs.GameMap{
			Snake: structs.Snake{
				Positions: []structs.Position{start},
				Direction: structs.Right,
			},
			Width:  width,
			Height: height,
		},
		State:  structs.Running,
		Reason: structs.EndNone,
	}
	// 初始化食物位置
	game.Map.Food, _ = GenerateFood(&game.Map, rng)
	return game
}

// Turn 改变蛇的方向，反方向的输入直接丢弃
func Turn(snake *structs.Snake, dir structs.Direction) bool {
	if dir == snake.Direction.Opposite() {
		return false
	}
	snake.Direction = dir
	return true
}

// NextHead 根据方向计算新头部位置
func NextHead(snake structs.Snake) structs.Position {
	head := snake.Head()
	dx, dy := snake.Direction.Offset()
	return structs.Position{X: head.X + dx, Y: head.Y + dy}
}

// IsWall 判断位置是否落在边框上或边框以外
func IsWall(pos structs.Position, width, height int) bool {
	return pos.X <= 0 || pos.X >= width-1 || pos.Y <= 0 || pos.Y >= height-1
}

// Step 执行一帧的移动、碰撞检测和食物逻辑。
// 撞墙或撞到自己时不修改蛇。
func Step(game *structs.Game, rng Rand) Outcome {
	gameMap := &game.Map
	newHead := NextHead(gameMap.Snake)

	// 检查是否撞墙
	if IsWall(newHead, gameMap.Width, gameMap.Height) {
		return Outcome{Reason: structs.EndWall}
	}

	// 检查是否咬到自己
	if gameMap.Snake.Contains(newHead) {
		return Outcome{Reason: structs.EndSelf}
	}

	// 添加新头部
	positions := make([]structs.Position, 0, len(gameMap.Snake.Positions)+1)
	positions = append(positions, newHead)
	positions = append(positions, gameMap.Snake.Positions...)
	gameMap.Snake.Positions = positions

	if newHead != gameMap.Food {
		// 没吃到食物，去掉尾巴
		gameMap.Snake.Positions = positions[:len(positions)-1]
		return Outcome{Reason: structs.EndNone}
	}

	// 吃到食物，保留尾巴并重新放置食物
	game.Score++
	food, ok := GenerateFood(gameMap, rng)
	if !ok {
		// 没有空格了，食物放回原点（边框上，不会被画出）
		gameMap.Food = structs.Position{}
		return Outcome{Ate: true, Reason: structs.EndBoardFull}
	}
	gameMap.Food = food
	return Outcome{Ate: true, Reason: structs.EndNone}
}

// GenerateFood 在内部区域随机找一个不在蛇身上的位置。
// 内部已被蛇占满时返回 false。
func GenerateFood(gameMap *structs.GameMap, rng Rand) (structs.Position, bool) {
	interiorW, interiorH := gameMap.Width-2, gameMap.Height-2
	if interiorW <= 0 || interiorH <= 0 || !hasFreeCell(gameMap) {
		return structs.Position{}, false
	}

	// 拒绝采样，直到落在空格上
	for {
		pos := structs.Position{
			X: 1 + rng.Intn(interiorW),
			Y: 1 + rng.Intn(interiorH),
		}
		if !gameMap.Snake.Contains(pos) {
			return pos, true
		}
	}
}

// hasFreeCell 内部区域里是否还有蛇没占的格子
func hasFreeCell(gameMap *structs.GameMap) bool {
	interior := (gameMap.Width - 2) * (gameMap.Height - 2)
	occupied := 0
	for _, pos := range gameMap.Snake.Positions {
		if !IsWall(pos, gameMap.Width, gameMap.Height) {
			occupied++
		}
	}
	return occupied < interior
}

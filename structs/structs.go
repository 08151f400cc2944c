package structs

// Position 描述游戏地图上的一个坐标位置。
type Position struct {
	X int `json:"x" csv:"x"` // X坐标
	Y int `json:"y" csv:"y"` // Y坐标
}

// Direction 移动方向（"up", "down", "left", "right"）
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Opposite 返回相反方向
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// Offset 返回该方向上移动一格的坐标增量
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Key 是显示端读到的一次按键，已经归类。
type Key int

const (
	KeyNone Key = iota // 本帧没有输入
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyQuit
	KeyOther
)

// Direction 把方向键转换为方向，非方向键返回 false
func (k Key) Direction() (Direction, bool) {
	switch k {
	case KeyUp:
		return Up, true
	case KeyDown:
		return Down, true
	case KeyLeft:
		return Left, true
	case KeyRight:
		return Right, true
	}
	return "", false
}

// Snake 描述一条贪食蛇的信息。
type Snake struct {
	Positions []Position `json:"positions"` // 蛇身上的每个格子的位置，第一个是蛇头
	Direction Direction  `json:"direction"` // 当前移动方向
}

// Head 返回蛇头
func (s Snake) Head() Position {
	return s.Positions[0]
}

// Contains 判断某个位置是否在蛇身上
func (s Snake) Contains(pos Position) bool {
	for _, p := range s.Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// GameMap 描述整个游戏地图的状态。宽高包含四周一格的边框。
type GameMap struct {
	Snake  Snake    `json:"snake"`  // 玩家的蛇
	Food   Position `json:"food"`   // 食物的位置
	Width  int      `json:"width"`  // 地图宽度
	Height int      `json:"height"` // 地图高度
}

// State 游戏循环的状态
type State string

const (
	Running    State = "running"
	Terminated State = "terminated"
)

// EndReason 记录游戏结束的原因
type EndReason string

const (
	EndNone      EndReason = "none"
	EndWall      EndReason = "wall"
	EndSelf      EndReason = "self"
	EndQuit      EndReason = "quit"
	EndBoardFull EndReason = "board_full"
)

// Game 是整局游戏的全部状态，由游戏循环独占。
type Game struct {
	SessionID string    `json:"session_id"` // 本局标识
	Map       GameMap   `json:"map"`        // 游戏地图状态
	Score     int       `json:"score"`      // 得分
	Frame     int       `json:"frame"`      // 已完成的帧数
	State     State     `json:"state"`      // running / terminated
	Reason    EndReason `json:"reason"`     // 结束原因
}

// Snapshot 是 Game 的深拷贝，交给循环以外的观察者使用。
type Snapshot Game

// Snapshot 拷贝当前状态，蛇身切片单独复制
func (g *Game) Snapshot() Snapshot {
	s := Snapshot(*g)
	s.Map.Snake.Positions = append([]Position(nil), g.Map.Snake.Positions...)
	return s
}

// EventKind 日志事件类型
type EventKind string

const (
	EventStart EventKind = "start"
	EventEat   EventKind = "eat"
	EventEnd   EventKind = "end"
)

// Event 是写入会话日志的一条记录。
type Event struct {
	SessionID string    `json:"session_id" csv:"session_id"`
	Frame     int       `json:"frame" csv:"frame"`
	Kind      EventKind `json:"kind" csv:"kind"`
	X         int       `json:"x" csv:"x"`
	Y         int       `json:"y" csv:"y"`
	Score     int       `json:"score" csv:"score"`
	Reason    EndReason `json:"reason" csv:"reason"`
}

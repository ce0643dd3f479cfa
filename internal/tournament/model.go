package tournament

import (
	"fmt"

	"gorm.io/gorm"
)

// Tournament 定义了数据库中赛事的存储结构。
// 整个赛事状态以一份JSON文档保存，和前端时期的单文件存档保持同构，
// 业务主键是赛事名称。
type Tournament struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// Name 是赛事的唯一名称
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	// Document 是序列化后的完整赛事状态(State)
	Document string `gorm:"type:text" json:"-"`
}

// --- 赛事状态文档 ---
// 以下结构体与持久化/导出的JSON字段一一对应。

// State 是一个赛事的完整状态
type State struct {
	Info    Info     `json:"tournament_info"`
	Players []Player `json:"players"`
	Rounds  []Round  `json:"rounds"`
}

// Info 保存赛事的基本信息和精算设置
type Info struct {
	Name      string   `json:"name"`
	MaxTables int      `json:"max_tables"` // 每轮可用的最大桌数
	MaxGames  int      `json:"max_games"`  // 每名选手的目标对局数
	Mode      string   `json:"mode"`
	Settings  Settings `json:"settings"`
}

// Settings 保存马点(uma)/oka相关的精算设置。
// start_pts/return_pts 以百点为单位(250表示25000点)，
// 素点(scores)以点为单位，两者换算关系是 ×100。
type Settings struct {
	UmaType    string               `json:"uma_type"`
	StartPts   int                  `json:"start_pts"`
	ReturnPts  int                  `json:"return_pts"`
	ShizumiUma map[string][]float64 `json:"shizumi_uma,omitempty"`
}

// Player 是一名参赛选手
type Player struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Team        string  `json:"team"` // "red" / "white"
	TotalScore  float64 `json:"total_score"`
	GamesPlayed int     `json:"games_played"`
}

// Table 是一轮中的一张牌桌，固定4个座位。
// 座位下标0..3对应东/南/西/北。Scores只在IsRecorded为true时有意义。
type Table struct {
	TableID    int        `json:"table_id"`
	PlayerIDs  [4]int     `json:"player_ids"`
	Scores     [4]int     `json:"scores"`
	Points     [4]float64 `json:"points"`
	IsRecorded bool       `json:"is_recorded"`
}

// Round 是一个轮次：轮次号从1开始连续编号，
// 本轮没有上桌的选手进入轮空名单。
type Round struct {
	RoundNumber      int     `json:"round_number"`
	Tables           []Table `json:"tables"`
	RestingPlayerIDs []int   `json:"resting_player_ids"`
}

// --- 缺省设置 ---

// DefaultSettings 返回新赛事的初始精算设置：10-30马，25000起点30000返点。
func DefaultSettings() Settings {
	return Settings{
		UmaType:   "10-30",
		StartPts:  250,
		ReturnPts: 300,
		ShizumiUma: map[string][]float64{
			"1": {12, -1, -3, -8},
			"2": {8, 4, -4, -8},
			"3": {8, 3, 1, -12},
		},
	}
}

// NewState 构造一个空的赛事状态
func NewState(name string, maxTables, maxGames int, mode string) *State {
	return &State{
		Info: Info{
			Name:      name,
			MaxTables: maxTables,
			MaxGames:  maxGames,
			Mode:      mode,
			Settings:  DefaultSettings(),
		},
		Players: []Player{},
		Rounds:  []Round{},
	}
}

// FindPlayer 按ID查找选手，返回指向State内部元素的指针。
func (s *State) FindPlayer(id int) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// ScoreSumTarget 返回记录成绩时4家素点之和必须等于的值。
func (s *Settings) ScoreSumTarget() int {
	return 4 * s.ReturnPts * 100
}

// ValidateSettings 检查精算设置是否可用。
// 沉马向量必须是4元向量；未知的uma_type不在这里拒绝，
// 计算时会回退到缺省马点（向前兼容不完整的设置对象）。
func ValidateSettings(s Settings) error {
	if s.StartPts <= 0 || s.ReturnPts <= 0 {
		return fmt.Errorf("起点(%d)和返点(%d)必须为正数", s.StartPts, s.ReturnPts)
	}
	if s.ReturnPts < s.StartPts {
		return fmt.Errorf("返点(%d)不能小于起点(%d)", s.ReturnPts, s.StartPts)
	}
	for key, vec := range s.ShizumiUma {
		if key != "1" && key != "2" && key != "3" {
			return fmt.Errorf("沉马配置包含无效的键 '%s'", key)
		}
		if len(vec) != 4 {
			return fmt.Errorf("沉马配置 '%s' 必须是4元向量，实际为%d元", key, len(vec))
		}
	}
	return nil
}

// ValidateState 检查一份（导入的）赛事文档的结构完整性。
func ValidateState(s *State) error {
	if s.Info.Name == "" {
		return fmt.Errorf("赛事名称不能为空")
	}
	if err := ValidateSettings(s.Info.Settings); err != nil {
		return err
	}

	playerSet := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		if playerSet[p.ID] {
			return fmt.Errorf("选手ID %d 重复", p.ID)
		}
		playerSet[p.ID] = true
	}

	// 同一轮内每名选手最多出现一次：不能同时坐两桌，也不能既出场又轮空
	for _, round := range s.Rounds {
		seen := make(map[int]bool, len(s.Players))
		for _, table := range round.Tables {
			for _, pid := range table.PlayerIDs {
				if !playerSet[pid] {
					return fmt.Errorf("第%d轮第%d桌引用了不存在的选手ID %d", round.RoundNumber, table.TableID, pid)
				}
				if seen[pid] {
					return fmt.Errorf("第%d轮选手ID %d 出现多次", round.RoundNumber, pid)
				}
				seen[pid] = true
			}
		}
		for _, pid := range round.RestingPlayerIDs {
			if !playerSet[pid] {
				return fmt.Errorf("第%d轮轮空名单引用了不存在的选手ID %d", round.RoundNumber, pid)
			}
			if seen[pid] {
				return fmt.Errorf("第%d轮选手ID %d 既出场又轮空", round.RoundNumber, pid)
			}
			seen[pid] = true
		}
	}
	return nil
}

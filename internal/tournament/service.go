package tournament

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/database"
	"github.com/google/uuid"
)

// 服务层错误，Handler据此选择HTTP状态码。
var (
	ErrAlreadyExists  = errors.New("同名赛事已存在")
	ErrPlayerNotFound = errors.New("选手不存在")
	ErrRoundNotFound  = errors.New("轮次不存在")
	ErrTableNotFound  = errors.New("牌桌不存在")
)

// --- Service-Level Data Transfer Objects (DTOs) ---

// PlayerGameDTO 是选手详情中的一条对局记录
type PlayerGameDTO struct {
	RoundNumber int     `json:"round_number"`
	TableID     int     `json:"table_id"`
	Seat        int     `json:"seat"`
	Score       int     `json:"score"`
	Points      float64 `json:"points"`
	IsRecorded  bool    `json:"is_recorded"`
}

// PlayerDetailDTO 汇总了一名选手的全部赛事轨迹
type PlayerDetailDTO struct {
	Player        Player          `json:"player"`
	Games         []PlayerGameDTO `json:"games"`
	RestingRounds []int           `json:"resting_rounds"`
}

// --- Service Functions ---

// CreateTournament 新建一个空赛事并写入存储。
func CreateTournament(name string, maxTables, maxGames int, mode string) (*State, error) {
	var count int64
	if err := database.DB.Model(&Tournament{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("无法检查赛事名称: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}
	state := NewState(name, maxTables, maxGames, mode)
	return SaveState(name, state)
}

// AddPlayer 注册一名新选手。新ID取现有最大ID+1，队伍默认白队。
func AddPlayer(name, playerName string) (*State, error) {
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}

	newID := 1
	for _, p := range state.Players {
		if p.ID >= newID {
			newID = p.ID + 1
		}
	}
	state.Players = append(state.Players, Player{
		ID:   newID,
		Name: playerName,
		Team: "white",
	})
	return SaveState(name, state)
}

// UpdatePlayerName 修改选手的显示名称。
func UpdatePlayerName(name string, playerID int, newName string) (*State, error) {
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}
	p := state.FindPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	p.Name = newName
	return SaveState(name, state)
}

// TogglePlayerTeam 在红白两队之间切换选手的队伍标记。
func TogglePlayerTeam(name string, playerID int) (*State, error) {
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}
	p := state.FindPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if p.Team == "red" {
		p.Team = "white"
	} else {
		p.Team = "red"
	}
	return SaveState(name, state)
}

// ShuffleTeams 随机重分红白两队：打乱顺序后交替入队。
func ShuffleTeams(name string) (*State, error) {
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(state.Players))
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	for pos, idx := range order {
		if pos%2 == 0 {
			state.Players[idx].Team = "red"
		} else {
			state.Players[idx].Team = "white"
		}
	}
	return SaveState(name, state)
}

// AppendRounds 把一批排好的新轮次追加到赛事尾部。
// 已提交的轮次是append-only的，这里只追加、从不改写既有轮次；
// 轮次号按现有轮数连续重编。
func AppendRounds(name string, newRounds []Round) (*State, error) {
	if len(newRounds) == 0 {
		return nil, fmt.Errorf("没有可提交的轮次")
	}
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}

	startNum := len(state.Rounds)
	for i := range newRounds {
		round := newRounds[i]
		round.RoundNumber = startNum + i + 1
		if round.RestingPlayerIDs == nil {
			round.RestingPlayerIDs = []int{}
		}
		for t := range round.Tables {
			table := &round.Tables[t]
			// 新轮次只携带座位安排，成绩一律清零待录入
			table.Scores = [4]int{}
			table.Points = [4]float64{}
			table.IsRecorded = false
		}
		state.Rounds = append(state.Rounds, round)
	}

	if err := ValidateState(state); err != nil {
		return nil, fmt.Errorf("提交的轮次不合法: %w", err)
	}
	return SaveState(name, state)
}

// SubmitScore 记录一桌的素点。
// 素点之和必须等于 4×返点×100，这是录入侧的守门校验；
// 通过后整个赛事在保存时重放精算。
func SubmitScore(name string, roundNum, tableID int, scores [4]int) (*State, error) {
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}
	if roundNum < 1 || roundNum > len(state.Rounds) {
		return nil, ErrRoundNotFound
	}
	round := &state.Rounds[roundNum-1]

	var table *Table
	for t := range round.Tables {
		if round.Tables[t].TableID == tableID {
			table = &round.Tables[t]
			break
		}
	}
	if table == nil {
		return nil, ErrTableNotFound
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	if target := state.Info.Settings.ScoreSumTarget(); sum != target {
		return nil, fmt.Errorf("素点之和 %d 不等于 %d", sum, target)
	}

	table.Scores = scores
	table.IsRecorded = true
	return SaveState(name, state)
}

// UpdateSettings 替换精算设置并触发整体重放。
func UpdateSettings(name string, settings Settings) (*State, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}
	state.Info.Settings = settings
	return SaveState(name, state)
}

// GetPlayerDetail 汇总一名选手的逐轮对局与轮空记录。
func GetPlayerDetail(name string, playerID int) (*PlayerDetailDTO, error) {
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}
	p := state.FindPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	detail := &PlayerDetailDTO{
		Player:        *p,
		Games:         []PlayerGameDTO{},
		RestingRounds: []int{},
	}
	for _, round := range state.Rounds {
		for _, table := range round.Tables {
			for seat, pid := range table.PlayerIDs {
				if pid != playerID {
					continue
				}
				detail.Games = append(detail.Games, PlayerGameDTO{
					RoundNumber: round.RoundNumber,
					TableID:     table.TableID,
					Seat:        seat,
					Score:       table.Scores[seat],
					Points:      table.Points[seat],
					IsRecorded:  table.IsRecorded,
				})
			}
		}
		for _, pid := range round.RestingPlayerIDs {
			if pid == playerID {
				detail.RestingRounds = append(detail.RestingRounds, round.RoundNumber)
			}
		}
	}
	return detail, nil
}

// GetStandings 返回积分榜：优先走Redis排行榜缓存，失败时回退到赛事文档。
func GetStandings(name string) ([]StandingEntry, error) {
	if entries, err := StandingsFromRedis(name); err == nil {
		return entries, nil
	}
	state, err := LoadState(name)
	if err != nil {
		return nil, err
	}
	return StandingsFromState(state), nil
}

// ExportDocument 返回赛事的原始JSON存档。
func ExportDocument(name string) (string, error) {
	var record Tournament
	err := database.DB.Where("name = ?", name).First(&record).Error
	if err != nil {
		return "", ErrNotFound
	}
	return record.Document, nil
}

// ImportDocument 校验并导入一份JSON存档。
// 与现有赛事重名时不覆盖，改用带随机后缀的新名称导入。
func ImportDocument(doc []byte) (string, error) {
	var state State
	if err := json.Unmarshal(doc, &state); err != nil {
		return "", fmt.Errorf("无法解析导入的存档: %w", err)
	}
	normalizeState(&state)
	if err := ValidateState(&state); err != nil {
		return "", fmt.Errorf("导入的存档不合法: %w", err)
	}

	name := state.Info.Name
	var count int64
	if err := database.DB.Model(&Tournament{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return "", fmt.Errorf("无法检查赛事名称: %w", err)
	}
	if count > 0 {
		name = fmt.Sprintf("%s-%s", name, uuid.NewString()[:8])
		state.Info.Name = name
	}

	if _, err := SaveState(name, &state); err != nil {
		return "", err
	}
	return name, nil
}

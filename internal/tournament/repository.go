package tournament

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound 表示请求的赛事不存在。
var ErrNotFound = errors.New("赛事不存在")

// LoadState 从SQLite读取并反序列化一个赛事的完整状态。
func LoadState(name string) (*State, error) {
	var record Tournament
	err := database.DB.Where("name = ?", name).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("无法从SQLite读取赛事 %s: %w", name, err)
	}

	var state State
	if err := json.Unmarshal([]byte(record.Document), &state); err != nil {
		return nil, fmt.Errorf("无法解析赛事 %s 的存档文档: %w", name, err)
	}
	normalizeState(&state)
	return &state, nil
}

// SaveState 持久化一个赛事的完整状态。
// 保存前总是先整体重放积分（存档中的累计成绩因此永远与素点一致），
// 然后尽力同步Redis排行榜缓存。
func SaveState(name string, state *State) (*State, error) {
	Recalculate(state)

	doc, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("无法序列化赛事 %s: %w", name, err)
	}

	record := Tournament{
		Name:     name,
		Document: string(doc),
	}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("无法保存赛事 %s: %w", name, err)
	}

	// 排行榜缓存是派生数据，同步失败不阻塞保存
	if err := SyncLeaderboard(name, state); err != nil {
		fmt.Printf("警告: 赛事 %s 的排行榜缓存同步失败: %v\n", name, err)
	}

	return state, nil
}

// ListNames 返回所有赛事的名称。
func ListNames() ([]string, error) {
	var names []string
	if err := database.DB.Model(&Tournament{}).Order("created_at asc").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("无法列出赛事: %w", err)
	}
	return names, nil
}

// DeleteByName 删除一个赛事及其排行榜缓存。
func DeleteByName(name string) error {
	result := database.DB.Where("name = ?", name).Delete(&Tournament{})
	if result.Error != nil {
		return fmt.Errorf("无法删除赛事 %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	DropLeaderboard(name)
	return nil
}

// normalizeState 填补旧存档中可能缺失的字段，保证JSON输出稳定。
func normalizeState(state *State) {
	if state.Players == nil {
		state.Players = []Player{}
	}
	if state.Rounds == nil {
		state.Rounds = []Round{}
	}
	for i := range state.Rounds {
		if state.Rounds[i].RestingPlayerIDs == nil {
			state.Rounds[i].RestingPlayerIDs = []int{}
		}
	}
	// 设置对象逐字段补缺省值，不整体覆盖：
	// 旧存档只要写了某个字段，该字段就保持原样
	defaults := DefaultSettings()
	settings := &state.Info.Settings
	if settings.UmaType == "" {
		settings.UmaType = defaults.UmaType
	}
	if settings.StartPts <= 0 {
		settings.StartPts = defaults.StartPts
	}
	if settings.ReturnPts <= 0 {
		settings.ReturnPts = defaults.ReturnPts
	}
	if settings.ShizumiUma == nil {
		settings.ShizumiUma = defaults.ShizumiUma
	}
}

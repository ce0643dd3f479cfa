package tournament

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// --- Redis-specific Definitions ---
// 每个赛事维护两个派生缓存键：积分排行榜(Sorted Set)和选手统计(Hash)。
// 真实数据永远在SQLite的赛事文档里，这两个键随时可以整体重建。

// PlayerStats 定义了在选手统计Hash中存储的动态数据
type PlayerStats struct {
	Name        string  `json:"name"`
	Team        string  `json:"team"`
	TotalScore  float64 `json:"total_score"`
	GamesPlayed int     `json:"games_played"`
}

func rankingKey(name string) string {
	return "tournament:" + name + ":ranking"
}

func statsKey(name string) string {
	return "tournament:" + name + ":players"
}

// SyncLeaderboard 用一份赛事状态整体重建该赛事的Redis排行榜。
// Redis不健康时直接跳过，等健康检查恢复后统一重建。
func SyncLeaderboard(name string, state *State) error {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return nil
	}

	pipe := database.RDB.TxPipeline()
	pipe.Del(database.Ctx, rankingKey(name), statsKey(name))
	for _, p := range state.Players {
		stats := PlayerStats{
			Name:        p.Name,
			Team:        p.Team,
			TotalScore:  p.TotalScore,
			GamesPlayed: p.GamesPlayed,
		}
		statsJSON, _ := json.Marshal(stats)
		member := strconv.Itoa(p.ID)
		pipe.HSet(database.Ctx, statsKey(name), member, statsJSON)
		pipe.ZAdd(database.Ctx, rankingKey(name), redis.Z{
			Score:  p.TotalScore,
			Member: member,
		})
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("重建赛事 %s 的排行榜缓存失败: %w", name, err)
	}
	return nil
}

// DropLeaderboard 删除一个赛事的排行榜缓存（赛事删除时调用）。
func DropLeaderboard(name string) {
	if database.RDB == nil {
		return
	}
	if err := database.RDB.Del(database.Ctx, rankingKey(name), statsKey(name)).Err(); err != nil {
		fmt.Printf("警告: 无法删除赛事 %s 的排行榜缓存: %v\n", name, err)
	}
}

// StandingsFromRedis 从排行榜缓存读取积分榜。
// 缓存为空或Redis不健康时返回错误，调用方回退到赛事文档。
func StandingsFromRedis(name string) ([]StandingEntry, error) {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return nil, fmt.Errorf("Redis当前不可用")
	}

	// 1. 按累计得点从高到低取出所有选手ID
	ids, err := database.RDB.ZRevRange(database.Ctx, rankingKey(name), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("无法从Redis获取排行榜: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("赛事 %s 的排行榜缓存为空", name)
	}

	// 2. 一次性取回所有选手的统计数据
	statsJSONs, err := database.RDB.HMGet(database.Ctx, statsKey(name), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("无法从Redis获取选手统计: %w", err)
	}

	entries := make([]StandingEntry, 0, len(ids))
	for i, id := range ids {
		pid, _ := strconv.Atoi(id)
		var stats PlayerStats
		if statsJSONs[i] != nil {
			if s, ok := statsJSONs[i].(string); ok {
				_ = json.Unmarshal([]byte(s), &stats)
			}
		}
		entries = append(entries, StandingEntry{
			Rank:        i + 1,
			PlayerID:    pid,
			Name:        stats.Name,
			Team:        stats.Team,
			TotalScore:  stats.TotalScore,
			GamesPlayed: stats.GamesPlayed,
		})
	}
	return entries, nil
}

// WarmupCache 从SQLite重建所有赛事的排行榜缓存。
// 在应用启动和Redis重启恢复后调用。
func WarmupCache() error {
	names, err := ListNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		state, err := LoadState(name)
		if err != nil {
			return err
		}
		if err := SyncLeaderboard(name, state); err != nil {
			return err
		}
	}
	fmt.Printf("成功预热 %d 个赛事的排行榜缓存。\n", len(names))
	return nil
}

package schedule

import (
	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
)

// Weights 是排桌质量评估的惩罚权重。
// 两个值都是启发式参数，通过配置注入便于试验其他权重。
type Weights struct {
	RepeatOpponent int // 重复对战
	RepeatSeat     int // 重复座位(风位)
}

// DefaultWeights 是缺省权重：重复对战远重于重复座位。
var DefaultWeights = Weights{
	RepeatOpponent: 1000,
	RepeatSeat:     500,
}

// playerStat 记录评估过程中一名选手已遭遇的对手和已坐过的座位
type playerStat struct {
	opponents []int
	seats     [4]int
}

// TotalPenalty 计算整份排桌的惩罚分，越低越好，0表示全程无重复对战且无重复座位。
// 按轮次/牌桌顺序走一遍：每个座位上的选手，对同桌其余三家逐一检查是否已经遭遇过，
// 再检查该座位(0=东,1=南,2=西,3=北)是否已经坐过。
func TotalPenalty(rounds []tournament.Round, players []tournament.Player, w Weights) int {
	stats := make(map[int]*playerStat, len(players))
	for _, p := range players {
		stats[p.ID] = &playerStat{}
	}

	penalty := 0
	for _, round := range rounds {
		for _, table := range round.Tables {
			for seatIdx, pid := range table.PlayerIDs {
				pStat, ok := stats[pid]
				if !ok {
					// 名单之外的ID不参与统计
					continue
				}

				// 1. 同桌者重复检查
				for _, oid := range table.PlayerIDs {
					if pid == oid {
						continue
					}
					if containsInt(pStat.opponents, oid) {
						penalty += w.RepeatOpponent
					}
					pStat.opponents = append(pStat.opponents, oid)
				}

				// 2. 座位(风位)重复检查
				if pStat.seats[seatIdx] > 0 {
					penalty += w.RepeatSeat
				}
				pStat.seats[seatIdx]++
			}
		}
	}
	return penalty
}

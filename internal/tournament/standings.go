package tournament

import "sort"

// Recalculate 以当前设置把所有已记录的牌桌从头重放一遍，洗替全体选手的累计成绩。
// 积分榜永远可以由 素点+当前设置 重新推导出来，修改设置后只需整体重放。
func Recalculate(state *State) {
	// 选手累计清零
	for i := range state.Players {
		state.Players[i].TotalScore = 0.0
		state.Players[i].GamesPlayed = 0
	}

	for r := range state.Rounds {
		round := &state.Rounds[r]
		for t := range round.Tables {
			table := &round.Tables[t]
			if !table.IsRecorded {
				continue
			}

			// 用最新的设置重算该桌的顺位点
			table.Points = CalculatePoints(table.Scores, state.Info.Settings)

			for idx, pid := range table.PlayerIDs {
				p := state.FindPlayer(pid)
				if p == nil {
					continue
				}
				// 累加时逐次保留一位小数，与逐桌精算的口算习惯一致
				p.TotalScore = round1(p.TotalScore + table.Points[idx])
				p.GamesPlayed++
			}
		}
	}
}

// StandingEntry 是积分榜上的一行
type StandingEntry struct {
	Rank        int     `json:"rank"`
	PlayerID    int     `json:"player_id"`
	Name        string  `json:"name"`
	Team        string  `json:"team"`
	TotalScore  float64 `json:"total_score"`
	GamesPlayed int     `json:"games_played"`
}

// StandingsFromState 直接从赛事文档生成积分榜（按累计得点降序）。
// 这是Redis排行榜不可用时的回退路径。
func StandingsFromState(state *State) []StandingEntry {
	entries := make([]StandingEntry, 0, len(state.Players))
	for _, p := range state.Players {
		entries = append(entries, StandingEntry{
			PlayerID:    p.ID,
			Name:        p.Name,
			Team:        p.Team,
			TotalScore:  p.TotalScore,
			GamesPlayed: p.GamesPlayed,
		})
	}
	// 同分时保持选手列表中的原有顺序
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].TotalScore > entries[b].TotalScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

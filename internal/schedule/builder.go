package schedule

import (
	"errors"
	"math/rand"

	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
)

// ErrInfeasible 表示在贪心分配策略下无法让每名选手打满目标局数。
// 这是初始解构造的已知局限：洗牌顺序不利时可行的请求也可能失败，
// 调用方可以换参数重试或直接重新请求一次。
var ErrInfeasible = errors.New("无法为所有选手分配满目标局数")

// BuildInitialSchedule 构造一个只保证轮空规则的初始排桌骨架。
// 选手至少4人；rng由调用方注入，便于复现。
// 返回的轮次只填充座位安排，成绩全部清零。不修改传入的players切片。
func BuildInitialSchedule(players []tournament.Player, maxTables, targetGames int, rng *rand.Rand) ([]tournament.Round, error) {
	if len(players) < 4 {
		return nil, ErrInfeasible
	}
	// 桌数上限必须为正，否则下面的按轮切分无法收敛
	if maxTables < 1 {
		return nil, ErrInfeasible
	}
	if targetGames < 1 {
		targetGames = 1
	}

	// 1. 由总座位数推出总桌数，再按每轮上限切分出各轮桌数。
	// 每次尽量取满，轮数最少，余数桌落在最后一轮。
	totalSeats := len(players) * targetGames
	totalTables := (totalSeats + 3) / 4

	var tableCounts []int
	remaining := totalTables
	for remaining > 0 {
		take := maxTables
		if remaining < take {
			take = remaining
		}
		tableCounts = append(tableCounts, take)
		remaining -= take
	}

	roundCapacities := make([]int, len(tableCounts))
	for r, count := range tableCounts {
		roundCapacities[r] = count * 4
	}

	// 2. 按"票"分配出场轮次：每名选手持targetGames张票，
	// 每一趟洗牌后依次把一张票投给第一个还有空位且尚未安排过该选手的轮次。
	playMap := make(map[int][]int, len(players))
	order := make([]int, len(players))
	for i := range order {
		order[i] = i
	}

	for g := 0; g < targetGames; g++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, idx := range order {
			pid := players[idx].ID
			assigned := playMap[pid]
			for r := range roundCapacities {
				if roundCapacities[r] <= 0 {
					continue
				}
				if containsInt(assigned, r) {
					continue
				}
				playMap[pid] = append(assigned, r)
				roundCapacities[r]--
				break
			}
		}
	}

	// 3. 任何一名选手没拿满目标局数即构造失败，不返回半成品
	for _, p := range players {
		if len(playMap[p.ID]) != targetGames {
			return nil, ErrInfeasible
		}
	}

	// 4. 按分配结果构成各轮的牌桌（桌内组合先随机，交给优化器调整）。
	// 牌桌必须坐满4人：某一轮的出场人数不是4的倍数时同样判定为构造失败，
	// 绝不生成缺员的牌桌。
	rounds := make([]tournament.Round, 0, len(tableCounts))
	for r := range tableCounts {
		var memberIDs []int
		restingIDs := []int{}
		for _, p := range players {
			if containsInt(playMap[p.ID], r) {
				memberIDs = append(memberIDs, p.ID)
			} else {
				restingIDs = append(restingIDs, p.ID)
			}
		}
		if len(memberIDs)%4 != 0 {
			return nil, ErrInfeasible
		}
		rng.Shuffle(len(memberIDs), func(i, j int) {
			memberIDs[i], memberIDs[j] = memberIDs[j], memberIDs[i]
		})

		tables := make([]tournament.Table, 0, len(memberIDs)/4)
		for t := 0; t*4 < len(memberIDs); t++ {
			var seatIDs [4]int
			copy(seatIDs[:], memberIDs[t*4:t*4+4])
			tables = append(tables, tournament.Table{
				TableID:   t + 1,
				PlayerIDs: seatIDs,
			})
		}

		rounds = append(rounds, tournament.Round{
			RoundNumber:      r + 1,
			Tables:           tables,
			RestingPlayerIDs: restingIDs,
		})
	}

	return rounds, nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

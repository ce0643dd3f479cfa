package schedule

import (
	"math/rand"

	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
)

// Result 是一次优化的产物：找到的最优排桌及其惩罚分。
type Result struct {
	Rounds  []tournament.Round
	Penalty int
}

// swapMove 用值类型描述一次同轮内的座位交换。
// 同一个操作应用两次即还原，revert不需要额外状态。
type swapMove struct {
	round  int
	t1, s1 int
	t2, s2 int
}

func (m swapMove) apply(rounds []tournament.Round) {
	tables := rounds[m.round].Tables
	tables[m.t1].PlayerIDs[m.s1], tables[m.t2].PlayerIDs[m.s2] =
		tables[m.t2].PlayerIDs[m.s2], tables[m.t1].PlayerIDs[m.s1]
}

// cloneRounds 深拷贝一份排桌，用于保存最优快照。
func cloneRounds(rounds []tournament.Round) []tournament.Round {
	cloned := make([]tournament.Round, len(rounds))
	for i, round := range rounds {
		cloned[i] = round
		cloned[i].Tables = make([]tournament.Table, len(round.Tables))
		copy(cloned[i].Tables, round.Tables) // Table是定长数组组成的值类型
		cloned[i].RestingPlayerIDs = append([]int(nil), round.RestingPlayerIDs...)
	}
	return cloned
}

// Optimize 用山登り法(爬山法)优化排桌：每次在随机一轮内随机交换两个座位，
// 惩罚分不升即采纳（接受持平防止在平台上过早锁死），否则还原；
// 全程记录见过的最优解，惩罚到0提前结束，否则跑满迭代预算。
// 纯函数：给定同一初始排桌和同一rng序列，结果确定；不修改initial。
func Optimize(initial []tournament.Round, players []tournament.Player, iterations int, w Weights, rng *rand.Rand) Result {
	current := cloneRounds(initial)
	currentPenalty := TotalPenalty(current, players, w)

	best := cloneRounds(current)
	minPenalty := currentPenalty

	for i := 0; i < iterations && minPenalty > 0; i++ {
		move, ok := randomSwap(current, rng)
		if !ok {
			continue
		}
		move.apply(current)

		nextPenalty := TotalPenalty(current, players, w)
		if nextPenalty <= currentPenalty {
			currentPenalty = nextPenalty
			if currentPenalty < minPenalty {
				minPenalty = currentPenalty
				best = cloneRounds(current)
			}
		} else {
			// 改悪，换回去
			move.apply(current)
		}
	}

	return Result{Rounds: best, Penalty: minPenalty}
}

// randomSwap 在随机一轮内随机选择两个(桌,座位)坐标。
// 允许同桌甚至同座位（后者是无伤的空操作）。
func randomSwap(rounds []tournament.Round, rng *rand.Rand) (swapMove, bool) {
	if len(rounds) == 0 {
		return swapMove{}, false
	}
	r := rng.Intn(len(rounds))
	tables := rounds[r].Tables
	if len(tables) == 0 {
		return swapMove{}, false
	}
	return swapMove{
		round: r,
		t1:    rng.Intn(len(tables)),
		s1:    rng.Intn(4),
		t2:    rng.Intn(len(tables)),
		s2:    rng.Intn(4),
	}, true
}

package schedule

import (
	"math/rand"
	"time"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/config"
	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
)

// PreviewDTO 是一次排桌预览的结果。
// Optimal为false表示预算内没有找到零惩罚解，应当作质量提示展示给主办方，
// 而不是错误——优化器永远返回预算内见过的最优解。
type PreviewDTO struct {
	Rounds  []tournament.Round `json:"rounds"`
	Penalty int                `json:"penalty"`
	Optimal bool               `json:"optimal"`
}

// newRand 按配置构造随机数源：seed非0时固定种子，用于复现排桌结果。
func newRand() *rand.Rand {
	seed := time.Now().UnixNano()
	if config.Cfg != nil && config.Cfg.Schedule.Seed != 0 {
		seed = config.Cfg.Schedule.Seed
	}
	return rand.New(rand.NewSource(seed))
}

// optimizerParams 从配置读取迭代预算和惩罚权重。
func optimizerParams() (int, Weights) {
	iterations := 5000
	weights := DefaultWeights
	if config.Cfg != nil {
		sc := config.Cfg.Schedule
		if sc.MaxIterations > 0 {
			iterations = sc.MaxIterations
		}
		if sc.RepeatOpponentPenalty > 0 {
			weights.RepeatOpponent = sc.RepeatOpponentPenalty
		}
		if sc.RepeatSeatPenalty > 0 {
			weights.RepeatSeat = sc.RepeatSeatPenalty
		}
	}
	return iterations, weights
}

// GenerateOptimizedRounds 为给定的选手名单生成一份优化过的新轮次排桌。
// 先构造初始骨架，再在迭代预算内做局部搜索。
// 构造失败（贪心分配凑不满目标局数）时原样返回ErrInfeasible。
func GenerateOptimizedRounds(players []tournament.Player, maxTables, targetGames int) (*PreviewDTO, error) {
	rng := newRand()

	initial, err := BuildInitialSchedule(players, maxTables, targetGames, rng)
	if err != nil {
		return nil, err
	}

	iterations, weights := optimizerParams()
	result := Optimize(initial, players, iterations, weights, rng)

	return &PreviewDTO{
		Rounds:  result.Rounds,
		Penalty: result.Penalty,
		Optimal: result.Penalty == 0,
	}, nil
}

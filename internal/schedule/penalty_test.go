package schedule

import (
	"fmt"
	"testing"

	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
	"github.com/stretchr/testify/assert"
)

func makePlayers(n int) []tournament.Player {
	players := make([]tournament.Player, n)
	for i := range players {
		players[i] = tournament.Player{
			ID:   i + 1,
			Name: fmt.Sprintf("选手%d", i+1),
			Team: "white",
		}
	}
	return players
}

func roundWithTables(num int, tables ...[4]int) tournament.Round {
	round := tournament.Round{RoundNumber: num, RestingPlayerIDs: []int{}}
	for i, ids := range tables {
		round.Tables = append(round.Tables, tournament.Table{
			TableID:   i + 1,
			PlayerIDs: ids,
		})
	}
	return round
}

func TestTotalPenalty_SingleRoundIsZero(t *testing.T) {
	players := makePlayers(8)
	rounds := []tournament.Round{
		roundWithTables(1, [4]int{1, 2, 3, 4}, [4]int{5, 6, 7, 8}),
	}

	assert.Equal(t, 0, TotalPenalty(rounds, players, DefaultWeights))
}

func TestTotalPenalty_NoRepeats(t *testing.T) {
	players := makePlayers(16)
	// 第二轮按拉丁方重组：每桌取首轮四桌各一人，座位整体轮转一格，
	// 既无重复对战也无重复座位
	rounds := []tournament.Round{
		roundWithTables(1,
			[4]int{1, 2, 3, 4}, [4]int{5, 6, 7, 8},
			[4]int{9, 10, 11, 12}, [4]int{13, 14, 15, 16}),
		roundWithTables(2,
			[4]int{6, 11, 16, 1}, [4]int{10, 15, 4, 5},
			[4]int{14, 3, 8, 9}, [4]int{2, 7, 12, 13}),
	}

	assert.Equal(t, 0, TotalPenalty(rounds, players, DefaultWeights))
}

func TestTotalPenalty_RepeatedPairCostsBothSides(t *testing.T) {
	players := makePlayers(6)
	// 选手1和2在两轮同桌：双方各计一次重复对战，共2000。
	// 座位全部错开，不引入座位惩罚。
	rounds := []tournament.Round{
		roundWithTables(1, [4]int{1, 2, 3, 4}),
		roundWithTables(2, [4]int{2, 5, 1, 6}),
	}

	assert.Equal(t, 2*DefaultWeights.RepeatOpponent, TotalPenalty(rounds, players, DefaultWeights))
}

func TestTotalPenalty_RepeatedSeat(t *testing.T) {
	players := makePlayers(7)
	// 选手1两轮都坐东（座位0），对手全换
	rounds := []tournament.Round{
		roundWithTables(1, [4]int{1, 2, 3, 4}),
		roundWithTables(2, [4]int{1, 5, 6, 7}),
	}

	assert.Equal(t, DefaultWeights.RepeatSeat, TotalPenalty(rounds, players, DefaultWeights))
}

func TestTotalPenalty_SameTableTwiceStacksAllPairs(t *testing.T) {
	players := makePlayers(4)
	// 完全相同的一桌打两次：6对×2侧的重复对战 + 4个座位重复
	rounds := []tournament.Round{
		roundWithTables(1, [4]int{1, 2, 3, 4}),
		roundWithTables(2, [4]int{1, 2, 3, 4}),
	}

	want := 12*DefaultWeights.RepeatOpponent + 4*DefaultWeights.RepeatSeat
	assert.Equal(t, want, TotalPenalty(rounds, players, DefaultWeights))
}

func TestTotalPenalty_CustomWeights(t *testing.T) {
	players := makePlayers(7)
	rounds := []tournament.Round{
		roundWithTables(1, [4]int{1, 2, 3, 4}),
		roundWithTables(2, [4]int{1, 5, 6, 7}),
	}

	w := Weights{RepeatOpponent: 10, RepeatSeat: 3}
	assert.Equal(t, 3, TotalPenalty(rounds, players, w))
}

func TestTotalPenalty_IgnoresUnknownIDs(t *testing.T) {
	players := makePlayers(3)
	// 名单外的ID（轮空替位等异常数据）不参与统计，也不会崩
	rounds := []tournament.Round{
		roundWithTables(1, [4]int{1, 2, 3, 99}),
		roundWithTables(2, [4]int{99, 98, 97, 96}),
	}

	assert.Equal(t, 0, TotalPenalty(rounds, players, DefaultWeights))
}

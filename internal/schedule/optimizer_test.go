package schedule

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundMembers 取出一轮的出场选手ID并排序，用于比较成员集合
func roundMembers(round tournament.Round) []int {
	var ids []int
	for _, table := range round.Tables {
		ids = append(ids, table.PlayerIDs[:]...)
	}
	sort.Ints(ids)
	return ids
}

func TestOptimize_NeverWorseThanInitial(t *testing.T) {
	players := makePlayers(12)
	initial, err := BuildInitialSchedule(players, 2, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	initialPenalty := TotalPenalty(initial, players, DefaultWeights)

	result := Optimize(initial, players, 5000, DefaultWeights, rand.New(rand.NewSource(2)))

	assert.LessOrEqual(t, result.Penalty, initialPenalty)
	// 返回的惩罚分与返回的排桌必须互相对应
	assert.Equal(t, result.Penalty, TotalPenalty(result.Rounds, players, DefaultWeights))
}

func TestOptimize_ZeroIterationsReturnsInitial(t *testing.T) {
	players := makePlayers(8)
	initial, err := BuildInitialSchedule(players, 2, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	result := Optimize(initial, players, 0, DefaultWeights, rand.New(rand.NewSource(2)))

	assert.Equal(t, initial, result.Rounds)
	assert.Equal(t, TotalPenalty(initial, players, DefaultWeights), result.Penalty)
}

func TestOptimize_DoesNotMutateInitial(t *testing.T) {
	players := makePlayers(12)
	initial, err := BuildInitialSchedule(players, 2, 2, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	snapshot := cloneRounds(initial)
	Optimize(initial, players, 2000, DefaultWeights, rand.New(rand.NewSource(4)))

	assert.Equal(t, snapshot, initial)
}

func TestOptimize_DeterministicWithSeed(t *testing.T) {
	players := makePlayers(12)
	initial, err := BuildInitialSchedule(players, 2, 2, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	first := Optimize(initial, players, 3000, DefaultWeights, rand.New(rand.NewSource(6)))
	second := Optimize(initial, players, 3000, DefaultWeights, rand.New(rand.NewSource(6)))

	assert.Equal(t, first, second)
}

func TestOptimize_PreservesRoundMembership(t *testing.T) {
	players := makePlayers(12)
	initial, err := BuildInitialSchedule(players, 2, 2, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	result := Optimize(initial, players, 5000, DefaultWeights, rand.New(rand.NewSource(8)))

	require.Len(t, result.Rounds, len(initial))
	for i := range initial {
		// 座位交换只发生在同一轮内：出场成员和轮空名单保持不变
		assert.Equal(t, roundMembers(initial[i]), roundMembers(result.Rounds[i]))
		assert.Equal(t, initial[i].RestingPlayerIDs, result.Rounds[i].RestingPlayerIDs)
		assert.Equal(t, initial[i].RoundNumber, result.Rounds[i].RoundNumber)
	}
}

func TestOptimize_StopsEarlyAtZeroPenalty(t *testing.T) {
	players := makePlayers(8)
	// 单轮排桌没有历史可重复，惩罚天然为0，优化器原样返回
	initial, err := BuildInitialSchedule(players, 2, 1, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	result := Optimize(initial, players, 5000, DefaultWeights, rand.New(rand.NewSource(10)))

	assert.Equal(t, 0, result.Penalty)
	assert.Equal(t, initial, result.Rounds)
}

package schedule

import (
	"math/rand"
	"testing"

	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertValidSchedule 检查一份排桌的结构完整性：
// 每轮出场/轮空恰好划分全体选手，每桌坐满4人且无重复，桌数不超上限，
// 每名选手总出场数等于目标局数。
func assertValidSchedule(t *testing.T, rounds []tournament.Round, players []tournament.Player, maxTables, targetGames int) {
	t.Helper()

	gamesPlayed := make(map[int]int, len(players))
	known := make(map[int]bool, len(players))
	for _, p := range players {
		known[p.ID] = true
	}

	for _, round := range rounds {
		require.LessOrEqual(t, len(round.Tables), maxTables)

		seen := make(map[int]bool, len(players))
		for _, table := range round.Tables {
			for _, pid := range table.PlayerIDs {
				require.True(t, known[pid], "牌桌引用了名单之外的ID %d", pid)
				require.False(t, seen[pid], "选手 %d 在同一轮出现多次", pid)
				seen[pid] = true
				gamesPlayed[pid]++
			}
			// 新排的牌桌不携带成绩
			assert.Equal(t, [4]int{}, table.Scores)
			assert.False(t, table.IsRecorded)
		}
		for _, pid := range round.RestingPlayerIDs {
			require.True(t, known[pid])
			require.False(t, seen[pid], "选手 %d 既出场又轮空", pid)
			seen[pid] = true
		}
		require.Len(t, seen, len(players), "第 %d 轮没有覆盖全部选手", round.RoundNumber)
	}

	for _, p := range players {
		assert.Equal(t, targetGames, gamesPlayed[p.ID], "选手 %d 的出场数不对", p.ID)
	}
}

func TestBuildInitialSchedule_TooFewPlayers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := BuildInitialSchedule(makePlayers(3), 5, 2, rng)
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestBuildInitialSchedule_NonPositiveMaxTables(t *testing.T) {
	// 桌数上限不为正时必须立即失败，而不是在切分轮次时死循环
	players := makePlayers(8)

	_, err := BuildInitialSchedule(players, 0, 1, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInfeasible)

	_, err = BuildInitialSchedule(players, -3, 1, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestBuildInitialSchedule_ExactFit(t *testing.T) {
	// 8人/2桌/2局：两轮全员出场，任何洗牌顺序都可行
	players := makePlayers(8)
	rng := rand.New(rand.NewSource(7))

	rounds, err := BuildInitialSchedule(players, 2, 2, rng)
	require.NoError(t, err)

	require.Len(t, rounds, 2)
	for i, round := range rounds {
		assert.Equal(t, i+1, round.RoundNumber)
		assert.Len(t, round.Tables, 2)
		assert.Empty(t, round.RestingPlayerIDs)
	}
	assertValidSchedule(t, rounds, players, 2, 2)
}

func TestBuildInitialSchedule_WithResting(t *testing.T) {
	// 12人/2桌/2局：三轮，每轮8人出场4人轮空
	players := makePlayers(12)
	rng := rand.New(rand.NewSource(11))

	rounds, err := BuildInitialSchedule(players, 2, 2, rng)
	require.NoError(t, err)

	require.Len(t, rounds, 3)
	for _, round := range rounds {
		assert.Len(t, round.Tables, 2)
		assert.Len(t, round.RestingPlayerIDs, 4)
	}
	assertValidSchedule(t, rounds, players, 2, 2)
}

func TestBuildInitialSchedule_DoesNotMutatePlayers(t *testing.T) {
	players := makePlayers(8)
	snapshot := make([]tournament.Player, len(players))
	copy(snapshot, players)

	rng := rand.New(rand.NewSource(3))
	_, err := BuildInitialSchedule(players, 2, 2, rng)
	require.NoError(t, err)

	assert.Equal(t, snapshot, players)
}

func TestBuildInitialSchedule_DeterministicWithSeed(t *testing.T) {
	players := makePlayers(12)

	first, err := BuildInitialSchedule(players, 2, 2, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := BuildInitialSchedule(players, 2, 2, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildInitialSchedule_TargetGamesFloor(t *testing.T) {
	// 目标局数小于1时按1局处理
	players := makePlayers(4)
	rng := rand.New(rand.NewSource(5))

	rounds, err := BuildInitialSchedule(players, 1, 0, rng)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assertValidSchedule(t, rounds, players, 1, 1)
}

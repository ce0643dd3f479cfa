package tournament

import (
	"math"
	"sort"
	"strconv"
)

// fixedUmaTable 列出了固定马点方案。每个向量按名次排列且总和为0，
// 这是精算零和性质的前提。
var fixedUmaTable = map[string][4]float64{
	"5-10":  {10, 5, -5, -10},
	"10-20": {20, 10, -10, -20},
	"10-30": {30, 10, -10, -30},
	"20-30": {30, 20, -20, -30},
}

// defaultShizumiUma 是赛事设置中缺少沉马配置时的回退向量。
// 键是浮上人数(素点不低于起点的人数，已收拢到1..3)。
var defaultShizumiUma = map[string][4]float64{
	"1": {12, -1, -3, -8},
	"2": {8, 4, -4, -8},
	"3": {8, 3, 1, -12},
}

// round1 四舍五入到一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CalculatePoints 从一桌4家的素点计算各家的顺位点。
// 前置条件：素点之和等于 settings.ScoreSumTarget()，由录入侧保证，这里不再校验。
func CalculatePoints(rawScores [4]int, settings Settings) [4]float64 {
	// 1. oka：返点与起点的差额形成的奖池，归一位
	oka := float64(settings.ReturnPts-settings.StartPts) * 4 / 10

	// 2. 确定按名次排列的顺位点向量
	var rankingBonuses [4]float64
	if settings.UmaType == "shizumi" {
		// 沉马：统计浮上人数(素点 >= 起点)
		floatingCount := 0
		startLine := settings.StartPts * 100
		for _, s := range rawScores {
			if s >= startLine {
				floatingCount++
			}
		}
		// 0人或4人浮上时收拢到边界档位
		if floatingCount < 1 {
			floatingCount = 1
		}
		if floatingCount > 3 {
			floatingCount = 3
		}
		key := strconv.Itoa(floatingCount)

		if vec, ok := settings.ShizumiUma[key]; ok && len(vec) == 4 {
			copy(rankingBonuses[:], vec)
		} else {
			rankingBonuses = defaultShizumiUma[key]
		}
		// 沉马方案中oka已体现在配置向量内，不再额外加算
	} else {
		uma, ok := fixedUmaTable[settings.UmaType]
		if !ok {
			// 未知方案回退到10-30马，保持对不完整设置的兼容
			uma = fixedUmaTable["10-30"]
		}
		rankingBonuses = uma
		rankingBonuses[0] += oka
	}

	// 3. 素点换算的基础得点
	var basePoints [4]float64
	returnLine := settings.ReturnPts * 100
	for i, s := range rawScores {
		basePoints[i] = float64(s-returnLine) / 1000
	}

	// 4. 排名（同点并列处理）：按素点降序，同点的座位平分对应名次区间的顺位点
	indexed := [4]int{0, 1, 2, 3}
	sort.SliceStable(indexed[:], func(a, b int) bool {
		return rawScores[indexed[a]] > rawScores[indexed[b]]
	})

	var results [4]float64
	i := 0
	for i < 4 {
		j := i + 1
		for j < 4 && rawScores[indexed[j]] == rawScores[indexed[i]] {
			j++
		}

		// 同点区间[i,j)内平均分配顺位点
		sum := 0.0
		for k := i; k < j; k++ {
			sum += rankingBonuses[k]
		}
		avgBonus := sum / float64(j-i)

		for k := i; k < j; k++ {
			seat := indexed[k]
			results[seat] = round1(basePoints[seat] + avgBonus)
		}
		i = j
	}
	return results
}

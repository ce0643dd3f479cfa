package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSettings(umaType string, startPts, returnPts int) Settings {
	return Settings{UmaType: umaType, StartPts: startPts, ReturnPts: returnPts}
}

func TestCalculatePoints_Standard(t *testing.T) {
	// 10-30马，25000起点30000返点：oka = (300-250)*4/10 = 20，归一位
	settings := fixedSettings("10-30", 250, 300)
	scores := [4]int{42000, 33000, 26000, 19000}

	points := CalculatePoints(scores, settings)

	assert.Equal(t, [4]float64{62.0, 13.0, -14.0, -41.0}, points)

	// oka使得总和不为0，而是恰好等于oka
	sum := points[0] + points[1] + points[2] + points[3]
	assert.InDelta(t, 20.0, sum, 1e-9)
}

func TestCalculatePoints_SeatOrderIndependent(t *testing.T) {
	// 名次与座位顺序无关：同样的素点换座位，各家得点跟着素点走
	settings := fixedSettings("10-30", 250, 300)
	points := CalculatePoints([4]int{19000, 26000, 33000, 42000}, settings)

	assert.Equal(t, [4]float64{-41.0, -14.0, 13.0, 62.0}, points)
}

func TestCalculatePoints_ZeroSumWithoutOka(t *testing.T) {
	// 起点=返点时oka为0，固定马点向量总和为0 => 精算零和
	settings := fixedSettings("10-20", 300, 300)
	scores := [4]int{40000, 35000, 25000, 20000}

	points := CalculatePoints(scores, settings)

	assert.Equal(t, [4]float64{30.0, 15.0, -15.0, -30.0}, points)
	assert.InDelta(t, 0.0, points[0]+points[1]+points[2]+points[3], 1e-9)
}

func TestCalculatePoints_AllTied(t *testing.T) {
	// 四家同点：全员平分整个顺位点向量 (50+10-10-30)/4 = 5
	settings := fixedSettings("10-30", 250, 300)
	scores := [4]int{30000, 30000, 30000, 30000}

	points := CalculatePoints(scores, settings)

	for seat := 0; seat < 4; seat++ {
		assert.InDelta(t, 5.0, points[seat], 1e-9)
	}
}

func TestCalculatePoints_PartialTie(t *testing.T) {
	// 2、3位同点：平分两档顺位点 (10 + -10)/2 = 0
	settings := fixedSettings("10-30", 250, 300)
	scores := [4]int{42000, 30000, 30000, 18000}

	points := CalculatePoints(scores, settings)

	// 同点座位得点必须完全一致
	assert.Equal(t, points[1], points[2])
	// base = (30000-30000)/1000 = 0，平分后的顺位点 = 0
	assert.InDelta(t, 0.0, points[1], 1e-9)
	assert.InDelta(t, 62.0, points[0], 1e-9)
	assert.InDelta(t, -42.0, points[3], 1e-9)
}

func TestCalculatePoints_UnknownUmaFallsBack(t *testing.T) {
	// 未知的uma_type回退到10-30马，而不是报错
	known := CalculatePoints([4]int{42000, 33000, 26000, 19000}, fixedSettings("10-30", 250, 300))
	unknown := CalculatePoints([4]int{42000, 33000, 26000, 19000}, fixedSettings("no-such-uma", 250, 300))

	assert.Equal(t, known, unknown)
}

func TestCalculatePoints_ShizumiConfigured(t *testing.T) {
	settings := Settings{
		UmaType:   "shizumi",
		StartPts:  250,
		ReturnPts: 300,
		ShizumiUma: map[string][]float64{
			"1": {12, -1, -3, -8},
			"2": {8, 4, -4, -8},
			"3": {8, 3, 1, -12},
		},
	}

	// 只有1人浮上(>=25000)：套用"1"档向量，且不再额外加oka
	scores := [4]int{30000, 24000, 24000, 22000}
	points := CalculatePoints(scores, settings)

	// base = [0,-6,-6,-8]；2、3位同点平分(-1-3)/2 = -2
	assert.InDelta(t, 12.0, points[0], 1e-9)
	assert.InDelta(t, -8.0, points[1], 1e-9)
	assert.InDelta(t, -8.0, points[2], 1e-9)
	assert.InDelta(t, -16.0, points[3], 1e-9)
}

func TestCalculatePoints_ShizumiFloatingCountClamped(t *testing.T) {
	settings := Settings{
		UmaType:   "shizumi",
		StartPts:  250,
		ReturnPts: 250,
		ShizumiUma: map[string][]float64{
			"1": {12, -1, -3, -8},
			"2": {8, 4, -4, -8},
			"3": {8, 3, 1, -12},
		},
	}

	// 4人全部浮上：收拢到"3"档
	allFloating := CalculatePoints([4]int{30000, 28000, 27000, 26000}, settings)
	// base = [5,3,2,1]，向量[8,3,1,-12]
	assert.InDelta(t, 13.0, allFloating[0], 1e-9)
	assert.InDelta(t, 6.0, allFloating[1], 1e-9)
	assert.InDelta(t, 3.0, allFloating[2], 1e-9)
	assert.InDelta(t, -11.0, allFloating[3], 1e-9)

	// 0人浮上：收拢到"1"档
	noneFloating := CalculatePoints([4]int{24000, 23000, 22000, 21000}, settings)
	assert.InDelta(t, 11.0, noneFloating[0], 1e-9)
}

func TestCalculatePoints_ShizumiDefaultVectors(t *testing.T) {
	// 赛事设置缺少沉马配置时，使用内置的4元缺省向量（"2"档为[8,4,-4,-8]）
	settings := Settings{UmaType: "shizumi", StartPts: 250, ReturnPts: 250}

	scores := [4]int{30000, 26000, 23000, 21000} // 2人浮上
	points := CalculatePoints(scores, settings)

	// base = [5,1,-2,-4]
	assert.InDelta(t, 13.0, points[0], 1e-9)
	assert.InDelta(t, 5.0, points[1], 1e-9)
	assert.InDelta(t, -6.0, points[2], 1e-9)
	assert.InDelta(t, -12.0, points[3], 1e-9)
}

func TestValidateSettings(t *testing.T) {
	require.NoError(t, ValidateSettings(DefaultSettings()))

	bad := DefaultSettings()
	bad.ShizumiUma["2"] = []float64{8, 0, -8} // 3元向量不合法
	assert.Error(t, ValidateSettings(bad))

	negative := fixedSettings("10-30", 0, 300)
	assert.Error(t, ValidateSettings(negative))

	inverted := fixedSettings("10-30", 300, 250)
	assert.Error(t, ValidateSettings(inverted))
}

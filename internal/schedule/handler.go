package schedule

import (
	"errors"
	"net/http"

	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
	"github.com/gin-gonic/gin"
)

// previewRequest 是排桌预览的请求体。
// 两个参数都可以省略，省略时沿用赛事创建时的max_tables/max_games。
type previewRequest struct {
	MaxTables   int `json:"max_tables"`
	TargetGames int `json:"target_games"`
}

// PreviewRoundsHandler 为一个赛事生成新轮次的排桌预览。
// 预览不落库；主办方确认后通过提交轮次接口追加到赛事。
func PreviewRoundsHandler(c *gin.Context) {
	name := c.Param("name")
	state, err := tournament.LoadState(name)
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var req previewRequest
	// 空请求体合法，参数全部走赛事默认值
	_ = c.ShouldBindJSON(&req)
	maxTables := req.MaxTables
	if maxTables <= 0 {
		maxTables = state.Info.MaxTables
	}
	targetGames := req.TargetGames
	if targetGames <= 0 {
		targetGames = state.Info.MaxGames
	}
	if maxTables <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "每轮桌数上限必须为正数"})
		return
	}

	preview, err := GenerateOptimizedRounds(state.Players, maxTables, targetGames)
	if err != nil {
		if errors.Is(err, ErrInfeasible) {
			// 贪心分配的已知局限：换参数或重新请求一次都可能成功
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "排桌失败"})
		}
		return
	}
	c.JSON(http.StatusOK, preview)
}

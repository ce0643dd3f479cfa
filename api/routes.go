package api

import (
	"github.com/SlpAus/mahjong-tournament-backend/internal/schedule"
	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 赛事集合
		tournaments := api.Group("/tournaments")
		{
			tournaments.POST("", tournament.CreateTournamentHandler)
			tournaments.GET("", tournament.ListTournamentsHandler)
			tournaments.POST("/import", tournament.ImportTournamentHandler)
		}

		// 单个赛事
		t := tournaments.Group("/:name")
		{
			t.GET("", tournament.GetTournamentHandler)
			t.DELETE("", tournament.DeleteTournamentHandler)
			t.GET("/export", tournament.ExportTournamentHandler)
			t.GET("/standings", tournament.GetStandingsHandler)
			t.PUT("/settings", tournament.UpdateSettingsHandler)

			// 选手管理
			t.POST("/players", tournament.AddPlayerHandler)
			t.GET("/players/:id", tournament.GetPlayerDetailHandler)
			t.PUT("/players/:id/name", tournament.UpdatePlayerNameHandler)
			t.POST("/players/:id/team", tournament.TogglePlayerTeamHandler)
			t.POST("/teams/shuffle", tournament.ShuffleTeamsHandler)

			// 排桌与成绩
			t.POST("/rounds/preview", schedule.PreviewRoundsHandler)
			t.POST("/rounds", tournament.AppendRoundsHandler)
			t.GET("/rounds/:num", tournament.GetRoundHandler)
			t.POST("/rounds/:num/tables/:tableId/score", tournament.SubmitScoreHandler)
		}
	}
}

package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/mahjong-tournament-backend/api"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/backup"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/config"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/database"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/health"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/shutdown"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/startup"
	"github.com/SlpAus/mahjong-tournament-backend/pkg/lifecycle"
	"github.com/SlpAus/mahjong-tournament-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}

	token.GenerateSecretKey()
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 启动后台服务，生命周期统一由管理器协调
	manager := lifecycle.NewManager()

	healthHandle, err := manager.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	go health.StartRedisHealthCheck(healthHandle)

	backupHandle, err := manager.NewServiceHandle("backup-scheduler")
	if err != nil {
		panic(err)
	}
	go backup.StartBackupScheduler(backupHandle)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	allowedOrigins := cfg.Server.Cors.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，并编排优雅停机
	coordinator := shutdown.NewCoordinator(manager)
	coordinator.ListenForSignalsAndShutdown(server)
}

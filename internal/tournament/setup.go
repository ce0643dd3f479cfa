package tournament

import (
	"fmt"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/database"
)

// PrimeCachedDB 负责初始化tournament模块的数据库部分并预热排行榜缓存
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Tournament{}); err != nil {
		return fmt.Errorf("无法迁移tournament表: %w", err)
	}
	fmt.Println("Tournament数据库表迁移成功。")
	return nil
}

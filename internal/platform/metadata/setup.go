package metadata

import (
	"fmt"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/database"
)

// PrimeDB 负责初始化metadata模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	fmt.Println("Metadata数据库表迁移成功。")

	// 写入结构版本，已存在时保持幂等
	version, err := GetValue(database.DB, SchemaVersionKey)
	if err != nil {
		return fmt.Errorf("无法读取schema版本: %w", err)
	}
	if version == "" {
		if err := SetValue(database.DB, SchemaVersionKey, CurrentSchemaVersion); err != nil {
			return fmt.Errorf("无法写入schema版本: %w", err)
		}
	}
	return nil
}

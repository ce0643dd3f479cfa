package startup

import (
	"fmt"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/metadata"
	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeDB(); err != nil {
		return err
	}
	if err := tournament.PrimeCachedDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时热重建Redis排行榜缓存。
// 由健康检查器在检测到Redis重启恢复后调用。
func RebuildCache() error {
	fmt.Println("开始排行榜缓存热重建...")
	if err := tournament.WarmupCache(); err != nil {
		return err
	}
	fmt.Println("排行榜缓存热重建完成。")
	return nil
}

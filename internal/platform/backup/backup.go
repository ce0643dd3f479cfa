package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/config"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/database"
	"github.com/SlpAus/mahjong-tournament-backend/internal/platform/metadata"
	"github.com/SlpAus/mahjong-tournament-backend/internal/tournament"
	"github.com/SlpAus/mahjong-tournament-backend/pkg/lifecycle"
)

var backupMutex sync.Mutex // 避免定时备份与停机终备并发执行

// StartBackupScheduler 启动一个后台Goroutine定期把所有赛事存档导出为JSON文件。
// 生命周期由传入的handle管理。
func StartBackupScheduler(handle *lifecycle.Handle) {
	defer handle.Close()
	fmt.Println("赛事备份调度器已启动。")

	if last, err := metadata.GetLastBackupAt(database.DB); err == nil && !last.IsZero() {
		fmt.Printf("备份调度器: 上次备份完成于 %s。\n", last.Local().Format(time.RFC3339))
	}

	interval := time.Duration(config.Cfg.Backup.IntervalMinutes) * time.Minute
	for {
		// 可中断休眠：收到停机信号时立即退出
		if err := handle.Sleep(interval); err != nil {
			fmt.Println("备份调度器: 休眠被中断，正在关闭...")
			return
		}

		fmt.Println("备份调度器: 正在执行定时备份...")
		if err := ExportAllTournaments(handle.Ctx()); err != nil {
			if err != context.Canceled && err != context.DeadlineExceeded {
				fmt.Printf("备份调度器错误: 导出赛事存档失败: %v\n", err)
			}
		} else {
			fmt.Println("备份调度器: 备份成功。")
		}
	}
}

// ExportAllTournaments 把每个赛事的JSON文档写入备份目录。
// 先写临时文件再原子改名，半途失败不会留下损坏的备份。
func ExportAllTournaments(ctx context.Context) error {
	backupMutex.Lock()
	defer backupMutex.Unlock()

	dir := config.Cfg.Backup.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("无法创建备份目录 %s: %w", dir, err)
	}

	names, err := tournament.ListNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		doc, err := tournament.ExportDocument(name)
		if err != nil {
			return fmt.Errorf("无法导出赛事 %s: %w", name, err)
		}

		target := filepath.Join(dir, name+".json")
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("无法写入备份文件 %s: %w", tmp, err)
		}
		if err := os.Rename(tmp, target); err != nil {
			return fmt.Errorf("无法落盘备份文件 %s: %w", target, err)
		}
	}

	if err := metadata.SetLastBackupAt(database.DB, time.Now()); err != nil {
		fmt.Printf("警告: 无法更新备份时间元数据: %v\n", err)
	}
	return nil
}

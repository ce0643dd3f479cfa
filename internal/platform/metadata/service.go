package metadata

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Generic Accessors ---

// GetValue retrieves a value for a given key from the metadata table.
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 键不存在时返回空串，由调用方决定缺省语义
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue creates or updates a value for a given key.
func SetValue(db *gorm.DB, key, value string) error {
	// 使用GORM的OnConflict子句实现原子的upsert
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// --- Specific Helpers ---

// GetLastBackupAt 读取最近一次备份完成的时间；从未备份过时返回零值。
func GetLastBackupAt(db *gorm.DB) (time.Time, error) {
	valueStr, err := GetValue(db, LastBackupAtKey)
	if err != nil {
		return time.Time{}, err
	}
	if valueStr == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, valueStr)
}

// SetLastBackupAt 记录最近一次备份完成的时间。
func SetLastBackupAt(db *gorm.DB, t time.Time) error {
	return SetValue(db, LastBackupAtKey, t.UTC().Format(time.RFC3339))
}

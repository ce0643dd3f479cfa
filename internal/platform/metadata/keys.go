package metadata

// --- SQLite Keys ---
// 用于metadata表key列的键名。
const (
	// SchemaVersionKey 记录赛事文档的结构版本，供将来迁移使用。
	SchemaVersionKey = "schema_version"

	// LastBackupAtKey 记录最近一次成功完成JSON备份的时间(RFC3339)。
	LastBackupAtKey = "last_backup_at"
)

// CurrentSchemaVersion 是当前的赛事文档结构版本。
const CurrentSchemaVersion = "1"

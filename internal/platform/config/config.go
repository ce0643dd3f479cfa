package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SqliteConfig 定义了SQLite数据库文件的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// BackupConfig 定义了赛事JSON备份的配置
type BackupConfig struct {
	Dir             string `mapstructure:"dir"`
	IntervalMinutes int    `mapstructure:"intervalMinutes"`
}

// ScheduleConfig 定义了排桌优化器的可调参数。
// 两个惩罚权重是启发式参数，放进配置便于在不改代码的前提下试验其他权重。
type ScheduleConfig struct {
	MaxIterations         int   `mapstructure:"maxIterations"`
	RepeatOpponentPenalty int   `mapstructure:"repeatOpponentPenalty"`
	RepeatSeatPenalty     int   `mapstructure:"repeatSeatPenalty"`
	Seed                  int64 `mapstructure:"seed"` // 0表示使用时间种子；非0用于复现排桌结果
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 可以添加多个路径，Viper会按顺序查找
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)

	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:8888
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 未写入配置文件时的缺省值
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.sqlite.path", "tournament.db")
	v.SetDefault("backup.dir", "./backups")
	v.SetDefault("backup.intervalMinutes", 10)
	v.SetDefault("schedule.maxIterations", 5000)
	v.SetDefault("schedule.repeatOpponentPenalty", 1000)
	v.SetDefault("schedule.repeatSeatPenalty", 500)
	v.SetDefault("schedule.seed", 0)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}

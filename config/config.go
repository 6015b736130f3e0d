package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"status-board/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned by Get when no bot token is configured.
var ErrMissingToken = errors.New("no bot token provided, set BOT_TOKEN in .env or config.yaml")

// LoadConfig 从多个源加载配置：.env 文件、config.yaml、以及 ./config/ 目录下的 JSON 文件。
// 配置加载顺序:
// 1. .env 文件 (用于环境变量)
// 2. config.yaml (基础配置)
// 3. config/status_board.json (合并到主配置)
// 环境变量会覆盖配置文件中的同名设置。
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("未找到 .env 文件，将跳过加载。")
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("未找到基础配置文件 (config.yaml)，将仅使用环境变量和默认值。")
		} else {
			panic(fmt.Errorf("解析基础配置文件时发生致命错误: %w", err))
		}
	}

	viper.SetConfigName("status_board")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("未找到状态面板配置文件 (config/status_board.json)，将跳过合并。")
		} else {
			panic(fmt.Errorf("合并状态面板配置文件时发生致命错误: %w", err))
		}
	}
}

func setDefaults() {
	viper.SetDefault("bot.refreshInterval", 5*time.Minute)
	viper.SetDefault("bot.refreshAtStartup", true)
	viper.SetDefault("bot.adminChannelId", "")
	viper.SetDefault("bot.invitePermissions", int64(93184))
	viper.SetDefault("storage.driver", "sqlite")
	viper.SetDefault("storage.path", "data/status.db")
	viper.SetDefault("grpc.address", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("commands.auth.developers", []string{})
}

// Get returns the typed configuration. LoadConfig must have been called.
func Get() (*models.Config, error) {
	var cfg models.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BotToken = viper.GetString("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.Bot.RefreshInterval <= 0 {
		return nil, fmt.Errorf("bot.refreshInterval must be positive, got %s", cfg.Bot.RefreshInterval)
	}
	switch cfg.Storage.Driver {
	case "sqlite", "json":
	default:
		return nil, fmt.Errorf("unknown storage.driver %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}

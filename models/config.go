package models

import "time"

// Config is the typed view of config.yaml, config/status_board.json and the environment.
type Config struct {
	BotToken string         `json:"bot_token" mapstructure:"bot_token"`
	Bot      BotConfig      `json:"bot" mapstructure:"bot"`
	Storage  StorageConfig  `json:"storage" mapstructure:"storage"`
	GRPC     GRPCConfig     `json:"grpc" mapstructure:"grpc"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	Commands CommandsConfig `json:"commands" mapstructure:"commands"`
}

// BotConfig holds the runtime knobs of the status board.
type BotConfig struct {
	RefreshInterval   time.Duration `json:"refresh_interval" mapstructure:"refreshInterval"`
	RefreshAtStartup  bool          `json:"refresh_at_startup" mapstructure:"refreshAtStartup"`
	AdminChannelID    string        `json:"admin_channel_id" mapstructure:"adminChannelId"`
	InvitePermissions int64         `json:"invite_permissions" mapstructure:"invitePermissions"`
}

// StorageConfig selects where bindings and page cursors are persisted.
type StorageConfig struct {
	Driver string `json:"driver" mapstructure:"driver"` // sqlite or json
	Path   string `json:"path" mapstructure:"path"`
}

// GRPCConfig configures the health endpoint. An empty address disables it.
type GRPCConfig struct {
	Address string `json:"address" mapstructure:"address"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"` // console or json
}

// CommandsConfig represents the "commands" section of the configuration.
type CommandsConfig struct {
	Auth AuthConfig `json:"auth" mapstructure:"auth"`
}

// AuthConfig lists users with developer command access.
type AuthConfig struct {
	Developers []string `json:"developers" mapstructure:"developers"`
}

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		setDefaults()
		viper.Set("BOT_TOKEN", "token")

		cfg, err := Get()
		require.NoError(t, err)
		assert.Equal(t, "token", cfg.BotToken)
		assert.Equal(t, 5*time.Minute, cfg.Bot.RefreshInterval)
		assert.True(t, cfg.Bot.RefreshAtStartup)
		assert.Equal(t, int64(93184), cfg.Bot.InvitePermissions)
		assert.Equal(t, "sqlite", cfg.Storage.Driver)
		assert.Equal(t, "data/status.db", cfg.Storage.Path)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Empty(t, cfg.GRPC.Address)
	})

	t.Run("overrides", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		setDefaults()
		viper.Set("BOT_TOKEN", "token")
		viper.Set("bot.refreshInterval", "90s")
		viper.Set("storage.driver", "json")
		viper.Set("storage.path", "data/state.json")
		viper.Set("commands.auth.developers", []string{"42"})

		cfg, err := Get()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.Bot.RefreshInterval)
		assert.Equal(t, "json", cfg.Storage.Driver)
		assert.Equal(t, []string{"42"}, cfg.Commands.Auth.Developers)
	})

	t.Run("missing token", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		setDefaults()
		t.Setenv("BOT_TOKEN", "")

		_, err := Get()
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		setDefaults()
		viper.Set("BOT_TOKEN", "token")
		viper.Set("storage.driver", "redis")

		_, err := Get()
		assert.Error(t, err)
	})

	t.Run("defaults come from LoadConfig", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		viper.Set("BOT_TOKEN", "token")

		_, err := Get()
		assert.ErrorContains(t, err, "refreshInterval")
	})
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("STORAGE_DRIVER", "json")

	LoadConfig()
	cfg, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.BotToken)
	assert.Equal(t, "json", cfg.Storage.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Bot.RefreshInterval)
	assert.Equal(t, "data/status.db", cfg.Storage.Path)
}

package bot

import (
	"errors"
	"testing"
	"time"

	"status-board/models"
	"status-board/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestBot(t *testing.T, atStartup bool) (*Bot, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	b := &Bot{
		Config: &models.Config{Bot: models.BotConfig{
			RefreshInterval:  time.Hour,
			RefreshAtStartup: atStartup,
		}},
		Controller: status.NewController(nil, nil, status.WithLogger(logger)),
		logger:     logger,
	}
	return b, logs
}

func TestScheduler_StartupSweep(t *testing.T) {
	b, logs := newTestBot(t, true)
	require.NoError(t, b.startScheduler())
	defer b.stopScheduler()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("status sweep finished").Len() == 1
	}, time.Second, 10*time.Millisecond)

	entries := b.scheduler.Entries()
	require.Len(t, entries, 1)
	next := entries[0].Next
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, time.Minute)
}

func TestScheduler_NoStartupSweep(t *testing.T) {
	b, logs := newTestBot(t, false)
	require.NoError(t, b.startScheduler())
	b.stopScheduler()

	assert.Equal(t, 0, logs.FilterMessage("status sweep finished").Len())
	assert.Equal(t, 1, logs.FilterMessage("skipping initial sweep as per configuration").Len())
}

func TestCronLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := cronLogger{s: zap.New(core).Sugar()}

	l.Info("schedule", "entry", 1)
	l.Error(errors.New("boom"), "panic", "entry", 1)

	all := logs.All()
	require.Len(t, all, 2)
	assert.Equal(t, zapcore.DebugLevel, all[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, all[1].Level)
	assert.Equal(t, "boom", all[1].ContextMap()["error"])
}

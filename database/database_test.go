package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"status-board/models"
)

func sampleState() *models.BoardState {
	s := models.NewBoardState()
	s.StatusChannels["g1"] = "c1"
	s.StatusChannels["g2"] = "c2"
	s.StatusMessages["g1"] = "m1"
	s.StatusMessages["g2"] = "m2"
	s.CurrentPages["g1"] = 3
	return s
}

func openStores(t *testing.T) map[string]BoardStore {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := Open(models.StorageConfig{Driver: "sqlite", Path: filepath.Join(dir, "db", "status.db")})
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	jsonStore, err := Open(models.StorageConfig{Driver: "json", Path: filepath.Join(dir, "state", "status.json")})
	require.NoError(t, err)

	return map[string]BoardStore{"sqlite": sqlite, "json": jsonStore}
}

func TestBoardStore(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := store.Load()
			require.NoError(t, err)
			assert.Empty(t, empty.StatusChannels)
			assert.Empty(t, empty.StatusMessages)
			assert.Empty(t, empty.CurrentPages)

			require.NoError(t, store.Save(sampleState()))
			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, sampleState().StatusChannels, loaded.StatusChannels)
			assert.Equal(t, sampleState().StatusMessages, loaded.StatusMessages)
			assert.Equal(t, sampleState().CurrentPages, loaded.CurrentPages)
			assert.False(t, loaded.LastUpdated.IsZero())

			// saves overwrite wholesale: dropped guilds disappear
			next := models.NewBoardState()
			next.StatusChannels["g2"] = "c9"
			next.StatusMessages["g2"] = "m9"
			require.NoError(t, store.Save(next))

			loaded, err = store.Load()
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"g2": "c9"}, loaded.StatusChannels)
			assert.Equal(t, map[string]string{"g2": "m9"}, loaded.StatusMessages)
			assert.Empty(t, loaded.CurrentPages)
		})
	}
}

func TestStatusManager_FileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	sm := NewStatusManager(path)
	require.NoError(t, sm.Save(sampleState()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status_channels"`)
	assert.Contains(t, string(data), `"status_messages"`)
	assert.Contains(t, string(data), `"current_pages"`)
}

func TestStatusManager_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStatusManager(path).Load()
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(models.StorageConfig{Driver: "postgres"})
	assert.Error(t, err)
}

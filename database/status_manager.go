package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"status-board/models"
)

// StatusManager keeps the board state in a JSON file that is rewritten on every save.
type StatusManager struct {
	statusFile string
	mutex      sync.Mutex
}

// NewStatusManager creates a status manager backed by statusFile.
func NewStatusManager(statusFile string) *StatusManager {
	return &StatusManager{statusFile: statusFile}
}

// Load reads the state file. A missing file yields an empty state.
func (sm *StatusManager) Load() (*models.BoardState, error) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	data, err := os.ReadFile(sm.statusFile)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewBoardState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	state := models.NewBoardState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse status file: %w", err)
	}
	// Older files may lack a table entirely.
	if state.StatusChannels == nil {
		state.StatusChannels = make(map[string]string)
	}
	if state.StatusMessages == nil {
		state.StatusMessages = make(map[string]string)
	}
	if state.CurrentPages == nil {
		state.CurrentPages = make(map[string]int)
	}
	return state, nil
}

// Save commits the board state to the JSON file.
func (sm *StatusManager) Save(state *models.BoardState) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	out := *state
	out.LastUpdated = time.Now()

	// Ensure the directory exists.
	dir := filepath.Dir(sm.statusFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	data, err := json.MarshalIndent(&out, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	// Write next to the target and rename, so a crash never leaves a truncated file.
	tmp := sm.statusFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := os.Rename(tmp, sm.statusFile); err != nil {
		return fmt.Errorf("failed to replace status file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open.
func (sm *StatusManager) Close() error {
	return nil
}

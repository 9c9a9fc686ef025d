package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// HistoryFile is the on-disk form of a session transcript.
type HistoryFile struct {
	SessionID string    `json:"session_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Messages  []Message `json:"messages"`
}

// HistoryManager persists session transcripts as JSON files.
type HistoryManager struct {
	dataDir string
}

// NewHistoryManager creates a history manager rooted at the user data dir.
func NewHistoryManager() (*HistoryManager, error) {
	dataDir, err := getDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return &HistoryManager{dataDir: dataDir}, nil
}

// Save writes the session transcript to disk.
func (m *HistoryManager) Save(session *Session) error {
	file := HistoryFile{
		SessionID: session.ID,
		StartTime: session.StartTime,
		EndTime:   time.Now(),
		Messages:  session.Messages(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.dataDir, session.ID+".json"), data, 0644)
}

// Load reads a saved transcript by session ID.
func (m *HistoryManager) Load(sessionID string) (*HistoryFile, error) {
	data, err := os.ReadFile(filepath.Join(m.dataDir, sessionID+".json"))
	if err != nil {
		return nil, err
	}

	var file HistoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns the IDs of all saved sessions.
func (m *HistoryManager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dataDir)
	if err != nil {
		return nil, err
	}

	var sessions []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			sessions = append(sessions, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return sessions, nil
}

// Delete removes a saved transcript.
func (m *HistoryManager) Delete(sessionID string) error {
	return os.Remove(filepath.Join(m.dataDir, sessionID+".json"))
}

func getDataDir() (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "gopair", "history"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "gopair", "history"), nil
}

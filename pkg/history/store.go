// Package history persists provisioning run records under the XDG config
// directory.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaspreet-dot-casa/botvm/pkg/provision"
)

const (
	// ConfigDirName is the name of the config directory.
	ConfigDirName = "botvm"
	// HistoryFileName is the name of the run history file.
	HistoryFileName = "history.json"
	// MaxRecords is the maximum number of retained run records.
	MaxRecords = 50
)

// Record is one provisioning run.
type Record struct {
	ID         string                 `json:"id"`
	StartedAt  time.Time              `json:"started_at"`
	Duration   time.Duration          `json:"duration"`
	Success    bool                   `json:"success"`
	FailedStep string                 `json:"failed_step,omitempty"`
	DryRun     bool                   `json:"dry_run,omitempty"`
	Username   string                 `json:"username"`
	Workspace  string                 `json:"workspace"`
	Steps      []provision.StepResult `json:"steps"`
}

// NewRecord builds a Record from a pipeline result.
func NewRecord(host *provision.Host, result *provision.Result, startedAt time.Time, dryRun bool) Record {
	return Record{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		Duration:   result.Duration,
		Success:    result.Success,
		FailedStep: result.FailedStep,
		DryRun:     dryRun,
		Username:   host.Username,
		Workspace:  host.Workspace,
		Steps:      result.Steps,
	}
}

// Store manages persistent run history.
type Store struct {
	configDir string
	mu        sync.Mutex
}

// NewStore creates a store under the XDG config directory.
func NewStore() (*Store, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return &Store{configDir: configDir}, nil
}

// NewStoreWithDir creates a store with a custom directory (for testing).
func NewStoreWithDir(dir string) *Store {
	return &Store{configDir: dir}
}

// getConfigDir returns the config directory path.
func getConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise ~/.config
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName), nil
}

func (s *Store) historyPath() string {
	return filepath.Join(s.configDir, HistoryFileName)
}

// Append records a run, trimming the history to MaxRecords.
func (s *Store) Append(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, record)
	if len(records) > MaxRecords {
		records = records[len(records)-MaxRecords:]
	}

	return s.save(records)
}

// List returns all records, oldest first.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Latest returns the most recent record, or nil when there is none.
func (s *Store) Latest() (*Record, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[len(records)-1], nil
}

func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.historyPath())
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return records, nil
}

func (s *Store) save(records []Record) error {
	if err := os.MkdirAll(s.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := os.WriteFile(s.historyPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

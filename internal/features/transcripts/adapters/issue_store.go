package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"support-bridge/internal/core/logger"
	"support-bridge/internal/features/transcripts/domain"

	"go.uber.org/zap"
)

// IssueStore persists tracked issues to a JSON file. The file is rewritten
// atomically via a temp file and rename.
type IssueStore struct {
	path string
}

// NewIssueStore creates a new instance of IssueStore.
func NewIssueStore(path string) *IssueStore {
	return &IssueStore{path: path}
}

// Load reads the tracker file. A missing or corrupt file yields an empty
// tracker rather than an error so a bad file never blocks new issues.
func (s *IssueStore) Load() []domain.Issue {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var issues []domain.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		logger.Get().Warn("Issue tracker file is corrupt, starting fresh",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}
	return issues
}

// Save writes the full tracker back to disk.
func (s *IssueStore) Save(issues []domain.Issue) error {
	data, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return fmt.Errorf("encode issue tracker: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".issue_tracker-*.json")
	if err != nil {
		return fmt.Errorf("create temp tracker file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp tracker file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp tracker file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace tracker file: %w", err)
	}
	return nil
}

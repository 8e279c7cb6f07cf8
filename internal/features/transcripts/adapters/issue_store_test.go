package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"support-bridge/internal/features/transcripts/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueStore_LoadMissingFile(t *testing.T) {
	store := NewIssueStore(filepath.Join(t.TempDir(), "issue_tracker.json"))
	assert.Empty(t, store.Load())
}

func TestIssueStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue_tracker.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewIssueStore(path)
	assert.Empty(t, store.Load())
}

func TestIssueStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue_tracker.json")
	store := NewIssueStore(path)

	issues := []domain.Issue{
		{ID: "convo-1", Date: "2025-05-01", IsTechnicalError: true, Status: domain.StatusPending},
		{ID: "convo-2", Date: "2025-05-02", IsUnhappyCustomer: true, Status: domain.StatusPending},
	}
	require.NoError(t, store.Save(issues))

	reloaded := store.Load()
	assert.Equal(t, issues, reloaded)

	// the on-disk field names stay compatible with the historical tracker
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw[0], "is_technical_error")
	assert.Contains(t, raw[0], "deleted_from_frontend")
}

func TestIssueStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue_tracker.json")
	store := NewIssueStore(path)

	require.NoError(t, store.Save([]domain.Issue{{ID: "a"}}))
	require.NoError(t, store.Save([]domain.Issue{{ID: "a"}, {ID: "b"}}))

	assert.Len(t, store.Load(), 2)
}

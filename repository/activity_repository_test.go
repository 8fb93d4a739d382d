package repository

import (
	"fmt"
	"testing"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendTestLogs(t *testing.T, repo ActivityRepository, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		require.NoError(t, repo.Append(&models.ActivityLog{
			BotID:        1,
			JobID:        uint(i),
			JobType:      models.JobTypeCreatePost,
			ResultStatus: models.ActivityResultSuccess,
			Message:      fmt.Sprintf("실행 %d", i),
		}))
	}
}

func TestActivityRepository_ListAfterCursor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	appendTestLogs(t, repo, 5)

	// From the beginning: ascending id order, every entry once.
	entries, err := repo.ListAfter(0, 10)
	assert.NoError(t, err)
	require.Len(t, entries, 5)
	for i, entry := range entries {
		assert.Equal(t, uint(i+1), entry.ID)
	}

	// Resuming from a cursor returns only newer entries.
	entries, err = repo.ListAfter(3, 10)
	assert.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(4), entries[0].ID)
	assert.Equal(t, uint(5), entries[1].ID)

	// Caught up: empty page, not an error.
	entries, err = repo.ListAfter(5, 10)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestActivityRepository_ListAfterLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	appendTestLogs(t, repo, 5)

	entries, err := repo.ListAfter(0, 2)
	assert.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(1), entries[0].ID)
	assert.Equal(t, uint(2), entries[1].ID)

	// Nonsense limits fall back to the 100 cap instead of failing.
	entries, err = repo.ListAfter(0, -1)
	assert.NoError(t, err)
	assert.Len(t, entries, 5)
}

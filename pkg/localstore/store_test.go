package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskdesk/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)
	return store
}

func TestInsertAssignsIDAndCreatedAt(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Insert("things", Record{"name": "one"})
	require.NoError(t, err)
	second, err := store.Insert("things", Record{"name": "two"})
	require.NoError(t, err)

	assert.NotEmpty(t, first["id"])
	assert.NotEmpty(t, second["id"])
	assert.NotEqual(t, first["id"], second["id"])

	createdAt, ok := first["created_at"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339Nano, createdAt)
	assert.NoError(t, err)
}

func TestUpdateMergesAndStampsUpdatedAt(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.Insert("tasks", Record{"title": "initial", "status": "pending"})
	require.NoError(t, err)
	id := inserted["id"].(string)

	updated, err := store.Update("tasks", id, Record{"status": "completed"})
	require.NoError(t, err)

	assert.Equal(t, "initial", updated["title"], "untouched fields survive a merge")
	assert.Equal(t, "completed", updated["status"])

	createdAt, err := time.Parse(time.RFC3339Nano, updated["created_at"].(string))
	require.NoError(t, err)
	updatedAt, err := time.Parse(time.RFC3339Nano, updated["updated_at"].(string))
	require.NoError(t, err)
	assert.False(t, updatedAt.Before(createdAt))
}

func TestUpdateUnknownIDFails(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update("tasks", "no-such-id", Record{"status": "completed"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteIsLenient(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.Insert("tasks", Record{"title": "doomed"})
	require.NoError(t, err)
	id := inserted["id"].(string)

	require.NoError(t, store.Delete("tasks", id))
	require.NoError(t, store.Delete("tasks", id), "deleting an absent id succeeds")
	assert.Equal(t, 0, store.Count("tasks", nil))
}

func TestGetByID(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.Insert("users", Record{"email": "a@b.c"})
	require.NoError(t, err)

	found, ok := store.GetByID("users", inserted["id"].(string))
	require.True(t, ok)
	assert.Equal(t, "a@b.c", found["email"])

	_, ok = store.GetByID("users", "missing")
	assert.False(t, ok)
}

func TestCountWithPredicate(t *testing.T) {
	store := newTestStore(t)

	for _, status := range []string{"pending", "pending", "completed"} {
		_, err := store.Insert("tasks", Record{"status": status})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, store.Count("tasks", nil))
	assert.Equal(t, 2, store.Count("tasks", func(r Record) bool { return r["status"] == "pending" }))
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path, map[string][]Record{
		"departments": {{"id": "dept-1", "name": "Sales"}},
	})
	require.NoError(t, err)

	_, err = store.Insert("users", Record{"email": "a@b.c"})
	require.NoError(t, err)
	require.NoError(t, store.SetCurrentUser(Record{"id": "user-1"}))

	reopened, err := Open(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, reopened.Count("departments", nil))
	assert.Equal(t, 1, reopened.Count("users", nil))
	current := reopened.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "user-1", current["id"])

	require.NoError(t, reopened.ClearCurrentUser())
	assert.Nil(t, reopened.CurrentUser())
}

func TestSeedOnlyAppliesToFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path, map[string][]Record{"users": {{"id": "user-1"}}})
	require.NoError(t, err)
	require.NoError(t, store.Delete("users", "user-1"))

	reopened, err := Open(path, map[string][]Record{"users": {{"id": "user-1"}}})
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Count("users", nil), "seed must not reapply over an existing snapshot")
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.Insert("tasks", Record{"title": "original"})
	require.NoError(t, err)
	inserted["title"] = "mutated"

	found, ok := store.GetByID("tasks", inserted["id"].(string))
	require.True(t, ok)
	assert.Equal(t, "original", found["title"])
}

package localstore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskdesk/pkg/errors"
)

func newQueryStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)

	messages := []Record{
		{"id": "m1", "sender_id": "alice", "receiver_id": "bob", "content": "hi", "created_at": "2024-01-01T10:00:00Z"},
		{"id": "m2", "sender_id": "bob", "receiver_id": "alice", "content": "hello", "created_at": "2024-01-01T11:00:00Z"},
		{"id": "m3", "sender_id": "alice", "receiver_id": "carol", "content": "hey", "created_at": "2024-01-01T12:00:00Z"},
		{"id": "m4", "sender_id": "carol", "receiver_id": "bob", "content": "yo", "created_at": "2024-01-01T13:00:00Z"},
	}
	for _, m := range messages {
		_, err := store.Insert("messages", m)
		require.NoError(t, err)
	}
	return store
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["id"].(string))
	}
	return out
}

func TestExecuteEqFilter(t *testing.T) {
	store := newQueryStore(t)

	records, err := store.Execute(Query{
		Collection: "messages",
		Filters:    []Condition{Eq("sender_id", "alice")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m3"}, ids(records))
}

func TestExecuteNeqFilter(t *testing.T) {
	store := newQueryStore(t)

	records, err := store.Execute(Query{
		Collection: "messages",
		Filters:    []Condition{Neq("sender_id", "alice")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m4"}, ids(records))
}

func TestExecuteOrPairCondition(t *testing.T) {
	store := newQueryStore(t)

	or := fmt.Sprintf("and(sender_id.eq.%s,receiver_id.eq.%s),and(sender_id.eq.%s,receiver_id.eq.%s)",
		"alice", "bob", "bob", "alice")
	records, err := store.Execute(Query{
		Collection: "messages",
		Or:         or,
		OrderBy:    "created_at",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids(records))
}

func TestExecuteOrderDescendingWithLimit(t *testing.T) {
	store := newQueryStore(t)

	records, err := store.Execute(Query{
		Collection: "messages",
		OrderBy:    "created_at",
		Descending: true,
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m4", "m3"}, ids(records))
}

func TestExecuteSingle(t *testing.T) {
	store := newQueryStore(t)

	record, err := store.ExecuteSingle(Query{
		Collection: "messages",
		Filters:    []Condition{Eq("id", "m2")},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", record["content"])

	_, err = store.ExecuteSingle(Query{
		Collection: "messages",
		Filters:    []Condition{Eq("id", "nope")},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExecuteMaybeSingle(t *testing.T) {
	store := newQueryStore(t)

	record, err := store.ExecuteMaybeSingle(Query{
		Collection: "messages",
		Filters:    []Condition{Eq("id", "nope")},
	})
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestParseOrConditionLeaves(t *testing.T) {
	pred, err := ParseOrCondition("status.eq.pending,status.eq.completed")
	require.NoError(t, err)

	assert.True(t, pred(Record{"status": "pending"}))
	assert.True(t, pred(Record{"status": "completed"}))
	assert.False(t, pred(Record{"status": "overdue"}))
}

func TestParseOrConditionMalformed(t *testing.T) {
	_, err := ParseOrCondition("and(sender_id.eq.a")
	assert.Error(t, err)

	_, err = ParseOrCondition("sender_id.gt.a")
	assert.Error(t, err)

	_, err = ParseOrCondition("")
	assert.Error(t, err)
}

func TestCompareValuesNumeric(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)

	for _, n := range []float64{10, 2, 33} {
		_, err := store.Insert("nums", Record{"n": n})
		require.NoError(t, err)
	}

	records, err := store.Execute(Query{Collection: "nums", OrderBy: "n"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{2.0, 10.0, 33.0}, []interface{}{records[0]["n"], records[1]["n"], records[2]["n"]})
}

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "mindtrace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_KVRoundtrip(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Set("k", "v1"))
	got, ok, err := db.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", got)

	// Set replaces.
	require.NoError(t, db.Set("k", "v2"))
	got, _, err = db.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v2", got)

	require.NoError(t, db.Delete("k"))
	_, ok, err = db.Get("k")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, db.Delete("k"))
}

func TestDB_AppendRecord(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AppendRecord("answers", "user-1", "sess-1", []byte(`{"type":"answers"}`)))
	require.NoError(t, db.AppendRecord("result", "user-1", "sess-1", []byte(`{"type":"result"}`)))
	require.NoError(t, db.AppendRecord("event", "user-2", "sess-2", []byte(`{"type":"event"}`)))

	n, err := db.CountRecords("sess-1")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = db.CountRecords("sess-unknown")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get("k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Set("k", "v"))
	got, ok, err := m.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", got)

	require.NoError(t, m.Delete("k"))
	_, ok, err = m.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

package prefs_sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"anime.bike/mastoshare/pkg/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteStorage_RoundTrip(t *testing.T) {
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.Get(ctx, prefs.DefaultKey)
	assert.ErrorIs(t, err, prefs.ErrNotFound)

	require.NoError(t, s.Set(ctx, prefs.DefaultKey, []byte(`{"version":1}`)))
	require.NoError(t, s.Set(ctx, prefs.DefaultKey, []byte(`{"version":1,"language":"ja"}`)))

	got, err := s.Get(ctx, prefs.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1,"language":"ja"}`, string(got))

	require.NoError(t, s.Remove(ctx, prefs.DefaultKey))
	assert.ErrorIs(t, s.Remove(ctx, prefs.DefaultKey), prefs.ErrNotFound)
}

func TestSqliteStorage_ReopenKeepsDataAndSchema(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	s, err := Open(dbFile, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = Open(dbFile, nil)
	require.NoError(t, err, "schema scripts must not run twice")
	defer s.Close()

	var ver int
	require.NoError(t, s.db.QueryRow("SELECT val FROM sys_params WHERE name='schema_ver'").Scan(&ver))
	assert.Equal(t, schemaVer, ver)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestSqliteStorage_WithStore(t *testing.T) {
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	store := prefs.NewStore(s)
	rec, err := store.SetLanguage(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, "en", rec.Language)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *rec, *got)
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-flock-vault/internal/config"
	"github.com/MKhiriev/go-flock-vault/internal/logger"
)

func newTestSessionStore(t *testing.T) SessionStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := NewSessionStore(context.Background(), config.Session{Path: path}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, s.Save(ctx, "frodo@shire", key))

	session, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "frodo@shire", session.Account)
	assert.Equal(t, key, session.Key)
	assert.False(t, session.SavedAt.IsZero())
}

func TestSessionStore_SaveReplacesPrevious(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "frodo@shire", []byte("key-one-key-one-key-one-key-one!")))
	require.NoError(t, s.Save(ctx, "sam@shire", []byte("key-two-key-two-key-two-key-two!")))

	session, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sam@shire", session.Account)
}

func TestSessionStore_LoadWithoutSave(t *testing.T) {
	s := newTestSessionStore(t)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoLocalSession)
}

func TestSessionStore_Clear(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "frodo@shire", []byte("0123456789abcdef0123456789abcdef")))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoLocalSession)
}

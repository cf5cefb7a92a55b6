package sessions_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := sessions.NewFileStore(path)

	t.Run("empty when missing", func(t *testing.T) {
		sess, err := store.Session(ctx)
		require.NoError(t, err)
		require.Equal(t, sessions.Session{}, sess)
	})

	t.Run("round trip", func(t *testing.T) {
		err := store.SetSession(ctx, sessions.Session{AccessToken: "A1", RefreshToken: "R1", UserID: "u-1"})
		require.NoError(t, err)

		reopened := sessions.NewFileStore(path)
		v, err := reopened.Get(ctx, sessions.FieldRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "R1", v)

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("set session keeps untouched fields", func(t *testing.T) {
		require.NoError(t, store.SetSession(ctx, sessions.Session{AccessToken: "A2"}))
		sess, err := store.Session(ctx)
		require.NoError(t, err)
		require.Equal(t, "A2", sess.AccessToken)
		require.Equal(t, "R1", sess.RefreshToken)
		require.Equal(t, "u-1", sess.UserID)
	})

	t.Run("device id generated once", func(t *testing.T) {
		id, err := store.EnsureDeviceID(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		again, err := store.EnsureDeviceID(ctx)
		require.NoError(t, err)
		require.Equal(t, id, again)
	})

	t.Run("clear keeps device id", func(t *testing.T) {
		id, _ := store.Get(ctx, sessions.FieldDeviceID)
		require.NoError(t, store.Clear(ctx))

		sess, err := store.Session(ctx)
		require.NoError(t, err)
		require.Equal(t, sessions.Session{DeviceID: id}, sess)
	})
}

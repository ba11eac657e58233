package localfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilefarm/internal/app/ports"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := Store{Path: filepath.Join(t.TempDir(), "nested", "farmCurrentUser.json")}

	_, err := s.Current(ctx)
	require.ErrorIs(t, err, ports.ErrNotFound)

	user := ports.UserRecord{Name: "Ada", Email: "ada@example.com", Picture: "https://example.com/a.png"}
	require.NoError(t, s.SignIn(ctx, user))

	got, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	require.NoError(t, s.SignOut(ctx))
	_, err = s.Current(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	require.NoError(t, s.SignOut(ctx), "signing out twice is fine")
}

func TestStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err := Store{Path: path}.Current(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNotFound)
}

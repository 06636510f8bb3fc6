package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoadRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", DefaultName)
	store := NewStore(path, zerolog.Nop())
	addr, err := domain.NewDeviceAddress("192.168.1.40", 37105)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), addr))

	cached, ok := store.Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, addr, cached.Address)
	assert.False(t, cached.SavedAt.IsZero())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ip":"192.168.1.40","port":37105}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(cacheFileMode), info.Mode().Perm())
}

func TestStoreSaveOverwritesPreviousEntry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultName)
	store := NewStore(path, zerolog.Nop())
	first, err := domain.NewDeviceAddress("192.168.1.40", 37105)
	require.NoError(t, err)
	second, err := domain.NewDeviceAddress("192.168.1.41", 40001)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), first))
	require.NoError(t, store.Save(context.Background(), second))

	cached, ok := store.Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, second, cached.Address)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStoreLoadToleratesUnusableContent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `{"ip":`},
		{name: "not an object", content: `[1,2]`},
		{name: "missing ip", content: `{"port":5555}`},
		{name: "empty ip", content: `{"ip":"","port":5555}`},
		{name: "missing port", content: `{"ip":"10.0.0.2"}`},
		{name: "null port", content: `{"ip":"10.0.0.2","port":null}`},
		{name: "non numeric port", content: `{"ip":"10.0.0.2","port":"adb"}`},
		{name: "fractional port", content: `{"ip":"10.0.0.2","port":5555.5}`},
		{name: "port out of range", content: `{"ip":"10.0.0.2","port":70000}`},
		{name: "empty file", content: ``},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultName)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			_, ok := NewStore(path, zerolog.Nop()).Load(context.Background())
			assert.False(t, ok)
		})
	}
}

func TestStoreLoadAcceptsQuotedNumericPort(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultName)
	require.NoError(t, os.WriteFile(path, []byte(`{"ip":"10.0.0.2","port":"5555"}`), 0o600))

	cached, ok := NewStore(path, zerolog.Nop()).Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2:5555", cached.Address.Serial())
}

func TestStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, ok := NewStore(filepath.Join(t.TempDir(), DefaultName), zerolog.Nop()).Load(context.Background())
	assert.False(t, ok)
}

func TestStoreSaveHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), DefaultName)
	addr, err := domain.NewDeviceAddress("10.0.0.2", 5555)
	require.NoError(t, err)

	require.ErrorIs(t, NewStore(path, zerolog.Nop()).Save(ctx, addr), context.Canceled)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

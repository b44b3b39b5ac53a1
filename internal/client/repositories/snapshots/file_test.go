package snapshots

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora-cli/internal/client/session"
)

func validSnapshot() *session.Snapshot {
	return &session.Snapshot{
		User: &session.User{
			ID:        "u-1",
			Email:     "dev@example.com",
			FirstName: "Dana",
			LastName:  "Developer",
			Role:      session.RoleDeveloper,
			IsActive:  true,
			CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		AccessToken:     "at",
		RefreshToken:    "rt",
		IsAuthenticated: true,
	}
}

func TestFileRepository_SaveAndLoad(t *testing.T) {
	r := NewFileRepository(t.TempDir(), nil)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, validSnapshot()))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dev@example.com", got.User.Email)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "rt", got.RefreshToken)
	assert.True(t, got.IsAuthenticated)
}

func TestFileRepository_Load_Absent_ReturnsNilNil(t *testing.T) {
	r := NewFileRepository(t.TempDir(), nil)

	got, err := r.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, got) // контракт: (nil, nil) если записи нет
}

func TestFileRepository_Save_Overwrites(t *testing.T) {
	r := NewFileRepository(t.TempDir(), nil)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, validSnapshot()))

	updated := validSnapshot()
	updated.AccessToken = "at-2"
	require.NoError(t, r.Save(ctx, updated))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "at-2", got.AccessToken)
}

func TestFileRepository_Load_CorruptJSON_SelfHeals(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRepository(dir, nil)
	ctx := context.Background()

	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupt record must be removed")

	got, err = r.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileRepository_Load_RefreshTokenOnly_TreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRepository(dir, nil)
	ctx := context.Background()

	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"user":null,"accessToken":"","refreshToken":"rt-only","isAuthenticated":true}`), 0o600))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileRepository_Clear_RemovesAndIsIdempotent(t *testing.T) {
	r := NewFileRepository(t.TempDir(), nil)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, validSnapshot()))
	require.NoError(t, r.Clear(ctx))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// повторная очистка не должна падать
	require.NoError(t, r.Clear(ctx))
}

func TestFileRepository_Save_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no unix permissions on windows")
	}

	dir := t.TempDir()
	r := NewFileRepository(dir, nil)

	require.NoError(t, r.Save(context.Background(), validSnapshot()))

	fi, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestFileRepository_Save_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRepository(dir, nil)

	require.NoError(t, r.Save(context.Background(), validSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

func TestCredentialRepo_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	err := repo.Set(ctx, "github", "token", "ghp_abc123")
	require.NoError(t, err)

	val, err := repo.Get(ctx, "github", "token")
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc123", val)
}

func TestCredentialRepo_ValueIsEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "monkeytype", "ape_key", "plain-ape-key"))

	var stored string
	err := db.Reader.QueryRowContext(ctx, `SELECT value FROM credentials WHERE service = ? AND key = ?`, "monkeytype", "ape_key").Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "plain-ape-key")
}

func TestCredentialRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	val, err := repo.Get(context.Background(), "github", "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestCredentialRepo_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "spotify", "refresh_token", "old-value"))
	require.NoError(t, repo.Set(ctx, "spotify", "refresh_token", "new-value"))

	val, err := repo.Get(ctx, "spotify", "refresh_token")
	require.NoError(t, err)
	assert.Equal(t, "new-value", val)

	creds, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, creds, 1)
}

func TestCredentialRepo_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "spotify", "client_secret", "secret"))
	require.NoError(t, repo.Set(ctx, "github", "token", "ghp_abc"))
	require.NoError(t, repo.Set(ctx, "spotify", "client_id", "id"))

	creds, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 3)

	assert.Equal(t, "github", creds[0].Service)
	assert.Equal(t, "token", creds[0].Key)
	assert.Equal(t, "ghp_abc", creds[0].Value)
	assert.False(t, creds[0].UpdatedAt.IsZero())
	assert.Equal(t, "client_id", creds[1].Key)
	assert.Equal(t, "client_secret", creds[2].Key)
}

func TestCredentialRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "github", "token", "ghp_abc"))
	require.NoError(t, repo.Delete(ctx, "github", "token"))

	val, err := repo.Get(ctx, "github", "token")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestCredentialRepo_DeleteNonexistent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	err := repo.Delete(context.Background(), "github", "nonexistent")
	assert.NoError(t, err, "deleting nonexistent credential should not error")
}

func TestCredentialRepo_NoKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, nil)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Set(ctx, "github", "token", "x"), driven.ErrEncryptionKeyNotSet)

	_, err := repo.Get(ctx, "github", "token")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestCredentialRepo_WrongKeyFailsToDecrypt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewCredentialRepo(db, testKey).Set(ctx, "github", "token", "ghp_abc"))

	other := NewCredentialRepo(db, []byte("fedcba9876543210fedcba9876543210"))
	_, err := other.Get(ctx, "github", "token")
	assert.Error(t, err)
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livestats.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, path, db.Path())

	repo := NewCredentialRepo(db, testKey)
	require.NoError(t, repo.Set(context.Background(), "github", "token", "ghp_file"))

	val, err := repo.Get(context.Background(), "github", "token")
	require.NoError(t, err)
	assert.Equal(t, "ghp_file", val)
}

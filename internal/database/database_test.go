package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/models"
)

func newRecord(hash string, source models.CheckSource, at time.Time) *models.CheckRecord {
	return &models.CheckRecord{
		ID:          uuid.New().String(),
		RequestHash: hash,
		Category:    "Voting Process",
		HasMedia:    false,
		Status:      models.StatusLikelyMisleading,
		IsHarmful:   false,
		Source:      source,
		Provider:    "gemini",
		DurationMs:  120,
		ResultJSON:  `{"status":"Likely Misleading"}`,
		CreatedAt:   at.UTC(),
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	hash := uuid.New().String()

	got, err := store.GetCheckByHash(ctx, hash)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.SaveCheck(ctx, newRecord(hash, models.SourceRemote, base)))
	latest := newRecord(hash, models.SourceRemote, base.Add(time.Minute))
	latest.Status = models.StatusUnverifiable
	require.NoError(t, store.SaveCheck(ctx, latest))
	require.NoError(t, store.SaveCheck(ctx, newRecord(hash, models.SourceFallback, base.Add(2*time.Minute))))

	got, err = store.GetCheckByHash(ctx, hash)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, latest.ID, got.ID)
	assert.Equal(t, models.StatusUnverifiable, got.Status)
	assert.Equal(t, models.SourceRemote, got.Source)
	assert.Equal(t, "gemini", got.Provider)
	assert.JSONEq(t, latest.ResultJSON, got.ResultJSON)

	records, err := store.ListChecks(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	entry := &models.AuditLog{
		ID:           uuid.New().String(),
		SessionID:    "session-1",
		Endpoint:     "/api/v1/health",
		Method:       "GET",
		RequestSize:  0,
		ResponseCode: 200,
		DurationMs:   3,
		Timestamp:    time.Now().UTC(),
	}
	require.NoError(t, store.LogRequest(ctx, entry))

	logs, err := store.GetAuditLogs(ctx, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "session-1", logs[0].SessionID)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "techvote.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)

	// Migrations are idempotent.
	assert.NoError(t, store.Migrate())
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TECHVOTE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TECHVOTE_TEST_POSTGRES_URL not set")
	}

	store, err := NewPostgresStore(context.Background(), url)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), config.DatabaseConfig{Driver: "none"})
	assert.NoError(t, err)
	assert.Nil(t, store)

	_, err = Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)

	store, err = Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}

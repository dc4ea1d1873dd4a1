package mysql

import (
	"context"
	"os"
	"testing"

	"github.com/hardwayp3nny/ioweb/internal/config"
	"github.com/hardwayp3nny/ioweb/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn, config.DBConfig{MaxDBConnections: 2, MinDBConnections: 1}, "trend_test", zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.db.Where("snapshot_key = ?", "trend_test").Delete(&SnapshotRecord{}).Error)

	_, err = store.Read(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Write(ctx, []byte(`{"v":1}`)))
	require.NoError(t, store.Write(ctx, []byte(`{"v":2}`)))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))
	assert.NoError(t, store.HealthCheck(ctx))
}

func TestSnapshotRecord_TableName(t *testing.T) {
	assert.Equal(t, "snapshots", SnapshotRecord{}.TableName())
}

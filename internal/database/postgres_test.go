package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/database"
	"github.com/MihaiIliescu/egeria/pkg/metrics"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared&mode=memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpenRejectsMemoryDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "memory"})
	assert.Error(t, err)
}

func TestReportPoolStats(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.Exec("SELECT 1").Error)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	database.ReportPoolStats(ctx, db, "pool-test", time.Millisecond, zap.NewNop())

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DBOpenConns.WithLabelValues("pool-test")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.DBInUseConns.WithLabelValues("pool-test")))
}

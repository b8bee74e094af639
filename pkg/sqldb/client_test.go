package sqldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestNewClient_SQLite(t *testing.T) {
	client, err := NewClient(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db"), LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	var one int
	require.NoError(t, client.DB().Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewClient_Unsupported(t *testing.T) {
	_, err := NewClient(Config{Driver: "oracle"})
	assert.Error(t, err)

	_, err = NewClient(Config{Driver: DriverSQLite})
	assert.Error(t, err)
}

func TestGormLevels(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLevels["silent"])
	_, ok := gormLevels["verbose"]
	assert.False(t, ok)
}

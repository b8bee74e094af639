package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-lock-ledger/pkg/sqldb"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10, cfg.Ledger.Capacity)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, "accounts.txt", cfg.Storage.AccountsFile)
	assert.Equal(t, "transaction_log.txt", cfg.Storage.LogFile)
	assert.Equal(t, ":50051", cfg.GRPC.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.SyncLog())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
ledger:
  capacity: 3
storage:
  accounts_file: /tmp/a.txt
  sync: false
mysql:
  host: db
  user: ledger
  password: secret
  db_name: ledger
  conn_max_lifetime: 5m
grpc:
  addr: "127.0.0.1:9000"
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Ledger.Capacity)
	assert.Equal(t, "/tmp/a.txt", cfg.Storage.AccountsFile)
	assert.Equal(t, "transaction_log.txt", cfg.Storage.LogFile)
	assert.False(t, cfg.SyncLog())
	assert.Equal(t, "127.0.0.1:9000", cfg.GRPC.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Minute, cfg.MySQL.ConnMaxLifetime)

	sql := cfg.SQL()
	assert.Equal(t, sqldb.DriverMySQL, sql.Driver)
	assert.Equal(t, "db", sql.Host)
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Ledger.Capacity)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Minute, cfg.MySQL.ConnMaxLifetime)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative capacity", "ledger:\n  capacity: -1\n"},
		{"unknown driver", "storage:\n  driver: redis\n"},
		{"mirror without file driver", "storage:\n  driver: sqlite\n  mirror: true\n"},
		{"bad yaml", "ledger: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestSQL_SQLite(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = StorageSQLite
	cfg.Storage.SQLitePath = "x.db"
	sql := cfg.SQL()
	assert.Equal(t, sqldb.DriverSQLite, sql.Driver)
	assert.Equal(t, "x.db", sql.DSN())

	// 鏡像但沒有 mysql host 時退回 sqlite
	cfg = Default()
	cfg.Storage.Mirror = true
	assert.Equal(t, sqldb.DriverSQLite, cfg.SQL().Driver)
}

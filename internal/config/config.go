package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-lock-ledger/pkg/logger"
	"github.com/JoeShih716/go-lock-ledger/pkg/sqldb"
)

// DefaultPath 預設設定檔路徑
const DefaultPath = "config/config.yaml"

// StorageDriver 持久化方式
type StorageDriver string

const (
	StorageFile   StorageDriver = "file"
	StorageMySQL  StorageDriver = "mysql"
	StorageSQLite StorageDriver = "sqlite"
)

type Config struct {
	Ledger  LedgerConfig  `yaml:"ledger"`
	Storage StorageConfig `yaml:"storage"`
	MySQL   sqldb.Config  `yaml:"mysql"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	Log     logger.Config `yaml:"log"`
}

type LedgerConfig struct {
	Capacity int `yaml:"capacity"`
}

type StorageConfig struct {
	Driver       StorageDriver `yaml:"driver"`
	AccountsFile string        `yaml:"accounts_file"`
	LogFile      string        `yaml:"log_file"`
	// Mirror 為 true 時，檔案之外同時寫一份到 SQL (mysql 區塊或 sqlite_path)
	Mirror     bool   `yaml:"mirror"`
	SQLitePath string `yaml:"sqlite_path"`
	Sync       *bool  `yaml:"sync"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// Default 全部使用預設值的設定
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load 讀取 YAML 設定檔並補全預設值，檔案不存在時回傳預設設定
func Load(path string) (Config, error) {
	cfgData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SyncLog 交易日誌追加後是否 fsync (預設 true)
func (c *Config) SyncLog() bool {
	return c.Storage.Sync == nil || *c.Storage.Sync
}

// SQL 回傳 SQL gateway 使用的連線設定
func (c *Config) SQL() sqldb.Config {
	if c.Storage.Driver == StorageSQLite || (c.Storage.Mirror && c.MySQL.Host == "") {
		return sqldb.Config{Driver: sqldb.DriverSQLite, Path: c.Storage.SQLitePath, LogLevel: c.MySQL.LogLevel}
	}
	cfg := c.MySQL
	cfg.Driver = sqldb.DriverMySQL
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Ledger.Capacity == 0 {
		c.Ledger.Capacity = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageFile
	}
	if c.Storage.AccountsFile == "" {
		c.Storage.AccountsFile = "accounts.txt"
	}
	if c.Storage.LogFile == "" {
		c.Storage.LogFile = "transaction_log.txt"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "ledger.db"
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Ledger.Capacity < 0 {
		return errors.Errorf("ledger.capacity must not be negative, got %d", c.Ledger.Capacity)
	}
	switch c.Storage.Driver {
	case StorageFile, StorageMySQL, StorageSQLite:
	default:
		return errors.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.Mirror && c.Storage.Driver != StorageFile {
		return errors.New("storage.mirror only applies to the file driver")
	}
	return nil
}

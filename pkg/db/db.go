package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/datakey"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// MigrationsTable records the applied schema version.
const MigrationsTable = "aiact_schema_migrations"

type Config struct {
	// URL falls back to DATABASE_URL.
	URL string
	// Cipher seals provider keys in model hooks. Optional.
	Cipher datakey.Cipher

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a Postgres session. SQL is logged only at debug level.
func Connect(cfg Config) (*gorm.DB, error) {
	url := cfg.URL
	if url == "" {
		url = URL()
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	level := gormlogger.Silent
	if logger.LevelFromEnv() == zapcore.DebugLevel {
		level = gormlogger.Info
	}

	conn, err := gorm.Open(
		// simple protocol keeps pgbouncer in transaction mode usable
		postgres.New(postgres.Config{DSN: url, PreferSimpleProtocol: true}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(level)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return WithCipher(conn, cfg.Cipher), nil
}

// WithCipher returns a session whose statements carry cipher in their context.
func WithCipher(conn *gorm.DB, cipher datakey.Cipher) *gorm.DB {
	if cipher == nil {
		return conn
	}
	return conn.WithContext(model.WithCipher(conn.Statement.Context, cipher))
}

// URL is DATABASE_URL, or "" when unset.
func URL() string {
	return os.Getenv("DATABASE_URL")
}

// MigrationURL points golang-migrate at MigrationsTable.
func MigrationURL(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "x-migrations-table=" + MigrationsTable
}

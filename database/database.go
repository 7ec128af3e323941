// Package database opens the relational store behind every operation.
package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/junaidrashid-git/glowhub/models"
)

// Open connects to the store named by url. postgres:// and key=value DSNs go
// to Postgres; sqlite:// and file: DSNs go to SQLite with foreign keys on.
func Open(url string, verbose bool, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(url)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(log, verbose),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect DB: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return nil
}

func dialectorFor(url string) (gorm.Dialector, error) {
	url = strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"), strings.Contains(url, "host="):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(SQLiteDSN(strings.TrimPrefix(url, "sqlite://"))), nil
	case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"):
		return sqlite.Open(SQLiteDSN(url)), nil
	}
	return nil, fmt.Errorf("unsupported DATABASE_URL %q", url)
}

// SQLiteDSN turns a path or file: URI into a DSN with foreign keys enforced.
// Transactions begin IMMEDIATE, so concurrent writers queue on the write lock
// for up to the busy timeout instead of failing with "database is locked".
func SQLiteDSN(path string) string {
	for _, opt := range sqliteOptions {
		if hasOption(path, opt.keys...) {
			continue
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + opt.keys[0] + "=" + opt.value
	}
	return path
}

var sqliteOptions = []struct {
	keys  []string
	value string
}{
	{[]string{"_foreign_keys", "_fk"}, "1"},
	{[]string{"_txlock"}, "immediate"},
	{[]string{"_busy_timeout", "_timeout"}, "5000"},
}

func hasOption(dsn string, keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(dsn, k+"=") {
			return true
		}
	}
	return false
}

func newLogger(log *zap.Logger, verbose bool) logger.Interface {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return logger.New(zapWriter{log.Sugar()}, logger.Config{
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// zapWriter lets gorm's logger print through zap.
type zapWriter struct {
	s *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.s.Infof(format, args...)
}

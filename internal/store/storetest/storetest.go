// Package storetest provides an in-memory database for tests.
package storetest

import (
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-records-server/internal/models"
)

var seq atomic.Int64

// NewDB opens a migrated, private in-memory SQLite database that is closed
// when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := Open(t)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// Open is NewDB without the schema, for tests that lay out tables themselves.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:clinic_test_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := models.Open(sqlite.Open(dsn), zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("access test connection pool: %v", err)
	}
	// Every new connection to a memory DSN would see an empty database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

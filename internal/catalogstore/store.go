package catalogstore

import (
	"fmt"
	"os"
	"path/filepath"

	glebarezsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver selects which GORM sqlite dialector backs a Store — grounded on
// the teacher's go.mod, which ships both the cgo driver
// (gorm.io/driver/sqlite) and a pure-Go one (glebarez/sqlite) side by side
// for the same reason: avoid a cgo requirement on the default path while
// still allowing the faster cgo driver where available.
type Driver string

const (
	// DriverPureGo uses github.com/glebarez/sqlite — no cgo required.
	DriverPureGo Driver = "pure-go"
	// DriverCGO uses gorm.io/driver/sqlite (mattn/go-sqlite3 under the hood).
	DriverCGO Driver = "cgo"
)

// Connect opens (creating if absent) a sqlite-backed catalog store at dsn
// and runs migrations, mirroring the teacher's db.Connect shape
// (directory creation, PRAGMA foreign_keys, migrate-then-return) minus the
// libsql/remote-DSN branch, which has no caller here (DESIGN.md).
func Connect(dsn string, driver Driver, debug bool) (*gorm.DB, error) {
	if dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("catalogstore: create directory: %w", err)
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverCGO:
		dialector = sqlite.Open(dsn)
	default:
		dialector = glebarezsqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("catalogstore: connect: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("catalogstore: migrate: %w", err)
	}
	return db, nil
}

// Migrate runs the catalog store's schema migration.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TypeRow{}, &ContainerProfileRow{}, &OperatorRow{})
}

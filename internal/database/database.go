// Package database owns the sqlite connection setup and the construction of
// store pools. Domain operations live in the books sub-package.
package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bookstore "github.com/sdallo/bookshelf/internal/books"
	dbbooks "github.com/sdallo/bookshelf/internal/database/books"
	"github.com/sdallo/bookshelf/internal/entities"
	"github.com/sdallo/bookshelf/internal/pool"
)

// dsnOptions are mattn/go-sqlite3 connection parameters: WAL journaling with
// relaxed syncing for a desktop workload, and enforced foreign keys so
// author/tag rows cannot outlive their book.
const dsnOptions = "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the catalog database at dbPath and brings
// its schema up to date.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+dsnOptions), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Author{},
		&entities.Tag{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewStorePool builds a pool of minSize exclusive store handles backed by
// the sqlite database at dbPath. Each pooled handle owns its own
// connection; the first one to open also runs the migrations.
func NewStorePool(dbPath string, minSize int) (*bookstore.StorePool, error) {
	p, err := pool.New(minSize, func() (bookstore.Store, error) {
		db, err := NewDatabase(dbPath)
		if err != nil {
			return nil, err
		}
		return dbbooks.NewRepository(db.DB), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed store pool for %s: %w", dbPath, err)
	}
	log.Printf("Store pool initialized with %d handles at %s", minSize, dbPath)
	return p, nil
}

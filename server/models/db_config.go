package models

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Daskott/rolodex/utils"
	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "rolodex.db"

// OpenDB opens (or creates) the encrypted sqlite database that lives in
// '<dbRootDir>/db' and migrates its schema.
func OpenDB(passPhrase string, dbRootDir string, devMode bool) (*gorm.DB, error) {
	dbFilePath, err := DbFilePath(dbRootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
	}

	return open(fileDSN(dbFilePath, passPhrase), devMode)
}

// AutoMigrate auto-migrates the db schema
func AutoMigrate(db *gorm.DB) error {
	// The join table must be registered before the tables that use it are migrated
	err := db.SetupJoinTable(&Contact{}, "Groups", &ContactMembership{})
	if err != nil {
		return err
	}

	err = db.SetupJoinTable(&Group{}, "Contacts", &ContactMembership{})
	if err != nil {
		return err
	}

	return db.AutoMigrate(&Group{}, &Contact{}, &ContactMembership{}, &Phone{}, &Email{})
}

// InitializeTestDb returns a Store backed by a fresh, migrated in-memory
// database. Each call gets its own database so tests can't see each other's rows.
func InitializeTestDb() *Store {
	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())

	db, err := open(dsn, false)
	if err != nil {
		log.Panic(err)
	}

	if err = AutoMigrate(db); err != nil {
		log.Panic(err)
	}

	return NewStore(db)
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

func DbFilePath(dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dbDir, DB_NAME), nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func open(dsn string, devMode bool) (*gorm.DB, error) {
	logLevel := gormLogger.Silent
	if devMode {
		logLevel = gormLogger.Info
	}

	db, err := gorm.Open(sqliteEncrypt.Open(dsn), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  logLevel,
				IgnoreRecordNotFoundError: true,
				Colorful:                  devMode,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; sharing one connection also keeps
	// per-connection pragmas (foreign_keys) in effect for every query
	sqlDB.SetMaxOpenConns(1)

	if err = db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	return db, nil
}

func fileDSN(dbFilePath, passPhrase string) string {
	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL&_foreign_keys=1",
		dbFilePath,
		passPhrase,
	)
}

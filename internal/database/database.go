package database

import (
	"log"
	"strings"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/domain/upload"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens Postgres for postgres:// DSNs and SQLite otherwise.
func Connect(dsn string) (*gorm.DB, error) {
	return open(dsn, &gorm.Config{})
}

func open(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg.NowFunc == nil {
		cfg.NowFunc = domain.Now
	}
	if IsPostgresDSN(dsn) {
		log.Println("Connecting to PostgreSQL...")
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		return db, nil
	}

	log.Println("Using SQLite for local development:", dsn)

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection serializes transactions.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenSilent is Connect with the gorm logger muted. Used by tests and CLI jobs.
func OpenSilent(dsn string) (*gorm.DB, error) {
	return open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// Models lists every table owned by the application.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.ClientProfile{},
		&domain.WorkerProfile{},
		&domain.WorkerDetails{},
		&domain.Publication{},
		&domain.Offer{},
		&domain.Chat{},
		&domain.Message{},
		&domain.Review{},
		&domain.VerificationDocument{},
		&domain.PasswordReset{},
		&upload.Upload{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

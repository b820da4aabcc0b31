package postgres

import (
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MustInitDB opens the pool. The schema is owned by the SQL migrations,
// AutoMigrate is not used because it cannot create the constraints and triggers.
func MustInitDB(cfg *config.AuctionConfig) *gorm.DB {
	db, err := Open(cfg.AuctionDB.Dsn)
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}
	return db
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             500 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gopherai-qa/internal/model"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	Debug        bool
}

func New(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	logLevel := logger.Warn
	if opts.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get postgres sql db failed: %w", err)
	}

	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 20
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres failed: %w", err)
	}

	return db, nil
}

// Migrate enables pgvector and creates the tables. Answers reference questions
// with ON DELETE CASCADE.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("create vector extension failed: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(
		&model.Question{},
		&model.Answer{},
		&model.DocumentChunk{},
		&model.SearchLog{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

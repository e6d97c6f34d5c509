package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kilroy/internal/kilroy"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&kilroy.PlaceMetadata{},
		&kilroy.Kilroy{},
	); err != nil {
		return err
	}

	// Listing is always (place, created_at desc), optionally narrowed by
	// circle; both shapes get a covering index.
	stmts := []string{
		`create index if not exists idx_kilroys_place_created on kilroys(place_id, created_at desc);`,
		`create index if not exists idx_kilroys_place_circle_created on kilroys(place_id, circle, created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

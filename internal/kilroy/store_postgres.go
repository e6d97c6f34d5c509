package kilroy

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kilroy/internal/circle"
)

// PostgresStore backs the repository with Postgres via gorm.
type PostgresStore struct {
	DB *gorm.DB
}

func (s *PostgresStore) GetPlace(ctx context.Context, placeID string) (*PlaceMetadata, error) {
	var meta PlaceMetadata
	err := s.DB.WithContext(ctx).Where("place_id = ?", placeID).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *PostgresStore) SavePlace(ctx context.Context, meta *PlaceMetadata) error {
	// Two concurrent first-posters may both reach this write; the
	// content is identical either way, so the conflict is ignored.
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(meta).Error
}

func (s *PostgresStore) SaveKilroy(ctx context.Context, k *Kilroy) error {
	return s.DB.WithContext(ctx).Create(k).Error
}

func (s *PostgresStore) ListKilroys(ctx context.Context, placeID string, c *circle.Circle) ([]Kilroy, error) {
	q := s.DB.WithContext(ctx).Where("place_id = ?", placeID)
	if c != nil {
		q = q.Where("circle = ?", *c)
	}

	var rows []Kilroy
	if err := q.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresStore) HasKilroys(ctx context.Context, placeID string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&Kilroy{}).Where("place_id = ?", placeID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ Store = (*PostgresStore)(nil)

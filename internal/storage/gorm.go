package storage

import (
	"context"
	"errors"
	"time"

	"fenix-certificates/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend stores snapshots as rows of domain.Snapshot (sqlite or postgres).
type GormBackend struct {
	DB *gorm.DB
}

func (g *GormBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var snap domain.Snapshot
	if err := g.DB.WithContext(ctx).Where("snapshot_key = ?", key).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return []byte(snap.Payload), nil
}

// Save upserts the row for key.
func (g *GormBackend) Save(ctx context.Context, key string, payload []byte) error {
	snap := domain.Snapshot{
		Key:       key,
		Payload:   datatypes.JSON(payload),
		UpdatedAt: time.Now().UTC(),
	}
	return g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snap).Error
}

func (g *GormBackend) Delete(ctx context.Context, key string) error {
	return g.DB.WithContext(ctx).Where("snapshot_key = ?", key).Delete(&domain.Snapshot{}).Error
}

package training

import (
	"context"

	"github.com/google/uuid"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type StatSnapshotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, snapshots []*types.StatSnapshot) ([]*types.StatSnapshot, error)
	LatestByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.StatSnapshot, error)
}

type statSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) StatSnapshotRepo {
	repoLog := baseLog.With("repo", "StatSnapshotRepo")
	return &statSnapshotRepo{db: db, log: repoLog}
}

func (r *statSnapshotRepo) Create(ctx context.Context, tx *gorm.DB, snapshots []*types.StatSnapshot) ([]*types.StatSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(snapshots) == 0 {
		return []*types.StatSnapshot{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *statSnapshotRepo) LatestByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.StatSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StatSnapshot
	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("computed_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

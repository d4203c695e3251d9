package training

import (
	"context"

	"github.com/google/uuid"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type ShotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, shots []*types.Shot) ([]*types.Shot, error)
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.Shot, error)
	CountBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) (int64, error)
}

type shotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShotRepo(db *gorm.DB, baseLog *logger.Logger) ShotRepo {
	repoLog := baseLog.With("repo", "ShotRepo")
	return &shotRepo{db: db, log: repoLog}
}

func (r *shotRepo) Create(ctx context.Context, tx *gorm.DB, shots []*types.Shot) ([]*types.Shot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(shots) == 0 {
		return []*types.Shot{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&shots).Error; err != nil {
		return nil, err
	}
	return shots, nil
}

func (r *shotRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.Shot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Shot
	if len(sessionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order(`session_id, "index" ASC`).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *shotRepo) CountBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessionIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Shot{}).
		Where("session_id IN ?", sessionIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package training

import (
	"context"

	"github.com/google/uuid"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Client, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Client, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) error
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	repoLog := baseLog.With("repo", "ClientRepo")
	return &clientRepo{db: db, log: repoLog}
}

func (r *clientRepo) Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(clients) == 0 {
		return []*types.Client{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Client
	if len(clientIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", clientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Client
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(clientIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", clientIDs).
		Delete(&types.Client{}).Error; err != nil {
		return err
	}
	return nil
}

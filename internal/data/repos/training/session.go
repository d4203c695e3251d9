package training

import (
	"context"

	"github.com/google/uuid"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.Session, error)
	GetByClientIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Session, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessions) == 0 {
		return []*types.Session{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Session
	if len(sessionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionRepo) GetByClientIDs(ctx context.Context, tx *gorm.DB, clientIDs []uuid.UUID) ([]*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Session
	if len(clientIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id IN ?", clientIDs).
		Order("held_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

package content

import (
	"context"

	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

// EventRepo is write-only: events feed the Redis bus for live consumers, and
// the table is read out-of-band for analysis.
type EventRepo interface {
	Append(ctx context.Context, tx *gorm.DB, events []*types.GenerationEvent) ([]*types.GenerationEvent, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (r *eventRepo) Append(ctx context.Context, tx *gorm.DB, events []*types.GenerationEvent) ([]*types.GenerationEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(events) == 0 {
		return []*types.GenerationEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

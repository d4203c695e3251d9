package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/shotline/shotline-backend/internal/domain"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointerRepo keeps the single mutable "current version" row per
// (subject, content kind). No history: last writer wins.
type PointerRepo interface {
	Get(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, contentKind string) (*types.ActivePointer, error)
	Set(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, contentKind string, versionID uuid.UUID, actor string) error
}

type pointerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPointerRepo(db *gorm.DB, baseLog *logger.Logger) PointerRepo {
	repoLog := baseLog.With("repo", "PointerRepo")
	return &pointerRepo{db: db, log: repoLog}
}

func (r *pointerRepo) Get(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, contentKind string) (*types.ActivePointer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ActivePointer
	if err := transaction.WithContext(ctx).
		Where("subject_id = ? AND content_kind = ?", subjectID, contentKind).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *pointerRepo) Set(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, contentKind string, versionID uuid.UUID, actor string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if subjectID == uuid.Nil || versionID == uuid.Nil || contentKind == "" {
		return pkgerrors.ErrInvalidArgument
	}

	pointer := &types.ActivePointer{
		ID:              uuid.New(),
		SubjectID:       subjectID,
		ContentKind:     contentKind,
		ActiveVersionID: versionID,
		UpdatedBy:       actor,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "subject_id"}, {Name: "content_kind"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"active_version_id": versionID,
				"updated_by":        actor,
				"updated_at":        pointer.UpdatedAt,
			}),
		}).
		Create(pointer).Error; err != nil {
		return err
	}
	return nil
}

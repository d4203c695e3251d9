package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	types "github.com/shotline/shotline-backend/internal/domain"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

// VersionRepo is the append-only version ledger. There are deliberately no
// update or delete methods: a ContentVersion row is immutable once written.
type VersionRepo interface {
	// Append inserts a single version. Returns pkgerrors.ErrWriteConflict when
	// (subject_id, thread_id, version_index) is already taken.
	Append(ctx context.Context, tx *gorm.DB, version *types.ContentVersion) (*types.ContentVersion, error)
	Latest(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string) (*types.ContentVersion, error)
	FindByHash(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string, dataHash string) (*types.ContentVersion, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.ContentVersion, error)
	ListByThread(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string) ([]*types.ContentVersion, error)
}

type versionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVersionRepo(db *gorm.DB, baseLog *logger.Logger) VersionRepo {
	repoLog := baseLog.With("repo", "VersionRepo")
	return &versionRepo{db: db, log: repoLog}
}

const pgUniqueViolation = "23505"

func (r *versionRepo) Append(ctx context.Context, tx *gorm.DB, version *types.ContentVersion) (*types.ContentVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if version == nil {
		return nil, pkgerrors.ErrInvalidArgument
	}

	if err := transaction.WithContext(ctx).Create(version).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, pkgerrors.ErrWriteConflict
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.ErrWriteConflict
		}
		return nil, err
	}
	return version, nil
}

func (r *versionRepo) Latest(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string) (*types.ContentVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentVersion
	if err := transaction.WithContext(ctx).
		Where("subject_id = ? AND thread_id = ?", subjectID, threadID).
		Order("version_index DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *versionRepo) FindByHash(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string, dataHash string) (*types.ContentVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentVersion
	if err := transaction.WithContext(ctx).
		Where("subject_id = ? AND thread_id = ? AND data_hash = ?", subjectID, threadID, dataHash).
		Order("version_index DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *versionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.ContentVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentVersion
	if len(versionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", versionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *versionRepo) ListByThread(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string) ([]*types.ContentVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentVersion
	if err := transaction.WithContext(ctx).
		Where("subject_id = ? AND thread_id = ?", subjectID, threadID).
		Order("version_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

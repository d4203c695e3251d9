package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	trainingrepo "github.com/shotline/shotline-backend/internal/data/repos/training"
	types "github.com/shotline/shotline-backend/internal/domain"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

// ShotInput is one recorded shot. Offsets are millimeters from target
// center; positive X is right, positive Y is high.
type ShotInput struct {
	Index   int     `json:"index"`
	Score   float64 `json:"score"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

type SessionService interface {
	Create(ctx context.Context, userID, clientID uuid.UUID, location, notes string, heldAt time.Time, shots []ShotInput) (*types.Session, error)
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*types.Session, []*types.Shot, error)
	ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]*types.Session, error)
}

type sessionService struct {
	db            *gorm.DB
	log           *logger.Logger
	clientService ClientService
	sessionRepo   trainingrepo.SessionRepo
	shotRepo      trainingrepo.ShotRepo
	statsService  StatsService
}

func NewSessionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clientService ClientService,
	sessionRepo trainingrepo.SessionRepo,
	shotRepo trainingrepo.ShotRepo,
	statsService StatsService,
) SessionService {
	return &sessionService{
		db:            db,
		log:           baseLog.With("service", "SessionService"),
		clientService: clientService,
		sessionRepo:   sessionRepo,
		shotRepo:      shotRepo,
		statsService:  statsService,
	}
}

// centeredRadius is the offset (mm) inside which a shot counts as centered.
const centeredRadius = 20.0

func (ss *sessionService) Create(
	ctx context.Context,
	userID, clientID uuid.UUID,
	location, notes string,
	heldAt time.Time,
	shots []ShotInput,
) (*types.Session, error) {
	if _, err := ss.clientService.Get(ctx, userID, clientID); err != nil {
		return nil, err
	}
	if len(shots) == 0 {
		return nil, fmt.Errorf("%w: a session needs at least one shot", pkgerrors.ErrInvalidArgument)
	}
	if heldAt.IsZero() {
		heldAt = time.Now()
	}

	session := &types.Session{
		ID:       uuid.New(),
		ClientID: clientID,
		Location: location,
		Notes:    notes,
		HeldAt:   heldAt,
	}

	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ss.sessionRepo.Create(ctx, tx, []*types.Session{session}); err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		rows := make([]*types.Shot, 0, len(shots))
		for i, in := range shots {
			index := in.Index
			if index == 0 {
				index = i + 1
			}
			rows = append(rows, &types.Shot{
				ID:        uuid.New(),
				SessionID: session.ID,
				Index:     index,
				Score:     in.Score,
				OffsetX:   in.OffsetX,
				OffsetY:   in.OffsetY,
				Category:  ClassifyShot(in.OffsetX, in.OffsetY),
			})
		}
		if _, err := ss.shotRepo.Create(ctx, tx, rows); err != nil {
			return fmt.Errorf("create shots: %w", err)
		}

		// The derived snapshot lands in the same transaction, so readers
		// never observe a session without its updated aggregates.
		if _, err := ss.statsService.Rebuild(ctx, tx, clientID); err != nil {
			return fmt.Errorf("rebuild stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (ss *sessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*types.Session, []*types.Shot, error) {
	sessions, err := ss.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil, pkgerrors.ErrNotFound
	}
	session := sessions[0]

	if _, err := ss.clientService.Get(ctx, userID, session.ClientID); err != nil {
		return nil, nil, err
	}

	shots, err := ss.shotRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, nil, fmt.Errorf("load shots: %w", err)
	}
	return session, shots, nil
}

func (ss *sessionService) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]*types.Session, error) {
	if _, err := ss.clientService.Get(ctx, userID, clientID); err != nil {
		return nil, err
	}
	return ss.sessionRepo.GetByClientIDs(ctx, nil, []uuid.UUID{clientID})
}

// ClassifyShot labels a shot by its offset from target center.
func ClassifyShot(offsetX, offsetY float64) string {
	if math.Hypot(offsetX, offsetY) <= centeredRadius {
		return "centered"
	}

	vertical := ""
	if offsetY > centeredRadius {
		vertical = "high"
	} else if offsetY < -centeredRadius {
		vertical = "low"
	}

	horizontal := ""
	if offsetX > centeredRadius {
		horizontal = "right"
	} else if offsetX < -centeredRadius {
		horizontal = "left"
	}

	switch {
	case vertical != "" && horizontal != "":
		return vertical + "_" + horizontal
	case vertical != "":
		return vertical
	case horizontal != "":
		return horizontal
	default:
		// Off center but inside the band on both axes: attribute to the
		// larger component.
		if math.Abs(offsetY) >= math.Abs(offsetX) {
			if offsetY > 0 {
				return "high"
			}
			return "low"
		}
		if offsetX > 0 {
			return "right"
		}
		return "left"
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	trainingrepo "github.com/shotline/shotline-backend/internal/data/repos/training"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type StatsService interface {
	// Rebuild recomputes the client's aggregate snapshot from all recorded
	// sessions and appends it as a new row. The newest row is authoritative.
	Rebuild(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.StatSnapshot, error)
	Latest(ctx context.Context, clientID uuid.UUID) (*types.StatSnapshot, error)
}

// CategoryStat is one entry of StatSnapshot.CategoryBreakdown.
type CategoryStat struct {
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

type statsService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  trainingrepo.SessionRepo
	shotRepo     trainingrepo.ShotRepo
	snapshotRepo trainingrepo.StatSnapshotRepo
}

func NewStatsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo trainingrepo.SessionRepo,
	shotRepo trainingrepo.ShotRepo,
	snapshotRepo trainingrepo.StatSnapshotRepo,
) StatsService {
	return &statsService{
		db:           db,
		log:          baseLog.With("service", "StatsService"),
		sessionRepo:  sessionRepo,
		shotRepo:     shotRepo,
		snapshotRepo: snapshotRepo,
	}
}

func (ss *statsService) Rebuild(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.StatSnapshot, error) {
	sessions, err := ss.sessionRepo.GetByClientIDs(ctx, tx, []uuid.UUID{clientID})
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
	}

	var shots []*types.Shot
	if len(sessionIDs) > 0 {
		shots, err = ss.shotRepo.GetBySessionIDs(ctx, tx, sessionIDs)
		if err != nil {
			return nil, fmt.Errorf("load shots: %w", err)
		}
	}

	var scoreSum float64
	type catAgg struct {
		count int
		sum   float64
	}
	perCategory := map[string]*catAgg{}
	for _, shot := range shots {
		scoreSum += shot.Score
		agg := perCategory[shot.Category]
		if agg == nil {
			agg = &catAgg{}
			perCategory[shot.Category] = agg
		}
		agg.count++
		agg.sum += shot.Score
	}

	avg := 0.0
	if len(shots) > 0 {
		avg = scoreSum / float64(len(shots))
	}

	breakdown := make(map[string]CategoryStat, len(perCategory))
	for cat, agg := range perCategory {
		breakdown[cat] = CategoryStat{
			Count:    agg.count,
			AvgScore: agg.sum / float64(agg.count),
		}
	}

	// Worst-first: off-center categories ordered by shot count, ties by
	// lower average score, then name for a stable order.
	weakest := make([]string, 0, len(perCategory))
	for cat := range perCategory {
		if cat == "centered" {
			continue
		}
		weakest = append(weakest, cat)
	}
	sort.Slice(weakest, func(i, j int) bool {
		a, b := perCategory[weakest[i]], perCategory[weakest[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.sum/float64(a.count) != b.sum/float64(b.count) {
			return a.sum/float64(a.count) < b.sum/float64(b.count)
		}
		return weakest[i] < weakest[j]
	})

	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("marshal category breakdown: %w", err)
	}
	weakestJSON, err := json.Marshal(weakest)
	if err != nil {
		return nil, fmt.Errorf("marshal weakest categories: %w", err)
	}

	snapshot := &types.StatSnapshot{
		ID:                uuid.New(),
		ClientID:          clientID,
		SessionCount:      len(sessions),
		ShotCount:         len(shots),
		AvgScore:          avg,
		CategoryBreakdown: datatypes.JSON(breakdownJSON),
		WeakestCategories: datatypes.JSON(weakestJSON),
		ComputedAt:        time.Now(),
	}
	if _, err := ss.snapshotRepo.Create(ctx, tx, []*types.StatSnapshot{snapshot}); err != nil {
		return nil, fmt.Errorf("store stat snapshot: %w", err)
	}
	return snapshot, nil
}

func (ss *statsService) Latest(ctx context.Context, clientID uuid.UUID) (*types.StatSnapshot, error) {
	return ss.snapshotRepo.LatestByClientID(ctx, nil, clientID)
}

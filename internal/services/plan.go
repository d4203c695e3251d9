package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shotline/shotline-backend/internal/content"
	contentrepo "github.com/shotline/shotline-backend/internal/data/repos/content"
	trainingrepo "github.com/shotline/shotline-backend/internal/data/repos/training"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/generation"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type PlanService interface {
	Generate(ctx context.Context, userID, clientID uuid.UUID, force bool) (*generation.GenerateResult, error)
	GetActive(ctx context.Context, userID, clientID uuid.UUID) (*types.ContentVersion, error)
	ListVersions(ctx context.Context, userID, clientID uuid.UUID) ([]*types.ContentVersion, error)
}

type planService struct {
	db            *gorm.DB
	log           *logger.Logger
	clientService ClientService
	engine        *generation.Engine
	versionRepo   contentrepo.VersionRepo
	pointerRepo   contentrepo.PointerRepo
}

func NewPlanService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clientService ClientService,
	engine *generation.Engine,
	versionRepo contentrepo.VersionRepo,
	pointerRepo contentrepo.PointerRepo,
) PlanService {
	return &planService{
		db:            db,
		log:           baseLog.With("service", "PlanService"),
		clientService: clientService,
		engine:        engine,
		versionRepo:   versionRepo,
		pointerRepo:   pointerRepo,
	}
}

func (ps *planService) Generate(ctx context.Context, userID, clientID uuid.UUID, force bool) (*generation.GenerateResult, error) {
	if _, err := ps.clientService.Get(ctx, userID, clientID); err != nil {
		return nil, err
	}
	return ps.engine.Generate(ctx, generation.GenerateRequest{
		SubjectID: clientID,
		ThreadID:  content.PlanThreadID(clientID),
		Kind:      content.KindTrainingPlan,
		Force:     force,
		Actor:     userID.String(),
	})
}

func (ps *planService) GetActive(ctx context.Context, userID, clientID uuid.UUID) (*types.ContentVersion, error) {
	if _, err := ps.clientService.Get(ctx, userID, clientID); err != nil {
		return nil, err
	}
	pointer, err := ps.pointerRepo.Get(ctx, nil, clientID, content.KindTrainingPlan)
	if err != nil {
		return nil, fmt.Errorf("load active pointer: %w", err)
	}
	if pointer == nil {
		return nil, pkgerrors.ErrNotFound
	}
	versions, err := ps.versionRepo.GetByIDs(ctx, nil, []uuid.UUID{pointer.ActiveVersionID})
	if err != nil {
		return nil, fmt.Errorf("load active version: %w", err)
	}
	if len(versions) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return versions[0], nil
}

func (ps *planService) ListVersions(ctx context.Context, userID, clientID uuid.UUID) ([]*types.ContentVersion, error) {
	if _, err := ps.clientService.Get(ctx, userID, clientID); err != nil {
		return nil, err
	}
	return ps.versionRepo.ListByThread(ctx, nil, clientID, content.PlanThreadID(clientID))
}

// planSnapshotProvider turns the client's latest stat snapshot into the fact
// set that keys plan generation. The plan's own prior content is deliberately
// absent: including it would change the hash on every generation and defeat
// caching entirely.
type planSnapshotProvider struct {
	log          *logger.Logger
	clientRepo   trainingrepo.ClientRepo
	snapshotRepo trainingrepo.StatSnapshotRepo
}

func NewPlanSnapshotProvider(
	baseLog *logger.Logger,
	clientRepo trainingrepo.ClientRepo,
	snapshotRepo trainingrepo.StatSnapshotRepo,
) generation.SnapshotProvider {
	return &planSnapshotProvider{
		log:          baseLog.With("service", "PlanSnapshotProvider"),
		clientRepo:   clientRepo,
		snapshotRepo: snapshotRepo,
	}
}

func (p *planSnapshotProvider) BuildSnapshot(ctx context.Context, subjectID uuid.UUID, threadID string) (*generation.Snapshot, error) {
	clients, err := p.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if len(clients) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	client := clients[0]

	snapshot, err := p.snapshotRepo.LatestByClientID(ctx, nil, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load stat snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: no stat snapshot for client %s", pkgerrors.ErrInputMissing, subjectID)
	}

	var weakest []string
	if err := json.Unmarshal(snapshot.WeakestCategories, &weakest); err != nil {
		return nil, fmt.Errorf("decode weakest categories: %w", err)
	}

	return &generation.Snapshot{
		Kind:      content.KindTrainingPlan,
		SubjectID: subjectID,
		ThreadID:  threadID,
		Facts: map[string]any{
			"discipline":                   client.Discipline,
			generation.FactAvgScore:        round2(snapshot.AvgScore),
			generation.FactSessionCount:    snapshot.SessionCount,
			generation.FactShotCount:       snapshot.ShotCount,
			generation.FactFocusPriorities: focusPriorities(weakest),
		},
		Allowed: content.AllowedRefs{FocusCategories: content.FocusCategories},
	}, nil
}

// focusPriorities maps shot pattern categories to the training focus that
// addresses them, worst pattern first, deduplicated.
func focusPriorities(weakest []string) []string {
	out := make([]string, 0, len(weakest))
	seen := map[string]bool{}
	for _, cat := range weakest {
		focus := FocusForCategory(cat)
		if focus == "" || seen[focus] {
			continue
		}
		seen[focus] = true
		out = append(out, focus)
	}
	return out
}

// FocusForCategory is the diagnostic mapping from where shots land to what
// the shooter should train.
func FocusForCategory(category string) string {
	switch category {
	case "low", "low_left", "low_right":
		return "trigger_control"
	case "high":
		return "follow_through"
	case "high_left", "high_right":
		return "grip"
	case "left", "right":
		return "sight_alignment"
	default:
		return ""
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

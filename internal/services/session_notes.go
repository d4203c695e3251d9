package services

import (
	"context"
	"encoding/json"
	"fmt"

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

type SessionNotesService interface {
	Generate(ctx context.Context, userID, sessionID uuid.UUID, force bool) (*generation.GenerateResult, error)
	GetActive(ctx context.Context, userID, sessionID uuid.UUID) (*types.ContentVersion, error)
	// Activate repoints the active notes version. Needed after a forced
	// regeneration, which by policy does not auto-activate.
	Activate(ctx context.Context, userID, sessionID, versionID uuid.UUID) error
	ListVersions(ctx context.Context, userID, sessionID uuid.UUID) ([]*types.ContentVersion, error)
}

type sessionNotesService struct {
	db            *gorm.DB
	log           *logger.Logger
	clientService ClientService
	sessionRepo   trainingrepo.SessionRepo
	engine        *generation.Engine
	versionRepo   contentrepo.VersionRepo
	pointerRepo   contentrepo.PointerRepo
}

func NewSessionNotesService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clientService ClientService,
	sessionRepo trainingrepo.SessionRepo,
	engine *generation.Engine,
	versionRepo contentrepo.VersionRepo,
	pointerRepo contentrepo.PointerRepo,
) SessionNotesService {
	return &sessionNotesService{
		db:            db,
		log:           baseLog.With("service", "SessionNotesService"),
		clientService: clientService,
		sessionRepo:   sessionRepo,
		engine:        engine,
		versionRepo:   versionRepo,
		pointerRepo:   pointerRepo,
	}
}

func (sn *sessionNotesService) authorize(ctx context.Context, userID, sessionID uuid.UUID) (*types.Session, error) {
	sessions, err := sn.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	session := sessions[0]
	if _, err := sn.clientService.Get(ctx, userID, session.ClientID); err != nil {
		return nil, err
	}
	return session, nil
}

func (sn *sessionNotesService) Generate(ctx context.Context, userID, sessionID uuid.UUID, force bool) (*generation.GenerateResult, error) {
	if _, err := sn.authorize(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return sn.engine.Generate(ctx, generation.GenerateRequest{
		SubjectID: sessionID,
		ThreadID:  content.SessionThreadID(sessionID),
		Kind:      content.KindSessionNotes,
		Force:     force,
		Actor:     userID.String(),
	})
}

func (sn *sessionNotesService) GetActive(ctx context.Context, userID, sessionID uuid.UUID) (*types.ContentVersion, error) {
	if _, err := sn.authorize(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	pointer, err := sn.pointerRepo.Get(ctx, nil, sessionID, content.KindSessionNotes)
	if err != nil {
		return nil, fmt.Errorf("load active pointer: %w", err)
	}
	if pointer == nil {
		return nil, pkgerrors.ErrNotFound
	}
	versions, err := sn.versionRepo.GetByIDs(ctx, nil, []uuid.UUID{pointer.ActiveVersionID})
	if err != nil {
		return nil, fmt.Errorf("load active version: %w", err)
	}
	if len(versions) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return versions[0], nil
}

func (sn *sessionNotesService) Activate(ctx context.Context, userID, sessionID, versionID uuid.UUID) error {
	if _, err := sn.authorize(ctx, userID, sessionID); err != nil {
		return err
	}
	return sn.engine.Activate(ctx, sessionID, content.KindSessionNotes, versionID, userID.String())
}

func (sn *sessionNotesService) ListVersions(ctx context.Context, userID, sessionID uuid.UUID) ([]*types.ContentVersion, error) {
	if _, err := sn.authorize(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return sn.versionRepo.ListByThread(ctx, nil, sessionID, content.SessionThreadID(sessionID))
}

// notesSnapshotProvider builds the fact set for one session's notes. The
// facts reference the active plan by version ID, a stable parent: notes can
// point at the plan without the plan's content feeding back into the hash.
type notesSnapshotProvider struct {
	log         *logger.Logger
	sessionRepo trainingrepo.SessionRepo
	shotRepo    trainingrepo.ShotRepo
	versionRepo contentrepo.VersionRepo
	pointerRepo contentrepo.PointerRepo
}

func NewNotesSnapshotProvider(
	baseLog *logger.Logger,
	sessionRepo trainingrepo.SessionRepo,
	shotRepo trainingrepo.ShotRepo,
	versionRepo contentrepo.VersionRepo,
	pointerRepo contentrepo.PointerRepo,
) generation.SnapshotProvider {
	return &notesSnapshotProvider{
		log:         baseLog.With("service", "NotesSnapshotProvider"),
		sessionRepo: sessionRepo,
		shotRepo:    shotRepo,
		versionRepo: versionRepo,
		pointerRepo: pointerRepo,
	}
}

func (p *notesSnapshotProvider) BuildSnapshot(ctx context.Context, subjectID uuid.UUID, threadID string) (*generation.Snapshot, error) {
	sessions, err := p.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	session := sessions[0]

	shots, err := p.shotRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		return nil, fmt.Errorf("load shots: %w", err)
	}
	if len(shots) == 0 {
		return nil, fmt.Errorf("%w: session %s has no shots", pkgerrors.ErrInputMissing, subjectID)
	}

	var scoreSum float64
	counts := map[string]int{}
	for _, shot := range shots {
		scoreSum += shot.Score
		counts[shot.Category]++
	}

	// Notes lean on the client's active plan for drill vocabulary; without
	// a plan there is nothing coherent to recommend.
	pointer, err := p.pointerRepo.Get(ctx, nil, session.ClientID, content.KindTrainingPlan)
	if err != nil {
		return nil, fmt.Errorf("load plan pointer: %w", err)
	}
	if pointer == nil {
		return nil, fmt.Errorf("%w: client %s has no active training plan", pkgerrors.ErrInputMissing, session.ClientID)
	}
	planVersions, err := p.versionRepo.GetByIDs(ctx, nil, []uuid.UUID{pointer.ActiveVersionID})
	if err != nil {
		return nil, fmt.Errorf("load plan version: %w", err)
	}
	if len(planVersions) == 0 {
		return nil, fmt.Errorf("%w: active plan version missing", pkgerrors.ErrInputMissing)
	}
	plan := planVersions[0]

	planFocus, err := planFocusCategories(plan)
	if err != nil {
		return nil, err
	}
	if len(planFocus) == 0 {
		planFocus = content.FocusCategories
	}

	return &generation.Snapshot{
		Kind:      content.KindSessionNotes,
		SubjectID: subjectID,
		ThreadID:  threadID,
		Facts: map[string]any{
			generation.FactShotCount:      len(shots),
			generation.FactSessionAvg:     round2(scoreSum / float64(len(shots))),
			generation.FactCategoryCounts: counts,
			generation.FactPlanVersionID:  plan.ID.String(),
			generation.FactPlanFocus:      planFocus,
		},
		Allowed: content.AllowedRefs{FocusCategories: planFocus},
	}, nil
}

// planFocusCategories extracts the distinct week focus categories from a
// stored plan, in week order.
func planFocusCategories(plan *types.ContentVersion) ([]string, error) {
	var doc struct {
		Weeks []struct {
			FocusCategory string `json:"focus_category"`
		} `json:"weeks"`
	}
	if err := json.Unmarshal(plan.Content, &doc); err != nil {
		return nil, fmt.Errorf("decode plan content: %w", err)
	}
	out := make([]string, 0, len(doc.Weeks))
	seen := map[string]bool{}
	for _, week := range doc.Weeks {
		if week.FocusCategory == "" || seen[week.FocusCategory] {
			continue
		}
		seen[week.FocusCategory] = true
		out = append(out, week.FocusCategory)
	}
	return out, nil
}

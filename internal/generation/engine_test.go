package generation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shotline/shotline-backend/internal/content"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/generation/hashutil"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

func hashFacts(t *testing.T, facts map[string]any) string {
	t.Helper()
	h, err := hashutil.Hash(facts)
	if err != nil {
		t.Fatalf("hash facts: %v", err)
	}
	return h
}

func mustJSON(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return datatypes.JSON(raw)
}

// ---- fakes ----

type fakeVersionRepo struct {
	mu       sync.Mutex
	versions []*types.ContentVersion
	// conflictsLeft forces Append to fail with WriteConflict this many times.
	conflictsLeft int
	// onConflict runs while a conflict is being reported, simulating the
	// concurrent writer that claimed the index.
	onConflict func(r *fakeVersionRepo)
}

func (r *fakeVersionRepo) Append(ctx context.Context, tx *gorm.DB, v *types.ContentVersion) (*types.ContentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		if r.onConflict != nil {
			r.onConflict(r)
		}
		return nil, pkgerrors.ErrWriteConflict
	}
	for _, existing := range r.versions {
		if existing.SubjectID == v.SubjectID && existing.ThreadID == v.ThreadID && existing.VersionIndex == v.VersionIndex {
			return nil, pkgerrors.ErrWriteConflict
		}
	}
	r.versions = append(r.versions, v)
	return v, nil
}

func (r *fakeVersionRepo) Latest(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string) (*types.ContentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *types.ContentVersion
	for _, v := range r.versions {
		if v.SubjectID == subjectID && v.ThreadID == threadID {
			if latest == nil || v.VersionIndex > latest.VersionIndex {
				latest = v
			}
		}
	}
	return latest, nil
}

func (r *fakeVersionRepo) FindByHash(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string, dataHash string) (*types.ContentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *types.ContentVersion
	for _, v := range r.versions {
		if v.SubjectID == subjectID && v.ThreadID == threadID && v.DataHash == dataHash {
			if found == nil || v.VersionIndex > found.VersionIndex {
				found = v
			}
		}
	}
	return found, nil
}

func (r *fakeVersionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ContentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.ContentVersion
	for _, v := range r.versions {
		for _, id := range ids {
			if v.ID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) ListByThread(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string) ([]*types.ContentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.ContentVersion
	for _, v := range r.versions {
		if v.SubjectID == subjectID && v.ThreadID == threadID {
			out = append(out, v)
		}
	}
	return out, nil
}

type pointerKey struct {
	subjectID uuid.UUID
	kind      string
}

type fakePointerRepo struct {
	mu       sync.Mutex
	pointers map[pointerKey]*types.ActivePointer
	setCalls int
}

func newFakePointerRepo() *fakePointerRepo {
	return &fakePointerRepo{pointers: map[pointerKey]*types.ActivePointer{}}
}

func (r *fakePointerRepo) Get(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, kind string) (*types.ActivePointer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pointers[pointerKey{subjectID, kind}]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePointerRepo) Set(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, kind string, versionID uuid.UUID, actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCalls++
	r.pointers[pointerKey{subjectID, kind}] = &types.ActivePointer{
		ID:              uuid.New(),
		SubjectID:       subjectID,
		ContentKind:     kind,
		ActiveVersionID: versionID,
		UpdatedBy:       actor,
	}
	return nil
}

type fakeProvider struct {
	mu    sync.Mutex
	facts map[string]any
	kind  string
	err   error
}

func (p *fakeProvider) BuildSnapshot(ctx context.Context, subjectID uuid.UUID, threadID string) (*Snapshot, error) {
	// A real provider reads the database, which fails on a dead context.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	facts := make(map[string]any, len(p.facts))
	for k, v := range p.facts {
		facts[k] = v
	}
	return &Snapshot{
		Kind:      p.kind,
		SubjectID: subjectID,
		ThreadID:  threadID,
		Facts:     facts,
		Allowed:   content.AllowedRefs{FocusCategories: content.FocusCategories},
	}, nil
}

func (p *fakeProvider) setFact(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.facts[key] = value
}

type fakeCollaborator struct {
	payload map[string]any
	err     error
	calls   int
}

func (c *fakeCollaborator) Produce(ctx context.Context, snap *Snapshot) (map[string]any, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.payload, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Record(ctx context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) last(t *testing.T) Event {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		t.Fatal("no telemetry events recorded")
	}
	return s.events[len(s.events)-1]
}

// ---- harness ----

type engineHarness struct {
	engine   *Engine
	versions *fakeVersionRepo
	pointers *fakePointerRepo
	provider *fakeProvider
	collab   *fakeCollaborator
	sink     *recordingSink

	subjectID uuid.UUID
	threadID  string
}

func newHarness(t *testing.T, cfgMut func(*KindConfig)) *engineHarness {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	versions := &fakeVersionRepo{}
	pointers := newFakePointerRepo()
	provider := &fakeProvider{
		kind: content.KindTrainingPlan,
		facts: map[string]any{
			FactAvgScore:        8.4,
			FactSessionCount:    3,
			FactShotCount:       60,
			FactFocusPriorities: []string{"trigger_control", "grip"},
		},
	}
	collab := &fakeCollaborator{err: pkgerrors.ErrCollaboratorDisabled}
	sink := &recordingSink{}

	engine := NewEngine(log, versions, pointers, collab, sink, 3)
	cfg := KindConfig{
		Kind:                content.KindTrainingPlan,
		AutoActivate:        true,
		AutoActivateOnRegen: true,
		Provider:            provider,
	}
	if cfgMut != nil {
		cfgMut(&cfg)
	}
	engine.RegisterKind(cfg)

	subjectID := uuid.New()
	return &engineHarness{
		engine:    engine,
		versions:  versions,
		pointers:  pointers,
		provider:  provider,
		collab:    collab,
		sink:      sink,
		subjectID: subjectID,
		threadID:  content.PlanThreadID(subjectID),
	}
}

func (h *engineHarness) generate(t *testing.T, force bool) *GenerateResult {
	t.Helper()
	result, err := h.engine.Generate(context.Background(), GenerateRequest{
		SubjectID: h.subjectID,
		ThreadID:  h.threadID,
		Kind:      content.KindTrainingPlan,
		Force:     force,
		Actor:     "coach",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return result
}

// ---- tests ----

func TestGenerateInitialMiss(t *testing.T) {
	h := newHarness(t, nil)

	result := h.generate(t, false)
	if result.Cached || result.Reused {
		t.Fatalf("first call must be a miss: %+v", result)
	}
	if result.Version == nil || result.Version.VersionIndex != 1 {
		t.Fatalf("expected version index 1, got %+v", result.Version)
	}
	if result.Version.Reason != types.ReasonInitial {
		t.Fatalf("expected reason initial, got %q", result.Version.Reason)
	}
	if result.GeneratedBy != types.GeneratedByDeterministic {
		t.Fatalf("disabled collaborator must fall back, got %q", result.GeneratedBy)
	}

	pointer, _ := h.pointers.Get(context.Background(), nil, h.subjectID, content.KindTrainingPlan)
	if pointer == nil || pointer.ActiveVersionID != result.Version.ID {
		t.Fatal("pointer should track the new version")
	}

	ev := h.sink.last(t)
	if ev.Path != types.PathMiss || ev.Cause != "collaborator_disabled" {
		t.Fatalf("unexpected telemetry: %+v", ev)
	}
	if ev.VersionID == nil || *ev.VersionID != result.Version.ID {
		t.Fatalf("telemetry should carry the appended version ID, got %v", ev.VersionID)
	}
}

func TestGenerateCachedHit(t *testing.T) {
	h := newHarness(t, nil)

	first := h.generate(t, false)
	second := h.generate(t, false)

	if !second.Cached {
		t.Fatalf("unchanged facts should hit the cache: %+v", second)
	}
	if second.Version.ID != first.Version.ID {
		t.Fatal("cached hit should return the active version")
	}
	if len(h.versions.versions) != 1 {
		t.Fatalf("cached hit must not append, have %d versions", len(h.versions.versions))
	}
	if ev := h.sink.last(t); ev.Path != types.PathHit {
		t.Fatalf("expected hit event, got %+v", ev)
	}
}

func TestGenerateDataChange(t *testing.T) {
	h := newHarness(t, nil)

	first := h.generate(t, false)
	h.provider.setFact(FactAvgScore, 8.9)
	second := h.generate(t, false)

	if second.Cached || second.Reused {
		t.Fatalf("changed facts should miss: %+v", second)
	}
	if second.Version.VersionIndex != first.Version.VersionIndex+1 {
		t.Fatalf("expected next index, got %d", second.Version.VersionIndex)
	}
	if second.Version.Reason != types.ReasonDataChange {
		t.Fatalf("expected reason data_change, got %q", second.Version.Reason)
	}

	pointer, _ := h.pointers.Get(context.Background(), nil, h.subjectID, content.KindTrainingPlan)
	if pointer.ActiveVersionID != second.Version.ID {
		t.Fatal("pointer should move to the new version")
	}
}

func TestGenerateReuseAfterDataRevert(t *testing.T) {
	h := newHarness(t, nil)

	first := h.generate(t, false)
	h.provider.setFact(FactAvgScore, 8.9)
	h.generate(t, false)

	// Facts revert to the original values: the matching old version is
	// reused, not regenerated.
	h.provider.setFact(FactAvgScore, 8.4)
	third := h.generate(t, false)

	if !third.Reused {
		t.Fatalf("reverted facts should reuse: %+v", third)
	}
	if third.Version.ID != first.Version.ID {
		t.Fatal("reuse should return the original version")
	}
	if len(h.versions.versions) != 2 {
		t.Fatalf("reuse must not append, have %d versions", len(h.versions.versions))
	}
	if ev := h.sink.last(t); ev.Path != types.PathReuse {
		t.Fatalf("expected reuse event, got %+v", ev)
	}

	pointer, _ := h.pointers.Get(context.Background(), nil, h.subjectID, content.KindTrainingPlan)
	if pointer.ActiveVersionID != first.Version.ID {
		t.Fatal("pointer should move back to the reused version")
	}
}

func TestGenerateExternalSuccess(t *testing.T) {
	h := newHarness(t, nil)
	h.collab.err = nil
	h.collab.payload = map[string]any{
		"version": "v1",
		"summary": "External plan.",
		"weeks": []any{
			map[string]any{
				"index":          1,
				"focus_category": "grip",
				"theme":          "Grip week",
				"narrative":      "Grip pressure drills all week.",
				"drills": []any{
					map[string]any{
						"name":           "Grip series",
						"focus_category": "grip",
						"target_metric":  "avg_score",
						"target_value":   8.8,
					},
				},
			},
		},
	}

	result := h.generate(t, false)
	if result.GeneratedBy != types.GeneratedByExternal {
		t.Fatalf("expected external generation, got %q", result.GeneratedBy)
	}
	if ev := h.sink.last(t); ev.Cause != "" {
		t.Fatalf("successful external call should have no fallback cause: %+v", ev)
	}
}

func TestGenerateInvalidExternalFallsBack(t *testing.T) {
	h := newHarness(t, nil)
	h.collab.err = nil
	h.collab.payload = map[string]any{
		"version": "v1",
		"summary": "Plan referencing a made-up focus area.",
		"weeks": []any{
			map[string]any{
				"index":          1,
				"focus_category": "telepathy",
				"theme":          "Week one",
				"narrative":      "Focus hard.",
				"drills": []any{
					map[string]any{
						"name":           "Mind drill",
						"focus_category": "telepathy",
						"target_metric":  "avg_score",
						"target_value":   9.0,
					},
				},
			},
		},
	}

	result := h.generate(t, false)
	if result.GeneratedBy != types.GeneratedByDeterministic {
		t.Fatalf("invalid external content must fall back, got %q", result.GeneratedBy)
	}
	if ev := h.sink.last(t); ev.Cause != "schema_violation" {
		t.Fatalf("expected schema_violation cause, got %+v", ev)
	}
	if result.Version == nil {
		t.Fatal("fallback should still produce a version")
	}
}

func TestGenerateForceBypassesCache(t *testing.T) {
	h := newHarness(t, nil)

	first := h.generate(t, false)
	forced := h.generate(t, true)

	if forced.Cached || forced.Reused {
		t.Fatalf("force must not hit or reuse: %+v", forced)
	}
	if forced.Version.VersionIndex != first.Version.VersionIndex+1 {
		t.Fatalf("forced regen should append, got index %d", forced.Version.VersionIndex)
	}
	if forced.Version.Reason != types.ReasonManualRegen {
		t.Fatalf("expected manual_regen, got %q", forced.Version.Reason)
	}
	if forced.Version.DataHash != first.Version.DataHash {
		t.Fatal("same facts should keep the same hash on force")
	}
}

func TestForceWithoutAutoActivateNeedsExplicitActivate(t *testing.T) {
	h := newHarness(t, func(cfg *KindConfig) {
		cfg.AutoActivateOnRegen = false
	})

	first := h.generate(t, false)
	forced := h.generate(t, true)

	pointer, _ := h.pointers.Get(context.Background(), nil, h.subjectID, content.KindTrainingPlan)
	if pointer.ActiveVersionID != first.Version.ID {
		t.Fatal("forced version must not auto-activate under this policy")
	}

	if err := h.engine.Activate(context.Background(), h.subjectID, content.KindTrainingPlan, forced.Version.ID, "coach"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	pointer, _ = h.pointers.Get(context.Background(), nil, h.subjectID, content.KindTrainingPlan)
	if pointer.ActiveVersionID != forced.Version.ID {
		t.Fatal("explicit activate should repoint")
	}
}

func TestActivateRejectsForeignVersion(t *testing.T) {
	h := newHarness(t, nil)
	h.generate(t, false)

	other := newHarness(t, nil)
	foreign := other.generate(t, false)

	err := h.engine.Activate(context.Background(), h.subjectID, content.KindTrainingPlan, foreign.Version.ID, "coach")
	if !errors.Is(err, pkgerrors.ErrNotFound) && !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("activating a foreign version must fail, got %v", err)
	}
}

func TestAppendConflictReusesConcurrentWinner(t *testing.T) {
	h := newHarness(t, nil)

	// The concurrent writer lands an identical version while our append is
	// failing with a conflict.
	h.versions.conflictsLeft = 1
	h.versions.onConflict = func(r *fakeVersionRepo) {
		snap, _ := h.provider.BuildSnapshot(context.Background(), h.subjectID, h.threadID)
		payload, _ := Baseline{}.Produce(snap)
		hash := hashFacts(t, snap.Facts)
		r.versions = append(r.versions, &types.ContentVersion{
			ID:           uuid.New(),
			SubjectID:    h.subjectID,
			ThreadID:     h.threadID,
			VersionIndex: 1,
			ContentKind:  content.KindTrainingPlan,
			DataHash:     hash,
			Content:      mustJSON(t, payload),
			Reason:       types.ReasonInitial,
			GeneratedBy:  types.GeneratedByDeterministic,
		})
	}

	result := h.generate(t, false)
	if !result.Reused {
		t.Fatalf("conflict with identical content should reuse the winner: %+v", result)
	}
	if len(h.versions.versions) != 1 {
		t.Fatalf("no duplicate may be appended, have %d versions", len(h.versions.versions))
	}
}

func TestForcedAppendConflictExhaustsRetries(t *testing.T) {
	h := newHarness(t, nil)
	h.versions.conflictsLeft = 1000

	_, err := h.engine.Generate(context.Background(), GenerateRequest{
		SubjectID: h.subjectID,
		ThreadID:  h.threadID,
		Kind:      content.KindTrainingPlan,
		Force:     true,
		Actor:     "coach",
	})
	if !errors.Is(err, pkgerrors.ErrRetriesExhausted) {
		t.Fatalf("expected retries exhausted, got %v", err)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.engine.Generate(context.Background(), GenerateRequest{
		SubjectID: h.subjectID,
		ThreadID:  h.threadID,
		Kind:      "poetry",
	})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestGenerateStalePointerBootstraps(t *testing.T) {
	h := newHarness(t, nil)

	// Pointer exists but its target version does not.
	_ = h.pointers.Set(context.Background(), nil, h.subjectID, content.KindTrainingPlan, uuid.New(), "coach")

	result := h.generate(t, false)
	if result.Cached {
		t.Fatal("a dangling pointer must not produce a hit")
	}
	if result.Version == nil || result.Version.VersionIndex != 1 {
		t.Fatalf("bootstrap should append version 1, got %+v", result.Version)
	}
}

func TestProviderErrorPropagates(t *testing.T) {
	h := newHarness(t, nil)
	h.provider.err = pkgerrors.ErrInputMissing

	_, err := h.engine.Generate(context.Background(), GenerateRequest{
		SubjectID: h.subjectID,
		ThreadID:  h.threadID,
		Kind:      content.KindTrainingPlan,
	})
	if !errors.Is(err, pkgerrors.ErrInputMissing) {
		t.Fatalf("expected input missing, got %v", err)
	}
}

func TestGenerateSurvivesCallerCancel(t *testing.T) {
	h := newHarness(t, nil)

	// The singleflight leader may be serving piggybacked callers, so its
	// work is detached from the first caller's context.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.engine.Generate(ctx, GenerateRequest{
		SubjectID: h.subjectID,
		ThreadID:  h.threadID,
		Kind:      content.KindTrainingPlan,
		Actor:     "coach",
	})
	if err != nil {
		t.Fatalf("cancelled caller must not fail collapsed generation: %v", err)
	}
	if result.Version == nil || result.Version.VersionIndex != 1 {
		t.Fatalf("expected a generated version, got %+v", result)
	}
}

func TestTelemetryPanicDoesNotFailGenerate(t *testing.T) {
	h := newHarness(t, nil)
	panicking := &panickingSink{}
	h.engine.sink = panicking

	result := h.generate(t, false)
	if result.Version == nil {
		t.Fatal("generate should survive a panicking sink")
	}
}

type panickingSink struct{}

func (panickingSink) Record(context.Context, Event) { panic("sink exploded") }

package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	"github.com/shotline/shotline-backend/internal/content"
	contentrepo "github.com/shotline/shotline-backend/internal/data/repos/content"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/generation/hashutil"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	ptr "github.com/shotline/shotline-backend/internal/pkg/pointers"
)

// KindConfig binds one content kind to its fact provider and activation
// policy. Policies intentionally differ per kind; do not unify them.
type KindConfig struct {
	Kind string
	// AutoActivate repoints the active pointer to every new version.
	AutoActivate bool
	// AutoActivateOnRegen keeps auto-activation for force=true calls. When
	// false, a forced regeneration produces a version that waits for an
	// explicit Activate call.
	AutoActivateOnRegen bool
	Provider            SnapshotProvider
}

type GenerateRequest struct {
	SubjectID uuid.UUID
	ThreadID  string
	Kind      string
	Force     bool
	Actor     string
}

type GenerateResult struct {
	Cached      bool
	Reused      bool
	Version     *types.ContentVersion
	GeneratedBy string
}

const defaultMaxAppendRetries = 3

// Engine is the cache-resolution orchestrator: one call decides hit, reuse,
// or miss, produces and validates candidate content on a miss, appends an
// immutable version, and moves the active pointer per kind policy.
type Engine struct {
	log      *logger.Logger
	versions contentrepo.VersionRepo
	pointers contentrepo.PointerRepo
	baseline Baseline
	collab   Collaborator
	sink     TelemetrySink

	kinds            map[string]KindConfig
	maxAppendRetries int
	flight           singleflight.Group
}

func NewEngine(
	baseLog *logger.Logger,
	versions contentrepo.VersionRepo,
	pointers contentrepo.PointerRepo,
	collab Collaborator,
	sink TelemetrySink,
	maxAppendRetries int,
) *Engine {
	if maxAppendRetries <= 0 {
		maxAppendRetries = defaultMaxAppendRetries
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{
		log:              baseLog.With("service", "GenerationEngine"),
		versions:         versions,
		pointers:         pointers,
		collab:           collab,
		sink:             sink,
		kinds:            map[string]KindConfig{},
		maxAppendRetries: maxAppendRetries,
	}
}

func (e *Engine) RegisterKind(cfg KindConfig) {
	e.kinds[cfg.Kind] = cfg
}

func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	cfg, ok := e.kinds[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown content kind %q", pkgerrors.ErrInvalidArgument, req.Kind)
	}
	if req.SubjectID == uuid.Nil || req.ThreadID == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}

	if req.Force {
		// Forced regenerations must each produce a version; never collapse them.
		return e.generate(ctx, cfg, req)
	}

	// The leader's work may serve collapsed callers; detach it from the
	// first caller's cancellation so one disconnect cannot fail the rest.
	key := req.SubjectID.String() + "|" + req.ThreadID
	leaderCtx := context.WithoutCancel(ctx)
	result, err, _ := e.flight.Do(key, func() (interface{}, error) {
		return e.generate(leaderCtx, cfg, req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*GenerateResult), nil
}

func (e *Engine) generate(ctx context.Context, cfg KindConfig, req GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	snap, err := cfg.Provider.BuildSnapshot(ctx, req.SubjectID, req.ThreadID)
	if err != nil {
		return nil, err
	}

	dataHash, err := hashutil.Hash(snap.Facts)
	if err != nil {
		return nil, fmt.Errorf("hash snapshot: %w", err)
	}

	// Resolve the active pointer. A pointer whose target is missing or
	// belongs to another subject is invalid, not fatal: bootstrap instead.
	hadPointer := false
	pointer, err := e.pointers.Get(ctx, nil, req.SubjectID, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("load active pointer: %w", err)
	}
	if pointer != nil {
		active, err := e.resolvePointer(ctx, pointer, req.SubjectID)
		if err != nil {
			return nil, err
		}
		if active == nil {
			e.log.Warn("Active pointer target missing, bootstrapping",
				"subject_id", req.SubjectID, "content_kind", req.Kind,
				"active_version_id", pointer.ActiveVersionID)
		} else {
			hadPointer = true
			if !req.Force && active.ThreadID == req.ThreadID && active.DataHash == dataHash {
				e.record(ctx, req, types.PathHit, active.GeneratedBy, "", ptr.Ptr(active.ID), start)
				return &GenerateResult{Cached: true, Version: active, GeneratedBy: active.GeneratedBy}, nil
			}
		}
	}

	// A version with the same inputs may exist even when the pointer is
	// stale or unset; reuse it instead of duplicating content.
	if !req.Force {
		found, err := e.versions.FindByHash(ctx, nil, req.SubjectID, req.ThreadID, dataHash)
		if err != nil {
			return nil, fmt.Errorf("find version by hash: %w", err)
		}
		if found != nil {
			if cfg.AutoActivate {
				if err := e.pointers.Set(ctx, nil, req.SubjectID, req.Kind, found.ID, req.Actor); err != nil {
					return nil, fmt.Errorf("repoint to reused version: %w", err)
				}
			}
			e.record(ctx, req, types.PathReuse, found.GeneratedBy, "", ptr.Ptr(found.ID), start)
			return &GenerateResult{Reused: true, Version: found, GeneratedBy: found.GeneratedBy}, nil
		}
	}

	payload, generatedBy, cause, err := e.produceCandidate(ctx, snap)
	if err != nil {
		return nil, err
	}

	reason := types.ReasonDataChange
	switch {
	case !hadPointer:
		reason = types.ReasonInitial
	case req.Force:
		reason = types.ReasonManualRegen
	}

	created, reused, err := e.appendWithRetry(ctx, cfg, req, snap, dataHash, payload, generatedBy, reason)
	if err != nil {
		return nil, err
	}
	if reused != nil {
		e.record(ctx, req, types.PathReuse, reused.GeneratedBy, cause, ptr.Ptr(reused.ID), start)
		return &GenerateResult{Reused: true, Version: reused, GeneratedBy: reused.GeneratedBy}, nil
	}

	// The append is durable before the pointer is touched; a failure here
	// leaves a valid, not-yet-activated version, never a dangling pointer.
	if cfg.AutoActivate && (!req.Force || cfg.AutoActivateOnRegen) {
		if err := e.pointers.Set(ctx, nil, req.SubjectID, req.Kind, created.ID, req.Actor); err != nil {
			return nil, fmt.Errorf("activate new version: %w", err)
		}
	}

	e.record(ctx, req, types.PathMiss, generatedBy, cause, ptr.Ptr(created.ID), start)
	return &GenerateResult{Version: created, GeneratedBy: generatedBy}, nil
}

// Activate explicitly repoints the active pointer, for kinds whose policy
// does not auto-activate.
func (e *Engine) Activate(ctx context.Context, subjectID uuid.UUID, kind string, versionID uuid.UUID, actor string) error {
	if _, ok := e.kinds[kind]; !ok {
		return fmt.Errorf("%w: unknown content kind %q", pkgerrors.ErrInvalidArgument, kind)
	}
	versions, err := e.versions.GetByIDs(ctx, nil, []uuid.UUID{versionID})
	if err != nil {
		return fmt.Errorf("load version: %w", err)
	}
	if len(versions) == 0 {
		return pkgerrors.ErrNotFound
	}
	v := versions[0]
	if v.SubjectID != subjectID || v.ContentKind != kind {
		return fmt.Errorf("%w: version does not belong to subject", pkgerrors.ErrInvalidArgument)
	}
	return e.pointers.Set(ctx, nil, subjectID, kind, versionID, actor)
}

func (e *Engine) resolvePointer(ctx context.Context, pointer *types.ActivePointer, subjectID uuid.UUID) (*types.ContentVersion, error) {
	versions, err := e.versions.GetByIDs(ctx, nil, []uuid.UUID{pointer.ActiveVersionID})
	if err != nil {
		return nil, fmt.Errorf("resolve active pointer: %w", err)
	}
	if len(versions) == 0 || versions[0] == nil || versions[0].SubjectID != subjectID {
		return nil, nil
	}
	return versions[0], nil
}

// produceCandidate attempts external generation first and falls back to the
// deterministic baseline on any failure. The baseline output still passes
// through the validator as a correctness check.
func (e *Engine) produceCandidate(ctx context.Context, snap *Snapshot) (map[string]any, string, string, error) {
	out, err := e.collab.Produce(ctx, snap)
	if err == nil {
		validated, vErr := content.Validate(snap.Kind, out, snap.Allowed)
		if vErr == nil {
			return validated, types.GeneratedByExternal, "", nil
		}
		err = vErr
	}

	cause := fallbackCause(err)
	e.log.Warn("External generation unavailable, using baseline",
		"content_kind", snap.Kind, "subject_id", snap.SubjectID, "cause", cause, "error", err)

	base, err := e.baseline.Produce(snap)
	if err != nil {
		return nil, "", "", fmt.Errorf("baseline generation: %w", err)
	}
	validated, err := content.Validate(snap.Kind, base, snap.Allowed)
	if err != nil {
		return nil, "", "", fmt.Errorf("baseline produced invalid content: %w", err)
	}
	return validated, types.GeneratedByDeterministic, cause, nil
}

// appendWithRetry allocates the next version index and appends, retrying with
// a freshly read index on WriteConflict. When a concurrent writer landed the
// same content first, the winner's version is reused instead.
func (e *Engine) appendWithRetry(
	ctx context.Context,
	cfg KindConfig,
	req GenerateRequest,
	snap *Snapshot,
	dataHash string,
	payload map[string]any,
	generatedBy string,
	reason string,
) (*types.ContentVersion, *types.ContentVersion, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal content: %w", err)
	}

	for attempt := 0; attempt < e.maxAppendRetries; attempt++ {
		latest, err := e.versions.Latest(ctx, nil, req.SubjectID, req.ThreadID)
		if err != nil {
			return nil, nil, fmt.Errorf("read latest version: %w", err)
		}
		nextIndex := 1
		if latest != nil {
			nextIndex = latest.VersionIndex + 1
		}

		version := &types.ContentVersion{
			ID:           uuid.New(),
			SubjectID:    req.SubjectID,
			ThreadID:     req.ThreadID,
			VersionIndex: nextIndex,
			ContentKind:  req.Kind,
			DataHash:     dataHash,
			Content:      datatypes.JSON(raw),
			Reason:       reason,
			GeneratedBy:  generatedBy,
		}

		_, err = e.versions.Append(ctx, nil, version)
		if err == nil {
			return version, nil, nil
		}
		if !errors.Is(err, pkgerrors.ErrWriteConflict) {
			return nil, nil, fmt.Errorf("append version: %w", err)
		}

		e.log.Warn("Version index conflict, retrying with fresh index",
			"subject_id", req.SubjectID, "thread_id", req.ThreadID,
			"version_index", nextIndex, "attempt", attempt+1)

		if !req.Force {
			found, ferr := e.versions.FindByHash(ctx, nil, req.SubjectID, req.ThreadID, dataHash)
			if ferr != nil {
				return nil, nil, fmt.Errorf("find version by hash after conflict: %w", ferr)
			}
			if found != nil {
				if cfg.AutoActivate {
					if serr := e.pointers.Set(ctx, nil, req.SubjectID, req.Kind, found.ID, req.Actor); serr != nil {
						return nil, nil, fmt.Errorf("repoint to reused version: %w", serr)
					}
				}
				return nil, found, nil
			}
		}
	}

	return nil, nil, fmt.Errorf("append version for %s/%s: %w", req.SubjectID, req.ThreadID, pkgerrors.ErrRetriesExhausted)
}

func (e *Engine) record(ctx context.Context, req GenerateRequest, path, generatedBy, cause string, versionID *uuid.UUID, start time.Time) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("Telemetry sink panicked", "recover", r)
		}
	}()
	e.sink.Record(ctx, Event{
		SubjectID:   req.SubjectID,
		ThreadID:    req.ThreadID,
		ContentKind: req.Kind,
		Path:        path,
		GeneratedBy: generatedBy,
		Cause:       cause,
		VersionID:   versionID,
		Duration:    time.Since(start),
	})
}

func fallbackCause(err error) string {
	switch {
	case errors.Is(err, pkgerrors.ErrCollaboratorDisabled):
		return "collaborator_disabled"
	case errors.Is(err, pkgerrors.ErrCollaboratorTimeout):
		return "collaborator_timeout"
	case errors.Is(err, pkgerrors.ErrSchemaViolation):
		return "schema_violation"
	default:
		return "collaborator_error"
	}
}

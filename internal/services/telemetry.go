package services

import (
	"context"
	"time"

	"gorm.io/datatypes"

	redisclient "github.com/shotline/shotline-backend/internal/clients/redis"
	contentrepo "github.com/shotline/shotline-backend/internal/data/repos/content"
	types "github.com/shotline/shotline-backend/internal/domain"
	"github.com/shotline/shotline-backend/internal/generation"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

// telemetryService persists generation events and mirrors them onto the
// Redis bus. Both writes are best effort: failures are logged and dropped,
// never returned.
type telemetryService struct {
	log       *logger.Logger
	eventRepo contentrepo.EventRepo
	bus       redisclient.TelemetryBus
}

func NewTelemetryService(
	baseLog *logger.Logger,
	eventRepo contentrepo.EventRepo,
	bus redisclient.TelemetryBus,
) generation.TelemetrySink {
	return &telemetryService{
		log:       baseLog.With("service", "TelemetryService"),
		eventRepo: eventRepo,
		bus:       bus,
	}
}

func (ts *telemetryService) Record(ctx context.Context, ev generation.Event) {
	// Outlive the request: a cancelled generate call still gets its event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	row := &types.GenerationEvent{
		SubjectID:   ev.SubjectID,
		ThreadID:    ev.ThreadID,
		ContentKind: ev.ContentKind,
		Path:        ev.Path,
		GeneratedBy: ev.GeneratedBy,
		Cause:       ev.Cause,
		VersionID:   ev.VersionID,
		DurationMS:  ev.Duration.Milliseconds(),
		Metadata:    datatypes.JSON([]byte(`{}`)),
	}
	if _, err := ts.eventRepo.Append(ctx, nil, []*types.GenerationEvent{row}); err != nil {
		ts.log.Warn("Failed to persist generation event",
			"subject_id", ev.SubjectID, "path", ev.Path, "error", err)
	}

	if ts.bus == nil {
		return
	}
	payload := map[string]any{
		"subject_id":   ev.SubjectID.String(),
		"thread_id":    ev.ThreadID,
		"content_kind": ev.ContentKind,
		"path":         ev.Path,
		"generated_by": ev.GeneratedBy,
		"cause":        ev.Cause,
		"duration_ms":  ev.Duration.Milliseconds(),
	}
	if ev.VersionID != nil {
		payload["version_id"] = ev.VersionID.String()
	}
	if err := ts.bus.Publish(ctx, payload); err != nil {
		ts.log.Warn("Failed to publish generation event",
			"subject_id", ev.SubjectID, "path", ev.Path, "error", err)
	}
}

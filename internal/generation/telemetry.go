package generation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event describes one engine call outcome.
type Event struct {
	SubjectID   uuid.UUID
	ThreadID    string
	ContentKind string
	Path        string // hit | reuse | miss
	GeneratedBy string
	Cause       string // fallback cause when the external path was abandoned
	VersionID   *uuid.UUID
	Duration    time.Duration
}

// TelemetrySink records events best effort. Implementations must swallow
// their own failures; the engine never lets telemetry alter a result.
type TelemetrySink interface {
	Record(ctx context.Context, ev Event)
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) {}

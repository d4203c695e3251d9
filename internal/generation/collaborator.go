package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shotline/shotline-backend/internal/clients/openai"
	"github.com/shotline/shotline-backend/internal/content"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

// Collaborator produces candidate content from an external text-generation
// service. Failures are typed; the engine absorbs them into fallback decisions
// and they are never caller-visible.
type Collaborator interface {
	Produce(ctx context.Context, snap *Snapshot) (map[string]any, error)
}

type openaiCollaborator struct {
	log     *logger.Logger
	ai      openai.Client
	enabled bool
	timeout time.Duration
}

func NewOpenAICollaborator(baseLog *logger.Logger, ai openai.Client, enabled bool, timeout time.Duration) Collaborator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &openaiCollaborator{
		log:     baseLog.With("service", "Collaborator"),
		ai:      ai,
		enabled: enabled,
		timeout: timeout,
	}
}

func (c *openaiCollaborator) Produce(ctx context.Context, snap *Snapshot) (map[string]any, error) {
	if !c.enabled || c.ai == nil {
		return nil, pkgerrors.ErrCollaboratorDisabled
	}

	schema := content.Schema(snap.Kind)
	schemaName := content.SchemaName(snap.Kind)
	if schema == nil || schemaName == "" {
		return nil, fmt.Errorf("%w: no schema for kind %q", pkgerrors.ErrInvalidArgument, snap.Kind)
	}

	userPrompt, err := buildUserPrompt(snap)
	if err != nil {
		return nil, err
	}

	// Hard deadline: on expiry the in-flight call is abandoned and the engine
	// proceeds to the baseline synchronously.
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.ai.GenerateJSON(callCtx, systemInstructions(snap.Kind), userPrompt, schemaName, schema)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return nil, pkgerrors.ErrCollaboratorTimeout
		}
		return nil, err
	}
	return out, nil
}

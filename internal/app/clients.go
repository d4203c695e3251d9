package app

import (
	openaiclient "github.com/shotline/shotline-backend/internal/clients/openai"
	redisclient "github.com/shotline/shotline-backend/internal/clients/redis"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type Clients struct {
	OpenAI       openaiclient.Client
	TelemetryBus redisclient.TelemetryBus
}

// wireClients connects the external services. Both are optional: a missing
// OpenAI key leaves the deterministic baseline in charge, and a missing
// Redis leaves telemetry on Postgres only.
func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring external clients...")
	var out Clients

	if cfg.OpenAIEnabled {
		ai, err := openaiclient.NewClient(log)
		if err != nil {
			log.Warn("OpenAI client unavailable, falling back to baseline generation", "error", err)
		} else {
			out.OpenAI = ai
		}
	}

	if cfg.RedisEnabled {
		bus, err := redisclient.NewTelemetryBus(log)
		if err != nil {
			log.Warn("Redis telemetry bus unavailable", "error", err)
		} else {
			out.TelemetryBus = bus
		}
	}

	return out
}

package app

import (
	"gorm.io/gorm"

	"github.com/shotline/shotline-backend/internal/content"
	"github.com/shotline/shotline-backend/internal/generation"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
	"github.com/shotline/shotline-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Client       services.ClientService
	Session      services.SessionService
	Stats        services.StatsService
	Plan         services.PlanService
	SessionNotes services.SessionNotesService

	Engine *generation.Engine
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(
		db, log, repos.User, repos.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	clientService := services.NewClientService(db, log, repos.Client)
	statsService := services.NewStatsService(db, log, repos.Session, repos.Shot, repos.StatSnapshot)
	sessionService := services.NewSessionService(db, log, clientService, repos.Session, repos.Shot, statsService)

	collaborator := generation.NewOpenAICollaborator(
		log, clients.OpenAI, cfg.OpenAIEnabled && clients.OpenAI != nil, cfg.CollaboratorTimeout,
	)
	sink := services.NewTelemetryService(log, repos.Event, clients.TelemetryBus)

	engine := generation.NewEngine(log, repos.Version, repos.Pointer, collaborator, sink, cfg.MaxAppendRetries)
	engine.RegisterKind(generation.KindConfig{
		Kind:                content.KindTrainingPlan,
		AutoActivate:        true,
		AutoActivateOnRegen: true,
		Provider:            services.NewPlanSnapshotProvider(log, repos.Client, repos.StatSnapshot),
	})
	engine.RegisterKind(generation.KindConfig{
		Kind:         content.KindSessionNotes,
		AutoActivate: true,
		// A forced regeneration of notes is a draft until the coach
		// explicitly activates it.
		AutoActivateOnRegen: false,
		Provider: services.NewNotesSnapshotProvider(
			log, repos.Session, repos.Shot, repos.Version, repos.Pointer,
		),
	})

	planService := services.NewPlanService(db, log, clientService, engine, repos.Version, repos.Pointer)
	notesService := services.NewSessionNotesService(db, log, clientService, repos.Session, engine, repos.Version, repos.Pointer)

	return Services{
		Auth:         authService,
		Client:       clientService,
		Session:      sessionService,
		Stats:        statsService,
		Plan:         planService,
		SessionNotes: notesService,
		Engine:       engine,
	}
}

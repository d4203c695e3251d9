package app

import (
	"gorm.io/gorm"

	contentrepo "github.com/shotline/shotline-backend/internal/data/repos/content"
	trainingrepo "github.com/shotline/shotline-backend/internal/data/repos/training"
	userrepo "github.com/shotline/shotline-backend/internal/data/repos/user"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	UserToken userrepo.UserTokenRepo

	Client       trainingrepo.ClientRepo
	Session      trainingrepo.SessionRepo
	Shot         trainingrepo.ShotRepo
	StatSnapshot trainingrepo.StatSnapshotRepo

	Version contentrepo.VersionRepo
	Pointer contentrepo.PointerRepo
	Event   contentrepo.EventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		UserToken: userrepo.NewUserTokenRepo(db, log),

		Client:       trainingrepo.NewClientRepo(db, log),
		Session:      trainingrepo.NewSessionRepo(db, log),
		Shot:         trainingrepo.NewShotRepo(db, log),
		StatSnapshot: trainingrepo.NewStatSnapshotRepo(db, log),

		Version: contentrepo.NewVersionRepo(db, log),
		Pointer: contentrepo.NewPointerRepo(db, log),
		Event:   contentrepo.NewEventRepo(db, log),
	}
}

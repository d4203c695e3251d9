package domain

import (
	"github.com/shotline/shotline-backend/internal/domain/auth"
	"github.com/shotline/shotline-backend/internal/domain/content"
	"github.com/shotline/shotline-backend/internal/domain/training"
)

type User = auth.User
type UserToken = auth.UserToken

type Client = training.Client
type Session = training.Session
type Shot = training.Shot
type StatSnapshot = training.StatSnapshot

type ContentVersion = content.ContentVersion
type ActivePointer = content.ActivePointer
type GenerationEvent = content.GenerationEvent

const (
	ReasonInitial     = content.ReasonInitial
	ReasonDataChange  = content.ReasonDataChange
	ReasonManualRegen = content.ReasonManualRegen

	GeneratedByDeterministic = content.GeneratedByDeterministic
	GeneratedByExternal      = content.GeneratedByExternal

	PathHit   = content.PathHit
	PathReuse = content.PathReuse
	PathMiss  = content.PathMiss
)

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	trainingrepo "github.com/shotline/shotline-backend/internal/data/repos/training"
	types "github.com/shotline/shotline-backend/internal/domain"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type ClientService interface {
	Create(ctx context.Context, userID uuid.UUID, name, discipline string) (*types.Client, error)
	Get(ctx context.Context, userID, clientID uuid.UUID) (*types.Client, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Client, error)
	Delete(ctx context.Context, userID, clientID uuid.UUID) error
}

type clientService struct {
	db         *gorm.DB
	log        *logger.Logger
	clientRepo trainingrepo.ClientRepo
}

func NewClientService(db *gorm.DB, baseLog *logger.Logger, clientRepo trainingrepo.ClientRepo) ClientService {
	return &clientService{
		db:         db,
		log:        baseLog.With("service", "ClientService"),
		clientRepo: clientRepo,
	}
}

func (cs *clientService) Create(ctx context.Context, userID uuid.UUID, name, discipline string) (*types.Client, error) {
	if userID == uuid.Nil || name == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	client := &types.Client{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	if discipline != "" {
		client.Discipline = discipline
	}
	if _, err := cs.clientRepo.Create(ctx, nil, []*types.Client{client}); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (cs *clientService) Get(ctx context.Context, userID, clientID uuid.UUID) (*types.Client, error) {
	clients, err := cs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{clientID})
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if len(clients) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	client := clients[0]
	if client.UserID != userID {
		return nil, pkgerrors.ErrUnauthorized
	}
	return client, nil
}

func (cs *clientService) List(ctx context.Context, userID uuid.UUID) ([]*types.Client, error) {
	return cs.clientRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
}

func (cs *clientService) Delete(ctx context.Context, userID, clientID uuid.UUID) error {
	if _, err := cs.Get(ctx, userID, clientID); err != nil {
		return err
	}
	return cs.clientRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{clientID})
}

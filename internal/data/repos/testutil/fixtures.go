package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/shotline/shotline-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Client {
	tb.Helper()
	c := &types.Client{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       "client",
		Discipline: "pistol_25m",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uuid.UUID) *types.Session {
	tb.Helper()
	s := &types.Session{
		ID:       uuid.New(),
		ClientID: clientID,
		Location: "range",
		HeldAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedShot(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, index int, score float64, category string) *types.Shot {
	tb.Helper()
	sh := &types.Shot{
		ID:        uuid.New(),
		SessionID: sessionID,
		Index:     index,
		Score:     score,
		Category:  category,
	}
	if err := tx.WithContext(ctx).Create(sh).Error; err != nil {
		tb.Fatalf("seed shot: %v", err)
	}
	return sh
}

func SeedStatSnapshot(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uuid.UUID) *types.StatSnapshot {
	tb.Helper()
	ss := &types.StatSnapshot{
		ID:                uuid.New(),
		ClientID:          clientID,
		SessionCount:      1,
		ShotCount:         10,
		AvgScore:          8.4,
		CategoryBreakdown: datatypes.JSON([]byte(`{"centered":{"count":6,"avg_score":9.1},"low_left":{"count":4,"avg_score":7.3}}`)),
		WeakestCategories: datatypes.JSON([]byte(`["low_left"]`)),
		ComputedAt:        time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(ss).Error; err != nil {
		tb.Fatalf("seed stat snapshot: %v", err)
	}
	return ss
}

func SeedContentVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, threadID string, index int, hash string) *types.ContentVersion {
	tb.Helper()
	v := &types.ContentVersion{
		ID:           uuid.New(),
		SubjectID:    subjectID,
		ThreadID:     threadID,
		VersionIndex: index,
		ContentKind:  "training_plan",
		DataHash:     hash,
		Content:      datatypes.JSON([]byte(`{"version":"v1"}`)),
		Reason:       types.ReasonInitial,
		GeneratedBy:  types.GeneratedByDeterministic,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed content version: %v", err)
	}
	return v
}

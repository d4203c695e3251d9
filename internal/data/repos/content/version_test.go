package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	contentrepo "github.com/shotline/shotline-backend/internal/data/repos/content"
	"github.com/shotline/shotline-backend/internal/data/repos/testutil"
	types "github.com/shotline/shotline-backend/internal/domain"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
)

func TestVersionRepoAppendAndRead(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := contentrepo.NewVersionRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "version-repo@test.dev")
	client := testutil.SeedClient(t, ctx, tx, user.ID)
	threadID := "plan:" + client.ID.String()

	latest, err := repo.Latest(ctx, tx, client.ID, threadID)
	if err != nil {
		t.Fatalf("latest on empty thread: %v", err)
	}
	if latest != nil {
		t.Fatal("empty thread should have no latest version")
	}

	v1 := &types.ContentVersion{
		ID:           uuid.New(),
		SubjectID:    client.ID,
		ThreadID:     threadID,
		VersionIndex: 1,
		ContentKind:  "training_plan",
		DataHash:     "hash-a",
		Content:      datatypes.JSON([]byte(`{"version":"v1"}`)),
		Reason:       types.ReasonInitial,
		GeneratedBy:  types.GeneratedByDeterministic,
	}
	if _, err := repo.Append(ctx, tx, v1); err != nil {
		t.Fatalf("append v1: %v", err)
	}

	v2 := &types.ContentVersion{
		ID:           uuid.New(),
		SubjectID:    client.ID,
		ThreadID:     threadID,
		VersionIndex: 2,
		ContentKind:  "training_plan",
		DataHash:     "hash-b",
		Content:      datatypes.JSON([]byte(`{"version":"v1"}`)),
		Reason:       types.ReasonDataChange,
		GeneratedBy:  types.GeneratedByExternal,
	}
	if _, err := repo.Append(ctx, tx, v2); err != nil {
		t.Fatalf("append v2: %v", err)
	}

	latest, err = repo.Latest(ctx, tx, client.ID, threadID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.VersionIndex != 2 {
		t.Fatalf("expected latest index 2, got %+v", latest)
	}

	found, err := repo.FindByHash(ctx, tx, client.ID, threadID, "hash-a")
	if err != nil {
		t.Fatalf("find by hash: %v", err)
	}
	if found == nil || found.ID != v1.ID {
		t.Fatalf("expected v1 by hash, got %+v", found)
	}

	missing, err := repo.FindByHash(ctx, tx, client.ID, threadID, "hash-z")
	if err != nil {
		t.Fatalf("find missing hash: %v", err)
	}
	if missing != nil {
		t.Fatal("unknown hash should return nil")
	}

	listed, err := repo.ListByThread(ctx, tx, client.ID, threadID)
	if err != nil {
		t.Fatalf("list by thread: %v", err)
	}
	if len(listed) != 2 || listed[0].VersionIndex != 1 || listed[1].VersionIndex != 2 {
		t.Fatalf("expected ascending thread history, got %+v", listed)
	}
}

func TestVersionRepoIndexConflict(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := contentrepo.NewVersionRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "version-conflict@test.dev")
	client := testutil.SeedClient(t, ctx, tx, user.ID)
	threadID := "plan:" + client.ID.String()

	testutil.SeedContentVersion(t, ctx, tx, client.ID, threadID, 1, "hash-a")

	dup := &types.ContentVersion{
		ID:           uuid.New(),
		SubjectID:    client.ID,
		ThreadID:     threadID,
		VersionIndex: 1,
		ContentKind:  "training_plan",
		DataHash:     "hash-b",
		Content:      datatypes.JSON([]byte(`{"version":"v1"}`)),
		Reason:       types.ReasonDataChange,
		GeneratedBy:  types.GeneratedByDeterministic,
	}

	// The unique violation aborts the transaction, so this is the last
	// statement on tx.
	_, err := repo.Append(ctx, tx, dup)
	if !errors.Is(err, pkgerrors.ErrWriteConflict) {
		t.Fatalf("duplicate index should map to WriteConflict, got %v", err)
	}
}

func TestVersionRepoAppendNil(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	repo := contentrepo.NewVersionRepo(db, log)
	if _, err := repo.Append(context.Background(), tx, nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("nil version should be invalid, got %v", err)
	}
}

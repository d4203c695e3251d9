package content_test

import (
	"context"
	"testing"

	contentrepo "github.com/shotline/shotline-backend/internal/data/repos/content"
	"github.com/shotline/shotline-backend/internal/data/repos/testutil"
)

func TestPointerRepoSetAndGet(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := contentrepo.NewPointerRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "pointer-repo@test.dev")
	client := testutil.SeedClient(t, ctx, tx, user.ID)
	threadID := "plan:" + client.ID.String()

	pointer, err := repo.Get(ctx, tx, client.ID, "training_plan")
	if err != nil {
		t.Fatalf("get missing pointer: %v", err)
	}
	if pointer != nil {
		t.Fatal("missing pointer should be nil, not an error")
	}

	v1 := testutil.SeedContentVersion(t, ctx, tx, client.ID, threadID, 1, "hash-a")
	if err := repo.Set(ctx, tx, client.ID, "training_plan", v1.ID, "coach"); err != nil {
		t.Fatalf("set pointer: %v", err)
	}

	pointer, err = repo.Get(ctx, tx, client.ID, "training_plan")
	if err != nil {
		t.Fatalf("get pointer: %v", err)
	}
	if pointer == nil || pointer.ActiveVersionID != v1.ID {
		t.Fatalf("expected pointer at v1, got %+v", pointer)
	}
	if pointer.UpdatedBy != "coach" {
		t.Fatalf("expected actor recorded, got %q", pointer.UpdatedBy)
	}

	// Upsert: repointing keeps one row per (subject, kind).
	v2 := testutil.SeedContentVersion(t, ctx, tx, client.ID, threadID, 2, "hash-b")
	if err := repo.Set(ctx, tx, client.ID, "training_plan", v2.ID, "system"); err != nil {
		t.Fatalf("repoint: %v", err)
	}

	pointer, err = repo.Get(ctx, tx, client.ID, "training_plan")
	if err != nil {
		t.Fatalf("get repointed: %v", err)
	}
	if pointer == nil || pointer.ActiveVersionID != v2.ID || pointer.UpdatedBy != "system" {
		t.Fatalf("expected pointer moved to v2, got %+v", pointer)
	}

	var count int64
	if err := tx.WithContext(ctx).
		Table("active_pointer").
		Where("subject_id = ? AND content_kind = ?", client.ID, "training_plan").
		Count(&count).Error; err != nil {
		t.Fatalf("count pointers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single pointer row, got %d", count)
	}

	// Kinds are independent keys.
	other, err := repo.Get(ctx, tx, client.ID, "session_notes")
	if err != nil {
		t.Fatalf("get other kind: %v", err)
	}
	if other != nil {
		t.Fatal("different kind should have its own pointer")
	}
}

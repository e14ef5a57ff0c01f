package refreshtokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parallaxhq/parallax/internal/common"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, "u-1", "tok", time.Hour); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := repo.Find(ctx, "tok")
	if err != nil || got.UserID != "u-1" {
		t.Fatalf("Find: %+v, err=%v", got, err)
	}
	if !got.Expires.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", got.Expires)
	}

	if err := repo.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := repo.Find(ctx, "tok"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("token not removed: %v", err)
	}

	// Deleting a missing token is not an error.
	if err := repo.Delete(ctx, "ghost"); err != nil {
		t.Fatalf("Delete of missing token: %v", err)
	}
}

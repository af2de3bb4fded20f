package product

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

func TestPostgres_MalformedID(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(nil, zerolog.Nop())

	if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	exists, err := repo.Exists(ctx, "not-a-uuid")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("a malformed id can never exist")
	}
}

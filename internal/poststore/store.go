package poststore

import (
	"context"

	"github.com/starford/raido/internal/models"
)

// Store defines the interface for post persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
//
// GetBySlug treats an absent slug as a normal outcome and returns (nil, nil);
// Update and Delete treat it as apperr.ErrNotFound.
type Store interface {
	ListSummaries(ctx context.Context) ([]models.PostSummary, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, post models.Post) (*models.Post, error)
	Update(ctx context.Context, slug string, post models.Post) (*models.Post, error)
	Delete(ctx context.Context, slug string) error
	Ping(ctx context.Context) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

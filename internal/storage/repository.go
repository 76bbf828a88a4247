package storage

import (
	"context"

	"curator/internal/domain"
)

// Repository defines the interface for resource storage operations.
// Implementations: BadgerRepository (embedded) and PostgresRepository
// (the completed_videos table).
type Repository interface {
	// Insert writes a new resource in a single atomic operation.
	// ID and CreatedAt are assigned when empty and reflected back into r.
	Insert(ctx context.Context, r *domain.Resource) error

	// List returns resources ordered by CreatedAt, newest first.
	// An empty userID lists every resource.
	List(ctx context.Context, userID string) ([]domain.Resource, error)

	// Delete removes the resource with the given id. Deleting an unknown id
	// is not an error.
	Delete(ctx context.Context, id string) error

	// Close gracefully shuts down the repository connection.
	Close() error
}

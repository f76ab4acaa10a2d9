// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"reels_monitor/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	// InsertPost stores a post unless a row with the same (username, url)
	// already exists. Returns true when a new row was created; a duplicate
	// is a silent no-op returning false, leaving the existing row untouched.
	InsertPost(ctx context.Context, post *model.Post) (bool, error)

	GetPost(ctx context.Context, username, url string) (*model.Post, error)
	ListPosts(ctx context.Context, username string) ([]model.Post, error)
	CountPosts(ctx context.Context) (int, error)

	Close() error
}

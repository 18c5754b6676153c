// Package store persists the session's token pair. Storage is a plain
// two-entry key-value collaborator: read at startup, written on login,
// cleared on logout. Nothing else writes it.
package store

import (
	"context"
	"errors"

	"trainhub-session/internal/models"
)

// ErrNotFound is returned by Load when no token pair has been persisted.
var ErrNotFound = errors.New("no stored tokens")

// TokenStore is the durable storage interface for the session's credentials.
type TokenStore interface {
	// Load retrieves the persisted token pair, ErrNotFound when absent.
	Load(ctx context.Context) (*models.TokenPair, error)

	// Save persists the token pair, replacing any previous one.
	Save(ctx context.Context, pair *models.TokenPair) error

	// Clear removes the persisted pair. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

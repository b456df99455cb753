package repository

import (
	"context"

	"cabbook/internal/domain"
)

// UserRepository defines the persistence operations for the user directory.
type UserRepository interface {
	// Create persists a new principal and assigns its ID.
	Create(ctx context.Context, p *domain.Principal) error

	// GetByID retrieves a principal by ID.
	GetByID(ctx context.Context, id string) (*domain.Principal, error)

	// GetByEmail retrieves a principal by email regardless of role.
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)

	// GetByEmailAndRole retrieves the principal whose email and role both match.
	GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.Principal, error)

	// GetAll retrieves the whole directory in insertion order.
	GetAll(ctx context.Context) ([]*domain.Principal, error)
}

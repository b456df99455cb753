package memory

import (
	"context"
	"strconv"
	"sync"

	"cabbook/internal/domain"
	"cabbook/internal/repository"
)

// UserRepository is an in-memory implementation of repository.UserRepository
// seeded with the fixed directory of accounts. Signup appends to the same
// directory, so an account created at runtime can log back in.
type UserRepository struct {
	mu    sync.RWMutex
	users []*domain.Principal
}

// NewUserRepository creates a user repository holding the given directory.
func NewUserRepository(directory []*domain.Principal) *UserRepository {
	r := &UserRepository{}
	for _, p := range directory {
		copy := *p
		r.users = append(r.users, &copy)
	}
	return r
}

// Create persists a new principal with the next sequential ID.
func (r *UserRepository) Create(ctx context.Context, p *domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = strconv.Itoa(len(r.users) + 1)
	copy := *p
	r.users = append(r.users, &copy)
	return nil
}

// GetByID retrieves a principal by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.users {
		if p.ID == id {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetByEmail retrieves a principal by email regardless of role.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.users {
		if p.Email == email {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetByEmailAndRole retrieves the principal whose email and role both match.
func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.users {
		if p.Email == email && p.Role == role {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetAll retrieves the whole directory in insertion order.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Principal, 0, len(r.users))
	for _, p := range r.users {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cabbook/internal/domain"
	"cabbook/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const userColumns = `id, name, email, role, phone`

// Create persists a new principal, drawing the ID from the sequence.
func (r *UserRepository) Create(ctx context.Context, p *domain.Principal) error {
	query := `
		INSERT INTO users (id, name, email, role, phone)
		VALUES (nextval('users_id_seq')::text, $1, $2, $3, $4)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, query,
		p.Name, p.Email, p.Role, nullString(p.Phone),
	).Scan(&p.ID)
}

// GetByID retrieves a principal by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanPrincipal(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a principal by email regardless of role.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanPrincipal(r.q.QueryRowContext(ctx, query, email))
}

// GetByEmailAndRole retrieves the principal whose email and role both match.
func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.Principal, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND role = $2`
	return scanPrincipal(r.q.QueryRowContext(ctx, query, email, role))
}

// GetAll retrieves the whole directory in insertion order.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.Principal, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id::bigint`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.Principal
	for rows.Next() {
		var p domain.Principal
		var phone sql.NullString
		var role string
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &role, &phone); err != nil {
			return nil, err
		}
		p.Role = domain.Role(role)
		p.Phone = phone.String
		users = append(users, &p)
	}
	return users, rows.Err()
}

// Seed inserts principals with their preassigned IDs and advances the
// sequence past them. Used to load the demo directory into an empty table.
func (r *UserRepository) Seed(ctx context.Context, directory []*domain.Principal) error {
	query := `
		INSERT INTO users (id, name, email, role, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	for _, p := range directory {
		if _, err := r.q.ExecContext(ctx, query, p.ID, p.Name, p.Email, p.Role, nullString(p.Phone)); err != nil {
			return err
		}
	}

	// Advance the sequence past the highest assigned id, never backwards.
	_, err := r.q.ExecContext(ctx,
		`SELECT setval('users_id_seq', COALESCE((SELECT MAX(id::bigint) FROM users), 0) + 1, false)`)
	return err
}

func scanPrincipal(row *sql.Row) (*domain.Principal, error) {
	var p domain.Principal
	var phone sql.NullString
	var role string

	err := row.Scan(&p.ID, &p.Name, &p.Email, &role, &phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	p.Role = domain.Role(role)
	p.Phone = phone.String
	return &p, nil
}

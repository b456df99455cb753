package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cabbook/internal/domain"
	"cabbook/internal/observability"
	"cabbook/internal/repository"
)

// SessionStore persists the current-principal snapshot for each live
// session. Deleting the snapshot logs the session out even if the bearer
// token is still within its lifetime.
type SessionStore interface {
	SaveSession(ctx context.Context, p *domain.Principal) error
	LoadSession(ctx context.Context, id string) (*domain.Principal, error)
	DeleteSession(ctx context.Context, id string) error
}

// AuthService handles login, signup and logout against the user directory.
// The directory is a demo fixture: login matches on email and role only and
// the submitted password is deliberately never checked.
type AuthService struct {
	userRepo repository.UserRepository
	sessions SessionStore
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, sessions SessionStore, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// sessionClaims is the JWT payload for a session token.
type sessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest contains the parameters for logging in.
type LoginRequest struct {
	Email    string
	Password string
	Role     domain.Role
}

// SignupRequest contains the parameters for creating an account.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Phone    string
}

// AuthResult contains the authenticated principal and its session token.
type AuthResult struct {
	Principal *domain.Principal
	Token     string
}

// Login resolves the directory entry whose email and role both match, makes
// it the current principal and issues a session token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if !domain.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	principal, err := s.userRepo.GetByEmailAndRole(ctx, normalizeEmail(req.Email), req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	result, err := s.establishSession(ctx, principal)
	if err != nil {
		return nil, err
	}

	observability.LoginAttempts.WithLabelValues("success").Inc()
	return result, nil
}

// Signup creates a new directory entry and makes it the current principal.
// The new account is added to the searchable directory, so the same
// credentials log in afterwards.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if !domain.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	email := normalizeEmail(req.Email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	principal := &domain.Principal{
		Name:  req.Name,
		Email: email,
		Role:  req.Role,
		Phone: req.Phone,
	}
	if err := s.userRepo.Create(ctx, principal); err != nil {
		return nil, err
	}

	return s.establishSession(ctx, principal)
}

// Logout clears the current principal and its persisted snapshot. There are
// no error conditions beyond the store itself failing.
func (s *AuthService) Logout(ctx context.Context, principalID string) error {
	return s.sessions.DeleteSession(ctx, principalID)
}

// Verify validates a session token and returns the live principal behind
// it. A token whose session snapshot has been deleted is rejected.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrNotAuthenticated
	}

	principal, err := s.sessions.LoadSession(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, ErrNotAuthenticated
	}
	return principal, nil
}

// Directory lists every account. Admin dashboards use this.
func (s *AuthService) Directory(ctx context.Context) ([]*domain.Principal, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *AuthService) establishSession(ctx context.Context, principal *domain.Principal) (*AuthResult, error) {
	if err := s.sessions.SaveSession(ctx, principal); err != nil {
		return nil, err
	}

	now := time.Now()
	claims := sessionClaims{
		Name: principal.Name,
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Principal: principal, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

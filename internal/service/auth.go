package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/msomdec/bookshelf/internal/domain"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// AuthService handles login, token refresh and logout. It keeps no session
// state: an issued token pair is valid until it expires.
type AuthService struct {
	users      domain.UserRepository
	hasher     PasswordHasher
	tokens     *TokenService
	accessTTL  time.Duration
	refreshTTL time.Duration
	// dummyHash is verified against when no user matches, so unknown
	// emails cost the same bcrypt work as wrong passwords.
	dummyHash string
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithTokenTTLs overrides the access and refresh token lifetimes. Non-positive
// values keep the defaults.
func WithTokenTTLs(access, refresh time.Duration) AuthOption {
	return func(s *AuthService) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher PasswordHasher, tokens *TokenService, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		accessTTL:  DefaultAccessTokenTTL,
		refreshTTL: DefaultRefreshTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	hash, err := hasher.Hash("bookshelf-login-placeholder")
	if err != nil {
		slog.Error("hash login placeholder", "error", err)
	}
	s.dummyHash = hash
	return s
}

// Login verifies credentials and issues a token pair. Unknown email, wrong
// password and store failures all return domain.ErrInvalidCredentials, and
// each runs one password verification.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.IssuedSession, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(ctx, "login user lookup failed", "error", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Refresh exchanges a valid token for a new pair minted from the current
// user record. Access tokens are accepted too: nothing in a token says which
// kind it is.
func (s *AuthService) Refresh(ctx context.Context, token string) (*domain.IssuedSession, error) {
	claim, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claim.Subject)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(ctx, "refresh user lookup failed", "error", err)
		}
		return nil, domain.ErrInvalidRefreshToken
	}

	return s.issue(user)
}

// Logout always succeeds. Tokens stay valid until they expire.
func (s *AuthService) Logout(_ context.Context) bool {
	return true
}

func (s *AuthService) issue(user *domain.User) (*domain.IssuedSession, error) {
	claim := domain.Claim{Subject: user.ID, Email: user.Email}

	access, err := s.tokens.Sign(claim, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.Sign(claim, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.IssuedSession{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Package guard authenticates calls from the Authorization header and
// carries the resolved identity through the request context.
package guard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/bookshelf/internal/domain"
)

// TokenVerifier verifies a signed token and returns its claim.
type TokenVerifier interface {
	Verify(token string) (*domain.Claim, error)
}

// UserLookup resolves a user by ID.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Policy says whether an operation needs an authenticated caller.
type Policy int

const (
	Public Policy = iota
	RequireIdentity
)

type contextKey int

const (
	identityKey contextKey = iota
	authorizationKey
)

// Guard turns an Authorization header into a user.
type Guard struct {
	tokens TokenVerifier
	users  UserLookup
	reject RejectFunc
}

// RejectFunc writes the response for a request the middleware turned away.
// err is always domain.ErrUnauthenticated.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// Option configures a Guard.
type Option func(*Guard)

// WithRejecter replaces the default 401 JSON response.
func WithRejecter(reject RejectFunc) Option {
	return func(g *Guard) {
		if reject != nil {
			g.reject = reject
		}
	}
}

// New creates a Guard.
func New(tokens TokenVerifier, users UserLookup, opts ...Option) *Guard {
	g := &Guard{tokens: tokens, users: users, reject: rejectJSON}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func rejectJSON(w http.ResponseWriter, r *http.Request, _ error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"}); err != nil {
		slog.ErrorContext(r.Context(), "write unauthenticated response", "error", err)
	}
}

// BearerToken extracts the token from a "Bearer <token>" header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// Identify resolves the caller behind header. Every failure returns
// domain.ErrUnauthenticated so callers cannot tell the causes apart.
func (g *Guard) Identify(ctx context.Context, header string) (*domain.User, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	claim, err := g.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := g.users.GetByID(ctx, claim.Subject)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// Authorize applies policy to a call. Public calls are never rejected but
// still get an identity when a valid header is present.
func (g *Guard) Authorize(ctx context.Context, policy Policy, header string) (context.Context, error) {
	user, err := g.Identify(ctx, header)
	if err != nil {
		if policy == RequireIdentity {
			return ctx, err
		}
		return ctx, nil
	}
	return WithIdentity(ctx, user), nil
}

// Middleware enforces policy on every request through next. The
// Authorization header is also stored in the context for handlers that
// authorize per operation.
func (g *Guard) Middleware(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			ctx := WithAuthorization(r.Context(), header)

			ctx, err := g.Authorize(ctx, policy, header)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="bookshelf"`)
				g.reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying user.
func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// CurrentIdentity returns the authenticated user, or nil.
func CurrentIdentity(ctx context.Context) *domain.User {
	user, _ := ctx.Value(identityKey).(*domain.User)
	return user
}

// WithAuthorization returns a copy of ctx carrying the raw Authorization header.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authorizationKey, header)
}

// AuthorizationFrom returns the Authorization header stored by WithAuthorization.
func AuthorizationFrom(ctx context.Context) string {
	header, _ := ctx.Value(authorizationKey).(string)
	return header
}

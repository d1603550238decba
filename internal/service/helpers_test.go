package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msomdec/bookshelf/internal/domain"
	"github.com/msomdec/bookshelf/internal/repository/sqlite"
	"github.com/msomdec/bookshelf/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

type fixture struct {
	db     *sqlite.DB
	hasher *service.BcryptHasher
	tokens *service.TokenService
	auth   *service.AuthService
	users  *service.UserService
}

func newFixture(t *testing.T, opts ...service.TokenOption) *fixture {
	t.Helper()
	db := newTestDB(t)
	// Cost 4 keeps tests fast.
	hasher := service.NewBcryptHasher(4)
	tokens, err := service.NewTokenService(testJWTSecret, opts...)
	require.NoError(t, err)

	return &fixture{
		db:     db,
		hasher: hasher,
		tokens: tokens,
		auth:   service.NewAuthService(db.Users(), hasher, tokens),
		users:  service.NewUserService(db.Users(), hasher),
	}
}

func (f *fixture) seedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), service.CreateUserInput{
		Email:     email,
		Password:  password,
		FirstName: "Alice",
		LastName:  "Example",
	})
	require.NoError(t, err)
	return user
}

// fixedClock returns a clock that reports *at.
func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

// failingUsers fails every lookup with a store error.
type failingUsers struct {
	domain.UserRepository
}

var errStoreDown = errors.New("store unavailable")

func (failingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errStoreDown
}

func (failingUsers) GetByID(context.Context, string) (*domain.User, error) {
	return nil, errStoreDown
}

// countingHasher counts Verify calls on top of a real hasher.
type countingHasher struct {
	service.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(password, hash)
}

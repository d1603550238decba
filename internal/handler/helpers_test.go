package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msomdec/bookshelf/internal/graph"
	"github.com/msomdec/bookshelf/internal/guard"
	"github.com/msomdec/bookshelf/internal/handler"
	"github.com/msomdec/bookshelf/internal/metrics"
	"github.com/msomdec/bookshelf/internal/repository/sqlite"
	"github.com/msomdec/bookshelf/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testApp struct {
	srv     *httptest.Server
	deps    handler.Deps
	metrics *metrics.Metrics
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })

	// Cost 4 keeps tests fast.
	hasher := service.NewBcryptHasher(4)
	tokens, err := service.NewTokenService(testJWTSecret)
	require.NoError(t, err)

	auth := service.NewAuthService(db.Users(), hasher, tokens)
	users := service.NewUserService(db.Users(), hasher)
	books := service.NewBookService(db.Books())
	g := guard.New(tokens, db.Users(), guard.WithRejecter(handler.RejectUnauthenticated))

	exec, err := graph.NewExecutor(graph.NewResolver(auth, users, books, g))
	require.NoError(t, err)

	m := metrics.New()
	deps := handler.Deps{
		Auth: auth, Users: users, Books: books, Guard: g,
		Graph: exec, Metrics: m, DB: db,
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, deps)
	srv := httptest.NewServer(handler.Chain(mux, handler.Instrument(m)))
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, deps: deps, metrics: m}
}

// call sends a JSON request and decodes a JSON response into out when out is
// non-nil. It returns the status code and the raw body.
func (a *testApp) call(t *testing.T, method, path, bearer string, body any, out any) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode, string(raw)
}

func (a *testApp) seedUser(t *testing.T, email, password string) {
	t.Helper()
	_, err := a.deps.Users.Create(context.Background(), service.CreateUserInput{
		Email: email, Password: password, FirstName: "Alice", LastName: "Example",
	})
	require.NoError(t, err)
}

type sessionBody struct {
	User         handler.UserDTO `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

func (a *testApp) login(t *testing.T, email, password string) sessionBody {
	t.Helper()
	var sess sessionBody
	status, raw := a.call(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": email, "password": password}, &sess)
	require.Equal(t, http.StatusOK, status, raw)
	return sess
}

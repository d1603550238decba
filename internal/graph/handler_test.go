package graph_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/bookshelf/internal/graph"
	"github.com/msomdec/bookshelf/internal/guard"
	"github.com/msomdec/bookshelf/internal/repository/sqlite"
	"github.com/msomdec/bookshelf/internal/service"
)

const testSecret = "graph-test-secret-key-0123456789abcdef"

type gqlError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []gqlError                 `json:"errors"`
}

type testServer struct {
	handler http.Handler
	users   *service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })

	hasher := service.NewBcryptHasher(4)
	tokens, err := service.NewTokenService(testSecret)
	require.NoError(t, err)

	users := service.NewUserService(db.Users(), hasher)
	resolver := graph.NewResolver(
		service.NewAuthService(db.Users(), hasher, tokens),
		users,
		service.NewBookService(db.Books()),
		guard.New(tokens, db.Users()),
	)
	exec, err := graph.NewExecutor(resolver)
	require.NoError(t, err)

	return &testServer{handler: exec, users: users}
}

func (s *testServer) do(t *testing.T, bearer, query string, vars map[string]any) gqlResponse {
	t.Helper()
	body, err := json.Marshal(graph.Request{Query: query, Variables: vars})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *testServer) seed(t *testing.T, email, password string) {
	t.Helper()
	_, err := s.users.Create(context.Background(), service.CreateUserInput{
		Email: email, Password: password, FirstName: "Alice", LastName: "Example",
	})
	require.NoError(t, err)
}

const loginMutation = `mutation Login($email: String!, $password: String!) {
  login(input: {email: $email, password: $password}) {
    accessToken
    refreshToken
    user { _id email firstName }
  }
}`

type loginPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
	} `json:"user"`
}

func login(t *testing.T, s *testServer, email, password string) loginPayload {
	t.Helper()
	resp := s.do(t, "", loginMutation, map[string]any{"email": email, "password": password})
	require.Empty(t, resp.Errors)
	var out loginPayload
	require.NoError(t, json.Unmarshal(resp.Data["login"], &out))
	return out
}

func TestLoginThenMe(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "a@x.com", "secret")

	sess := login(t, s, "a@x.com", "secret")
	assert.Equal(t, "a@x.com", sess.User.Email)
	assert.Len(t, strings.Split(sess.AccessToken, "."), 3)
	assert.Len(t, strings.Split(sess.RefreshToken, "."), 3)

	resp := s.do(t, "Bearer "+sess.AccessToken, `{ me { _id email isActive } }`, nil)
	require.Empty(t, resp.Errors)

	var me struct {
		ID       string `json:"_id"`
		Email    string `json:"email"`
		IsActive bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["me"], &me))
	assert.Equal(t, sess.User.ID, me.ID)
	assert.Equal(t, "a@x.com", me.Email)
	assert.True(t, me.IsActive)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "a@x.com", "secret")

	wrong := s.do(t, "", loginMutation, map[string]any{"email": "a@x.com", "password": "nope"})
	unknown := s.do(t, "", loginMutation, map[string]any{"email": "b@x.com", "password": "secret"})

	require.Len(t, wrong.Errors, 1)
	require.Len(t, unknown.Errors, 1)
	assert.Equal(t, wrong.Errors[0], unknown.Errors[0])
	assert.Equal(t, graph.CodeUnauthorized, wrong.Errors[0].Extensions["code"])
}

func TestProtectedRejectionsLookTheSame(t *testing.T) {
	s := newTestServer(t)

	missing := s.do(t, "", `{ me { _id } }`, nil)
	garbage := s.do(t, "Bearer garbage", `{ me { _id } }`, nil)
	basic := s.do(t, "Basic dXNlcjpwYXNz", `{ me { _id } }`, nil)

	for _, resp := range []gqlResponse{missing, garbage, basic} {
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "unauthenticated", resp.Errors[0].Message)
		assert.Equal(t, graph.CodeUnauthenticated, resp.Errors[0].Extensions["code"])
		assert.JSONEq(t, "null", string(resp.Data["me"]))
	}
	assert.Equal(t, missing.Errors, garbage.Errors)
	assert.Equal(t, missing.Errors, basic.Errors)
}

func TestRefreshToken(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "a@x.com", "secret")
	sess := login(t, s, "a@x.com", "secret")

	const mutation = `mutation($token: String!) { refreshToken(token: $token) { accessToken user { _id } } }`

	for name, tok := range map[string]string{"refresh": sess.RefreshToken, "access": sess.AccessToken} {
		t.Run(name, func(t *testing.T) {
			resp := s.do(t, "", mutation, map[string]any{"token": tok})
			require.Empty(t, resp.Errors)
			assert.Contains(t, string(resp.Data["refreshToken"]), sess.User.ID)
		})
	}

	resp := s.do(t, "", mutation, map[string]any{"token": sess.RefreshToken + "x"})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, graph.CodeUnauthorized, resp.Errors[0].Extensions["code"])
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "a@x.com", "secret")
	sess := login(t, s, "a@x.com", "secret")

	for range 2 {
		resp := s.do(t, "Bearer "+sess.AccessToken, `mutation { logout }`, nil)
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, "true", string(resp.Data["logout"]))
	}

	resp := s.do(t, "", `mutation { logout }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, graph.CodeUnauthenticated, resp.Errors[0].Extensions["code"])
}

func TestUserOperations(t *testing.T) {
	s := newTestServer(t)

	created := s.do(t, "", `mutation {
	  createUser(input: {email: "new@x.com", password: "pw", firstName: "New", lastName: "User"}) { _id email }
	}`, nil)
	require.Empty(t, created.Errors)
	var user struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(created.Data["createUser"], &user))

	dup := s.do(t, "", `mutation {
	  createUser(input: {email: "new@x.com", password: "pw", firstName: "New", lastName: "User"}) { _id }
	}`, nil)
	require.Len(t, dup.Errors, 1)
	assert.Equal(t, graph.CodeConflict, dup.Errors[0].Extensions["code"])

	bearer := "Bearer " + login(t, s, "new@x.com", "pw").AccessToken

	list := s.do(t, bearer, `{ users { email } }`, nil)
	require.Empty(t, list.Errors)
	assert.JSONEq(t, `[{"email":"new@x.com"}]`, string(list.Data["users"]))

	updated := s.do(t, bearer, `mutation($id: ID!) { updateUser(id: $id, input: {firstName: "Renamed", isActive: false}) { firstName isActive } }`,
		map[string]any{"id": user.ID})
	require.Empty(t, updated.Errors)
	assert.JSONEq(t, `{"firstName":"Renamed","isActive":false}`, string(updated.Data["updateUser"]))

	missing := s.do(t, bearer, `{ user(id: "missing") { _id } }`, nil)
	require.Len(t, missing.Errors, 1)
	assert.Equal(t, graph.CodeNotFound, missing.Errors[0].Extensions["code"])

	removed := s.do(t, bearer, `mutation($id: ID!) { removeUser(id: $id) }`, map[string]any{"id": user.ID})
	require.Empty(t, removed.Errors)
	assert.JSONEq(t, "true", string(removed.Data["removeUser"]))

	// The token outlives its user but no longer authenticates.
	after := s.do(t, bearer, `{ me { _id } }`, nil)
	require.Len(t, after.Errors, 1)
	assert.Equal(t, graph.CodeUnauthenticated, after.Errors[0].Extensions["code"])
}

func TestBookOperations(t *testing.T) {
	s := newTestServer(t)

	created := s.do(t, "", `mutation {
	  createBook(input: {title: "Dune", author: "Frank Herbert", description: "Spice", price: 10}) { _id title price }
	}`, nil)
	require.Empty(t, created.Errors)
	var book struct {
		ID    string  `json:"_id"`
		Price float64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal(created.Data["createBook"], &book))
	assert.InDelta(t, 10.0, book.Price, 0.0001)

	updated := s.do(t, "", `mutation($id: ID!) { updateBook(id: $id, input: {price: 12.5}) { title price } }`,
		map[string]any{"id": book.ID})
	require.Empty(t, updated.Errors)
	assert.JSONEq(t, `{"title":"Dune","price":12.5}`, string(updated.Data["updateBook"]))

	list := s.do(t, "", `{ books { title author } }`, nil)
	require.Empty(t, list.Errors)
	assert.JSONEq(t, `[{"title":"Dune","author":"Frank Herbert"}]`, string(list.Data["books"]))

	invalid := s.do(t, "", `mutation { createBook(input: {title: "", author: "A", description: "D", price: 1}) { _id } }`, nil)
	require.Len(t, invalid.Errors, 1)
	assert.Equal(t, graph.CodeBadUserInput, invalid.Errors[0].Extensions["code"])

	deleted := s.do(t, "", `mutation($id: ID!) { deleteBook(id: $id) }`, map[string]any{"id": book.ID})
	require.Empty(t, deleted.Errors)

	gone := s.do(t, "", `{ book(id: "`+book.ID+`") { _id } }`, nil)
	require.Len(t, gone.Errors, 1)
	assert.Equal(t, graph.CodeNotFound, gone.Errors[0].Extensions["code"])
	assert.Equal(t, "book "+book.ID+": not found", gone.Errors[0].Message)
}

func TestServeHTTP_BadRequest(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{"not json", `{"query": ""}`} {
		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"errors"`)
	}
}

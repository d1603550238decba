package handler

import (
	"net/http"

	"github.com/msomdec/bookshelf/internal/graph"
	"github.com/msomdec/bookshelf/internal/guard"
	"github.com/msomdec/bookshelf/internal/metrics"
	"github.com/msomdec/bookshelf/internal/service"
)

// Deps holds everything the routes are served from.
type Deps struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Books   *service.BookService
	Guard   *guard.Guard
	Graph   *graph.Executor
	Metrics *metrics.Metrics
	DB      Pinger
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authed := d.Guard.Middleware(guard.RequireIdentity)
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)
	if d.DB != nil {
		mux.HandleFunc("GET /readyz", HandleReadyz(d.DB))
	}
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	mux.Handle("POST /graphql", d.Graph)

	playground := NewPlaygroundHandler(d.Graph)
	mux.HandleFunc("GET /{$}", playground.HandlePage)
	mux.HandleFunc("POST /playground/run", playground.HandleRun)

	auth := NewAuthHandler(d.Auth)
	mux.HandleFunc("POST /api/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/auth/refresh", auth.HandleRefresh)
	mux.Handle("POST /api/auth/logout", protect(auth.HandleLogout))
	mux.Handle("GET /api/auth/me", protect(auth.HandleMe))

	users := NewUserHandler(d.Users)
	mux.HandleFunc("POST /api/users", users.HandleCreate)
	mux.Handle("GET /api/users", protect(users.HandleList))
	mux.Handle("GET /api/users/{id}", protect(users.HandleGet))
	mux.Handle("PATCH /api/users/{id}", protect(users.HandleUpdate))
	mux.Handle("DELETE /api/users/{id}", protect(users.HandleDelete))

	books := NewBookHandler(d.Books)
	mux.HandleFunc("GET /api/books", books.HandleList)
	mux.HandleFunc("POST /api/books", books.HandleCreate)
	mux.HandleFunc("GET /api/books/{id}", books.HandleGet)
	mux.HandleFunc("PATCH /api/books/{id}", books.HandleUpdate)
	mux.HandleFunc("DELETE /api/books/{id}", books.HandleDelete)
}

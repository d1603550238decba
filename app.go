package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/msomdec/bookshelf/internal/config"
	"github.com/msomdec/bookshelf/internal/domain"
	"github.com/msomdec/bookshelf/internal/graph"
	"github.com/msomdec/bookshelf/internal/guard"
	"github.com/msomdec/bookshelf/internal/handler"
	"github.com/msomdec/bookshelf/internal/repository/postgres"
	"github.com/msomdec/bookshelf/internal/repository/sqlite"
	"github.com/msomdec/bookshelf/internal/service"
)

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openDatabase connects to the configured backend.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (domain.Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", domain.ErrConfiguration, cfg.Driver)
	}
}

// app is the wired service graph shared by the subcommands.
type app struct {
	db     domain.Database
	tokens *service.TokenService
	auth   *service.AuthService
	users  *service.UserService
	books  *service.BookService
	guard  *guard.Guard
	graph  *graph.Executor
}

func newApp(cfg *config.Config, db domain.Database) (*app, error) {
	tokens, err := service.NewTokenService(cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	hasher := service.NewBcryptHasher(cfg.Bcrypt.Cost)

	a := &app{
		db:     db,
		tokens: tokens,
		auth:   service.NewAuthService(db.Users(), hasher, tokens, service.WithTokenTTLs(cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)),
		users:  service.NewUserService(db.Users(), hasher),
		books:  service.NewBookService(db.Books()),
		guard:  guard.New(tokens, db.Users(), guard.WithRejecter(handler.RejectUnauthenticated)),
	}

	a.graph, err = graph.NewExecutor(graph.NewResolver(a.auth, a.users, a.books, a.guard))
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	return a, nil
}

// bootstrap loads config, installs the default logger and opens a migrated
// database. The caller closes the database.
func bootstrap(ctx context.Context, logOut io.Writer) (*config.Config, domain.Database, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(newLogger(logOut, cfg.Log))

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return cfg, db, nil
}

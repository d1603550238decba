package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration files and
// exposes the repositories built on top of it.
type Database interface {
	Migrate(ctx context.Context) error
	Version(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
	Users() UserRepository
	Books() BookRepository
}

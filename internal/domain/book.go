package domain

import (
	"context"
	"time"
)

// Book is a catalogue record.
type Book struct {
	ID          string
	Title       string
	Author      string
	Description string
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookUpdate holds the optional fields of a partial book update.
type BookUpdate struct {
	Title       *string
	Author      *string
	Description *string
	Price       *float64
}

// BookRepository defines persistence operations for books.
type BookRepository interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id string) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id string) error
}

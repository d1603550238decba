package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/msomdec/bookshelf/internal/domain"
)

const bookColumns = `id, title, author, description, price, created_at, updated_at`

// BookRepository implements domain.BookRepository using PostgreSQL.
type BookRepository struct {
	db Querier
}

// NewBookRepository creates a new PostgreSQL-backed BookRepository.
func NewBookRepository(db Querier) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		book.ID, book.Title, book.Author, book.Description, book.Price, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	book, err := scanBook(r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get book by id: %w", err)
	}
	return book, nil
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at, title`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE books SET title = $1, author = $2, description = $3, price = $4, updated_at = $5
		 WHERE id = $6`,
		book.Title, book.Author, book.Description, book.Price, now, book.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	book.UpdatedAt = now
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	b := &domain.Book{}
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/bookshelf/internal/domain"
)

// CreateBookInput holds the fields required to add a book.
type CreateBookInput struct {
	Title       string
	Author      string
	Description string
	Price       float64
}

// BookService manages book records.
type BookService struct {
	books domain.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(books domain.BookRepository) *BookService {
	return &BookService{books: books}
}

// Create validates and stores a new book.
func (s *BookService) Create(ctx context.Context, in CreateBookInput) (*domain.Book, error) {
	book := &domain.Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
	}
	if book.Title == "" || book.Author == "" || book.Description == "" {
		return nil, fmt.Errorf("%w: title, author, and description are required", domain.ErrInvalidInput)
	}
	if book.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// List returns all books.
func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

// Get returns the book with the given ID.
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("book %s: %w", id, err)
	}
	return book, nil
}

// Update applies the non-nil fields of upd to the book.
func (s *BookService) Update(ctx context.Context, id string, upd domain.BookUpdate) (*domain.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		book.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Author != nil {
		book.Author = strings.TrimSpace(*upd.Author)
	}
	if upd.Description != nil {
		book.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Price != nil {
		book.Price = *upd.Price
	}
	if book.Title == "" || book.Author == "" || book.Description == "" {
		return nil, fmt.Errorf("%w: title, author, and description cannot be empty", domain.ErrInvalidInput)
	}
	if book.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("book %s: %w", id, err)
	}
	return book, nil
}

// Delete removes the book with the given ID.
func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("book %s: %w", id, err)
	}
	return nil
}

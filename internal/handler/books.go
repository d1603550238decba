package handler

import (
	"net/http"

	"github.com/msomdec/bookshelf/internal/domain"
	"github.com/msomdec/bookshelf/internal/service"
)

// BookHandler handles book CRUD requests.
type BookHandler struct {
	books *service.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(books *service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// HandleCreate adds a book.
// POST /api/books
// Request:  {"title":"...","author":"...","description":"...","price":0}
// Response: 201 {"book": {...}}
func (h *BookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		Author      string  `json:"author"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	book, err := h.books.Create(r.Context(), service.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		writeServiceError(w, r, "create book", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"book": toBookDTO(book)})
}

// HandleList returns all books.
// GET /api/books
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list books", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": toBookDTOs(books)})
}

// HandleGet returns one book.
// GET /api/books/{id}
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get book", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"book": toBookDTO(book)})
}

// HandleUpdate applies a partial update.
// PATCH /api/books/{id}
func (h *BookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string  `json:"title"`
		Author      *string  `json:"author"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	book, err := h.books.Update(r.Context(), r.PathValue("id"), domain.BookUpdate{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		writeServiceError(w, r, "update book", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"book": toBookDTO(book)})
}

// HandleDelete removes a book.
// DELETE /api/books/{id}
// Response: 204 No Content
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete book", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/msomdec/bookshelf/internal/domain"
)

// Error codes reported in extensions.code.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// codedError satisfies gqlerrors.ExtendedError so the code ends up in the
// response.
type codedError struct {
	message string
	code    string
}

func (e *codedError) Error() string { return e.message }

func (e *codedError) Extensions() map[string]any {
	return map[string]any{"code": e.code}
}

// toGraphQLError maps a service error onto a client-facing error. Anything
// unrecognised is logged and replaced with a generic message.
func toGraphQLError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return &codedError{message: "unauthenticated", code: CodeUnauthenticated}
	case errors.Is(err, domain.ErrUnauthorized):
		return &codedError{message: err.Error(), code: CodeUnauthorized}
	case errors.Is(err, domain.ErrNotFound):
		return &codedError{message: err.Error(), code: CodeNotFound}
	case errors.Is(err, domain.ErrInvalidInput):
		return &codedError{message: err.Error(), code: CodeBadUserInput}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return &codedError{message: domain.ErrDuplicateEmail.Error(), code: CodeConflict}
	default:
		slog.ErrorContext(ctx, "graphql resolver error", "error", err)
		return &codedError{message: "internal server error", code: CodeInternal}
	}
}

package graph

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/msomdec/bookshelf/internal/guard"
)

const maxRequestBytes = 1 << 20

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Executor runs GraphQL requests against a schema.
type Executor struct {
	schema graphql.Schema
}

// NewExecutor builds the schema from r.
func NewExecutor(r *Resolver) (*Executor, error) {
	schema, err := r.Schema()
	if err != nil {
		return nil, err
	}
	return &Executor{schema: schema}, nil
}

// Execute runs req. ctx should carry the caller's Authorization header
// (see guard.WithAuthorization) for protected fields to resolve.
func (e *Executor) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// ServeHTTP handles POST /graphql. Results, including resolver errors, are
// returned with status 200.
func (e *Executor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, &graphql.Result{
			Errors: []gqlerrors.FormattedError{{Message: "invalid request body"}},
		})
		return
	}
	if req.Query == "" {
		writeResult(w, http.StatusBadRequest, &graphql.Result{
			Errors: []gqlerrors.FormattedError{{Message: "query is required"}},
		})
		return
	}

	ctx := guard.WithAuthorization(r.Context(), r.Header.Get("Authorization"))
	writeResult(w, http.StatusOK, e.Execute(ctx, req))
}

func writeResult(w http.ResponseWriter, status int, result *graphql.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode graphql response", "error", err)
	}
}

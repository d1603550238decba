package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	datastar "github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/bookshelf/internal/graph"
	"github.com/msomdec/bookshelf/internal/guard"
	"github.com/msomdec/bookshelf/internal/view"
)

// PlaygroundHandler serves the browser query editor.
type PlaygroundHandler struct {
	exec *graph.Executor
}

// NewPlaygroundHandler creates a new PlaygroundHandler.
func NewPlaygroundHandler(exec *graph.Executor) *PlaygroundHandler {
	return &PlaygroundHandler{exec: exec}
}

// HandlePage renders the editor.
// GET /
func (h *PlaygroundHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.PlaygroundPage(view.DefaultQuery).Render(r.Context(), w); err != nil {
		slog.ErrorContext(r.Context(), "render playground", "error", err)
	}
}

// HandleRun executes the query from the page signals and patches #result.
// POST /playground/run
func (h *PlaygroundHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var signals view.PlaygroundSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid signals.")
		return
	}

	sse := datastar.NewSSE(w, r)

	req := graph.Request{Query: signals.Query}
	if vars := strings.TrimSpace(signals.Variables); vars != "" {
		if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
			h.patch(sse, "variables must be a JSON object", true)
			return
		}
	}
	if strings.TrimSpace(req.Query) == "" {
		h.patch(sse, "query is required", true)
		return
	}

	ctx := r.Context()
	if token := strings.TrimSpace(signals.Token); token != "" {
		ctx = guard.WithAuthorization(ctx, "Bearer "+token)
	}
	result := h.exec.Execute(ctx, req)

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.ErrorContext(r.Context(), "encode playground result", "error", err)
		h.patch(sse, "failed to encode result", true)
		return
	}
	h.patch(sse, string(body), result.HasErrors())
}

func (h *PlaygroundHandler) patch(sse *datastar.ServerSentEventGenerator, body string, failed bool) {
	if err := sse.PatchElementTempl(view.PlaygroundResult(body, failed), datastar.WithSelectorID("result")); err != nil {
		slog.Error("patch playground result", "error", err)
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	slogctx "github.com/veqryn/slog-context"

	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slogctx.Error(ctx, "Failed to write response body", "error", err)
	}
}

// writeError maps err onto its service error and writes it as {"error": ...}.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	svcErr := serviceerr.From(err)
	status := svcErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		slogctx.Error(ctx, "Request failed", "error", err)
	} else {
		slogctx.Debug(ctx, "Request rejected", "error", err)
	}

	writeJSON(ctx, w, status, errorResponse{Error: svcErr.Error()})
}

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return serviceerr.InvalidRequest("malformed request body: " + err.Error())
	}

	return nil
}

// decodeOptionalBody is decodeBody for requests where an empty body stands
// for an empty JSON object.
func decodeOptionalBody(r *http.Request, into any) error {
	err := json.NewDecoder(r.Body).Decode(into)
	if err != nil && !errors.Is(err, io.EOF) {
		return serviceerr.InvalidRequest("malformed request body: " + err.Error())
	}

	return nil
}

// nameParam returns the decoded {name} path parameter.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			return unescaped
		}
	}

	return name
}

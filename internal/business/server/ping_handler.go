package server

import (
	"net/http"

	slogctx "github.com/veqryn/slog-context"
)

type pingResponse struct {
	Result string `json:"result"`
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slogctx.Debug(ctx, "Answering ping")
	writeJSON(ctx, w, http.StatusOK, pingResponse{Result: "ping"})
}

package server

import (
	"context"
	"net/http"

	"github.com/yogaflow/yoga-sessions/internal/session"
)

type SessionService interface {
	CreateSession(ctx context.Context, input session.Session) (session.Session, error)
	UpdateSession(ctx context.Context, name string, patch session.Patch) (session.Session, error)
	GetSession(ctx context.Context, name string) (session.Session, error)
	DeleteSession(ctx context.Context, name string) (session.Session, error)
	ListSessions(ctx context.Context) ([]session.Session, error)
}

type sessionHandler struct {
	sessions SessionService
}

func (h *sessionHandler) addSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input session.Session
	if err := decodeBody(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.sessions.CreateSession(ctx, input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, created)
}

func (h *sessionHandler) updateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch session.Patch
	if err := decodeOptionalBody(r, &patch); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.sessions.UpdateSession(ctx, nameParam(r), patch)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, updated)
}

func (h *sessionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	found, err := h.sessions.GetSession(ctx, nameParam(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, found)
}

func (h *sessionHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deleted, err := h.sessions.DeleteSession(ctx, nameParam(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, deleted)
}

func (h *sessionHandler) getAllSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessions, err := h.sessions.ListSessions(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, sessions)
}

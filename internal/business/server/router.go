package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yogaflow/yoga-sessions/internal/config"
)

// newRouter wires the session, pose and ping routes.
func newRouter(cfg *config.Config, sessions SessionService, poses PoseService) *chi.Mux {
	traced := newTraceMiddleware(cfg)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.With(traced("ping")).Get("/ping", pingHandler)

	sessionH := &sessionHandler{sessions: sessions}
	r.Route("/api/sessions", func(r chi.Router) {
		r.With(traced("addSession")).Post("/addSession", sessionH.addSession)
		r.With(traced("updateSession")).Post("/updateSession/{name}", sessionH.updateSession)
		r.With(traced("getSession")).Get("/getSession/{name}", sessionH.getSession)
		r.With(traced("deleteSession")).Delete("/deleteSession/{name}", sessionH.deleteSession)
		r.With(traced("getAllSessions")).Get("/getAllSessions", sessionH.getAllSessions)
	})

	poseH := &poseHandler{poses: poses}
	r.Route("/api/poses", func(r chi.Router) {
		r.With(traced("addPose")).Post("/addPose", poseH.addPose)
		r.With(traced("getPose")).Get("/getPose/{name}", poseH.getPose)
		r.With(traced("deletePose")).Delete("/deletePose/{name}", poseH.deletePose)
		r.With(traced("getAllPoses")).Get("/getAllPoses", poseH.getAllPoses)
	})

	return r
}

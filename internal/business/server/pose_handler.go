package server

import (
	"context"
	"net/http"

	"github.com/yogaflow/yoga-sessions/internal/pose"
)

type PoseService interface {
	CreatePose(ctx context.Context, p pose.Pose) (pose.Pose, error)
	GetPose(ctx context.Context, name string) (pose.Pose, error)
	DeletePose(ctx context.Context, name string) (pose.Pose, error)
	ListPoses(ctx context.Context) ([]pose.Pose, error)
}

type poseHandler struct {
	poses PoseService
}

func (h *poseHandler) addPose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input pose.Pose
	if err := decodeBody(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.poses.CreatePose(ctx, input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, created)
}

func (h *poseHandler) getPose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	found, err := h.poses.GetPose(ctx, nameParam(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, found)
}

func (h *poseHandler) deletePose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deleted, err := h.poses.DeletePose(ctx, nameParam(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, deleted)
}

func (h *poseHandler) getAllPoses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	poses, err := h.poses.ListPoses(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, poses)
}

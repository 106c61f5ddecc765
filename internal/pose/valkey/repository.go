package posevalkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yogaflow/yoga-sessions/internal/pose"
	"github.com/yogaflow/yoga-sessions/internal/valkeystore"
)

const objectTypePose = "pose"

type Repository struct {
	poses *valkeystore.Collection[pose.Pose]
}

var _ = pose.Repository(&Repository{})

func NewRepository(valkeyClient valkey.Client, prefix string) *Repository {
	return &Repository{
		poses: valkeystore.NewCollection[pose.Pose](valkeyClient, prefix, objectTypePose),
	}
}

func (r *Repository) Create(ctx context.Context, p pose.Pose) error {
	if err := r.poses.Insert(ctx, p.Name, p); err != nil {
		return fmt.Errorf("storing pose: %w", err)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, name string) (pose.Pose, error) {
	p, err := r.poses.Get(ctx, name)
	if err != nil {
		return pose.Pose{}, fmt.Errorf("getting pose from store: %w", err)
	}

	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]pose.Pose, error) {
	poses, err := r.poses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting poses from store: %w", err)
	}

	return poses, nil
}

func (r *Repository) Delete(ctx context.Context, name string) (pose.Pose, error) {
	p, err := r.poses.Remove(ctx, name)
	if err != nil {
		return pose.Pose{}, fmt.Errorf("deleting pose from store: %w", err)
	}

	return p, nil
}

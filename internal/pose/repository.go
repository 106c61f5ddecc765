package pose

import "context"

// Repository persists poses. Implementations return serviceerr.ErrNotFound
// for absent names and serviceerr.ErrDuplicateName for name collisions.
type Repository interface {
	Create(ctx context.Context, pose Pose) error
	Get(ctx context.Context, name string) (Pose, error)
	// List returns all poses in insertion order.
	List(ctx context.Context) ([]Pose, error)
	// Delete removes the pose and returns the removed record.
	Delete(ctx context.Context, name string) (Pose, error)
}

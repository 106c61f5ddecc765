package posemock

import (
	"context"
	"slices"
	"sync"

	"github.com/yogaflow/yoga-sessions/internal/pose"
	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
)

type RepositoryOption func(*Repository)

type Repository struct {
	mu    sync.Mutex
	order []string
	poses map[string]pose.Pose

	getErr, createErr, listErr, deleteErr error
}

func WithPose(p pose.Pose) RepositoryOption {
	return func(r *Repository) { r.TAdd(p) }
}
func WithGetError(err error) RepositoryOption {
	return func(r *Repository) { r.getErr = err }
}
func WithCreateError(err error) RepositoryOption {
	return func(r *Repository) { r.createErr = err }
}
func WithListError(err error) RepositoryOption {
	return func(r *Repository) { r.listErr = err }
}
func WithDeleteError(err error) RepositoryOption {
	return func(r *Repository) { r.deleteErr = err }
}

var _ = pose.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		poses: make(map[string]pose.Pose),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// TAdd is a helper method for tests to add a pose.
func (r *Repository) TAdd(p pose.Pose) {
	if _, ok := r.poses[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.poses[p.Name] = p
}

// TLen is a helper method for tests to count the stored poses.
func (r *Repository) TLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.poses)
}

func (r *Repository) Create(_ context.Context, p pose.Pose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.poses[p.Name]; ok {
		return serviceerr.ErrDuplicateName
	}
	r.TAdd(p)
	return nil
}

func (r *Repository) Get(_ context.Context, name string) (pose.Pose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return pose.Pose{}, r.getErr
	}
	if p, ok := r.poses[name]; ok {
		return p, nil
	}
	return pose.Pose{}, serviceerr.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]pose.Pose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}
	poses := make([]pose.Pose, 0, len(r.order))
	for _, name := range r.order {
		poses = append(poses, r.poses[name])
	}
	return poses, nil
}

func (r *Repository) Delete(_ context.Context, name string) (pose.Pose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return pose.Pose{}, r.deleteErr
	}
	p, ok := r.poses[name]
	if !ok {
		return pose.Pose{}, serviceerr.ErrNotFound
	}
	delete(r.poses, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return p, nil
}

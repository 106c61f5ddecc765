package session

import "context"

// Repository persists sessions. Implementations return serviceerr.ErrNotFound
// for absent names and serviceerr.ErrDuplicateName when a name is taken.
type Repository interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, name string) (Session, error)
	// Update replaces the session stored under name. The session may carry a
	// different name, in which case the record is renamed in place.
	Update(ctx context.Context, name string, session Session) error
	// Delete removes the session and returns the removed record.
	Delete(ctx context.Context, name string) (Session, error)
	// List returns all sessions in insertion order.
	List(ctx context.Context) ([]Session, error)
}

// PoseResolver reports which of the given pose names do not exist.
type PoseResolver interface {
	MissingPoses(ctx context.Context, names []string) ([]string, error)
}

package sessionmock

import (
	"context"
	"slices"
	"sync"

	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
	"github.com/yogaflow/yoga-sessions/internal/session"
)

type RepositoryOption func(*Repository)

type Repository struct {
	mu       sync.Mutex
	order    []string
	sessions map[string]session.Session

	getErr, createErr, updateErr, deleteErr, listErr error
}

func WithSession(s session.Session) RepositoryOption {
	return func(r *Repository) { r.TAdd(s) }
}
func WithGetError(err error) RepositoryOption {
	return func(r *Repository) { r.getErr = err }
}
func WithCreateError(err error) RepositoryOption {
	return func(r *Repository) { r.createErr = err }
}
func WithUpdateError(err error) RepositoryOption {
	return func(r *Repository) { r.updateErr = err }
}
func WithDeleteError(err error) RepositoryOption {
	return func(r *Repository) { r.deleteErr = err }
}
func WithListError(err error) RepositoryOption {
	return func(r *Repository) { r.listErr = err }
}

var _ = session.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		sessions: make(map[string]session.Session),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// TAdd is a helper method for tests to add a session.
func (r *Repository) TAdd(s session.Session) {
	if _, ok := r.sessions[s.Name]; !ok {
		r.order = append(r.order, s.Name)
	}
	r.sessions[s.Name] = s
}

// TGet is a helper method for tests to read a session.
func (r *Repository) TGet(name string) (session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[name]
	return s, ok
}

// TNames is a helper method for tests to read the stored names in order.
func (r *Repository) TNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

func (r *Repository) Create(_ context.Context, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.sessions[s.Name]; ok {
		return serviceerr.ErrDuplicateName
	}
	r.TAdd(s)
	return nil
}

func (r *Repository) Get(_ context.Context, name string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return session.Session{}, r.getErr
	}
	if s, ok := r.sessions[name]; ok {
		return s, nil
	}
	return session.Session{}, serviceerr.ErrNotFound
}

func (r *Repository) Update(_ context.Context, name string, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.sessions[name]; !ok {
		return serviceerr.ErrNotFound
	}
	if s.Name != name {
		if _, ok := r.sessions[s.Name]; ok {
			return serviceerr.ErrDuplicateName
		}
		delete(r.sessions, name)
		idx := slices.Index(r.order, name)
		r.order[idx] = s.Name
	}
	r.sessions[s.Name] = s
	return nil
}

func (r *Repository) Delete(_ context.Context, name string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return session.Session{}, r.deleteErr
	}
	s, ok := r.sessions[name]
	if !ok {
		return session.Session{}, serviceerr.ErrNotFound
	}
	delete(r.sessions, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return s, nil
}

func (r *Repository) List(_ context.Context) ([]session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}
	sessions := make([]session.Session, 0, len(r.order))
	for _, name := range r.order {
		sessions = append(sessions, r.sessions[name])
	}
	return sessions, nil
}

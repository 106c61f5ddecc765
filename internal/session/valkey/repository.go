package sessionvalkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yogaflow/yoga-sessions/internal/session"
	"github.com/yogaflow/yoga-sessions/internal/valkeystore"
)

const objectTypeSession = "session"

type Repository struct {
	sessions *valkeystore.Collection[session.Session]
}

var _ = session.Repository(&Repository{})

func NewRepository(valkeyClient valkey.Client, prefix string) *Repository {
	return &Repository{
		sessions: valkeystore.NewCollection[session.Session](valkeyClient, prefix, objectTypeSession),
	}
}

func (r *Repository) Create(ctx context.Context, s session.Session) error {
	if err := r.sessions.Insert(ctx, s.Name, s); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, name string) (session.Session, error) {
	s, err := r.sessions.Get(ctx, name)
	if err != nil {
		return session.Session{}, fmt.Errorf("getting session from store: %w", err)
	}

	return s, nil
}

func (r *Repository) Update(ctx context.Context, name string, s session.Session) error {
	if err := r.sessions.Replace(ctx, name, s.Name, s); err != nil {
		return fmt.Errorf("replacing session in store: %w", err)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, name string) (session.Session, error) {
	s, err := r.sessions.Remove(ctx, name)
	if err != nil {
		return session.Session{}, fmt.Errorf("deleting session from store: %w", err)
	}

	return s, nil
}

func (r *Repository) List(ctx context.Context) ([]session.Session, error) {
	sessions, err := r.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting sessions from store: %w", err)
	}

	return sessions, nil
}

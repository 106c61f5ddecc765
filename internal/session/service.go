package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	slogctx "github.com/veqryn/slog-context"

	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
	"github.com/yogaflow/yoga-sessions/internal/validation"
)

type ServiceOption func(*Service)

// WithPoseReferenceValidation makes the service reject sessions that
// reference poses unknown to the resolver.
func WithPoseReferenceValidation(enabled bool) ServiceOption {
	return func(s *Service) {
		s.validatePoseRefs = enabled
	}
}

type Service struct {
	repository Repository
	poses      PoseResolver
	validate   *validator.Validate

	validatePoseRefs bool
}

func NewService(repo Repository, poses PoseResolver, opts ...ServiceOption) *Service {
	s := &Service{
		repository: repo,
		poses:      poses,
		validate:   validation.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateSession persists a new session. It fails with ErrDuplicateName if the
// name is already taken, leaving the store untouched.
func (s *Service) CreateSession(ctx context.Context, input Session) (Session, error) {
	sess, err := s.check(ctx, input)
	if err != nil {
		return Session{}, err
	}

	err = s.repository.Create(ctx, sess)
	if err != nil {
		if errors.Is(err, serviceerr.ErrDuplicateName) {
			return Session{}, serviceerr.DuplicateName(fmt.Sprintf("session %q already exists", sess.Name))
		}
		return Session{}, fmt.Errorf("creating session: %w", err)
	}

	slogctx.Info(ctx, "Session created", "session", sess.Name)

	return sess, nil
}

// UpdateSession merges the patch into the stored session. Fields absent from
// the patch keep their prior values.
func (s *Service) UpdateSession(ctx context.Context, name string, patch Patch) (Session, error) {
	name = strings.TrimSpace(name)

	current, err := s.repository.Get(ctx, name)
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return Session{}, serviceerr.NotFound(fmt.Sprintf("session %q not found", name))
		}
		return Session{}, fmt.Errorf("getting session: %w", err)
	}

	sess, err := s.check(ctx, patch.Apply(current))
	if err != nil {
		return Session{}, err
	}

	err = s.repository.Update(ctx, name, sess)
	if err != nil {
		switch {
		case errors.Is(err, serviceerr.ErrNotFound):
			return Session{}, serviceerr.NotFound(fmt.Sprintf("session %q not found", name))
		case errors.Is(err, serviceerr.ErrDuplicateName):
			return Session{}, serviceerr.DuplicateName(fmt.Sprintf("session %q already exists", sess.Name))
		}
		return Session{}, fmt.Errorf("updating session: %w", err)
	}

	slogctx.Info(ctx, "Session updated", "session", sess.Name)

	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, name string) (Session, error) {
	name = strings.TrimSpace(name)

	sess, err := s.repository.Get(ctx, name)
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return Session{}, serviceerr.NotFound(fmt.Sprintf("session %q not found", name))
		}
		return Session{}, fmt.Errorf("getting session: %w", err)
	}

	return sess, nil
}

// DeleteSession removes the session permanently and returns the removed record.
func (s *Service) DeleteSession(ctx context.Context, name string) (Session, error) {
	name = strings.TrimSpace(name)

	sess, err := s.repository.Delete(ctx, name)
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return Session{}, serviceerr.NotFound(fmt.Sprintf("session %q not found", name))
		}
		return Session{}, fmt.Errorf("deleting session: %w", err)
	}

	slogctx.Info(ctx, "Session deleted", "session", sess.Name)

	return sess, nil
}

// ListSessions returns every session in insertion order.
func (s *Service) ListSessions(ctx context.Context) ([]Session, error) {
	sessions, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	if sessions == nil {
		sessions = []Session{}
	}

	return sessions, nil
}

// check normalises and validates a session before it is persisted.
func (s *Service) check(ctx context.Context, sess Session) (Session, error) {
	sess = sess.normalise()

	if err := s.validate.Struct(sess); err != nil {
		return Session{}, serviceerr.InvalidRequest(validation.Describe(err))
	}

	if !s.validatePoseRefs || s.poses == nil || len(sess.Poses) == 0 {
		return sess, nil
	}

	missing, err := s.poses.MissingPoses(ctx, sess.Poses)
	if err != nil {
		return Session{}, fmt.Errorf("resolving pose references: %w", err)
	}
	if len(missing) > 0 {
		return Session{}, serviceerr.InvalidRequest("unknown poses: " + strings.Join(missing, ", "))
	}

	return sess, nil
}

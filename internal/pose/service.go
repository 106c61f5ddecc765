package pose

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

type Service struct {
	repository Repository
	validate   *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repository: repo,
		validate:   validation.New(),
	}
}

func (s *Service) CreatePose(ctx context.Context, p Pose) (Pose, error) {
	p = p.normalise()
	if err := s.validate.Struct(p); err != nil {
		return Pose{}, serviceerr.InvalidRequest(validation.Describe(err))
	}

	err := s.repository.Create(ctx, p)
	if err != nil {
		if errors.Is(err, serviceerr.ErrDuplicateName) {
			return Pose{}, serviceerr.DuplicateName(fmt.Sprintf("pose %q already exists", p.Name))
		}
		return Pose{}, fmt.Errorf("creating pose: %w", err)
	}

	slogctx.Debug(ctx, "Pose created", "pose", p.Name)

	return p, nil
}

func (s *Service) GetPose(ctx context.Context, name string) (Pose, error) {
	p, err := s.repository.Get(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return Pose{}, serviceerr.NotFound(fmt.Sprintf("pose %q not found", name))
		}
		return Pose{}, fmt.Errorf("getting pose: %w", err)
	}

	return p, nil
}

func (s *Service) ListPoses(ctx context.Context) ([]Pose, error) {
	poses, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing poses: %w", err)
	}

	if poses == nil {
		poses = []Pose{}
	}

	return poses, nil
}

func (s *Service) DeletePose(ctx context.Context, name string) (Pose, error) {
	p, err := s.repository.Delete(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return Pose{}, serviceerr.NotFound(fmt.Sprintf("pose %q not found", name))
		}
		return Pose{}, fmt.Errorf("deleting pose: %w", err)
	}

	slogctx.Debug(ctx, "Pose deleted", "pose", p.Name)

	return p, nil
}

// MissingPoses returns the names from the given list that have no pose
// record, in the order of their first occurrence.
func (s *Service) MissingPoses(ctx context.Context, names []string) ([]string, error) {
	var missing []string
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		_, err := s.repository.Get(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, serviceerr.ErrNotFound) {
			return nil, fmt.Errorf("looking up pose %q: %w", name, err)
		}

		missing = append(missing, name)
	}

	return missing, nil
}

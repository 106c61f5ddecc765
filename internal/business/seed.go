package business

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	slogctx "github.com/veqryn/slog-context"

	"github.com/yogaflow/yoga-sessions/internal/config"
	"github.com/yogaflow/yoga-sessions/internal/goal"
	"github.com/yogaflow/yoga-sessions/internal/pose"
	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
)

// poseCatalogue is the YAML document imported by the seed-poses command.
//
//	poses:
//	  - name: Tree
//	    goals: [BALANCE, LEGS]
//	    keypoints: [{x: 0.5, y: 0.1}]
type poseCatalogue struct {
	Poses []cataloguePose `yaml:"poses"`
}

type cataloguePose struct {
	Name        string           `yaml:"name"`
	Goals       []goal.Goal      `yaml:"goals"`
	Keypoints   []cataloguePoint `yaml:"keypoints"`
	Keypoints3D []cataloguePoint `yaml:"keypoints3D"`
}

type cataloguePoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (c cataloguePose) pose() pose.Pose {
	p := pose.Pose{
		Name:        c.Name,
		Goals:       c.Goals,
		Keypoints:   make([]pose.Keypoint, 0, len(c.Keypoints)),
		Keypoints3D: make([]pose.Keypoint3D, 0, len(c.Keypoints3D)),
	}

	for _, k := range c.Keypoints {
		p.Keypoints = append(p.Keypoints, pose.Keypoint{X: k.X, Y: k.Y})
	}

	for _, k := range c.Keypoints3D {
		p.Keypoints3D = append(p.Keypoints3D, pose.Keypoint3D{X: k.X, Y: k.Y, Z: k.Z})
	}

	return p
}

// SeedResult reports the outcome of a catalogue import.
type SeedResult struct {
	Created int
	Skipped int
}

// SeedPosesMain imports the pose catalogue at path into the configured store.
func SeedPosesMain(ctx context.Context, cfg *config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening pose catalogue: %w", err)
	}
	defer f.Close()

	svcs, closeFn, err := initServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	defer closeFn()

	result, err := SeedPoses(ctx, svcs.poses, f)
	if err != nil {
		return err
	}

	slogctx.Info(ctx, "Pose catalogue imported", "file", path, "created", result.Created, "skipped", result.Skipped)

	return nil
}

// SeedPoses creates every pose of the catalogue read from r. Poses whose
// name already exists are skipped, so the import can be repeated.
func SeedPoses(ctx context.Context, poses *pose.Service, r io.Reader) (SeedResult, error) {
	var catalogue poseCatalogue
	if err := yaml.NewDecoder(r, yaml.Strict()).Decode(&catalogue); err != nil {
		return SeedResult{}, fmt.Errorf("decoding pose catalogue: %w", err)
	}

	var result SeedResult
	for i, entry := range catalogue.Poses {
		_, err := poses.CreatePose(ctx, entry.pose())
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, serviceerr.ErrDuplicateName):
			slogctx.Debug(ctx, "Skipping existing pose", "pose", entry.Name)
			result.Skipped++
		default:
			return result, fmt.Errorf("creating pose %d (%q): %w", i, entry.Name, err)
		}
	}

	return result, nil
}

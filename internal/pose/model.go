package pose

import (
	"strings"

	"github.com/yogaflow/yoga-sessions/internal/goal"
)

type Keypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Keypoint3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose is a named exercise definition. The name identifies the pose and
// does not change after creation.
type Pose struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Goals       []goal.Goal  `json:"goals" validate:"dive,goal"`
	Keypoints   []Keypoint   `json:"keypoints"`
	Keypoints3D []Keypoint3D `json:"keypoints3D"`
}

// normalise trims the name and replaces nil collections with empty ones.
func (p Pose) normalise() Pose {
	p.Name = strings.TrimSpace(p.Name)
	if p.Goals == nil {
		p.Goals = []goal.Goal{}
	}
	if p.Keypoints == nil {
		p.Keypoints = []Keypoint{}
	}
	if p.Keypoints3D == nil {
		p.Keypoints3D = []Keypoint3D{}
	}
	return p
}

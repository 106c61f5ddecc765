package session

import (
	"strings"

	"github.com/yogaflow/yoga-sessions/internal/goal"
)

// Session is a named, difficulty rated collection of pose references and
// goal tags. Poses are referenced by name.
type Session struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Description string      `json:"description"`
	Difficulty  int         `json:"difficulty" validate:"gte=0,lte=10"`
	Poses       []string    `json:"poses" validate:"dive,required"`
	Goals       []goal.Goal `json:"goals" validate:"dive,goal"`
}

// Patch holds a partial update. Nil fields keep their prior value.
type Patch struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Difficulty  *int         `json:"difficulty,omitempty"`
	Poses       *[]string    `json:"poses,omitempty"`
	Goals       *[]goal.Goal `json:"goals,omitempty"`
}

// Apply returns a copy of s with the patch fields merged in.
func (p Patch) Apply(s Session) Session {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Difficulty != nil {
		s.Difficulty = *p.Difficulty
	}
	if p.Poses != nil {
		s.Poses = *p.Poses
	}
	if p.Goals != nil {
		s.Goals = *p.Goals
	}
	return s
}

func (s Session) normalise() Session {
	s.Name = strings.TrimSpace(s.Name)
	if s.Poses == nil {
		s.Poses = []string{}
	}
	if s.Goals == nil {
		s.Goals = []goal.Goal{}
	}
	return s
}

package goal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yogaflow/yoga-sessions/internal/goal"
)

func TestGoal_Valid(t *testing.T) {
	tests := []struct {
		name string
		goal goal.Goal
		want bool
	}{
		{name: "Known goal", goal: goal.Shoulders, want: true},
		{name: "Known goal from string", goal: goal.Goal("BALANCE"), want: true},
		{name: "Lowercase is not valid", goal: goal.Goal("shoulders"), want: false},
		{name: "Empty is not valid", goal: goal.Goal(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.goal.Valid())
		})
	}
}

func TestAll(t *testing.T) {
	goals := goal.All()
	assert.Contains(t, goals, goal.Shoulders)

	// callers must not be able to mutate the package list
	goals[0] = "CHANGED"
	assert.Equal(t, goal.Shoulders, goal.All()[0])
}

package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogaflow/yoga-sessions/internal/goal"
	"github.com/yogaflow/yoga-sessions/internal/validation"
)

type sample struct {
	Name       string      `json:"name" validate:"required,max=5"`
	Difficulty int         `json:"difficulty" validate:"gte=0,lte=10"`
	Goals      []goal.Goal `json:"goals" validate:"dive,goal"`
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantMsg string
	}{
		{
			name:    "Missing name",
			in:      sample{},
			wantMsg: "name is required",
		},
		{
			name:    "Difficulty above range",
			in:      sample{Name: "a", Difficulty: 11},
			wantMsg: "difficulty must be at most 10",
		},
		{
			name:    "Unknown goal",
			in:      sample{Name: "a", Goals: []goal.Goal{goal.Core, "WINGS"}},
			wantMsg: `goals[1] has unknown goal "WINGS"`,
		},
		{
			name:    "Several failures are joined",
			in:      sample{Difficulty: -1},
			wantMsg: "name is required; difficulty must be at least 0",
		},
	}

	v := validation.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, validation.Describe(err))
		})
	}
}

func TestDescribe_Valid(t *testing.T) {
	err := validation.New().Struct(sample{Name: "flow", Difficulty: 3, Goals: []goal.Goal{goal.Hips}})
	assert.NoError(t, err)
}

func TestDescribe_PlainError(t *testing.T) {
	assert.Equal(t, "boom", validation.Describe(errors.New("boom")))
}

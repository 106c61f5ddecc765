package posevalkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogaflow/yoga-sessions/internal/dbtest/valkeytest"
	"github.com/yogaflow/yoga-sessions/internal/goal"
	"github.com/yogaflow/yoga-sessions/internal/pose"
	posevalkey "github.com/yogaflow/yoga-sessions/internal/pose/valkey"
	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
)

func TestRepository(t *testing.T) {
	ctx := t.Context()
	valkeyClient, _, terminate := valkeytest.Start(ctx)
	defer terminate(ctx)
	defer valkeyClient.Close()

	r := posevalkey.NewRepository(valkeyClient, "poses-test")

	tree := pose.Pose{
		Name:        "Tree",
		Goals:       []goal.Goal{goal.Balance},
		Keypoints:   []pose.Keypoint{{X: 1, Y: 2}},
		Keypoints3D: []pose.Keypoint3D{{X: 1, Y: 2, Z: 3}},
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, r.Create(ctx, tree))

		got, err := r.Get(ctx, "Tree")
		require.NoError(t, err)
		assert.Equal(t, tree, got)
	})

	t.Run("duplicate create", func(t *testing.T) {
		err := r.Create(ctx, pose.Pose{Name: "Tree"})
		assert.ErrorIs(t, err, serviceerr.ErrDuplicateName)
	})

	t.Run("get absent", func(t *testing.T) {
		_, err := r.Get(ctx, "Crow")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("list in insertion order", func(t *testing.T) {
		require.NoError(t, r.Create(ctx, pose.Pose{Name: "Cobra"}))

		got, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Tree", got[0].Name)
		assert.Equal(t, "Cobra", got[1].Name)
	})

	t.Run("delete", func(t *testing.T) {
		removed, err := r.Delete(ctx, "Tree")
		require.NoError(t, err)
		assert.Equal(t, tree, removed)

		_, err = r.Delete(ctx, "Tree")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})
}

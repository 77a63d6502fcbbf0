package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mergeit.dev/mergeit/internal/git"
	"mergeit.dev/mergeit/testhelpers"
)

func TestUnmergedFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("lists conflicted paths", func(t *testing.T) {
		_ = testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateMergeConflict("conflicted.txt", "base\n", "ours\n", "theirs\n")
		})

		files, err := git.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"conflicted.txt"}, files)
	})

	t.Run("is empty outside a conflicted merge", func(t *testing.T) {
		_ = testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CommitFile("plain.txt", "plain\n", "plain")
		})

		files, err := git.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Empty(t, files)
	})
}

func TestMergeInProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("true while conflicts remain", func(t *testing.T) {
		_ = testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateMergeConflict("conflicted.txt", "base\n", "ours\n", "theirs\n")
		})

		inProgress, err := git.MergeInProgress(ctx)
		require.NoError(t, err)
		require.True(t, inProgress)
	})

	t.Run("false on a clean tree", func(t *testing.T) {
		_ = testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CommitFile("plain.txt", "plain\n", "plain")
		})

		inProgress, err := git.MergeInProgress(ctx)
		require.NoError(t, err)
		require.False(t, inProgress)
	})
}

func TestStageFile(t *testing.T) {
	ctx := context.Background()

	t.Run("marks a resolved file as staged", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateMergeConflict("conflicted.txt", "base\n", "ours\n", "theirs\n")
		})

		require.NoError(t, scene.Repo.WriteFile("conflicted.txt", "resolved\n"))
		require.NoError(t, git.StageFile(ctx, "conflicted.txt"))

		staged, err := scene.Repo.IsStaged("conflicted.txt")
		require.NoError(t, err)
		require.True(t, staged)

		files, err := git.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Empty(t, files)

		inProgress, err := git.MergeInProgress(ctx)
		require.NoError(t, err)
		require.False(t, inProgress)
	})
}

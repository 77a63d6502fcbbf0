package git_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mergeit.dev/mergeit/internal/git"
	"mergeit.dev/mergeit/testhelpers"
)

func TestRepoRoot(t *testing.T) {
	t.Run("finds the root from inside the repo", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CommitFile("plain.txt", "plain\n", "plain")
		})

		root, err := git.RepoRoot(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, mustEval(t, scene.Dir), mustEval(t, root))
	})

	t.Run("finds the root from a subdirectory", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CommitFile("plain.txt", "plain\n", "plain")
		})

		nested := filepath.Join(scene.Dir, "deeply", "nested")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		root, err := git.RepoRoot(nested)
		require.NoError(t, err)
		require.Equal(t, mustEval(t, scene.Dir), mustEval(t, root))
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		_, err := git.RepoRoot(t.TempDir())
		require.Error(t, err)
	})
}

// mustEval resolves symlinks so paths compare equal on systems where the
// temp dir sits behind one (macOS /var -> /private/var).
func mustEval(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

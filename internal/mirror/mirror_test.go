package mirror

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func TestWalkMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Walk(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope")
}

func TestWalkEnumeratesFilesAndDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, "a.sol", "mocks/b.sol", "mocks/deep/c.sol")

	entries, err := Walk(root)
	require.NoError(t, err)

	var files, dirs []string
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		if e.IsDir {
			dirs = append(dirs, rel)
		} else {
			files = append(files, rel)
		}
	}
	require.Equal(t, []string{"a.sol", filepath.Join("mocks", "b.sol"), filepath.Join("mocks", "deep", "c.sol")}, files)
	require.Equal(t, []string{"mocks", filepath.Join("mocks", "deep")}, dirs)
}

func TestParentsDistinctSorted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, "a.sol", "b.sol", "mocks/c.sol")

	entries, err := Walk(root)
	require.NoError(t, err)

	parents := Parents(entries, nil)
	require.Equal(t, []string{root, filepath.Join(root, "mocks")}, parents)
}

func TestParentsKeepFilter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, "Foo.sol/Foo.json", "Foo.sol/Foo.dbg.json", "readme.txt")

	entries, err := Walk(root)
	require.NoError(t, err)

	// JSON artifacts must not pull their own directory into the mirrored set.
	parents := Parents(entries, func(e Entry) bool {
		return !strings.HasSuffix(e.Path, ".json")
	})
	require.Equal(t, []string{root}, parents)
}

func TestMirrorRebuildAndMap(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	makeTree(t, in, "a.sol", "mocks/b.sol")

	out := filepath.Join(t.TempDir(), "out")
	stale := filepath.Join(out, "stale.sol")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	m := Mirror{InRoot: in, OutRoot: out}
	require.NoError(t, m.Rebuild())
	require.NoFileExists(t, stale)

	entries, err := Walk(in)
	require.NoError(t, err)
	require.NoError(t, m.Map(Parents(entries, nil)))
	require.DirExists(t, filepath.Join(out, "mocks"))

	got, err := m.OutPath(filepath.Join(in, "mocks", "b.sol"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "mocks", "b.sol"), got)
}
